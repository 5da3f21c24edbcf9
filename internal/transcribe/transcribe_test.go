package transcribe_test

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyreel/internal/config"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
	"storyreel/internal/transcribe"
)

func TestToEntries(t *testing.T) {
	entries := transcribe.ToEntries([]transcribe.Segment{
		{Start: 0.031, End: 2.5, Text: "  The Thing\nin the Walls. "},
		{Start: 2.5, End: 2.5, Text: "zero length"},
		{Start: 2.9, End: 4, Text: "   "},
		{Start: 4, End: 5.25, Text: "By night owl."},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, subtitles.Entry{Index: 1, Start: 0.031, End: 2.5, Text: "The Thing in the Walls."}, entries[0])
	assert.Equal(t, 2, entries[1].Index)
	assert.Equal(t, "By night owl.", entries[1].Text)
}

func TestWriteSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtitles_20240301_120000", "walls_subs.srt")
	require.NoError(t, transcribe.WriteSRT(path, []transcribe.Segment{
		{Start: 0, End: 1.5, Text: "Hello there."},
		{Start: 1.75, End: 3.001, Text: "General."},
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n2\n00:00:01,750 --> 00:00:03,001\nGeneral.\n\n", string(data))

	err = transcribe.WriteSRT(filepath.Join(t.TempDir(), "empty.srt"), nil)
	assert.True(t, errors.Is(err, services.ErrTranscription))
}

func TestWhisperXTranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "story_walls.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3"), 0o644))

	cfg := config.Default()
	cfg.Transcription.Language = "auto"
	var uvxArgs []string
	w := transcribe.NewWhisperX(&cfg).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != "uvx" {
			return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
		}
		uvxArgs = args
		outDir := ""
		for i, arg := range args {
			if arg == "--output_dir" {
				outDir = args[i+1]
			}
		}
		payload := `{"segments":[{"start":0,"end":1.2,"text":" Hi.","words":[{"word":"Hi.","start":0.1,"end":0.5},{"word":"x"}]}],"language":"en"}`
		return os.WriteFile(filepath.Join(outDir, "story_walls.json"), []byte(payload), 0o644)
	})

	segments, err := w.Transcribe(context.Background(), audio, "")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, " Hi.", segments[0].Text)
	require.Len(t, segments[0].Words, 1)
	assert.Equal(t, 0.5, segments[0].Words[0].End)
	assert.NotContains(t, uvxArgs, "--language")
	assert.True(t, strings.HasPrefix(w.Name(), "whisperx"))
}

func TestWhisperXMissingAudio(t *testing.T) {
	cfg := config.Default()
	_, err := transcribe.NewWhisperX(&cfg).Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"), "")
	assert.True(t, errors.Is(err, services.ErrMissingResource))
}

func TestOpenAITranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields := map[string][]string{}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err != nil {
				break
			}
			value, _ := io.ReadAll(part)
			fields[part.FormName()] = append(fields[part.FormName()], string(value))
		}
		if fields["response_format"][0] != "verbose_json" || fields["language"][0] != "es" || fields["file"][0] != "ID3" {
			http.Error(w, "unexpected form", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"text": "Hola. Adiós.",
			"language": "spanish",
			"duration": 3.2,
			"segments": [
				{"id": 0, "seek": 0, "start": 0.0, "end": 1.4, "text": " Hola.", "tokens": [], "temperature": 0, "avg_logprob": -0.2, "compression_ratio": 1, "no_speech_prob": 0.01},
				{"id": 1, "seek": 0, "start": 1.4, "end": 3.2, "text": " Adiós.", "tokens": [], "temperature": 0, "avg_logprob": -0.2, "compression_ratio": 1, "no_speech_prob": 0.01}
			],
			"words": [
				{"word": "Hola", "start": 0.1, "end": 0.6},
				{"word": "Adiós", "start": 1.5, "end": 2.2}
			]
		}`)
	}))
	defer server.Close()

	audio := filepath.Join(t.TempDir(), "story.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3"), 0o644))

	tr, err := transcribe.NewOpenAI(transcribe.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1", Language: "en"}, option.WithMaxRetries(0))
	require.NoError(t, err)

	segments, err := tr.Transcribe(context.Background(), audio, "spa")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, 1.4, segments[1].Start)
	require.Len(t, segments[1].Words, 1)
	assert.Equal(t, "Adiós", segments[1].Words[0].Text)

	entries := transcribe.ToEntries(segments)
	assert.Equal(t, "Adiós.", entries[1].Text)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	tr, err := transcribe.New(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &transcribe.WhisperX{}, tr)

	cfg.Transcription.Provider = config.ProviderOpenAI
	_, err = transcribe.New(&cfg)
	assert.True(t, errors.Is(err, services.ErrConfiguration))

	cfg.Transcription.Provider = "vosk"
	_, err = transcribe.New(&cfg)
	assert.Equal(t, "configuration", services.Kind(err))
}
