package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"storyreel/internal/config"
	"storyreel/internal/services"
)

func TestEdgeSynthesizeWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "audio_20240301_120000", "story_walls.mp3")
	var gotName string
	var gotArgs []string
	edge := NewEdge(EdgeConfig{Rate: "-10%"}).WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return os.WriteFile(args[len(args)-1], []byte("ID3"), 0o644)
	})

	if err := edge.Synthesize(context.Background(), "Hello there.", out); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotName != "edge-tts" {
		t.Fatalf("binary = %q", gotName)
	}
	want := []string{"--voice", DefaultEdgeVoice, "--rate=-10%", "--text", "Hello there.", "--write-media"}
	for i, arg := range want {
		if gotArgs[i] != arg {
			t.Fatalf("arg %d = %q, want %q (%v)", i, gotArgs[i], arg, gotArgs)
		}
	}
	if !strings.Contains(filepath.Base(gotArgs[len(gotArgs)-1]), ".partial") {
		t.Fatalf("edge-tts should write to a partial file, got %s", gotArgs[len(gotArgs)-1])
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "ID3" {
		t.Fatalf("output = %q, %v", data, err)
	}
}

func TestEdgeSynthesizeFailureRemovesPartial(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "story.mp3")
	edge := NewEdge(EdgeConfig{}).WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		_ = os.WriteFile(args[len(args)-1], []byte("half"), 0o644)
		return errors.New("exit status 1: NoAudioReceived")
	})

	err := edge.Synthesize(context.Background(), "Hello.", out)
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}

func TestEdgeSynthesizeRejectsEmptyOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "story.mp3")
	edge := NewEdge(EdgeConfig{}).WithCommandRunner(func(_ context.Context, _ string, args ...string) error {
		return os.WriteFile(args[len(args)-1], nil, 0o644)
	})
	if err := edge.Synthesize(context.Background(), "Hello.", out); !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output should not exist: %v", err)
	}
}

func TestSynthesizeRejectsBlankText(t *testing.T) {
	edge := NewEdge(EdgeConfig{}).WithCommandRunner(func(context.Context, string, ...string) error {
		t.Fatal("runner should not be called")
		return nil
	})
	if err := edge.Synthesize(context.Background(), "   ", filepath.Join(t.TempDir(), "x.mp3")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenAISynthesize(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["voice"] != "onyx" || body["response_format"] != "mp3" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		calls.Add(1)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.WriteString(w, "chunk;")
	}))
	defer server.Close()

	synth, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	out := filepath.Join(t.TempDir(), "story.mp3")
	text := strings.Repeat("A sentence that keeps going. ", 200)
	if err := synth.Synthesize(context.Background(), text, out); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if calls.Load() != 2 || string(data) != "chunk;chunk;" {
		t.Fatalf("calls = %d, output = %q", calls.Load(), data)
	}
}

func TestOpenAISynthesizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid voice","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	synth, err := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1"}, option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	dir := t.TempDir()
	err = synth.Synthesize(context.Background(), "Hello.", filepath.Join(dir, "story.mp3"))
	if !errors.Is(err, services.ErrSynthesis) {
		t.Fatalf("expected synthesis error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %d", len(entries))
	}
}

func TestSplitInput(t *testing.T) {
	chunks := splitInput("One. Two! Three? Four", 10)
	want := []string{"One. Two!", "Three?", "Four"}
	if len(chunks) != len(want) {
		t.Fatalf("chunks = %q", chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
	for _, chunk := range splitInput(strings.Repeat("é", 20), 7) {
		if len(chunk) > 7 || !strings.HasPrefix(chunk, "é") {
			t.Fatalf("bad chunk %q", chunk)
		}
	}
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	synth, err := New(&cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := synth.(*Edge); !ok {
		t.Fatalf("expected edge synthesizer, got %T", synth)
	}

	cfg.Speech.Provider = config.ProviderOpenAI
	if _, err := New(&cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without api key, got %v", err)
	}
	cfg.OpenAI.APIKey = "sk-test"
	synth, err = New(&cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(synth.Name(), "openai") {
		t.Fatalf("Name() = %q", synth.Name())
	}
}

func TestEdgeForLanguage(t *testing.T) {
	fixed := NewEdge(EdgeConfig{Voice: "en-GB-RyanNeural"})
	if got := fixed.ForLanguage("es"); got != Synthesizer(fixed) {
		t.Fatalf("fixed voice should not change, got %s", got.Name())
	}

	auto := NewEdge(EdgeConfig{Voice: "auto"})
	if got := auto.Name(); got != "edge-tts ("+DefaultEdgeVoice+")" {
		t.Fatalf("auto default name = %q", got)
	}
	if got := auto.ForLanguage("es").Name(); got != "edge-tts (es-ES-AlvaroNeural)" {
		t.Fatalf("spanish voice = %q", got)
	}
	if got := auto.ForLanguage("xx"); got != Synthesizer(auto) {
		t.Fatalf("unmapped language should keep default, got %s", got.Name())
	}
	if auto.Name() != "edge-tts ("+DefaultEdgeVoice+")" {
		t.Fatal("ForLanguage must not mutate the receiver")
	}
}
