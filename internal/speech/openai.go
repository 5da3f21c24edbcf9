package speech

import (
	"context"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"storyreel/internal/services"
)

// maxOpenAIInput is the audio/speech input limit in characters.
const maxOpenAIInput = 4096

// OpenAIConfig configures the OpenAI synthesizer.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

// OpenAI synthesizes speech with the audio/speech endpoint. Narration longer
// than one request allows is split on sentence boundaries and the MP3 chunks
// are concatenated.
type OpenAI struct {
	client openai.Client
	model  string
	voice  string
}

// NewOpenAI creates an OpenAI synthesizer.
func NewOpenAI(cfg OpenAIConfig, opts ...option.RequestOption) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "speech", "openai", "api key is required", nil)
	}
	if cfg.Model == "" {
		cfg.Model = openai.SpeechModelGPT4oMiniTTS
	}
	if cfg.Voice == "" {
		cfg.Voice = "onyx"
	}
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)
	return &OpenAI{
		client: openai.NewClient(clientOpts...),
		model:  cfg.Model,
		voice:  cfg.Voice,
	}, nil
}

func (o *OpenAI) Name() string {
	return "openai " + o.model + " (" + o.voice + ")"
}

// Synthesize writes MP3 narration of text to outputPath.
func (o *OpenAI) Synthesize(ctx context.Context, text, outputPath string) error {
	if err := validateText(text); err != nil {
		return err
	}
	partial, err := prepareOutput(outputPath)
	if err != nil {
		return err
	}
	file, err := os.Create(partial)
	if err != nil {
		return services.Wrap(services.ErrSynthesis, "speech", "openai", partial, err)
	}
	for _, chunk := range splitInput(text, maxOpenAIInput) {
		if err := o.synthesizeChunk(ctx, chunk, file); err != nil {
			_ = file.Close()
			_ = os.Remove(partial)
			return err
		}
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(partial)
		return services.Wrap(services.ErrSynthesis, "speech", "openai", partial, err)
	}
	return finalize(partial, outputPath)
}

func (o *OpenAI) synthesizeChunk(ctx context.Context, chunk string, w io.Writer) error {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          chunk,
		Model:          o.model,
		Voice:          openai.AudioSpeechNewParamsVoice(o.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return services.Wrap(services.ErrSynthesis, "speech", "openai", "request failed", err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return services.Wrap(services.ErrSynthesis, "speech", "openai", "read audio", err)
	}
	return nil
}

// splitInput breaks text into pieces of at most limit bytes, preferring to
// cut after sentence punctuation and falling back to whitespace.
func splitInput(text string, limit int) []string {
	text = strings.TrimSpace(text)
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexAny(text[:limit], ".!?")
		if cut <= 0 {
			cut = strings.LastIndexAny(text[:limit], " \n\t")
		}
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			cut--
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut+1]))
		text = strings.TrimSpace(text[cut+1:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
