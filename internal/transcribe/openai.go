package transcribe

import (
	"context"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"storyreel/internal/language"
	"storyreel/internal/services"
)

// OpenAIConfig configures the OpenAI transcriber.
type OpenAIConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

// OpenAI transcribes with the hosted audio/transcriptions endpoint.
type OpenAI struct {
	client   openai.Client
	model    string
	language string
}

// NewOpenAI creates an OpenAI transcriber. Segment timestamps require
// verbose_json output, which only whisper-1 supports.
func NewOpenAI(cfg OpenAIConfig, opts ...option.RequestOption) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "openai", "api key is required", nil)
	}
	if cfg.Model == "" {
		cfg.Model = openai.AudioModelWhisper1
	}
	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)
	return &OpenAI{
		client:   openai.NewClient(clientOpts...),
		model:    cfg.Model,
		language: cfg.Language,
	}, nil
}

func (o *OpenAI) Name() string {
	return "openai " + o.model
}

// Transcribe uploads the audio and returns its timed segments.
func (o *OpenAI) Transcribe(ctx context.Context, audioPath, lang string) ([]Segment, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrMissingResource, "transcribe", "openai", audioPath, err)
		}
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "openai", audioPath, err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  o.model,
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment", "word"},
	}
	if code := language.ToISO2(languageHint(lang, o.language)); code != "" {
		params.Language = openai.String(code)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "openai", "request failed", err)
	}
	verbose := resp.AsTranscriptionVerbose()

	segments := make([]Segment, 0, len(verbose.Segments))
	for _, raw := range verbose.Segments {
		segment := Segment{Start: raw.Start, End: raw.End, Text: raw.Text}
		for _, word := range verbose.Words {
			if word.Start >= raw.Start && word.Start < raw.End {
				segment.Words = append(segment.Words, Word{Text: word.Word, Start: word.Start, End: word.End})
			}
		}
		segments = append(segments, segment)
	}
	return segments, nil
}
