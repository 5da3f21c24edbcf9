package transcribe

import (
	"context"
	"fmt"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
)

// Word is a single aligned word.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Segment is a span of speech, usually one sentence.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Transcriber converts narration audio into timed segments. language is an
// optional hint; empty means the backend's configured default.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]Segment, error)
	Name() string
}

// New returns the transcriber selected by the transcription provider setting.
func New(cfg *config.Config) (Transcriber, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select provider", "config is required", nil)
	}
	switch cfg.Transcription.Provider {
	case config.ProviderWhisperX:
		return NewWhisperX(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:   cfg.OpenAI.APIKey,
			BaseURL:  cfg.OpenAI.BaseURL,
			Model:    cfg.Transcription.OpenAIModel,
			Language: cfg.Transcription.Language,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "select provider", fmt.Sprintf("unsupported provider %q", cfg.Transcription.Provider), nil)
	}
}

// ToEntries numbers segments from 1, trimming text. Segments with no text or
// a non-positive duration are dropped.
func ToEntries(segments []Segment) []subtitles.Entry {
	entries := make([]subtitles.Entry, 0, len(segments))
	for _, segment := range segments {
		text := strings.Join(strings.Fields(segment.Text), " ")
		if text == "" || !(segment.End > segment.Start) || segment.Start < 0 {
			continue
		}
		entries = append(entries, subtitles.Entry{
			Index: len(entries) + 1,
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
	}
	return entries
}

// WriteSRT persists segments as an SRT file.
func WriteSRT(path string, segments []Segment) error {
	entries := ToEntries(segments)
	if len(entries) == 0 {
		return services.Wrap(services.ErrTranscription, "transcribe", "write srt", "transcription produced no speech", nil)
	}
	return subtitles.WriteFile(path, entries)
}

// languageHint picks the request's language over the configured default.
// "auto" disables the hint.
func languageHint(requested, configured string) string {
	for _, candidate := range []string{requested, configured} {
		candidate = strings.TrimSpace(candidate)
		if strings.EqualFold(candidate, "auto") {
			return ""
		}
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
