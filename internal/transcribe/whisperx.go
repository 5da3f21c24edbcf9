package transcribe

import (
	"context"
	"os"

	"storyreel/internal/config"
	"storyreel/internal/services"
	"storyreel/internal/services/whisperx"
)

// WhisperX transcribes locally with WhisperX.
type WhisperX struct {
	service  *whisperx.Service
	language string
}

// NewWhisperX creates a WhisperX transcriber from config.
func NewWhisperX(cfg *config.Config) *WhisperX {
	service := whisperx.NewService(whisperx.Config{
		Model:       cfg.Transcription.WhisperXModel,
		CUDAEnabled: cfg.Transcription.CUDAEnabled,
		VADMethod:   cfg.Transcription.VADMethod,
		HFToken:     cfg.Transcription.HuggingFace,
	}, cfg.Render.FFmpegBinary)
	return &WhisperX{service: service, language: cfg.Transcription.Language}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperX) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *WhisperX {
	w.service.WithCommandRunner(runner)
	return w
}

func (w *WhisperX) Name() string {
	return "whisperx " + w.service.Model()
}

// Transcribe runs WhisperX in a scratch directory removed afterwards.
func (w *WhisperX) Transcribe(ctx context.Context, audioPath, language string) ([]Segment, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, services.Wrap(services.ErrMissingResource, "transcribe", "whisperx", audioPath, err)
	}
	workDir, err := os.MkdirTemp("", "storyreel-whisperx-")
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisperx", "create work dir", err)
	}
	defer os.RemoveAll(workDir)

	result, err := w.service.TranscribeFile(ctx, audioPath, workDir, languageHint(language, w.language))
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisperx", audioPath, err)
	}
	segments := make([]Segment, 0, len(result.Segments))
	for _, raw := range result.Segments {
		segment := Segment{Start: raw.Start, End: raw.End, Text: raw.Text}
		for _, word := range raw.Words {
			if word.Start == nil || word.End == nil {
				continue
			}
			segment.Words = append(segment.Words, Word{Text: word.Word, Start: *word.Start, End: *word.End})
		}
		segments = append(segments, segment)
	}
	return segments, nil
}
