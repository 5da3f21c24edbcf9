package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyreel/internal/config"
	"storyreel/internal/services"
)

// Synthesizer renders text to an audio file at outputPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
	Name() string
}

// New returns the synthesizer selected by the speech provider setting.
func New(cfg *config.Config) (Synthesizer, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "speech", "select provider", "config is required", nil)
	}
	switch cfg.Speech.Provider {
	case config.ProviderEdge:
		return NewEdge(EdgeConfig{
			Binary: cfg.Speech.EdgeBinary,
			Voice:  cfg.Speech.Voice,
			Rate:   cfg.Speech.Rate,
		}), nil
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.Speech.OpenAIModel,
			Voice:   cfg.Speech.OpenAIVoice,
		})
	default:
		return nil, services.Wrap(services.ErrConfiguration, "speech", "select provider", fmt.Sprintf("unsupported provider %q", cfg.Speech.Provider), nil)
	}
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return services.Wrap(services.ErrValidation, "speech", "synthesize", "narration text is empty", nil)
	}
	return nil
}

// partialPath keeps the extension so tools that infer the format from the
// file name still see it.
func partialPath(outputPath string) string {
	dir, base := filepath.Split(outputPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".partial"+ext)
}

func prepareOutput(outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		return "", services.Wrap(services.ErrValidation, "speech", "synthesize", "output path is required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", services.Wrap(services.ErrSynthesis, "speech", "prepare output", filepath.Dir(outputPath), err)
	}
	return partialPath(outputPath), nil
}

// finalize checks the partial file holds audio and moves it into place. The
// partial file is removed whenever finalize fails.
func finalize(partial, outputPath string) error {
	info, err := os.Stat(partial)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(partial)
		if err == nil {
			err = fmt.Errorf("%s is empty", partial)
		}
		return services.Wrap(services.ErrSynthesis, "speech", "verify output", "no audio was produced", err)
	}
	if err := os.Rename(partial, outputPath); err != nil {
		_ = os.Remove(partial)
		return services.Wrap(services.ErrSynthesis, "speech", "finalize", outputPath, err)
	}
	return nil
}
