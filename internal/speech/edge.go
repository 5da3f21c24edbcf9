package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"storyreel/internal/language"
	"storyreel/internal/services"
)

// DefaultEdgeVoice narrates in a low US English male voice.
const DefaultEdgeVoice = "en-US-ChristopherNeural"

// AutoVoice picks the narrator from the story language.
const AutoVoice = "auto"

// EdgeConfig configures the edge-tts synthesizer.
type EdgeConfig struct {
	Binary string
	// Voice is an edge-tts voice name or AutoVoice.
	Voice string
	// Rate is an edge-tts rate adjustment such as "+0%" or "-10%".
	Rate string
}

// Edge synthesizes speech with the edge-tts command line tool.
type Edge struct {
	cfg           EdgeConfig
	auto          bool
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewEdge creates an edge-tts synthesizer.
func NewEdge(cfg EdgeConfig) *Edge {
	if cfg.Binary == "" {
		cfg.Binary = "edge-tts"
	}
	auto := strings.EqualFold(cfg.Voice, AutoVoice)
	if cfg.Voice == "" || auto {
		cfg.Voice = DefaultEdgeVoice
	}
	return &Edge{cfg: cfg, auto: auto}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Edge) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) *Edge {
	e.commandRunner = runner
	return e
}

// WithVoice returns a copy of the synthesizer using voice.
func (e *Edge) WithVoice(voice string) *Edge {
	clone := *e
	if voice != "" {
		clone.cfg.Voice = voice
	}
	return &clone
}

// ForLanguage returns a synthesizer narrating in lang's mapped voice when the
// voice is AutoVoice. Otherwise, and for unmapped languages, it returns e.
func (e *Edge) ForLanguage(lang string) Synthesizer {
	if !e.auto {
		return e
	}
	if voice := language.EdgeVoice(lang); voice != "" {
		return e.WithVoice(voice)
	}
	return e
}

func (e *Edge) Name() string {
	return "edge-tts (" + e.cfg.Voice + ")"
}

// Synthesize writes MP3 narration of text to outputPath.
func (e *Edge) Synthesize(ctx context.Context, text, outputPath string) error {
	if err := validateText(text); err != nil {
		return err
	}
	partial, err := prepareOutput(outputPath)
	if err != nil {
		return err
	}
	if err := e.run(ctx, e.cfg.Binary, e.buildArgs(text, partial)...); err != nil {
		_ = os.Remove(partial)
		return services.Wrap(services.ErrSynthesis, "speech", "edge-tts", e.cfg.Voice, err)
	}
	return finalize(partial, outputPath)
}

func (e *Edge) buildArgs(text, outputPath string) []string {
	args := []string{"--voice", e.cfg.Voice}
	if rate := strings.TrimSpace(e.cfg.Rate); rate != "" {
		// edge-tts parses "-10%" as a flag unless it is attached with "=".
		args = append(args, "--rate="+rate)
	}
	return append(args, "--text", text, "--write-media", outputPath)
}

func (e *Edge) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
