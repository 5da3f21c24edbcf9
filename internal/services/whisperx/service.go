package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "storyreel/internal/language"
)

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

// Service transcribes narration with WhisperX.
type Service struct {
	cfg          Config
	ffmpegBinary string
	runner       Runner
}

// NewService creates a service. An empty ffmpegBinary resolves "ffmpeg" on PATH.
func NewService(cfg Config, ffmpegBinary string) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = ffmpegCommand
	}
	return &Service{cfg: cfg, ffmpegBinary: ffmpegBinary, runner: execRunner}
}

// WithCommandRunner replaces process execution (for testing).
func (s *Service) WithCommandRunner(runner Runner) *Service {
	if runner != nil {
		s.runner = runner
	}
	return s
}

// Model names the model WhisperX will load.
func (s *Service) Model() string {
	return s.cfg.model()
}

// Word is one aligned word. Words WhisperX could not align carry no timing.
type Word struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Score float64  `json:"score"`
}

// Segment is one transcribed sentence.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// Result is a parsed WhisperX transcript.
type Result struct {
	Segments []Segment `json:"segments"`
	// Language is what WhisperX detected, or the requested language.
	Language string `json:"language"`
	JSONPath string `json:"-"`
}

// TranscribeFile downmixes source into workDir, runs WhisperX there and loads
// its JSON transcript. language is a hint in any form ToISO2 understands;
// empty lets WhisperX detect it.
func (s *Service) TranscribeFile(ctx context.Context, source, workDir, language string) (Result, error) {
	if source == "" {
		return Result{}, errors.New("whisperx: source path required")
	}
	if workDir == "" {
		return Result{}, errors.New("whisperx: work dir required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("whisperx: work dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	wavPath := filepath.Join(workDir, stem+".wav")
	if err := s.runner(ctx, s.ffmpegBinary, downmixArgs(source, wavPath)...); err != nil {
		return Result{}, fmt.Errorf("whisperx: downmix: %w", err)
	}
	if err := s.runner(ctx, uvxCommand, s.buildArgs(wavPath, workDir, language)...); err != nil {
		return Result{}, fmt.Errorf("whisperx: %w", err)
	}

	result, err := loadResult(filepath.Join(workDir, stem+".json"))
	if err != nil {
		return Result{}, err
	}
	if result.Language == "" {
		result.Language = langpkg.ToISO2(language)
	}
	return result, nil
}

func (s *Service) buildArgs(wavPath, outputDir, language string) []string {
	index, device := s.cfg.runtimeArgs()
	args := make([]string, 0, 40)
	args = append(args, index...)
	args = append(args, "whisperx", wavPath,
		"--model", s.cfg.model(),
		"--batch_size", s.cfg.batchSize(),
		"--output_dir", outputDir,
	)
	args = append(args, narrationDecoding...)
	args = append(args, s.cfg.vadArgs()...)
	if code := langpkg.ToISO2(language); code != "" {
		args = append(args, "--language", code)
	}
	return append(args, device...)
}

func loadResult(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("whisperx: read transcript: %w", err)
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("whisperx: parse transcript: %w", err)
	}
	result.JSONPath = path
	return result, nil
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// torch 2.6 defaults torch.load to weights_only, which pyannote checkpoints fail.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
