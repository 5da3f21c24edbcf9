package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"storyreel/internal/config"
)

// ConfigOption adjusts a test configuration after its directories are laid
// out under base.
type ConfigOption func(t testing.TB, cfg *config.Config, base string)

// workDirs mirrors the directory names of the sample configuration.
var workDirs = map[string]func(*config.Paths) *string{
	"stories":      func(p *config.Paths) *string { return &p.StoriesDir },
	"videos":       func(p *config.Paths) *string { return &p.VideosDir },
	"audio":        func(p *config.Paths) *string { return &p.AudioDir },
	"subtitles":    func(p *config.Paths) *string { return &p.SubtitlesDir },
	"final_videos": func(p *config.Paths) *string { return &p.OutputDir },
	"logs":         func(p *config.Paths) *string { return &p.LogDir },
	"state":        func(p *config.Paths) *string { return &p.StateDir },
}

// NewConfig returns the default configuration with every working directory
// moved under a fresh temp dir. Directories are not created.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	for name, field := range workDirs {
		*field(&cfg.Paths) = filepath.Join(base, name)
	}
	for _, opt := range opts {
		opt(t, &cfg, base)
	}
	return &cfg
}

// BaseDir is the temp dir that holds the working directories of cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WithOpenAI routes narration and transcription through OpenAI using key.
func WithOpenAI(key string) ConfigOption {
	return func(_ testing.TB, cfg *config.Config, _ string) {
		cfg.OpenAI.APIKey = key
		cfg.Speech.Provider = config.ProviderOpenAI
		cfg.Transcription.Provider = config.ProviderOpenAI
	}
}

// WithStubbedBinaries puts no-op executables first on PATH. Without names it
// stubs ffmpeg, ffprobe, edge-tts and uvx.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, _ *config.Config, base string) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "edge-tts", "uvx"}
		}
		bin := filepath.Join(base, "bin")
		if err := os.MkdirAll(bin, 0o755); err != nil {
			t.Fatalf("create stub dir: %v", err)
		}
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
				t.Fatalf("write stub %s: %v", name, err)
			}
		}
		t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}
