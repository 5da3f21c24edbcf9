package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"storyreel/internal/config"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "HF_TOKEN", "HUGGING_FACE_HUB_TOKEN", config.EnvConfigPath} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearProviderEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "storyreel", "stories"); cfg.Paths.StoriesDir != want {
		t.Fatalf("unexpected stories dir: got %q want %q", cfg.Paths.StoriesDir, want)
	}
	if want := filepath.Join(tempHome, "storyreel", "final_videos"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if cfg.Speech.Provider != config.ProviderEdge {
		t.Fatalf("expected edge speech provider by default, got %q", cfg.Speech.Provider)
	}
	if cfg.Speech.Voice != "en-US-ChristopherNeural" {
		t.Fatalf("unexpected default voice %q", cfg.Speech.Voice)
	}
	if cfg.Transcription.Provider != config.ProviderWhisperX {
		t.Fatalf("expected whisperx transcription by default, got %q", cfg.Transcription.Provider)
	}
	if cfg.Captions.FontSize != 40 || cfg.Captions.BoxOpacity != 0.6 || cfg.Captions.BorderWidth != 2 {
		t.Fatalf("unexpected caption defaults: %+v", cfg.Captions)
	}
	if cfg.Captions.Overrun != config.OverrunSlack {
		t.Fatalf("expected slack overrun by default, got %q", cfg.Captions.Overrun)
	}
	if cfg.Render.VideoCodec != "libx264" || cfg.Render.AudioCodec != "aac" {
		t.Fatalf("unexpected codecs: %+v", cfg.Render)
	}
	if cfg.Render.Preset != "medium" || cfg.Render.Threads != 4 {
		t.Fatalf("unexpected encoder defaults: %+v", cfg.Render)
	}
	if cfg.HistoryPath() != filepath.Join(tempHome, ".local", "share", "storyreel", "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
}

func TestLoadCustomConfigFile(t *testing.T) {
	clearProviderEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "storyreel.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"output_dir": "~/renders",
		},
		"captions": map[string]any{
			"font_size": 52,
			"overrun":   "CLAMP",
		},
		"render": map[string]any{
			"preset":  "Fast",
			"threads": 8,
		},
		"logging": map[string]any{
			"format": "JSON",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "renders") {
		t.Fatalf("unexpected output dir %q", cfg.Paths.OutputDir)
	}
	if cfg.Captions.FontSize != 52 {
		t.Fatalf("expected font size 52, got %d", cfg.Captions.FontSize)
	}
	if cfg.Captions.Overrun != config.OverrunClamp {
		t.Fatalf("expected overrun normalized to clamp, got %q", cfg.Captions.Overrun)
	}
	if cfg.Render.Preset != "fast" || cfg.Render.Threads != 8 {
		t.Fatalf("unexpected render settings %+v", cfg.Render)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadReadsDotEnvBesideConfig(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[speech]\nprovider = \"openai\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-from-dotenv" {
		t.Fatalf("expected api key from .env, got %q", cfg.OpenAI.APIKey)
	}
	if !cfg.UsesOpenAI() {
		t.Fatal("expected UsesOpenAI to report true")
	}
}

func TestValidateRejectsOpenAIWithoutKey(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.Provider = config.ProviderOpenAI
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "openai.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"speech provider", func(c *config.Config) { c.Speech.Provider = "polly" }, "speech.provider"},
		{"transcription provider", func(c *config.Config) { c.Transcription.Provider = "vosk" }, "transcription.provider"},
		{"font size", func(c *config.Config) { c.Captions.FontSize = 0 }, "captions.font_size"},
		{"box opacity", func(c *config.Config) { c.Captions.BoxOpacity = 1.5 }, "captions.box_opacity"},
		{"max word", func(c *config.Config) { c.Captions.MaxWordSeconds = 0 }, "captions.max_word_seconds"},
		{"overrun", func(c *config.Config) { c.Captions.Overrun = "stretch" }, "captions.overrun"},
		{"threads", func(c *config.Config) { c.Render.Threads = 0 }, "render.threads"},
		{"preset", func(c *config.Config) { c.Render.Preset = "warp" }, "render.preset"},
		{"concurrency", func(c *config.Config) { c.Speech.Concurrency = 0 }, "speech.concurrency"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleProducesLoadableConfig(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Speech.RequestsPerMinute != 30 {
		t.Fatalf("unexpected requests_per_minute %d", cfg.Speech.RequestsPerMinute)
	}
}

func TestEnsureDirectoriesCreatesLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		StoriesDir:   filepath.Join(base, "stories"),
		VideosDir:    filepath.Join(base, "videos"),
		AudioDir:     filepath.Join(base, "audio"),
		SubtitlesDir: filepath.Join(base, "subtitles"),
		OutputDir:    filepath.Join(base, "final_videos"),
		LogDir:       filepath.Join(base, "logs"),
		StateDir:     filepath.Join(base, "state"),
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"stories", "videos", "audio", "subtitles", "final_videos", "logs", "state"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[captions]\nfont_sise = 52\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "font_sise") {
		t.Fatalf("expected unknown key error naming font_sise, got %v", err)
	}
}

func TestLoadUsesEnvironmentPath(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	configPath := filepath.Join(t.TempDir(), "from-env.toml")
	if err := os.WriteFile(configPath, []byte("[render]\nthreads = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, configPath)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath || cfg.Render.Threads != 2 {
		t.Fatalf("expected %s to be loaded, got %q exists=%v threads=%d", configPath, resolved, exists, cfg.Render.Threads)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Threads = 0
	cfg.Logging.Level = "loud"
	cfg.Captions.Overrun = "stretch"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{"render.threads", "logging.level", "captions.overrun"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("expected %q in %v", key, err)
		}
	}
}
