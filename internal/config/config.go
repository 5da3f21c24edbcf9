package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the working directory layout.
type Paths struct {
	StoriesDir   string `toml:"stories_dir"`
	VideosDir    string `toml:"videos_dir"`
	AudioDir     string `toml:"audio_dir"`
	SubtitlesDir string `toml:"subtitles_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
	StateDir     string `toml:"state_dir"`
}

// Speech configures narration synthesis.
type Speech struct {
	Provider          string `toml:"provider"`
	Voice             string `toml:"voice"`
	Rate              string `toml:"rate"`
	EdgeBinary        string `toml:"edge_binary"`
	OpenAIModel       string `toml:"openai_model"`
	OpenAIVoice       string `toml:"openai_voice"`
	Concurrency       int    `toml:"concurrency"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Transcription configures speech-to-text used to derive subtitles.
type Transcription struct {
	Provider      string `toml:"provider"`
	Language      string `toml:"language"`
	WhisperXModel string `toml:"whisperx_model"`
	CUDAEnabled   bool   `toml:"whisperx_cuda_enabled"`
	VADMethod     string `toml:"whisperx_vad_method"`
	HuggingFace   string `toml:"whisperx_hf_token"`
	OpenAIModel   string `toml:"openai_model"`
}

// Captions controls caption styling and word timing.
type Captions struct {
	FontSize       int     `toml:"font_size"`
	FontColor      string  `toml:"font_color"`
	FontFile       string  `toml:"font_file"`
	BoxColor       string  `toml:"box_color"`
	BoxOpacity     float64 `toml:"box_opacity"`
	BorderColor    string  `toml:"border_color"`
	BorderWidth    int     `toml:"border_width"`
	MaxWordSeconds float64 `toml:"max_word_seconds"`
	MaxGapSeconds  float64 `toml:"max_gap_seconds"`
	// Overrun is "slack" (final word may end one gap past the entry) or
	// "clamp" (schedule is compressed to fit the entry).
	Overrun string `toml:"overrun"`
}

// Render contains encoder settings.
type Render struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	VideoCodec    string `toml:"video_codec"`
	AudioCodec    string `toml:"audio_codec"`
	Preset        string `toml:"preset"`
	Threads       int    `toml:"threads"`
}

// OpenAI holds credentials shared by the OpenAI speech and transcription backends.
type OpenAI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Stories configures story ingestion.
type Stories struct {
	MaxContentLength int `toml:"max_content_length"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for storyreel.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Speech        Speech        `toml:"speech"`
	Transcription Transcription `toml:"transcription"`
	Captions      Captions      `toml:"captions"`
	Render        Render        `toml:"render"`
	OpenAI        OpenAI        `toml:"openai"`
	Stories       Stories       `toml:"stories"`
	Logging       Logging       `toml:"logging"`
}

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "STORYREEL_CONFIG"

// DefaultConfigPath is ~/.config/storyreel/config.toml, expanded.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the configuration, applies defaults, normalizes and validates
// it. It returns the path that was consulted and whether a file existed
// there. A .env beside the config, and one in the working directory, are
// loaded first without overriding variables already set. Unknown keys are
// rejected so a typo cannot silently fall back to a default.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := loadDotEnv(filepath.Dir(resolved)); err != nil {
		return nil, resolved, exists, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, resolved, exists, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("config %s has unknown keys:\n%s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadDotEnv(configDir string) error {
	dirs := []string{configDir}
	if cwd, err := os.Getwd(); err == nil && cwd != configDir {
		dirs = append(dirs, cwd)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, ".env")
		if info, err := os.Stat(candidate); err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return fmt.Errorf("load %s: %w", candidate, err)
		}
	}
	return nil
}

// resolveConfigPath picks the explicit path, then $STORYREEL_CONFIG, then the
// first existing of ~/.config/storyreel/config.toml and ./storyreel.toml. With
// nothing found it reports the default location as missing.
func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := expandPath("storyreel.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// EnsureDirectories creates the working directories used by the pipeline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{
		c.Paths.StoriesDir,
		c.Paths.VideosDir,
		c.Paths.AudioDir,
		c.Paths.SubtitlesDir,
		c.Paths.OutputDir,
		c.Paths.LogDir,
		c.Paths.StateDir,
	} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// UsesOpenAI reports whether any configured provider talks to OpenAI.
func (c *Config) UsesOpenAI() bool {
	return c.Speech.Provider == ProviderOpenAI || c.Transcription.Provider == ProviderOpenAI
}

// ExpandPath resolves a leading "~" or "~/" to the home directory and makes
// the result absolute. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", value, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample configuration to path, creating
// parent directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
