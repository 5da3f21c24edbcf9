package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeSpeech()
	c.normalizeTranscription()
	if err := c.normalizeCaptions(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.stories_dir", &c.Paths.StoriesDir, defaultStoriesDir},
		{"paths.videos_dir", &c.Paths.VideosDir, defaultVideosDir},
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.subtitles_dir", &c.Paths.SubtitlesDir, defaultSubtitlesDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	if c.OpenAI.BaseURL == "" {
		if value, ok := os.LookupEnv("OPENAI_BASE_URL"); ok {
			c.OpenAI.BaseURL = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.Provider = strings.ToLower(strings.TrimSpace(c.Speech.Provider))
	if c.Speech.Provider == "" {
		c.Speech.Provider = ProviderEdge
	}
	c.Speech.Voice = strings.TrimSpace(c.Speech.Voice)
	if c.Speech.Voice == "" {
		c.Speech.Voice = defaultVoice
	}
	c.Speech.Rate = strings.TrimSpace(c.Speech.Rate)
	if c.Speech.Rate == "" {
		c.Speech.Rate = defaultRate
	}
	c.Speech.EdgeBinary = strings.TrimSpace(c.Speech.EdgeBinary)
	if c.Speech.EdgeBinary == "" {
		c.Speech.EdgeBinary = defaultEdgeBinary
	}
	c.Speech.OpenAIModel = strings.TrimSpace(c.Speech.OpenAIModel)
	if c.Speech.OpenAIModel == "" {
		c.Speech.OpenAIModel = defaultOpenAISpeechModel
	}
	c.Speech.OpenAIVoice = strings.ToLower(strings.TrimSpace(c.Speech.OpenAIVoice))
	if c.Speech.OpenAIVoice == "" {
		c.Speech.OpenAIVoice = defaultOpenAIVoice
	}
	if c.Speech.Concurrency == 0 {
		c.Speech.Concurrency = defaultSpeechConcurrency
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = ProviderWhisperX
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	c.Transcription.WhisperXModel = strings.TrimSpace(c.Transcription.WhisperXModel)
	if c.Transcription.WhisperXModel == "" {
		c.Transcription.WhisperXModel = defaultWhisperXModel
	}
	c.Transcription.VADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.VADMethod))
	if c.Transcription.VADMethod == "" {
		c.Transcription.VADMethod = defaultVADMethod
	}
	c.Transcription.HuggingFace = strings.TrimSpace(c.Transcription.HuggingFace)
	if c.Transcription.HuggingFace == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.Transcription.HuggingFace = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcription.HuggingFace = strings.TrimSpace(value)
		}
	}
	c.Transcription.OpenAIModel = strings.TrimSpace(c.Transcription.OpenAIModel)
	if c.Transcription.OpenAIModel == "" {
		c.Transcription.OpenAIModel = defaultOpenAITranscribeModel
	}
}

func (c *Config) normalizeCaptions() error {
	c.Captions.FontColor = strings.TrimSpace(c.Captions.FontColor)
	if c.Captions.FontColor == "" {
		c.Captions.FontColor = defaultFontColor
	}
	c.Captions.BoxColor = strings.TrimSpace(c.Captions.BoxColor)
	if c.Captions.BoxColor == "" {
		c.Captions.BoxColor = defaultBoxColor
	}
	c.Captions.BorderColor = strings.TrimSpace(c.Captions.BorderColor)
	if c.Captions.BorderColor == "" {
		c.Captions.BorderColor = defaultBorderColor
	}
	if font := strings.TrimSpace(c.Captions.FontFile); font != "" {
		expanded, err := expandPath(font)
		if err != nil {
			return fmt.Errorf("captions.font_file: %w", err)
		}
		c.Captions.FontFile = expanded
	}
	c.Captions.Overrun = strings.ToLower(strings.TrimSpace(c.Captions.Overrun))
	if c.Captions.Overrun == "" {
		c.Captions.Overrun = OverrunSlack
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	if c.Render.FFmpegBinary == "" {
		c.Render.FFmpegBinary = defaultFFmpegBinary
	}
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.FFprobeBinary == "" {
		c.Render.FFprobeBinary = defaultFFprobeBinary
	}
	c.Render.VideoCodec = strings.TrimSpace(c.Render.VideoCodec)
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	c.Render.AudioCodec = strings.TrimSpace(c.Render.AudioCodec)
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	c.Render.Preset = strings.ToLower(strings.TrimSpace(c.Render.Preset))
	if c.Render.Preset == "" {
		c.Render.Preset = defaultPreset
	}
	if c.Render.Threads == 0 {
		c.Render.Threads = defaultThreads
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
