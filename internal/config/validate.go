package config

import (
	"errors"
	"fmt"
	"slices"
)

var encoderPresets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow",
}

// problems collects every validation failure so one run reports them all.
type problems []error

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Errorf(format, args...))
}

func (p *problems) oneOf(key, value string, allowed ...string) {
	if !slices.Contains(allowed, value) {
		p.addf("%s: unsupported value %q (want one of %v)", key, value, allowed)
	}
}

// Validate reports every invalid setting, joined into one error.
func (c *Config) Validate() error {
	var p problems
	c.checkSpeech(&p)
	c.checkTranscription(&p)
	c.checkCaptions(&p)
	c.checkRender(&p)
	if c.Stories.MaxContentLength < 0 {
		p.addf("stories.max_content_length must be >= 0")
	}
	p.oneOf("logging.format", c.Logging.Format, "console", "json")
	p.oneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
	if c.UsesOpenAI() && c.OpenAI.APIKey == "" {
		p = append(p, c.missingAPIKey())
	}
	return errors.Join(p...)
}

func (c *Config) checkSpeech(p *problems) {
	p.oneOf("speech.provider", c.Speech.Provider, ProviderEdge, ProviderOpenAI)
	if c.Speech.Concurrency < 1 {
		p.addf("speech.concurrency must be >= 1")
	}
	if c.Speech.RequestsPerMinute < 0 {
		p.addf("speech.requests_per_minute must be >= 0")
	}
}

func (c *Config) checkTranscription(p *problems) {
	p.oneOf("transcription.provider", c.Transcription.Provider, ProviderWhisperX, ProviderOpenAI)
	p.oneOf("transcription.whisperx_vad_method", c.Transcription.VADMethod, "silero", "pyannote")
}

func (c *Config) checkCaptions(p *problems) {
	caps := c.Captions
	if caps.FontSize <= 0 {
		p.addf("captions.font_size must be positive")
	}
	if caps.BoxOpacity < 0 || caps.BoxOpacity > 1 {
		p.addf("captions.box_opacity must be between 0 and 1")
	}
	if caps.BorderWidth < 0 {
		p.addf("captions.border_width must be >= 0")
	}
	if caps.MaxWordSeconds <= 0 {
		p.addf("captions.max_word_seconds must be positive")
	}
	if caps.MaxGapSeconds < 0 {
		p.addf("captions.max_gap_seconds must be >= 0")
	}
	p.oneOf("captions.overrun", caps.Overrun, OverrunSlack, OverrunClamp)
}

func (c *Config) checkRender(p *problems) {
	if c.Render.Threads < 1 {
		p.addf("render.threads must be >= 1")
	}
	p.oneOf("render.preset", c.Render.Preset, encoderPresets...)
}

func (c *Config) missingAPIKey() error {
	path, err := DefaultConfigPath()
	if err != nil {
		path = defaultConfigPath
	}
	return fmt.Errorf("openai.api_key is required when an openai provider is selected; set OPENAI_API_KEY (or add it to .env) or edit %s (create it with 'storyreel config init')", path)
}
