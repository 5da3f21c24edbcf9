package config

const (
	ProviderEdge     = "edge"
	ProviderOpenAI   = "openai"
	ProviderWhisperX = "whisperx"

	OverrunSlack = "slack"
	OverrunClamp = "clamp"
)

const (
	defaultConfigPath            = "~/.config/storyreel/config.toml"
	defaultStoriesDir            = "~/storyreel/stories"
	defaultVideosDir             = "~/storyreel/videos"
	defaultAudioDir              = "~/storyreel/audio"
	defaultSubtitlesDir          = "~/storyreel/subtitles"
	defaultOutputDir             = "~/storyreel/final_videos"
	defaultLogDir                = "~/.local/share/storyreel/logs"
	defaultStateDir              = "~/.local/share/storyreel"
	defaultVoice                 = "en-US-ChristopherNeural"
	defaultRate                  = "+0%"
	defaultEdgeBinary            = "edge-tts"
	defaultOpenAISpeechModel     = "gpt-4o-mini-tts"
	defaultOpenAIVoice           = "onyx"
	defaultSpeechConcurrency     = 2
	defaultSpeechRequestsPerMin  = 30
	defaultTranscriptionLanguage = "en"
	defaultWhisperXModel         = "large-v3"
	defaultVADMethod             = "silero"
	defaultOpenAITranscribeModel = "whisper-1"
	defaultFontSize              = 40
	defaultFontColor             = "white"
	defaultBoxColor              = "black"
	defaultBoxOpacity            = 0.6
	defaultBorderColor           = "black"
	defaultBorderWidth           = 2
	defaultMaxWordSeconds        = 0.4
	defaultMaxGapSeconds         = 0.1
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultVideoCodec            = "libx264"
	defaultAudioCodec            = "aac"
	defaultPreset                = "medium"
	defaultThreads               = 4
	defaultMaxStoryContentLength = 10000
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StoriesDir:   defaultStoriesDir,
			VideosDir:    defaultVideosDir,
			AudioDir:     defaultAudioDir,
			SubtitlesDir: defaultSubtitlesDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			StateDir:     defaultStateDir,
		},
		Speech: Speech{
			Provider:          ProviderEdge,
			Voice:             defaultVoice,
			Rate:              defaultRate,
			EdgeBinary:        defaultEdgeBinary,
			OpenAIModel:       defaultOpenAISpeechModel,
			OpenAIVoice:       defaultOpenAIVoice,
			Concurrency:       defaultSpeechConcurrency,
			RequestsPerMinute: defaultSpeechRequestsPerMin,
		},
		Transcription: Transcription{
			Provider:      ProviderWhisperX,
			Language:      defaultTranscriptionLanguage,
			WhisperXModel: defaultWhisperXModel,
			VADMethod:     defaultVADMethod,
			OpenAIModel:   defaultOpenAITranscribeModel,
		},
		Captions: Captions{
			FontSize:       defaultFontSize,
			FontColor:      defaultFontColor,
			BoxColor:       defaultBoxColor,
			BoxOpacity:     defaultBoxOpacity,
			BorderColor:    defaultBorderColor,
			BorderWidth:    defaultBorderWidth,
			MaxWordSeconds: defaultMaxWordSeconds,
			MaxGapSeconds:  defaultMaxGapSeconds,
			Overrun:        OverrunSlack,
		},
		Render: Render{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
			Preset:        defaultPreset,
			Threads:       defaultThreads,
		},
		Stories: Stories{
			MaxContentLength: defaultMaxStoryContentLength,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
