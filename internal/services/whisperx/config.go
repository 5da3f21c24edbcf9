package whisperx

import "strconv"

// Config selects the WhisperX model and where it runs.
type Config struct {
	// Model is a WhisperX model name such as "large-v3-turbo".
	Model       string
	CUDAEnabled bool
	// VADMethod is "silero" or "pyannote"; pyannote needs HFToken.
	VADMethod string
	HFToken   string
	// BatchSize bounds GPU memory; zero uses defaultBatchSize.
	BatchSize int
}

const (
	DefaultModel      = "large-v3"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"

	defaultBatchSize = 4

	uvxCommand    = "uvx"
	ffmpegCommand = "ffmpeg"
	cudaIndexURL  = "https://download.pytorch.org/whl/cu128"
	pypiIndexURL  = "https://pypi.org/simple"
	cudaDevice    = "cuda"
)

// narrationDecoding tunes WhisperX for clean synthesized speech: greedy
// decoding, sentence segments and low VAD thresholds so the short pauses a
// TTS voice leaves between sentences do not split words from their segment.
var narrationDecoding = []string{
	"--output_format", "json",
	"--segment_resolution", "sentence",
	"--chunk_size", "15",
	"--vad_onset", "0.08",
	"--vad_offset", "0.07",
	"--beam_size", "5",
	"--temperature", "0.0",
}

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel
}

func (c Config) batchSize() string {
	if c.BatchSize > 0 {
		return strconv.Itoa(c.BatchSize)
	}
	return strconv.Itoa(defaultBatchSize)
}

// vadArgs falls back to silero when pyannote has no token to download with.
func (c Config) vadArgs() []string {
	method := c.VADMethod
	if method == "" || (method == VADMethodPyannote && c.HFToken == "") {
		method = VADMethodSilero
	}
	args := []string{"--vad_method", method}
	if method == VADMethodPyannote {
		args = append(args, "--hf_token", c.HFToken)
	}
	return args
}

// runtimeArgs picks the package index before the whisperx token and the
// device flags after it.
func (c Config) runtimeArgs() (index, device []string) {
	if c.CUDAEnabled {
		return []string{"--index-url", cudaIndexURL, "--extra-index-url", pypiIndexURL},
			[]string{"--device", cudaDevice}
	}
	return []string{"--index-url", pypiIndexURL},
		[]string{"--device", "cpu", "--compute_type", "float32"}
}
