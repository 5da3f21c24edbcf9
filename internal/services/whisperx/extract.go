package whisperx

// downmixArgs converts narration audio into the 16 kHz mono PCM WAV WhisperX
// aligns best against. Only the first audio stream is read.
func downmixArgs(source, dest string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", source,
		"-map", "0:a:0", "-vn",
		"-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le",
		dest,
	}
}
