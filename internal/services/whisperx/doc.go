// Package whisperx transcribes narration with WhisperX run through uvx.
//
// The narration is first downmixed to 16 kHz mono WAV with ffmpeg; WhisperX
// then writes a JSON transcript whose segments and word timings are returned
// as a Result.
package whisperx
