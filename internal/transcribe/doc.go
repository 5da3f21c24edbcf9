// Package transcribe derives timed subtitle segments from narration audio.
//
// WhisperX runs locally through uvx; OpenAI uses the hosted transcription
// endpoint with segment timestamps. Either way the result is a list of
// Segments that ToEntries turns into SRT entries.
package transcribe
