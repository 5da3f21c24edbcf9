// Package speech turns narration text into an audio file.
//
// Two synthesizers are provided: Edge drives the edge-tts command line tool
// and OpenAI calls the audio/speech endpoint. Both write to the requested path
// only through a temporary sibling, so a failed synthesis never leaves a
// truncated file that a later run would mistake for finished narration.
package speech
