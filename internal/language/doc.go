// Package language normalizes language codes and maps them onto narration
// voices.
//
// Story language detection reports ISO 639-3 codes while the transcription
// backends and edge-tts expect ISO 639-1, so every conversion goes through
// this package.
package language
