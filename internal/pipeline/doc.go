// Package pipeline turns a story into a finished captioned video.
//
// Run narrates the story, transcribes the narration into an SRT file and
// renders the background video with word-by-word captions. Each step writes
// into the timestamped layout under the configured working directories and
// every run is recorded in the history ledger under a fresh run id.
//
// NarrateBatch covers the audio-only workflow: it synthesizes many stories
// with bounded concurrency and a request rate limit and reports per-story
// failures together.
package pipeline
