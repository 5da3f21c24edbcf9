// Package subtitles reads and writes SubRip (SRT) subtitle files.
//
// It owns the HH:MM:SS,mmm timestamp codec, a tolerant line-oriented parser
// that drops malformed entries with a recorded warning instead of guessing at
// missing fields, and a writer whose output round-trips with the parser for
// well-formed single-line files.
package subtitles
