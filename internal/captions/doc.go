// Package captions turns subtitle text into word-by-word caption overlays.
//
// SplitWords tokenizes a subtitle line, the Allocator spreads the words over
// the subtitle's window with short gaps between them, and the Planner folds
// the timed words into styled, centered overlays, recording any word it could
// not draw instead of failing the whole plan. ExportWebVTT writes the same
// words as a sidecar caption track.
package captions
