// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe against a media file; Result exposes the first video
// and audio streams, the frame rate, the frame size and the playable duration
// that the render engine needs to size overlays and bound the output.
package ffprobe
