// Package render composes the final captioned video.
//
// A render opens and probes the background video and the narration audio,
// parses the SRT file, plans one centered overlay per spoken word and hands
// ffmpeg a filter script that draws each word on a translucent plate only
// inside its display window. Output length is the shorter of the two inputs,
// optionally capped for test renders.
//
// The output path is guarded by an advisory lock and ffmpeg writes to a hidden
// partial file that is renamed into place on success, so a failed or
// interrupted render never leaves a truncated video at the destination.
package render
