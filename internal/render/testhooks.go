package render

import (
	"context"

	"storyreel/internal/media/ffprobe"
)

// ProbeFunc inspects one media file with the given ffprobe binary.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

var probeMedia ProbeFunc = ffprobe.Inspect

// SetProbeForTests swaps the media probe and returns a func restoring it.
func SetProbeForTests(fn ProbeFunc) (restore func()) {
	saved := probeMedia
	probeMedia = fn
	return func() { probeMedia = saved }
}
