package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"storyreel/internal/captions"
	"storyreel/internal/media/ffprobe"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
)

// Request names the inputs and output of a single render.
type Request struct {
	VideoPath  string
	AudioPath  string
	SRTPath    string
	OutputPath string
	// TestDuration truncates the render to [0, TestDuration] seconds when positive.
	TestDuration float64
	// CaptionsVTTPath, when set, receives a WebVTT sidecar with one cue per word.
	CaptionsVTTPath string
}

// Source is an opened media input with its probe data.
type Source struct {
	Path  string
	File  *os.File
	Probe ffprobe.Result
}

// Job is one prepared render. It owns open handles on both media inputs, the
// output lock and the filter script; Close releases every one of them and is
// safe to call more than once.
type Job struct {
	Request  Request
	Video    Source
	Audio    Source
	Width    int
	Height   int
	FPS      float64
	Duration float64
	Plan     captions.Plan
	// ParseWarnings lists subtitle entries dropped while reading the SRT file.
	ParseWarnings []subtitles.Warning

	lock       *flock.Flock
	scriptPath string
	closed     bool
}

// Close releases the job's resources.
func (j *Job) Close() error {
	if j == nil || j.closed {
		return nil
	}
	j.closed = true
	var errs []error
	for _, file := range []*os.File{j.Video.File, j.Audio.File} {
		if file != nil {
			if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				errs = append(errs, err)
			}
		}
	}
	if j.scriptPath != "" {
		if err := os.Remove(j.scriptPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if j.lock != nil {
		if err := j.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
		_ = os.Remove(j.lock.Path())
	}
	return errors.Join(errs...)
}

// Prepare opens and probes the inputs, plans the caption overlays, locks the
// output path and writes the filter script. On error every resource acquired
// so far has already been released.
func (e *Engine) Prepare(ctx context.Context, req Request) (_ *Job, err error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	job := &Job{Request: req}
	defer func() {
		if err != nil {
			_ = job.Close()
		}
	}()

	if job.Video, err = openSource(ctx, e.settings.FFprobeBinary, "video", req.VideoPath); err != nil {
		return nil, err
	}
	if job.Audio, err = openSource(ctx, e.settings.FFprobeBinary, "audio", req.AudioPath); err != nil {
		return nil, err
	}

	videoStream, ok := job.Video.Probe.VideoStream()
	if !ok || videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, services.Wrap(services.ErrRender, "render", "probe video", fmt.Sprintf("%s has no usable video stream", req.VideoPath), nil)
	}
	if _, ok := job.Audio.Probe.AudioStream(); !ok {
		return nil, services.Wrap(services.ErrRender, "render", "probe audio", fmt.Sprintf("%s has no audio stream", req.AudioPath), nil)
	}
	job.Width, job.Height = videoStream.Width, videoStream.Height
	if job.FPS = videoStream.FrameRate(); job.FPS <= 0 {
		return nil, services.Wrap(services.ErrRender, "render", "probe video", "unknown frame rate", nil)
	}

	videoSeconds := job.Video.Probe.DurationSeconds()
	audioSeconds := job.Audio.Probe.DurationSeconds()
	if !(videoSeconds > 0) || !(audioSeconds > 0) {
		return nil, services.Wrap(services.ErrRender, "render", "probe", fmt.Sprintf("unknown duration (video %.3fs, audio %.3fs)", videoSeconds, audioSeconds), nil)
	}
	job.Duration = OutputDuration(videoSeconds, audioSeconds, req.TestDuration)

	parsed, err := subtitles.ParseFile(req.SRTPath)
	if err != nil {
		return nil, err
	}
	job.ParseWarnings = parsed.Warnings
	job.Plan = e.plan(parsed.Entries, job.Width, req.TestDuration)

	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrRender, "render", "prepare output", "create output directory", err)
	}
	job.lock = flock.New(req.OutputPath + ".lock")
	locked, err := job.lock.TryLock()
	if err != nil {
		job.lock = nil
		return nil, services.Wrap(services.ErrRender, "render", "lock output", req.OutputPath, err)
	}
	if !locked {
		job.lock = nil
		return nil, services.Wrap(services.ErrRender, "render", "lock output", fmt.Sprintf("%s is being rendered by another process", req.OutputPath), nil)
	}

	if job.scriptPath, err = writeFilterScript(filepath.Dir(req.OutputPath), buildFilterGraph(job.Plan.Overlays)); err != nil {
		return nil, err
	}
	return job, nil
}

// plan allocates words for every entry and drops what falls outside the test
// window: entries starting at or after the cut never reach the allocator and
// overlays starting at or after it are excluded entirely.
func (e *Engine) plan(entries []subtitles.Entry, width int, testDuration float64) captions.Plan {
	if testDuration > 0 {
		kept := entries[:0:0]
		for _, entry := range entries {
			if entry.Start < testDuration {
				kept = append(kept, entry)
			}
		}
		entries = kept
	}
	plan := captions.Compose(entries, captions.NewAllocator(e.timing), captions.NewPlanner(e.style, width))
	if testDuration > 0 {
		overlays := plan.Overlays[:0]
		for _, overlay := range plan.Overlays {
			if overlay.Start < testDuration {
				overlays = append(overlays, overlay)
			}
		}
		plan.Overlays = overlays
	}
	return plan
}

// OutputDuration is the shortest of the two inputs, further capped by a
// positive test duration.
func OutputDuration(videoSeconds, audioSeconds, testDuration float64) float64 {
	duration := math.Min(videoSeconds, audioSeconds)
	if testDuration > 0 {
		duration = math.Min(duration, testDuration)
	}
	return duration
}

func validateRequest(req Request) error {
	fields := []struct{ name, value string }{
		{"video path", req.VideoPath},
		{"audio path", req.AudioPath},
		{"subtitle path", req.SRTPath},
		{"output path", req.OutputPath},
	}
	for _, field := range fields {
		if field.value == "" {
			return services.Wrap(services.ErrValidation, "render", "validate request", field.name+" is required", nil)
		}
	}
	if req.TestDuration < 0 || math.IsNaN(req.TestDuration) {
		return services.Wrap(services.ErrValidation, "render", "validate request", fmt.Sprintf("test duration must be positive, got %v", req.TestDuration), nil)
	}
	for _, input := range []string{req.VideoPath, req.AudioPath, req.SRTPath, req.CaptionsVTTPath} {
		if input == "" {
			continue
		}
		if sameFile(input, req.OutputPath) {
			return services.Wrap(services.ErrValidation, "render", "validate request", "output path would overwrite an input", nil)
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

func openSource(ctx context.Context, ffprobeBinary, kind, path string) (Source, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, services.Wrap(services.ErrMissingResource, "render", "open "+kind, path, err)
		}
		return Source{}, services.Wrap(services.ErrRender, "render", "open "+kind, path, err)
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		if err == nil {
			err = fmt.Errorf("%s is a directory", path)
		}
		return Source{}, services.Wrap(services.ErrMissingResource, "render", "open "+kind, path, err)
	}
	probe, err := probeMedia(ctx, ffprobeBinary, path)
	if err != nil {
		_ = file.Close()
		return Source{}, services.Wrap(services.ErrRender, "render", "probe "+kind, path, err)
	}
	return Source{Path: path, File: file, Probe: probe}, nil
}

func writeFilterScript(dir, graph string) (string, error) {
	script, err := os.CreateTemp(dir, ".storyreel-filter-*.txt")
	if err != nil {
		return "", services.Wrap(services.ErrRender, "render", "write filter script", "", err)
	}
	path := script.Name()
	if _, err := script.WriteString(graph); err != nil {
		_ = script.Close()
		_ = os.Remove(path)
		return "", services.Wrap(services.ErrRender, "render", "write filter script", "", err)
	}
	if err := script.Close(); err != nil {
		_ = os.Remove(path)
		return "", services.Wrap(services.ErrRender, "render", "write filter script", "", err)
	}
	return path, nil
}
