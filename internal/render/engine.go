package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"storyreel/internal/captions"
	"storyreel/internal/config"
	"storyreel/internal/logging"
	"storyreel/internal/services"
	"storyreel/internal/subtitles"
)

// Settings configures the encoder invocation.
type Settings struct {
	FFmpegBinary  string
	FFprobeBinary string
	VideoCodec    string
	AudioCodec    string
	Preset        string
	Threads       int
}

// DefaultSettings encodes H.264/AAC with the medium preset on four threads.
func DefaultSettings() Settings {
	return Settings{
		FFmpegBinary:  "ffmpeg",
		FFprobeBinary: "ffprobe",
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		Preset:        "medium",
		Threads:       4,
	}
}

// Result summarizes a finished render.
type Result struct {
	OutputPath string
	Duration   float64
	FrameRate  float64
	Width      int
	Height     int
	Overlays   int
	Skipped    []captions.Skipped
	Warnings   []subtitles.Warning
	// CaptionsVTTPath is set when the WebVTT sidecar was written.
	CaptionsVTTPath string
	Elapsed         time.Duration
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Engine renders word-by-word captions onto a background video.
type Engine struct {
	settings      Settings
	style         captions.Style
	timing        captions.TimingOptions
	logger        *slog.Logger
	commandRunner CommandRunner
}

// NewEngine creates an engine. Zero-valued settings fall back to DefaultSettings.
func NewEngine(settings Settings, style captions.Style, timing captions.TimingOptions, logger *slog.Logger) *Engine {
	defaults := DefaultSettings()
	if settings.FFmpegBinary == "" {
		settings.FFmpegBinary = defaults.FFmpegBinary
	}
	if settings.FFprobeBinary == "" {
		settings.FFprobeBinary = defaults.FFprobeBinary
	}
	if settings.VideoCodec == "" {
		settings.VideoCodec = defaults.VideoCodec
	}
	if settings.AudioCodec == "" {
		settings.AudioCodec = defaults.AudioCodec
	}
	if settings.Preset == "" {
		settings.Preset = defaults.Preset
	}
	if settings.Threads <= 0 {
		settings.Threads = defaults.Threads
	}
	return &Engine{
		settings: settings,
		style:    style,
		timing:   timing,
		logger:   logging.NewComponentLogger(logger, "render"),
	}
}

// NewEngineFromConfig builds an engine from the render and caption sections.
func NewEngineFromConfig(cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		return NewEngine(DefaultSettings(), captions.DefaultStyle(), captions.DefaultTimingOptions(), logger)
	}
	settings := Settings{
		FFmpegBinary:  cfg.Render.FFmpegBinary,
		FFprobeBinary: cfg.Render.FFprobeBinary,
		VideoCodec:    cfg.Render.VideoCodec,
		AudioCodec:    cfg.Render.AudioCodec,
		Preset:        cfg.Render.Preset,
		Threads:       cfg.Render.Threads,
	}
	return NewEngine(settings, StyleFromConfig(cfg.Captions), TimingFromConfig(cfg.Captions), logger)
}

// StyleFromConfig maps caption config onto a plate style.
func StyleFromConfig(c config.Captions) captions.Style {
	return captions.Style{
		FontSize:    c.FontSize,
		FontColor:   c.FontColor,
		FontFile:    c.FontFile,
		BoxColor:    c.BoxColor,
		BoxOpacity:  c.BoxOpacity,
		BorderColor: c.BorderColor,
		BorderWidth: c.BorderWidth,
	}
}

// TimingFromConfig maps caption config onto allocator options.
func TimingFromConfig(c config.Captions) captions.TimingOptions {
	opts := captions.DefaultTimingOptions()
	opts.MaxWordSeconds = c.MaxWordSeconds
	opts.MaxGapSeconds = c.MaxGapSeconds
	opts.Overrun = captions.ParseOverrunPolicy(c.Overrun)
	return opts
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Engine) WithCommandRunner(runner CommandRunner) *Engine {
	e.commandRunner = runner
	return e
}

// CreateFinalVideo composes the captioned video described by req. The output
// is written to a hidden partial file next to the destination and renamed
// into place only after ffmpeg succeeds; on any failure no file remains at
// OutputPath.
func (e *Engine) CreateFinalVideo(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	logger := logging.WithContext(ctx, e.logger)

	job, err := e.Prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := job.Close(); closeErr != nil {
			logging.WarnWithContext(logger, "render cleanup incomplete", "render_cleanup_failed",
				logging.Error(closeErr),
				logging.String(logging.FieldImpact, "temporary files or the output lock may remain"),
				logging.String(logging.FieldErrorHint, "remove stale .lock and filter script files beside the output"),
			)
		}
	}()

	result := Result{
		OutputPath: req.OutputPath,
		Duration:   job.Duration,
		FrameRate:  job.FPS,
		Width:      job.Width,
		Height:     job.Height,
		Overlays:   len(job.Plan.Overlays),
		Skipped:    job.Plan.Skipped,
		Warnings:   job.ParseWarnings,
	}
	for _, warning := range job.ParseWarnings {
		logging.WarnWithContext(logger, "subtitle entry dropped", "subtitle_entry_dropped",
			logging.String("entry", warning.String()),
			logging.String(logging.FieldImpact, "entry will not be captioned"),
			logging.String(logging.FieldErrorHint, "fix the entry in "+req.SRTPath),
		)
	}
	for _, skipped := range job.Plan.Skipped {
		logging.WarnWithContext(logger, "caption word skipped", "caption_word_skipped",
			logging.String("word", skipped.String()),
			logging.String(logging.FieldImpact, "word will not appear on screen"),
		)
	}

	logger.Info("rendering final video",
		logging.String(logging.FieldEventType, "render_started"),
		logging.String("output", req.OutputPath),
		logging.Float64("duration_seconds", job.Duration),
		logging.Float64("fps", job.FPS),
		logging.Int("overlays", len(job.Plan.Overlays)),
	)

	partial := partialPath(req.OutputPath)
	if err := e.run(ctx, e.settings.FFmpegBinary, e.encodeArgs(job, partial)...); err != nil {
		_ = os.Remove(partial)
		return Result{}, services.Wrap(services.ErrRender, "render", "encode", "ffmpeg failed", err)
	}
	if info, err := os.Stat(partial); err != nil || info.Size() == 0 {
		_ = os.Remove(partial)
		return Result{}, services.Wrap(services.ErrRender, "render", "encode", "ffmpeg produced no output", err)
	}
	if err := os.Rename(partial, req.OutputPath); err != nil {
		_ = os.Remove(partial)
		return Result{}, services.Wrap(services.ErrRender, "render", "finalize", req.OutputPath, err)
	}

	if req.CaptionsVTTPath != "" {
		if err := captions.ExportWebVTTFile(req.CaptionsVTTPath, job.Plan.Overlays); err != nil {
			logging.WarnWithContext(logger, "caption sidecar not written", "captions_vtt_failed",
				logging.Error(err),
				logging.String("path", req.CaptionsVTTPath),
				logging.String(logging.FieldImpact, "video is complete but has no WebVTT sidecar"),
			)
		} else {
			result.CaptionsVTTPath = req.CaptionsVTTPath
		}
	}

	result.Elapsed = time.Since(started)
	logger.Info("final video written",
		logging.String(logging.FieldEventType, "render_completed"),
		logging.String("output", req.OutputPath),
		logging.Duration(logging.FieldElapsed, result.Elapsed),
		logging.Int("skipped_words", len(result.Skipped)),
	)
	return result, nil
}

func (e *Engine) encodeArgs(job *Job, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", job.Video.Path,
		"-i", job.Audio.Path,
		"-filter_complex_script", job.scriptPath,
		"-map", "[vout]",
		"-map", "1:a:0",
		"-t", formatSeconds(job.Duration),
		"-r", strconv.FormatFloat(job.FPS, 'f', -1, 64),
		"-c:v", e.settings.VideoCodec,
		"-preset", e.settings.Preset,
		"-threads", strconv.Itoa(e.settings.Threads),
		"-c:a", e.settings.AudioCodec,
		"-movflags", "+faststart",
		output,
	}
}

// partialPath keeps the destination extension so ffmpeg picks the same muxer.
func partialPath(output string) string {
	dir, base := filepath.Split(output)
	ext := filepath.Ext(base)
	return filepath.Join(dir, "."+strings.TrimSuffix(base, ext)+".partial"+ext)
}

func (e *Engine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
