package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/render"
	"storyreel/internal/services"
	"storyreel/internal/speech"
	"storyreel/internal/story"
	"storyreel/internal/transcribe"
)

// Stage names recorded in logs and history.
const (
	StageSynthesize = "synthesize"
	StageTranscribe = "transcribe"
	StageRender     = "render"
)

// Renderer composes the final video.
type Renderer interface {
	CreateFinalVideo(ctx context.Context, req render.Request) (render.Result, error)
}

// Recorder persists run progress. *history.Store satisfies it.
type Recorder interface {
	Begin(ctx context.Context, runID, storyTitle string) error
	SetStage(ctx context.Context, runID, stage string) error
	Finish(ctx context.Context, runID string, outcome history.Outcome) error
}

// languageSynthesizer is implemented by synthesizers that pick a voice per language.
type languageSynthesizer interface {
	ForLanguage(lang string) speech.Synthesizer
}

// Options wires a Pipeline. History is optional.
type Options struct {
	Synthesizer speech.Synthesizer
	Transcriber transcribe.Transcriber
	Renderer    Renderer
	History     Recorder
	Layout      Layout
	Logger      *slog.Logger
	// Concurrency and RequestsPerMinute bound NarrateBatch; zero means 1 and unlimited.
	Concurrency       int
	RequestsPerMinute int
}

// Pipeline runs stories through narration, transcription and rendering.
type Pipeline struct {
	synthesizer       speech.Synthesizer
	transcriber       transcribe.Transcriber
	renderer          Renderer
	history           Recorder
	layout            Layout
	logger            *slog.Logger
	concurrency       int
	requestsPerMinute int
	now               func() time.Time
	newRunID          func() string
}

// New validates the collaborators and builds a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Synthesizer == nil {
		return nil, errors.New("pipeline: synthesizer is required")
	}
	if opts.Transcriber == nil {
		return nil, errors.New("pipeline: transcriber is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("pipeline: renderer is required")
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		synthesizer:       opts.Synthesizer,
		transcriber:       opts.Transcriber,
		renderer:          opts.Renderer,
		history:           opts.History,
		layout:            opts.Layout,
		logger:            logging.NewComponentLogger(opts.Logger, "pipeline"),
		concurrency:       concurrency,
		requestsPerMinute: opts.RequestsPerMinute,
		now:               time.Now,
		newRunID:          func() string { return uuid.NewString() },
	}, nil
}

// RunRequest describes one end-to-end run.
type RunRequest struct {
	Story     story.Story
	VideoPath string
	// TestDuration truncates the render when positive.
	TestDuration float64
	// SkipExisting reuses the newest narration and subtitles from an earlier run.
	SkipExisting bool
	// CaptionsVTT writes a WebVTT sidecar beside the video.
	CaptionsVTT bool
}

// RunResult reports the artifacts of a run.
type RunResult struct {
	RunID        string
	AudioPath    string
	SubtitlePath string
	ReusedAudio  bool
	ReusedSRT    bool
	Render       render.Result
}

// Run executes every stage for req.Story. The run is recorded in history
// whether or not it succeeds.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (result RunResult, err error) {
	result.RunID = p.newRunID()
	ctx = services.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, p.logger)

	if err := p.validate(req); err != nil {
		return result, err
	}
	if err := p.layout.EnsureDirectories(); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "pipeline", "prepare directories", "", err)
	}

	p.recordBegin(ctx, logger, result.RunID, req.Story.Title)
	stage := StageSynthesize
	defer func() {
		outcome := history.Outcome{Stage: stage, Err: err}
		if err == nil {
			outcome.OutputPath = result.Render.OutputPath
		}
		p.recordFinish(ctx, logger, result.RunID, outcome)
	}()

	safeName := req.Story.SafeName()
	ts := Timestamp(p.now())
	lang := req.Story.Language()

	logger.Info("pipeline run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("story", req.Story.Title),
		logging.String("language", lang),
		logging.String("video", req.VideoPath),
	)

	result.AudioPath, result.ReusedAudio, err = p.stage(ctx, result.RunID, StageSynthesize, func(ctx context.Context) (string, bool, error) {
		if req.SkipExisting {
			if existing, ok := p.layout.LatestAudio(safeName); ok {
				return existing, true, nil
			}
		}
		path := p.layout.AudioPath(safeName, ts)
		return path, false, p.synthesizerFor(lang).Synthesize(ctx, req.Story.NarrationText(), path)
	})
	if err != nil {
		return result, err
	}

	stage = StageTranscribe
	result.SubtitlePath, result.ReusedSRT, err = p.stage(ctx, result.RunID, StageTranscribe, func(ctx context.Context) (string, bool, error) {
		if req.SkipExisting && result.ReusedAudio {
			if existing, ok := p.layout.LatestSubtitles(safeName); ok {
				return existing, true, nil
			}
		}
		path := p.layout.SubtitlePath(safeName, ts)
		segments, err := p.transcriber.Transcribe(ctx, result.AudioPath, lang)
		if err != nil {
			return path, false, err
		}
		return path, false, transcribe.WriteSRT(path, segments)
	})
	if err != nil {
		return result, err
	}

	stage = StageRender
	outputPath := p.layout.OutputPath(safeName, ts)
	_, _, err = p.stage(ctx, result.RunID, StageRender, func(ctx context.Context) (string, bool, error) {
		renderReq := render.Request{
			VideoPath:    req.VideoPath,
			AudioPath:    result.AudioPath,
			SRTPath:      result.SubtitlePath,
			OutputPath:   outputPath,
			TestDuration: req.TestDuration,
		}
		if req.CaptionsVTT {
			renderReq.CaptionsVTTPath = p.layout.CaptionsPath(outputPath)
		}
		var renderErr error
		result.Render, renderErr = p.renderer.CreateFinalVideo(ctx, renderReq)
		return outputPath, false, renderErr
	})
	if err != nil {
		return result, err
	}

	logger.Info("pipeline run completed",
		logging.String(logging.FieldEventType, "run_completed"),
		logging.String("output", result.Render.OutputPath),
		logging.Bool("reused_audio", result.ReusedAudio),
		logging.Bool("reused_subtitles", result.ReusedSRT),
	)
	return result, nil
}

// stage runs fn under a stage-scoped context and logs its start and outcome.
func (p *Pipeline) stage(ctx context.Context, runID, name string, fn func(context.Context) (string, bool, error)) (string, bool, error) {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, p.logger)
	if p.history != nil {
		if err := p.history.SetStage(stageCtx, runID, name); err != nil {
			logger.Debug("history stage update failed", logging.Error(err))
		}
	}

	started := time.Now()
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))
	path, reused, err := fn(stageCtx)
	if err != nil {
		logging.ErrorWithContext(logger, "stage failed", "stage_failure", logging.Error(err))
		return path, reused, err
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("path", path),
		logging.Bool("reused", reused),
		logging.Duration(logging.FieldElapsed, time.Since(started)),
	)
	return path, reused, nil
}

func (p *Pipeline) validate(req RunRequest) error {
	if err := req.Story.Validate(0); err != nil {
		return services.Wrap(services.ErrValidation, "pipeline", "validate story", req.Story.Title, err)
	}
	if req.VideoPath == "" {
		return services.Wrap(services.ErrValidation, "pipeline", "validate request", "background video is required", nil)
	}
	if info, err := os.Stat(req.VideoPath); err != nil || info.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is a directory", req.VideoPath)
		}
		return services.Wrap(services.ErrMissingResource, "pipeline", "validate request", req.VideoPath, err)
	}
	return nil
}

func (p *Pipeline) synthesizerFor(lang string) speech.Synthesizer {
	if selector, ok := p.synthesizer.(languageSynthesizer); ok && lang != "" {
		return selector.ForLanguage(lang)
	}
	return p.synthesizer
}

func (p *Pipeline) recordBegin(ctx context.Context, logger *slog.Logger, runID, title string) {
	if p.history == nil {
		return
	}
	if err := p.history.Begin(ctx, runID, title); err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in storyreel history"),
		)
	}
}

func (p *Pipeline) recordFinish(ctx context.Context, logger *slog.Logger, runID string, outcome history.Outcome) {
	if p.history == nil {
		return
	}
	// The run context may already be cancelled; the outcome is still worth keeping.
	if err := p.history.Finish(context.WithoutCancel(ctx), runID, outcome); err != nil {
		logging.WarnWithContext(logger, "run outcome not recorded", "history_finish_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "storyreel history shows this run as still running"),
		)
	}
}
