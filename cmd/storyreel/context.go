package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/pipeline"
	"storyreel/internal/render"
	"storyreel/internal/services"
	"storyreel/internal/speech"
	"storyreel/internal/story"
	"storyreel/internal/transcribe"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", resolved, err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: "info", Format: "console"})
		}
		c.log = logger
	})
	return c.log
}

// loadStories reads the harvest file at path, or the newest one in the
// stories directory when path is empty.
func (c *commandContext) loadStories(path string) (story.Collection, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return story.Collection{}, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path, err = story.LatestFile(cfg.Paths.StoriesDir)
		if err != nil {
			return story.Collection{}, err
		}
	} else if path, err = config.ExpandPath(path); err != nil {
		return story.Collection{}, err
	}
	collection, err := story.LoadFile(path, cfg.Stories.MaxContentLength)
	if err != nil {
		return story.Collection{}, err
	}
	for _, rejected := range collection.Rejected {
		logging.WarnWithContext(c.logger(), "story skipped", "story_rejected",
			logging.String("story", rejected.String()),
			logging.String(logging.FieldImpact, "story is not offered for narration"),
		)
	}
	return collection, nil
}

func (c *commandContext) newEngine() (*render.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return render.NewEngineFromConfig(cfg, c.logger()), nil
}

// newPipeline wires the configured providers. The returned close function
// releases the history ledger.
func (c *commandContext) newPipeline() (*pipeline.Pipeline, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	synth, err := speech.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	transcriber, err := transcribe.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	engine, err := c.newEngine()
	if err != nil {
		return nil, nil, err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open run history: %w", err)
	}
	p, err := pipeline.New(pipeline.Options{
		Synthesizer:       synth,
		Transcriber:       transcriber,
		Renderer:          engine,
		History:           store,
		Layout:            pipeline.NewLayout(cfg),
		Logger:            c.logger(),
		Concurrency:       cfg.Speech.Concurrency,
		RequestsPerMinute: cfg.Speech.RequestsPerMinute,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return p, store.Close, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// selectStory resolves a 1-based index into the collection.
func selectStory(collection story.Collection, index int) (story.Story, error) {
	if len(collection.Stories) == 0 {
		return story.Story{}, fmt.Errorf("no usable stories in %s", collection.Path)
	}
	if index < 1 || index > len(collection.Stories) {
		return story.Story{}, fmt.Errorf("story index %d out of range (1-%d); run storyreel stories list", index, len(collection.Stories))
	}
	return collection.Stories[index-1], nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
