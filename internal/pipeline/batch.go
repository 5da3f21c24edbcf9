package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"storyreel/internal/logging"
	"storyreel/internal/services"
	"storyreel/internal/story"
)

// Narration is one synthesized story from a batch.
type Narration struct {
	Index     int
	Title     string
	AudioPath string
	Err       error
}

// NarrateBatch synthesizes every story into dir as story_<name>.mp3. Stories
// run concurrently up to the configured limit and synthesis requests are
// spread to respect the per-minute rate. A failing story does not stop the
// others; all failures are returned joined, and the narrations slice reports
// each story's outcome in input order.
func (p *Pipeline) NarrateBatch(ctx context.Context, stories []story.Story, dir string) ([]Narration, error) {
	if dir == "" {
		dir = filepath.Join(p.layout.AudioDir, "audio_"+Timestamp(p.now()))
	}
	logger := logging.WithContext(services.WithStage(ctx, StageSynthesize), p.logger)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if p.requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.requestsPerMinute)), 1)
	}

	results := make([]Narration, len(stories))
	var (
		mu   sync.Mutex
		errs []error
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)

	seen := make(map[string]bool, len(stories))
	for i, st := range stories {
		results[i] = Narration{Index: i, Title: st.Title}
		name := st.SafeName()
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}
		seen[name] = true
		path := filepath.Join(dir, "story_"+name+".mp3")
		group.Go(func() error {
			err := limiter.Wait(groupCtx)
			if err == nil {
				err = p.synthesizerFor(st.Language()).Synthesize(groupCtx, st.NarrationText(), path)
			}
			if err != nil {
				logging.WarnWithContext(logger, "story narration failed", "narration_failed",
					logging.String("story", st.Title),
					logging.Error(err),
					logging.String(logging.FieldImpact, "story has no audio"),
				)
				results[i].Err = err
				mu.Lock()
				errs = append(errs, fmt.Errorf("story %d %q: %w", i+1, st.Title, err))
				mu.Unlock()
				return nil
			}
			results[i].AudioPath = path
			logger.Info("story narrated",
				logging.String(logging.FieldEventType, "narration_complete"),
				logging.String("story", st.Title),
				logging.String("path", path),
			)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return results, errors.Join(errs...)
}
