package testsupport

import (
	"context"
	"testing"

	"storyreel/internal/config"
	"storyreel/internal/history"
)

// MustOpenHistory opens the run history at cfg.HistoryPath and closes it when
// the test ends.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close history: %v", err)
		}
	})
	return store
}

// RecordRun begins a run and, when outcome is non-nil, finishes it.
func RecordRun(t testing.TB, store *history.Store, runID, title string, outcome *history.Outcome) {
	t.Helper()
	ctx := context.Background()
	if err := store.Begin(ctx, runID, title); err != nil {
		t.Fatalf("begin run %s: %v", runID, err)
	}
	if outcome == nil {
		return
	}
	if err := store.Finish(ctx, runID, *outcome); err != nil {
		t.Fatalf("finish run %s: %v", runID, err)
	}
}
