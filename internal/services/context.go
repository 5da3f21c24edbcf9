package services

import "context"

// runScope is the pipeline position carried through a context.
type runScope struct {
	runID string
	stage string
}

type runScopeKey struct{}

func scopeOf(ctx context.Context) runScope {
	scope, _ := ctx.Value(runScopeKey{}).(runScope)
	return scope
}

// WithRunID tags ctx with a history run id. An empty id leaves ctx unchanged.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	scope := scopeOf(ctx)
	scope.runID = id
	return context.WithValue(ctx, runScopeKey{}, scope)
}

// WithStage tags ctx with the pipeline stage; the run id is kept.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	scope := scopeOf(ctx)
	scope.stage = stage
	return context.WithValue(ctx, runScopeKey{}, scope)
}

func RunIDFromContext(ctx context.Context) (string, bool) {
	id := scopeOf(ctx).runID
	return id, id != ""
}

func StageFromContext(ctx context.Context) (string, bool) {
	stage := scopeOf(ctx).stage
	return stage, stage != ""
}
