package logging

import (
	"context"
	"log/slog"

	"storyreel/internal/services"
)

const (
	FieldComponent = "component"
	// FieldRunID is the history run identifier; every pipeline log line carries it.
	FieldRunID = "run_id"
	// FieldStage names the pipeline stage: speech, subtitles or render.
	FieldStage = "stage"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	FieldError  = "error"
	// FieldElapsed holds stage and render durations; JSON output writes seconds.
	FieldElapsed = "elapsed"
	// FieldErrorKind matches services.Kind, as stored in the run history.
	FieldErrorKind = "error_kind"
)

// ContextFields returns the run_id and stage carried by ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext tags logger with the run and stage found in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
