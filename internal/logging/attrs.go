package logging

import (
	"log/slog"
	"time"

	"storyreel/internal/services"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error records err under "error". A nil error is logged as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with a component name. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, impact and
// error_hint. Callers override the defaults by passing those keys.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs, eventType, "the run continues without this step")
	logger.Warn(msg, toArgs(attrs)...)
}

// ErrorWithContext logs a failure with event_type, error_hint and, when an
// error attr is present, the error kind used by the run history.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	attrs = withDefaults(attrs, eventType, "")
	if !hasKey(attrs, FieldErrorKind) {
		for _, attr := range attrs {
			if err, ok := attr.Value.Any().(error); ok && attr.Key == FieldError {
				attrs = append(attrs, String(FieldErrorKind, services.Kind(err)))
				break
			}
		}
	}
	logger.Error(msg, toArgs(attrs)...)
}

func withDefaults(attrs []Attr, eventType, impact string) []Attr {
	if !hasKey(attrs, FieldEventType) {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasKey(attrs, FieldErrorHint) {
		attrs = append(attrs, String(FieldErrorHint, "run storyreel doctor to check tools and directories"))
	}
	if impact != "" && !hasKey(attrs, FieldImpact) {
		attrs = append(attrs, String(FieldImpact, impact))
	}
	return attrs
}

func hasKey(attrs []Attr, key string) bool {
	for _, attr := range attrs {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func toArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}
