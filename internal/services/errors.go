package services

import (
	"errors"
	"fmt"
	"strings"
)

// kindError is a classification marker. Wrapped errors keep it in their
// chain so Kind can report the label that the run history stores.
type kindError struct {
	label string
	text  string
}

func (e *kindError) Error() string { return e.text }

func marker(label, text string) error { return &kindError{label: label, text: text} }

var (
	ErrParse           = marker("parse", "parse error")
	ErrMissingResource = marker("missing_resource", "missing resource")
	ErrSynthesis       = marker("synthesis", "synthesis error")
	ErrTranscription   = marker("transcription", "transcription error")
	ErrRender          = marker("render", "render error")
	ErrValidation      = marker("validation", "validation error")
	ErrConfiguration   = marker("configuration", "configuration error")
	ErrExternalTool    = marker("external_tool", "external tool error")
)

// Wrap tags err with one of the markers above and prefixes it with
// "stage: operation: message". A nil marker means ErrExternalTool.
func Wrap(kind error, stage, operation, message string, err error) error {
	if kind == nil {
		kind = ErrExternalTool
	}
	detail := joinNonEmpty(stage, operation, message)
	if detail == "" {
		detail = "service failure"
	}
	if err == nil {
		return fmt.Errorf("%w: %s", kind, detail)
	}
	return fmt.Errorf("%w: %s: %w", kind, detail, err)
}

// Kind returns the label of the outermost marker in err's chain, "unknown"
// for unclassified errors and "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var kind *kindError
	if errors.As(err, &kind) {
		return kind.label
	}
	return "unknown"
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, ": ")
}
