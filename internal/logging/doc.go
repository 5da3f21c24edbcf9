// Package logging builds the slog loggers used by storyreel.
//
// Console output is one line per record with the run id and stage folded
// into the prefix; JSON output is what lands in storyreel.log. WithContext
// tags a logger with the run and stage carried by a context, and the
// WarnWithContext and ErrorWithContext helpers make sure warnings and
// failures carry an event type and a hint for the operator.
package logging
