package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type checkState int

const (
	stateInfo checkState = iota
	statePass
	stateWarn
	stateFail
)

func (s checkState) label() string {
	switch s {
	case statePass:
		return "OK"
	case stateWarn:
		return "WARN"
	case stateFail:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (s checkState) color() string {
	switch s {
	case statePass:
		return "\x1b[32m"
	case stateWarn:
		return "\x1b[33m"
	case stateFail:
		return "\x1b[31m"
	default:
		return "\x1b[34m"
	}
}

const (
	ansiReset       = "\x1b[0m"
	reportLabelWide = 20
)

// report collects doctor output as titled sections of labelled status lines.
type report struct {
	color    bool
	lines    []string
	failures int
}

func newReport(w io.Writer) *report {
	return &report{color: isTerminal(w)}
}

func (r *report) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	if r.color {
		heading = stateInfo.color() + heading + ansiReset
		rule = stateInfo.color() + rule + ansiReset
	}
	r.lines = append(r.lines, heading, rule)
}

// add appends one status line; failing lines count toward failures.
func (r *report) add(label string, state checkState, message string) {
	if state == stateFail {
		r.failures++
	}
	status := "[" + state.label() + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("  %-*s %s", reportLabelWide, label+":", status)
	if r.color {
		line = state.color() + line + ansiReset
	}
	r.lines = append(r.lines, line)
}

func (r *report) String() string {
	return strings.Join(r.lines, "\n")
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
