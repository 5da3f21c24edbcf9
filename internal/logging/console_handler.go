package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

const consoleTimeLayout = "15:04:05.000"

// consoleHandler writes one logfmt-style line per record:
//
//	15:04:05.000 INFO  [pipeline] 01234567/render render complete output=/tmp/final.mp4
//
// component, run_id and stage are lifted out of the attributes into the
// prefix. Levels are colored when the writer is a terminal.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	color     bool
	addSource bool
	prefix    string
	attrs     []slog.Attr
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: lvl, color: color, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.prefix, attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := append([]slog.Attr(nil), h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, qualify(h.prefix, []slog.Attr{attr})...)
		return true
	})

	var component, runID, stage string
	var fields strings.Builder
	for _, attr := range attrs {
		switch attr.Key {
		case FieldComponent:
			component = attr.Value.String()
		case FieldRunID:
			runID = attr.Value.String()
		case FieldStage:
			stage = attr.Value.String()
		default:
			fields.WriteByte(' ')
			fields.WriteString(attr.Key)
			fields.WriteByte('=')
			fields.WriteString(consoleValue(attr.Value))
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var line strings.Builder
	line.WriteString(ts.Local().Format(consoleTimeLayout))
	line.WriteByte(' ')
	line.WriteString(h.levelText(record.Level))
	if component != "" {
		line.WriteString(" [" + component + "]")
	}
	if scope := runScope(runID, stage); scope != "" {
		line.WriteString(" " + scope)
	}
	line.WriteString(" " + strings.TrimSpace(record.Message))
	line.WriteString(fields.String())
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&line, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

func (h *consoleHandler) levelText(level slog.Level) string {
	label := fmt.Sprintf("%-5s", level.String())
	if !h.color {
		return label
	}
	switch {
	case level >= slog.LevelError:
		return text.Colors{text.FgHiRed, text.Bold}.Sprint(label)
	case level >= slog.LevelWarn:
		return text.FgYellow.Sprint(label)
	case level >= slog.LevelInfo:
		return text.FgCyan.Sprint(label)
	default:
		return text.Faint.Sprint(label)
	}
}

// runScope renders "01234567/render": the short run id and the stage.
func runScope(runID, stage string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	switch {
	case runID != "" && stage != "":
		return runID + "/" + stage
	default:
		return runID + stage
	}
}

// qualify resolves attrs and flattens groups into dotted keys.
func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	var out []slog.Attr
	for _, attr := range attrs {
		if attr.Equal(slog.Attr{}) {
			continue
		}
		attr.Value = attr.Value.Resolve()
		if attr.Value.Kind() == slog.KindGroup {
			inner := prefix
			if attr.Key != "" {
				inner += attr.Key + "."
			}
			out = append(out, qualify(inner, attr.Value.Group())...)
			continue
		}
		attr.Key = prefix + attr.Key
		out = append(out, attr)
	}
	return out
}

func consoleValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindFloat64:
		s = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		s = v.Time().Local().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \"=\t\n") {
		return strconv.Quote(s)
	}
	return s
}
