package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"storyreel/internal/services"
)

// Entry is one numbered subtitle with its display window in seconds.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the length of the entry's display window.
func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// Warning records an entry or line the parser dropped.
type Warning struct {
	Line   int
	Index  int
	Reason string
}

func (w Warning) String() string {
	if w.Index > 0 {
		return fmt.Sprintf("line %d (entry %d): %s", w.Line, w.Index, w.Reason)
	}
	return fmt.Sprintf("line %d: %s", w.Line, w.Reason)
}

// Result holds the entries kept in source order plus every warning raised
// while parsing.
type Result struct {
	Entries  []Entry
	Warnings []Warning
}

type openEntry struct {
	entry     Entry
	line      int
	hasTiming bool
	hasText   bool
	timingErr string
}

type parser struct {
	result Result
	open   *openEntry
}

// ParseFile reads and parses the SRT file at path. A missing file is reported
// as ErrMissingResource.
func ParseFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, services.Wrap(services.ErrMissingResource, "subtitles", "open", path, err)
		}
		return Result{}, services.Wrap(services.ErrParse, "subtitles", "open", path, err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads SRT content line by line. A numeric-only line opens an entry
// unless the open entry is still waiting for its text. A timing line fills the
// open entry's window. The first text line becomes the entry text and further
// text lines are ignored. Entries lacking a valid timing line are dropped with
// a warning; nothing is filled in.
func Parse(r io.Reader) (Result, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		p.consume(lineNo, strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return Result{}, services.Wrap(services.ErrParse, "subtitles", "read", "", err)
	}
	p.flush()
	return p.result, nil
}

func (p *parser) consume(lineNo int, line string) {
	switch {
	case line == "":
		p.flush()
	case isNumeric(line) && (p.open == nil || !p.open.awaitingText()):
		p.flush()
		index, _ := strconv.Atoi(line)
		p.open = &openEntry{entry: Entry{Index: index}, line: lineNo}
	case strings.Contains(line, "-->"):
		p.timing(lineNo, line)
	default:
		p.text(lineNo, line)
	}
}

func (p *parser) timing(lineNo int, line string) {
	if p.open == nil {
		p.warn(lineNo, 0, "timing line without an entry index")
		return
	}
	if p.open.hasTiming || p.open.timingErr != "" {
		p.warn(lineNo, p.open.entry.Index, "duplicate timing line ignored")
		return
	}
	startText, endText, _ := strings.Cut(line, "-->")
	if strings.Contains(endText, "-->") {
		p.open.timingErr = "timing line has more than one arrow"
		return
	}
	start, err := DecodeTimestamp(startText)
	if err != nil {
		p.open.timingErr = fmt.Sprintf("bad start timestamp %q", strings.TrimSpace(startText))
		return
	}
	end, err := DecodeTimestamp(endText)
	if err != nil {
		p.open.timingErr = fmt.Sprintf("bad end timestamp %q", strings.TrimSpace(endText))
		return
	}
	p.open.entry.Start = start
	p.open.entry.End = end
	p.open.hasTiming = true
}

func (p *parser) text(lineNo int, line string) {
	if p.open == nil {
		p.warn(lineNo, 0, "text outside of an entry")
		return
	}
	if p.open.hasText {
		return
	}
	p.open.entry.Text = line
	p.open.hasText = true
}

func (p *parser) flush() {
	open := p.open
	p.open = nil
	if open == nil {
		return
	}
	entry := open.entry
	switch {
	case entry.Index <= 0:
		p.warn(open.line, entry.Index, "entry index must be positive")
	case open.timingErr != "":
		p.warn(open.line, entry.Index, open.timingErr)
	case !open.hasTiming:
		p.warn(open.line, entry.Index, "entry has no timing line")
	case entry.End <= entry.Start:
		p.warn(open.line, entry.Index, fmt.Sprintf("end %.3f is not after start %.3f", entry.End, entry.Start))
	default:
		p.result.Entries = append(p.result.Entries, entry)
	}
}

func (p *parser) warn(line, index int, reason string) {
	p.result.Warnings = append(p.result.Warnings, Warning{Line: line, Index: index, Reason: reason})
}

// awaitingText reports whether a numeric line should be read as the entry's
// caption rather than the next index.
func (o *openEntry) awaitingText() bool {
	return o.hasTiming && !o.hasText
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
