package captions

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"storyreel/internal/subtitles"
)

// Style is the fixed look of every caption plate.
type Style struct {
	FontSize    int
	FontColor   string
	FontFile    string
	BoxColor    string
	BoxOpacity  float64
	BorderColor string
	BorderWidth int
}

// DefaultStyle is white text with a black outline on a translucent dark plate.
func DefaultStyle() Style {
	return Style{
		FontSize:    40,
		FontColor:   "white",
		BoxColor:    "black",
		BoxOpacity:  0.6,
		BorderColor: "black",
		BorderWidth: 2,
	}
}

// Anchor positions an overlay inside the frame.
type Anchor string

const AnchorCenter Anchor = "center"

// Overlay is a single word drawn over the video between Start and End.
type Overlay struct {
	Text   string
	Style  Style
	Anchor Anchor
	// Width is the plate width in pixels; plates span the full frame.
	Width int
	Start float64
	End   float64
}

// Skipped records a word the planner could not turn into an overlay.
type Skipped struct {
	Word   string
	Start  float64
	Reason string
}

func (s Skipped) String() string {
	return fmt.Sprintf("%q at %.3fs: %s", s.Word, s.Start, s.Reason)
}

// Plan is the folded result of planning a run of word timings.
type Plan struct {
	Overlays []Overlay
	Skipped  []Skipped
}

// Append merges other into p preserving order.
func (p *Plan) Append(other Plan) {
	p.Overlays = append(p.Overlays, other.Overlays...)
	p.Skipped = append(p.Skipped, other.Skipped...)
}

var (
	errEmptyWord      = errors.New("empty word")
	errInvalidUTF8    = errors.New("word is not valid UTF-8")
	errNonPrintable   = errors.New("word contains non-printable characters")
	errInvalidWindow  = errors.New("word window is not positive")
	errNegativeOffset = errors.New("word starts before zero")
)

// Planner turns word timings into styled, positioned overlays.
type Planner struct {
	style Style
	width int
}

// NewPlanner returns a planner for a frame width in pixels.
func NewPlanner(style Style, frameWidth int) *Planner {
	return &Planner{style: style, width: frameWidth}
}

// Overlay builds the overlay for one timed word or reports why it cannot be drawn.
func (p *Planner) Overlay(timing WordTiming) (Overlay, error) {
	switch {
	case timing.Word == "":
		return Overlay{}, errEmptyWord
	case !utf8.ValidString(timing.Word):
		return Overlay{}, errInvalidUTF8
	case timing.Start < 0:
		return Overlay{}, errNegativeOffset
	case !(timing.End > timing.Start):
		return Overlay{}, errInvalidWindow
	}
	for _, r := range timing.Word {
		if !unicode.IsPrint(r) {
			return Overlay{}, errNonPrintable
		}
	}
	return Overlay{
		Text:   timing.Word,
		Style:  p.style,
		Anchor: AnchorCenter,
		Width:  p.width,
		Start:  timing.Start,
		End:    timing.End,
	}, nil
}

// Plan folds timings into overlays. Words that fail are recorded in Skipped
// and planning continues with the next word.
func (p *Planner) Plan(timings []WordTiming) Plan {
	plan := Plan{Overlays: make([]Overlay, 0, len(timings))}
	for _, timing := range timings {
		overlay, err := p.Overlay(timing)
		if err != nil {
			plan.Skipped = append(plan.Skipped, Skipped{Word: timing.Word, Start: timing.Start, Reason: err.Error()})
			continue
		}
		plan.Overlays = append(plan.Overlays, overlay)
	}
	return plan
}

// Compose allocates and plans every subtitle entry in order.
func Compose(entries []subtitles.Entry, allocator *Allocator, planner *Planner) Plan {
	var plan Plan
	for _, entry := range entries {
		timings := allocator.Allocate(entry.Text, entry.Start, entry.End)
		plan.Append(planner.Plan(timings))
	}
	return plan
}
