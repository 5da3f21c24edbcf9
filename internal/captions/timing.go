package captions

import "math"

// OverrunPolicy decides what happens when the natural schedule runs past the
// end of its window.
type OverrunPolicy int

const (
	// OverrunSlack lets the final word end up to one gap past the window end.
	OverrunSlack OverrunPolicy = iota
	// OverrunClamp compresses the schedule so the final word ends inside the window.
	OverrunClamp
)

// ParseOverrunPolicy maps a config value to a policy, defaulting to slack.
func ParseOverrunPolicy(value string) OverrunPolicy {
	if value == "clamp" {
		return OverrunClamp
	}
	return OverrunSlack
}

// WordTiming is one word's display window in seconds.
type WordTiming struct {
	Word  string
	Start float64
	End   float64
}

// TimingOptions tunes the word allocator.
type TimingOptions struct {
	// MaxWordSeconds caps a single word's base duration.
	MaxWordSeconds float64
	// MaxGapSeconds caps the pause inserted after each word.
	MaxGapSeconds float64
	// GapRatio sizes the pause relative to the base duration.
	GapRatio float64
	// ReferenceLength is the word length that earns the full base duration.
	ReferenceLength float64
	Overrun         OverrunPolicy
}

// DefaultTimingOptions returns the snappy short-form pacing.
func DefaultTimingOptions() TimingOptions {
	return TimingOptions{
		MaxWordSeconds:  0.4,
		MaxGapSeconds:   0.1,
		GapRatio:        0.2,
		ReferenceLength: 5,
		Overrun:         OverrunSlack,
	}
}

// Allocator spreads a subtitle's words across its display window.
type Allocator struct {
	opts TimingOptions
}

// NewAllocator builds an allocator. Non-positive durations, ratios and lengths
// fall back to defaults; a zero MaxGapSeconds disables the pause.
func NewAllocator(opts TimingOptions) *Allocator {
	defaults := DefaultTimingOptions()
	if opts.MaxWordSeconds <= 0 {
		opts.MaxWordSeconds = defaults.MaxWordSeconds
	}
	if opts.MaxGapSeconds < 0 {
		opts.MaxGapSeconds = defaults.MaxGapSeconds
	}
	if opts.GapRatio <= 0 {
		opts.GapRatio = defaults.GapRatio
	}
	if opts.ReferenceLength <= 0 {
		opts.ReferenceLength = defaults.ReferenceLength
	}
	return &Allocator{opts: opts}
}

// Options reports the effective options.
func (a *Allocator) Options() TimingOptions {
	return a.opts
}

// Allocate schedules the words of text inside [start, end]. Each word gets
// min(base*len/ref, base) seconds where base = min(MaxWordSeconds, window/n),
// followed by a gap of min(MaxGapSeconds, base*GapRatio). Words are placed left
// to right without overlap, the first starting exactly at start.
//
// Text without words, or a window that is not positive, yields no timings.
func (a *Allocator) Allocate(text string, start, end float64) []WordTiming {
	return a.AllocateWords(SplitWords(text), start, end)
}

// AllocateWords is Allocate for pre-tokenized words.
func (a *Allocator) AllocateWords(words []string, start, end float64) []WordTiming {
	total := end - start
	if len(words) == 0 || !(total > 0) || math.IsInf(total, 0) {
		return nil
	}

	base := math.Min(a.opts.MaxWordSeconds, total/float64(len(words)))
	gap := math.Min(a.opts.MaxGapSeconds, base*a.opts.GapRatio)

	timings := make([]WordTiming, 0, len(words))
	cursor := start
	for _, word := range words {
		duration := math.Min(base*float64(wordLength(word))/a.opts.ReferenceLength, base)
		timings = append(timings, WordTiming{Word: word, Start: cursor, End: cursor + duration})
		cursor += duration + gap
	}

	limit := end + gap
	if a.opts.Overrun == OverrunClamp {
		limit = end
	}
	fitWithin(timings, start, limit)
	return timings
}

// fitWithin rescales the schedule around start when the last word ends past
// limit. Scaling keeps word order, relative spacing and the first start.
func fitWithin(timings []WordTiming, start, limit float64) {
	last := timings[len(timings)-1].End
	if last <= limit {
		return
	}
	scale := (limit - start) / (last - start)
	for i := range timings {
		timings[i].Start = start + (timings[i].Start-start)*scale
		timings[i].End = start + (timings[i].End-start)*scale
	}
	timings[len(timings)-1].End = math.Min(timings[len(timings)-1].End, limit)
}
