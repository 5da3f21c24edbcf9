package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// probeEntries limits ffprobe to the fields the renderer reads.
const probeEntries = "stream=codec_name,codec_type,duration,width,height,avg_frame_rate,r_frame_rate,sample_rate,channels:format=duration"

// Result is the decoded ffprobe report for one media file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Duration     string `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	SampleRate   string `json:"sample_rate"`
	Channels     int    `json:"channels"`
}

type Format struct {
	Duration string `json:"duration"`
}

// Inspect probes path with the given ffprobe binary ("ffprobe" when empty).
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe: no input path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-show_entries", probeEntries, "-of", "json", "--", path)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Result{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, msg)
		}
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return Decode(output)
}

// Decode parses ffprobe's JSON writer output.
func Decode(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	return result, nil
}

func (r Result) VideoStream() (Stream, bool) { return r.stream("video") }

func (r Result) AudioStream() (Stream, bool) { return r.stream("audio") }

func (r Result) stream(codecType string) (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, codecType) {
			return s, true
		}
	}
	return Stream{}, false
}

// DurationSeconds is the container duration, or the longest stream when the
// container does not report one. Zero means unknown.
func (r Result) DurationSeconds() float64 {
	if d := number(r.Format.Duration); d > 0 {
		return d
	}
	longest := 0.0
	for _, s := range r.Streams {
		longest = max(longest, number(s.Duration))
	}
	return longest
}

// FrameRate prefers avg_frame_rate over r_frame_rate. Zero means unknown.
func (s Stream) FrameRate() float64 {
	for _, value := range []string{s.AvgFrameRate, s.RFrameRate} {
		if rate := rational(value); rate > 0 {
			return rate
		}
	}
	return 0
}

// rational reads "num/den" or a plain decimal; anything unusable is zero.
func rational(value string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok {
		return number(num)
	}
	n, d := number(num), number(den)
	if n <= 0 || d <= 0 {
		return 0
	}
	return n / d
}

// number parses a non-negative ffprobe decimal; "N/A", garbage and NaN read
// as zero.
func number(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || parsed < 0 {
		return 0
	}
	return parsed
}
