package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1080, "height": 1920,
     "avg_frame_rate": "30000/1001", "r_frame_rate": "30/1", "duration": "60.060000"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2,
     "avg_frame_rate": "0/0", "duration": "59.990000"}
  ],
  "format": {"filename": "bg.mp4", "duration": "60.060000", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}`

func TestDecodeAndHelpers(t *testing.T) {
	result, err := Decode([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	video, ok := result.VideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if video.Width != 1080 || video.Height != 1920 {
		t.Fatalf("unexpected dimensions %dx%d", video.Width, video.Height)
	}
	if rate := video.FrameRate(); math.Abs(rate-29.97002997) > 1e-6 {
		t.Fatalf("unexpected frame rate %v", rate)
	}
	audio, ok := result.AudioStream()
	if !ok || audio.CodecName != "aac" {
		t.Fatalf("unexpected audio stream %+v", audio)
	}
	if result.DurationSeconds() != 60.06 {
		t.Fatalf("unexpected duration %v", result.DurationSeconds())
	}
}

func TestDurationFallsBackToStreams(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", Duration: "8.5"}, {CodecType: "video", Duration: "N/A"}},
		Format:  Format{Duration: "N/A"},
	}
	if result.DurationSeconds() != 8.5 {
		t.Fatalf("expected stream fallback duration, got %v", result.DurationSeconds())
	}
	if (Result{}).DurationSeconds() != 0 {
		t.Fatal("expected zero duration for empty result")
	}
}

func TestFrameRateFallbacks(t *testing.T) {
	tests := []struct {
		stream Stream
		want   float64
	}{
		{Stream{AvgFrameRate: "25/1"}, 25},
		{Stream{AvgFrameRate: "0/0", RFrameRate: "24/1"}, 24},
		{Stream{AvgFrameRate: "bad", RFrameRate: "30"}, 30},
		{Stream{}, 0},
	}
	for _, tt := range tests {
		if got := tt.stream.FrameRate(); got != tt.want {
			t.Fatalf("FrameRate(%+v) = %v, want %v", tt.stream, got, tt.want)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectUsesBinary(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-ffprobe")
	body := "#!/bin/sh\ncat <<'JSON'\n" + samplePayload + "\nJSON\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	result, err := Inspect(context.Background(), script, "/media/bg.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if _, ok := result.VideoStream(); !ok {
		t.Fatal("expected video stream from fake ffprobe")
	}
	if _, err := Inspect(context.Background(), script, "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
