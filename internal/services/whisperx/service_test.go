package whisperx

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleJSON = `{
  "segments": [
    {"start": 0.031, "end": 2.5, "text": " The Thing in the Walls.",
     "words": [{"word": "The", "start": 0.031, "end": 0.2, "score": 0.9}, {"word": "Walls.", "start": null, "end": null}]},
    {"start": 2.9, "end": 5.25, "text": " By night owl."}
  ],
  "language": "en"
}`

func TestTranscribeFile(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "work")
	var calls [][]string
	svc := NewService(Config{Model: "large-v3-turbo"}, "ffmpeg").WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if name == uvxCommand {
			return os.WriteFile(filepath.Join(workDir, "story_walls.json"), []byte(sampleJSON), 0o644)
		}
		return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), "/audio/story_walls.mp3", workDir, "english")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if len(calls) != 2 || calls[0][0] != "ffmpeg" || calls[1][0] != uvxCommand {
		t.Fatalf("unexpected calls: %v", calls)
	}
	if got := calls[0][len(calls[0])-1]; got != filepath.Join(workDir, "story_walls.wav") {
		t.Fatalf("extract dest = %s", got)
	}
	uvx := calls[1]
	for _, want := range []string{"--output_format json", "--language en", "--model large-v3-turbo", "--device cpu", "--vad_method silero"} {
		if !strings.Contains(strings.Join(uvx, " "), want) {
			t.Errorf("uvx args missing %q: %v", want, uvx)
		}
	}
	if len(result.Segments) != 2 || result.Language != "en" {
		t.Fatalf("result = %+v", result)
	}
	if result.Segments[0].Words[1].Start != nil {
		t.Fatalf("unaligned word should have no start")
	}
	if result.Segments[1].End != 5.25 {
		t.Fatalf("segment end = %v", result.Segments[1].End)
	}
}

func TestTranscribeFileMissingOutput(t *testing.T) {
	svc := NewService(Config{}, "").WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := svc.TranscribeFile(context.Background(), "/audio/a.mp3", t.TempDir(), ""); err == nil {
		t.Fatal("expected error when WhisperX writes no JSON")
	}
}

func TestBuildArgsCUDAAndPyannote(t *testing.T) {
	svc := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf_abc", BatchSize: 8}, "")
	args := svc.buildArgs("a.wav", "/out", "")
	if !slices.Contains(args, cudaIndexURL) || !slices.Contains(args, cudaDevice) {
		t.Fatalf("missing CUDA args: %v", args)
	}
	if !slices.Contains(args, "hf_abc") || !slices.Contains(args, "8") {
		t.Fatalf("missing hf token or batch size: %v", args)
	}
	if slices.Contains(args, "--language") {
		t.Fatalf("language should be omitted: %v", args)
	}
	if args[len(args)-1] != cudaDevice {
		t.Fatalf("device flags should close the command: %v", args)
	}
	if svc.Model() != DefaultModel {
		t.Fatalf("Model() = %s", svc.Model())
	}
}

func TestPyannoteWithoutTokenFallsBackToSilero(t *testing.T) {
	args := NewService(Config{VADMethod: VADMethodPyannote}, "").buildArgs("a.wav", "/out", "es")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--vad_method silero") || strings.Contains(joined, "--hf_token") {
		t.Fatalf("expected silero fallback: %v", args)
	}
	if !strings.Contains(joined, "--language es") {
		t.Fatalf("missing language: %v", args)
	}
}
