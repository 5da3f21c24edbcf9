package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func openAIServer(t *testing.T, status int) (*httptest.Server, *string) {
	t.Helper()
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"whisper-1","object":"model","created":1,"owned_by":"openai"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &auth
}

func TestCheckOpenAIKey_OK(t *testing.T) {
	srv, auth := openAIServer(t, http.StatusOK)

	result := CheckOpenAIKey(context.Background(), config.OpenAI{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if *auth != "Bearer sk-test" {
		t.Fatalf("unexpected authorization header %q", *auth)
	}
}

func TestCheckOpenAIKey_BadKey(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusUnauthorized)

	result := CheckOpenAIKey(context.Background(), config.OpenAI{APIKey: "sk-bad"}, option.WithBaseURL(srv.URL+"/v1"))
	if result.Passed {
		t.Fatal("expected failure for bad key")
	}
	if result.Detail != "auth failed (invalid api key)" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckOpenAIKey_ServerError(t *testing.T) {
	srv, _ := openAIServer(t, http.StatusServiceUnavailable)

	result := CheckOpenAIKey(context.Background(), config.OpenAI{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if result.Passed || result.Detail != "check failed (503)" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckOpenAIKey_MissingKey(t *testing.T) {
	result := CheckOpenAIKey(context.Background(), config.OpenAI{})
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestRunAll_SkipsOpenAIForLocalProviders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, r := range RunAll(context.Background(), cfg) {
		if r.Name == "OpenAI API" {
			t.Fatalf("OpenAI check should not run for edge-tts and whisperx, got %+v", r)
		}
	}
}

func TestCheckFontFile(t *testing.T) {
	if r := CheckFontFile(""); !r.Passed {
		t.Fatalf("empty font should use ffmpeg default, got %+v", r)
	}
	font := filepath.Join(t.TempDir(), "Inter.ttf")
	if err := os.WriteFile(font, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFontFile(font); !r.Passed {
		t.Fatalf("expected pass, got %+v", r)
	}
	if r := CheckFontFile(filepath.Join(t.TempDir(), "missing.ttf")); r.Passed {
		t.Fatal("expected failure for missing font")
	}
}

func TestCheckHistory(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()

	result := CheckHistory(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected fresh ledger to pass, got %s", result.Detail)
	}

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Begin(context.Background(), "run-1", "Title"); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	result = CheckHistory(context.Background(), &cfg)
	if !result.Passed || result.Detail != cfg.HistoryPath()+" (last run running)" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.SubtitlesDir = filepath.Join(base, "subtitles")
	cfg.Paths.OutputDir = filepath.Join(base, "final_videos")
	cfg.Paths.StateDir = filepath.Join(base, "missing")
	for _, dir := range []string{cfg.Paths.AudioDir, cfg.Paths.SubtitlesDir, cfg.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 directory checks, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "State directory" {
		t.Fatalf("expected only the state directory to fail, got %+v", failed)
	}
}

func TestRunAll_IncludesOpenAIWhenSelected(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOpenAI(""))

	results := RunAll(context.Background(), cfg)
	last := results[len(results)-1]
	if last.Name != "OpenAI API" || last.Passed {
		t.Fatalf("expected failing OpenAI check, got %+v", last)
	}
}
