package preflight

import (
	"context"
	"fmt"

	"storyreel/internal/config"
)

// Result is the outcome of one check. Detail always names what was checked.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

func pass(name, format string, args ...any) Result {
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) Result {
	return Result{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// RunAll checks the directories a run writes to, the caption font when one
// is configured and the OpenAI key when a provider uses OpenAI.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	dirs := []struct{ name, path string }{
		{"Audio directory", cfg.Paths.AudioDir},
		{"Subtitles directory", cfg.Paths.SubtitlesDir},
		{"Output directory", cfg.Paths.OutputDir},
		{"State directory", cfg.Paths.StateDir},
	}
	results := make([]Result, 0, len(dirs)+2)
	for _, dir := range dirs {
		results = append(results, CheckDirectoryAccess(dir.name, dir.path))
	}
	if cfg.Captions.FontFile != "" {
		results = append(results, CheckFontFile(cfg.Captions.FontFile))
	}
	if cfg.UsesOpenAI() {
		results = append(results, CheckOpenAIKey(ctx, cfg.OpenAI))
	}
	return results
}

// Failed filters results down to the failures.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
