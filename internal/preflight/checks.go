package preflight

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"storyreel/internal/config"
	"storyreel/internal/deps"
	"storyreel/internal/history"
)

// CheckDirectoryAccess requires path to be a directory the process can list
// and create files in.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail(name, "%s (error: does not exist)", path)
	case err != nil:
		return fail(name, "%s (error: %v)", path, err)
	case !info.IsDir():
		return fail(name, "%s (error: is not a directory)", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(name, "%s (error: not writable: %v)", path, err)
	}
	return pass(name, "%s (read/write ok)", path)
}

// CheckFontFile requires a configured drawtext font to be a readable,
// non-empty file. No font means ffmpeg picks its default.
func CheckFontFile(path string) Result {
	const name = "Caption font"
	if path = strings.TrimSpace(path); path == "" {
		return pass(name, "ffmpeg default")
	}
	file, err := os.Open(path)
	if err != nil {
		return fail(name, "%s (error: %v)", path, err)
	}
	defer file.Close()
	if info, err := file.Stat(); err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return fail(name, "%s (error: not a font file)", path)
	}
	return pass(name, "%s", path)
}

// CheckHistory opens the run history and reports the status of the latest
// run.
func CheckHistory(ctx context.Context, cfg *config.Config) Result {
	const name = "Run history"
	if cfg == nil {
		return fail(name, "no configuration")
	}
	path := cfg.HistoryPath()
	store, err := history.Open(path)
	if errors.Is(err, history.ErrSchemaMismatch) {
		return fail(name, "%s (error: written by another storyreel version, move it aside)", path)
	}
	if err != nil {
		return fail(name, "%s (error: %v)", path, err)
	}
	defer store.Close()

	runs, err := store.Recent(ctx, 1)
	switch {
	case err != nil:
		return fail(name, "%s (error: %v)", path, err)
	case len(runs) == 0:
		return pass(name, "%s (no runs yet)", path)
	default:
		return pass(name, "%s (last run %s)", path, runs[0].Status)
	}
}

// CheckSystemDeps looks up the programs the configured providers run.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.Check(deps.Requirements(cfg))
}
