package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"storyreel/internal/services"
)

// Write serializes entries in SRT form, one block per entry separated by a
// blank line. Each block is index, timing line, text.
func Write(w io.Writer, entries []Entry) error {
	buf := bufio.NewWriter(w)
	for _, entry := range entries {
		start, err := EncodeTimestamp(entry.Start)
		if err != nil {
			return fmt.Errorf("entry %d start: %w", entry.Index, err)
		}
		end, err := EncodeTimestamp(entry.End)
		if err != nil {
			return fmt.Errorf("entry %d end: %w", entry.Index, err)
		}
		if _, err := fmt.Fprintf(buf, "%d\n%s --> %s\n%s\n\n", entry.Index, start, end, entry.Text); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// WriteFile writes entries to path via a sibling temp file so readers never
// observe a half-written subtitle file.
func WriteFile(path string, entries []Entry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "subtitles", "write", "create directory", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "subtitles", "write", "create temp file", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := Write(tmp, entries); err != nil {
		_ = tmp.Close()
		cleanup()
		return services.Wrap(services.ErrExternalTool, "subtitles", "write", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return services.Wrap(services.ErrExternalTool, "subtitles", "write", "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return services.Wrap(services.ErrExternalTool, "subtitles", "write", "rename into place", err)
	}
	return nil
}
