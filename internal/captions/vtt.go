package captions

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/asticode/go-astisub"
)

// ExportWebVTT writes one WebVTT cue per overlay so the word-level captions
// can ship as a sidecar track next to the rendered video.
func ExportWebVTT(w io.Writer, overlays []Overlay) error {
	subs := astisub.NewSubtitles()
	for _, overlay := range overlays {
		subs.Items = append(subs.Items, &astisub.Item{
			StartAt: secondsToDuration(overlay.Start),
			EndAt:   secondsToDuration(overlay.End),
			Lines: []astisub.Line{{
				Items: []astisub.LineItem{{Text: overlay.Text}},
			}},
		})
	}
	if err := subs.WriteToWebVTT(w); err != nil {
		return fmt.Errorf("write webvtt: %w", err)
	}
	return nil
}

// ExportWebVTTFile writes the sidecar to path, creating parent directories.
func ExportWebVTTFile(path string, overlays []Overlay) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create caption directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create caption file: %w", err)
	}
	if err := ExportWebVTT(file, overlays); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	return file.Close()
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
