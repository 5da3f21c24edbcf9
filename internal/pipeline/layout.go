package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"storyreel/internal/config"
)

// TimestampFormat names run directories and outputs.
const TimestampFormat = "20060102_150405"

// Layout resolves where each pipeline artifact lives.
type Layout struct {
	AudioDir     string
	SubtitlesDir string
	OutputDir    string
}

// NewLayout reads the working directories from cfg.
func NewLayout(cfg *config.Config) Layout {
	return Layout{
		AudioDir:     cfg.Paths.AudioDir,
		SubtitlesDir: cfg.Paths.SubtitlesDir,
		OutputDir:    cfg.Paths.OutputDir,
	}
}

// EnsureDirectories creates the layout roots.
func (l Layout) EnsureDirectories() error {
	for _, dir := range []string{l.AudioDir, l.SubtitlesDir, l.OutputDir} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("layout directory is not configured")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Timestamp formats t for use in artifact names.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// AudioPath is audio_<ts>/story_<name>.mp3 under the audio directory.
func (l Layout) AudioPath(safeName, ts string) string {
	return filepath.Join(l.AudioDir, "audio_"+ts, "story_"+safeName+".mp3")
}

// SubtitlePath is subtitles_<ts>/<name>_subs.srt under the subtitles directory.
func (l Layout) SubtitlePath(safeName, ts string) string {
	return filepath.Join(l.SubtitlesDir, "subtitles_"+ts, safeName+"_subs.srt")
}

// OutputPath is final_<name>_<ts>.mp4 under the output directory.
func (l Layout) OutputPath(safeName, ts string) string {
	return filepath.Join(l.OutputDir, "final_"+safeName+"_"+ts+".mp4")
}

// CaptionsPath is the WebVTT sidecar beside an output.
func (l Layout) CaptionsPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".vtt"
}

// LatestAudio finds the newest non-empty narration for safeName from an earlier run.
func (l Layout) LatestAudio(safeName string) (string, bool) {
	return latestMatch(filepath.Join(l.AudioDir, "audio_*", "story_"+safeName+".mp3"))
}

// LatestSubtitles finds the newest non-empty SRT for safeName from an earlier run.
func (l Layout) LatestSubtitles(safeName string) (string, bool) {
	return latestMatch(filepath.Join(l.SubtitlesDir, "subtitles_*", safeName+"_subs.srt"))
}

// latestMatch relies on the timestamp format sorting lexicographically.
func latestMatch(pattern string) (string, bool) {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		if info, err := os.Stat(matches[i]); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			return matches[i], true
		}
	}
	return "", false
}
