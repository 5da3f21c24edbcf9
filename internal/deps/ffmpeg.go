package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultFFprobe = "ffprobe"

// ResolveFFprobe picks the ffprobe to run. A configured value other than
// the bare default wins; otherwise an executable ffprobe next to the resolved
// ffmpeg is preferred so both come from the same build, then PATH.
func ResolveFFprobe(ffmpegCommand, ffprobeCommand string) string {
	if cmd := strings.TrimSpace(ffprobeCommand); cmd != "" && cmd != defaultFFprobe {
		return cmd
	}
	ffmpeg, err := exec.LookPath(strings.TrimSpace(ffmpegCommand))
	if err != nil {
		return defaultFFprobe
	}
	sibling := filepath.Join(filepath.Dir(ffmpeg), defaultFFprobe)
	if runtime.GOOS == "windows" {
		sibling += ".exe"
	}
	if info, err := os.Stat(sibling); err == nil && info.Mode().IsRegular() && (runtime.GOOS == "windows" || info.Mode().Perm()&0o111 != 0) {
		return sibling
	}
	return defaultFFprobe
}
