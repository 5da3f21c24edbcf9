package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"storyreel/internal/config"
)

// Requirement is an external program the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	// Optional requirements only degrade a feature when missing.
	Optional bool
}

// Status is a Requirement after a PATH lookup. Path is the resolved
// executable when Available.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Check resolves every requirement on PATH.
func Check(requirements []Requirement) []Status {
	statuses := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		statuses[i] = lookup(req)
	}
	return statuses
}

func lookup(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "no command configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("%s not found on PATH", req.Command)
		return status
	}
	status.Available, status.Path = true, path
	return status
}

// FirstMissing returns the first unavailable required dependency.
func FirstMissing(statuses []Status) (Status, bool) {
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			return status, true
		}
	}
	return Status{}, false
}

// Requirements lists the programs the configured providers run. ffmpeg and
// ffprobe are always needed; edge-tts and uvx only for their providers.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{Name: "FFmpeg", Command: cfg.Render.FFmpegBinary, Description: "encodes the captioned video and downmixes narration for WhisperX"},
		{Name: "FFprobe", Command: ResolveFFprobe(cfg.Render.FFmpegBinary, cfg.Render.FFprobeBinary), Description: "reads stream sizes, frame rates and durations"},
	}
	switch cfg.Speech.Provider {
	case config.ProviderEdge:
		reqs = append(reqs, Requirement{Name: "edge-tts", Command: cfg.Speech.EdgeBinary, Description: "synthesizes narration"})
	}
	switch cfg.Transcription.Provider {
	case config.ProviderWhisperX:
		reqs = append(reqs, Requirement{Name: "uvx", Command: "uvx", Description: "runs WhisperX in an isolated environment"})
	}
	return reqs
}
