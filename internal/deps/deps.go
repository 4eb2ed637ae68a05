package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"trackmux/internal/config"
)

// Requirement defines an external dependency trackmux relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults returns the requirements for the configured binaries. opusenc is
// only exercised by single-track mode, so it is optional when that mode is
// off.
func Defaults(cfg *config.Config) []Requirement {
	binaries := config.Binaries{FFmpeg: "ffmpeg", FFprobe: "ffprobe", Opusenc: "opusenc"}
	singleTrack := true
	if cfg != nil {
		binaries = cfg.Binaries
		singleTrack = cfg.Audio.SingleTrack
	}
	return []Requirement{
		{Name: "FFmpeg", Command: binaries.FFmpeg, Description: "Audio extraction, stream copy, and remuxing"},
		{Name: "FFprobe", Command: binaries.FFprobe, Description: "Container and stream metadata probing"},
		{Name: "opusenc", Command: binaries.Opusenc, Description: "Per-stream lossy audio encoding", Optional: !singleTrack},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
