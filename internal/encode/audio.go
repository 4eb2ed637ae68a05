package encode

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/media/probe"
	"trackmux/internal/workspace"
)

// EncodeAudio extracts the source's audio into the workspace, blocking until
// every spawned process has exited.
//
// A source with no audio yields produced=false and no error: a transcode can
// proceed video-only. A top-level copy failure is likewise a soft-fail,
// reported through a warning that includes the failed invocation and exit
// status. Failures past that point (per-stream re-encode, final remux) are
// fatal, because the remux assumes a complete set of per-stream files.
//
// In single-track mode only the first audio stream in presentation order is
// carried through the intermediate copy, to keep the subtitles in sync, and
// the returned path is the remux composer's output. In standard mode all
// audio streams are stream-copied with the caller's extra parameters and the
// copied container is returned directly.
func (e *Encoder) EncodeAudio(ctx context.Context, source string, ws *workspace.Workspace, singleTrack bool, audioParams []string) (string, bool, error) {
	result, err := e.inspect(ctx, e.binaries.FFprobe, source)
	if err != nil {
		return "", false, err
	}
	if _, err := result.BestStream(probe.MediumAudio); err != nil {
		if errors.Is(err, probe.ErrStreamNotFound) {
			e.logger.Info("source has no audio", logging.String(logging.FieldSource, source))
			return "", false, nil
		}
		return "", false, err
	}

	intermediate := ws.IntermediatePath(singleTrack)
	args := copyArgs(source, intermediate, singleTrack, audioParams)

	cmd := commandContext(ctx, e.binaries.FFmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		attrs := []logging.Attr{
			logging.String(logging.FieldCommand, e.binaries.FFmpeg+" "+strings.Join(args, " ")),
			logging.String("output", strings.TrimSpace(string(output))),
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcode proceeds video-only"),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			attrs = append(attrs, logging.Int(logging.FieldExitCode, exitErr.ExitCode()))
		}
		logging.WarnWithContext(e.logger, "audio copy failed, continuing without audio", "audio_copy_failed", attrs...)
		return "", false, nil
	}

	if !singleTrack {
		return intermediate, true, nil
	}

	final := ws.FinalAudioPath()
	if err := e.MuxOpus(ctx, source, intermediate, final, ws); err != nil {
		return "", false, err
	}
	return final, true, nil
}

// copyArgs builds the top-level stream-copy invocation. Single-track mode
// maps exactly the first audio stream plus any subtitle streams; standard
// mode maps everything except video and data and appends the caller's
// parameters.
func copyArgs(source, output string, singleTrack bool, audioParams []string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", source,
		"-map_metadata", "0",
		"-vn", "-dn",
		"-c", "copy",
	}
	if singleTrack {
		args = append(args, "-map", "0:a:0", "-map", "0:s?")
	} else {
		args = append(args, "-map", "0")
		args = append(args, audioParams...)
	}
	return append(args, output)
}
