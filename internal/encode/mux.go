package encode

import (
	"context"
	"strconv"
	"strings"

	"trackmux/internal/logging"
	"trackmux/internal/services"
	"trackmux/internal/workspace"
)

// MuxOpus rebuilds the final audio container: every audio stream of the
// original source is independently re-encoded into the workspace's audio
// directory, then merged with the subtitle streams donated by the skeleton
// file. The skeleton exists only for that donation; its audio is discarded.
//
// Once entered there is no fallback path: any failure aborts the run and
// partial outputs are left on disk.
func (e *Encoder) MuxOpus(ctx context.Context, source, skeleton, output string, ws *workspace.Workspace) error {
	if err := ws.EnsureAudioDir(); err != nil {
		return services.Wrap(services.ErrConfiguration, "remux", "workspace", "", err)
	}

	results, err := e.EncodeStreams(ctx, source, ws)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(results))
	for _, result := range results {
		files = append(files, result.OutputPath)
	}

	args := mergeArgs(files, skeleton, output)
	e.logger.Info("merging encoded audio with subtitles",
		logging.Int("audio_inputs", len(files)),
		logging.String("skeleton", skeleton),
		logging.String("output", output),
	)

	cmd := commandContext(ctx, e.binaries.FFmpeg, args...)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "remux", "merge",
			strings.TrimSpace(string(combined)), err)
	}
	return nil
}

// mergeArgs builds the container-merge invocation. Inputs are the per-stream
// encoded files in ascending stream-index order followed by the skeleton;
// the maps select all subtitle streams from that last input and one audio
// stream from each earlier input. Everything is stream-copied.
func mergeArgs(streamFiles []string, skeleton, output string) []string {
	args := []string{"-y", "-hide_banner", "-v", "quiet"}
	for _, file := range streamFiles {
		args = append(args, "-i", file)
	}
	args = append(args, "-i", skeleton)

	skeletonInput := len(streamFiles)
	args = append(args, "-map", strconv.Itoa(skeletonInput)+":s?")
	for i := range streamFiles {
		args = append(args, "-map", strconv.Itoa(i)+":a:0")
	}

	return append(args, "-c", "copy", output)
}
