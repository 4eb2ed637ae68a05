package encode

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"trackmux/internal/logging"
	"trackmux/internal/media/layout"
	"trackmux/internal/media/probe"
	"trackmux/internal/services"
	"trackmux/internal/workspace"
)

// StreamResult describes one re-encoded audio stream.
type StreamResult struct {
	Index       int
	Layout      string
	Equivalent  float64
	BitrateKbps int
	OutputPath  string
}

// EncodeStreams re-encodes every audio stream of the source into the
// workspace's audio directory, one opus file per stream named by the
// stream's absolute index. Streams are processed sequentially in ascending
// index order; any stage failure aborts the run, since the remux step
// assumes one output file per discovered stream.
func (e *Encoder) EncodeStreams(ctx context.Context, source string, ws *workspace.Workspace) ([]StreamResult, error) {
	result, err := e.inspect(ctx, e.binaries.FFprobe, source)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "encode", "inspect", source, err)
	}

	streams := result.StreamsOf(probe.MediumAudio)
	sort.Slice(streams, func(i, j int) bool { return streams[i].Index < streams[j].Index })

	if err := ws.EnsureAudioDir(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "encode", "workspace", "", err)
	}

	results := make([]StreamResult, 0, len(streams))
	for _, stream := range streams {
		equivalent := layout.ForStream(stream)
		bitrate := layout.BitrateKbps(equivalent)
		output := ws.StreamFile(stream.Index)

		e.logger.Info("encoding audio stream",
			logging.Int(logging.FieldStream, stream.Index),
			logging.String("channel_layout", stream.ChannelLayout),
			logging.Float64("channel_equivalent", equivalent),
			logging.Int("bitrate_kbps", bitrate),
		)

		if err := e.encodeStream(ctx, source, stream.Index, bitrate, output); err != nil {
			return nil, err
		}
		result := StreamResult{
			Index:       stream.Index,
			Layout:      stream.ChannelLayout,
			Equivalent:  equivalent,
			BitrateKbps: bitrate,
			OutputPath:  output,
		}
		if e.observer != nil {
			e.observer(result)
		}
		results = append(results, result)
	}
	return results, nil
}

// encodeStream runs one extraction/encode pair: ffmpeg demuxes exactly one
// audio stream to FLAC on stdout, opusenc consumes it. The two processes run
// concurrently; both are waited on before returning.
func (e *Encoder) encodeStream(ctx context.Context, source string, index, bitrateKbps int, output string) error {
	extract := commandContext(ctx, e.binaries.FFmpeg, extractArgs(source, index)...)
	lossy := commandContext(ctx, e.binaries.Opusenc, opusencArgs(bitrateKbps, output)...)

	var extractErr, lossyErr bytes.Buffer
	extract.Stderr = &extractErr
	lossy.Stderr = &lossyErr

	pipe, err := extract.StdoutPipe()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "extract", "connect pipe", err)
	}
	lossy.Stdin = pipe

	if err := extract.Start(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "extract",
			fmt.Sprintf("spawn for stream %d", index), err)
	}
	if err := lossy.Start(); err != nil {
		// Reap the extraction process so it does not linger on a dead pipe.
		_ = pipe.Close()
		_ = extract.Wait()
		return services.Wrap(services.ErrExternalTool, "encode", "opusenc",
			fmt.Sprintf("spawn for stream %d", index), err)
	}
	// Drop our copy of the read end: opusenc now holds the only reader, so
	// if it dies mid-stream ffmpeg gets EPIPE instead of blocking on a pipe
	// we are keeping alive.
	_ = pipe.Close()

	lossyWait := lossy.Wait()
	extractWait := extract.Wait()

	// When opusenc fails, ffmpeg usually dies of the broken pipe; report the
	// encoder exit as the root cause rather than the secondary EPIPE.
	if lossyWait != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "opusenc",
			fmt.Sprintf("stream %d: %s", index, trimOutput(lossyErr)), lossyWait)
	}
	if extractWait != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "extract",
			fmt.Sprintf("stream %d: %s", index, trimOutput(extractErr)), extractWait)
	}
	return nil
}

// extractArgs demuxes one audio stream, selected by absolute index, into a
// lossless FLAC stream on stdout. Video, subtitle, and data streams are
// excluded; only the selected stream's own metadata is carried over.
func extractArgs(source string, index int) []string {
	return []string{
		"-hide_banner", "-v", "quiet",
		"-i", source,
		"-vn", "-sn", "-dn",
		"-map", "0:" + strconv.Itoa(index),
		"-map_metadata", "0:s:" + strconv.Itoa(index),
		"-f", "flac", "-",
	}
}

// opusencArgs encodes stdin in variable-bitrate mode at the given target.
func opusencArgs(bitrateKbps int, output string) []string {
	return []string{
		"--quiet", "--vbr",
		"--bitrate", strconv.Itoa(bitrateKbps) + "K",
		"-", output,
	}
}

func trimOutput(buf bytes.Buffer) string {
	return string(bytes.TrimSpace(buf.Bytes()))
}
