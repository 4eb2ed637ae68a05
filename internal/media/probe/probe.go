package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// ErrStreamNotFound indicates no stream of the requested medium exists.
var ErrStreamNotFound = errors.New("stream not found")

// ErrParametersUnavailable indicates a stream exists but its codec
// parameters could not be read from the container.
var ErrParametersUnavailable = errors.New("codec parameters unavailable")

// Medium is the content kind of a stream.
type Medium string

const (
	MediumVideo    Medium = "video"
	MediumAudio    Medium = "audio"
	MediumSubtitle Medium = "subtitle"
	MediumData     Medium = "data"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container. Index is the
// position among all streams, not the position within the stream's medium.
type Stream struct {
	Index         int               `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecType     string            `json:"codec_type"`
	PixFmt        string            `json:"pix_fmt"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	ColorTransfer string            `json:"color_transfer"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	SampleRate    string            `json:"sample_rate"`
	Channels      int               `json:"channels"`
	ChannelLayout string            `json:"channel_layout"`
	Disposition   map[string]int    `json:"disposition"`
	Tags          map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. Container open failures propagate; they are never swallowed.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("probe inspect: empty path")
	}

	cmd := commandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("probe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("probe parse: %w", err)
	}
	return result, nil
}

// StreamsOf returns all streams of the medium in container order.
func (r Result) StreamsOf(medium Medium) []Stream {
	streams := make([]Stream, 0, len(r.Streams))
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, string(medium)) {
			streams = append(streams, stream)
		}
	}
	return streams
}

// BestStream returns the best-ranked stream of the medium per standard
// container heuristics: default disposition first, then resolution for video
// and channel count for audio, with attached pictures excluded and ties
// broken by the lowest index.
func (r Result) BestStream(medium Medium) (Stream, error) {
	var best Stream
	bestScore := int64(-1)
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, string(medium)) {
			continue
		}
		if medium == MediumVideo && stream.Disposition["attached_pic"] == 1 {
			continue
		}
		score := rankStream(medium, stream)
		if score > bestScore {
			best = stream
			bestScore = score
		}
	}
	if bestScore < 0 {
		return Stream{}, fmt.Errorf("%w: no %s stream", ErrStreamNotFound, medium)
	}
	return best, nil
}

func rankStream(medium Medium, stream Stream) int64 {
	var score int64
	switch medium {
	case MediumVideo:
		score = int64(stream.Width) * int64(stream.Height)
	case MediumAudio:
		score = int64(stream.Channels)
	}
	if stream.Disposition["default"] == 1 {
		score += 1 << 40
	}
	// Earlier streams win ties.
	score = score<<16 - int64(stream.Index)
	return score
}

// HasAudio reports whether a best-ranked audio stream exists in the source.
// Failure to open the container is fatal and propagates to the caller.
func HasAudio(ctx context.Context, binary, path string) (bool, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return false, err
	}
	_, err = result.BestStream(MediumAudio)
	if errors.Is(err, ErrStreamNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
