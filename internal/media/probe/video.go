package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Rational is a 64-bit frame-rate quotient as stored by the container.
type Rational struct {
	Num int64
	Den int64
}

// Float64 returns the quotient, or 0 when the denominator is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// FrameRate returns the best video stream's stored average frame rate.
func FrameRate(ctx context.Context, binary, path string) (Rational, error) {
	stream, err := bestVideo(ctx, binary, path)
	if err != nil {
		return Rational{}, err
	}
	rate, err := parseRational(stream.AvgFrameRate)
	if err != nil {
		return Rational{}, fmt.Errorf("stream %d: %w", stream.Index, err)
	}
	return rate, nil
}

// Resolution returns the best video stream's width and height in pixels.
func Resolution(ctx context.Context, binary, path string) (int, int, error) {
	stream, err := bestVideo(ctx, binary, path)
	if err != nil {
		return 0, 0, err
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return 0, 0, fmt.Errorf("stream %d: resolution: %w", stream.Index, ErrParametersUnavailable)
	}
	return stream.Width, stream.Height, nil
}

// PixelFormat returns the best video stream's pixel format name.
func PixelFormat(ctx context.Context, binary, path string) (string, error) {
	stream, err := bestVideo(ctx, binary, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(stream.PixFmt) == "" {
		return "", fmt.Errorf("stream %d: pixel format: %w", stream.Index, ErrParametersUnavailable)
	}
	return stream.PixFmt, nil
}

// TransferUnspecified is reported when the container carries no color
// transfer tag, which is the normal state of plain SDR files.
const TransferUnspecified = "unspecified"

// TransferCharacteristics returns the best video stream's color transfer
// characteristic name, e.g. "bt709" or "smpte2084". A stream without the
// tag yields TransferUnspecified, not an error.
func TransferCharacteristics(ctx context.Context, binary, path string) (string, error) {
	stream, err := bestVideo(ctx, binary, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(stream.ColorTransfer) == "" {
		return TransferUnspecified, nil
	}
	return stream.ColorTransfer, nil
}

func bestVideo(ctx context.Context, binary, path string) (Stream, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return Stream{}, err
	}
	return result.BestStream(MediumVideo)
}

func parseRational(value string) (Rational, error) {
	parts := strings.SplitN(strings.TrimSpace(value), "/", 2)
	if len(parts) != 2 {
		return Rational{}, fmt.Errorf("frame rate %q: %w", value, ErrParametersUnavailable)
	}
	num, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("frame rate %q: %w", value, ErrParametersUnavailable)
	}
	den, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("frame rate %q: %w", value, ErrParametersUnavailable)
	}
	return Rational{Num: num, Den: den}, nil
}
