package layout

import (
	"math"
	"strings"

	"trackmux/internal/media/probe"
)

// referenceKbps is the bitrate target for a stereo stream; other layouts
// scale from it on a 3/4 power curve.
const referenceKbps = 128.0

// ChannelEquivalent maps a decoded layout mask to its scalar x.y value.
// Layouts outside the classification table fall back to the raw channel
// count, matching the count the mask implies for well-formed streams.
func ChannelEquivalent(mask Mask, channels int) float64 {
	switch mask {
	case Layout2Point1, Layout21:
		return 2.1
	case Layout22:
		return 2.2
	case Layout3Point1:
		return 3.1
	case Layout4Point1:
		return 4.1
	case Layout5Point1, Layout5Point1B:
		return 5.1
	case Layout6Point1, Layout6Point1F, Layout6Point1B:
		return 6.1
	case Layout7Point1, Layout7Point1W, Layout7Point1B:
		return 7.1
	default:
		return float64(channels)
	}
}

// FromCount classifies a stream with no recognized layout purely from its
// channel count.
func FromCount(channels int) float64 {
	switch channels {
	case 3:
		return 2.1
	case 6:
		return 5.1
	case 8:
		return 7.1
	default:
		return float64(channels)
	}
}

// ForStream derives the channel equivalent for a probed audio stream,
// preferring the named layout when one can be decoded.
func ForStream(stream probe.Stream) float64 {
	if mask, ok := ParseName(stream.ChannelLayout); ok {
		return ChannelEquivalent(mask, stream.Channels)
	}
	return FromCount(stream.Channels)
}

// BitrateKbps converts a channel equivalent into a bitrate target in kbps.
// The value is a target, not a ceiling; downstream encoders may clamp it.
func BitrateKbps(equivalent float64) int {
	return int(math.Round(referenceKbps * math.Pow(equivalent/2.0, 0.75)))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
