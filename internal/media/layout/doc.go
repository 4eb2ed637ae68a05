// Package layout classifies audio channel layouts and derives per-stream
// bitrate targets.
//
// This package depends only on internal/media/probe and could be extracted
// as a standalone library alongside it.
//
// Layouts are modeled as the standard 64-bit channel masks; ffprobe's
// printed layout names map onto those masks. A layout reduces to a scalar
// "channel equivalent" in x.y surround notation (5.1, 7.1, ...), which feeds
// a power-law bitrate curve that keeps stereo at 128 kbps and scales
// sub-linearly for more channels.
//
// Primary entry points:
//   - ForStream: channel equivalent for a probed audio stream
//   - BitrateKbps: kbps target for a channel equivalent
package layout
