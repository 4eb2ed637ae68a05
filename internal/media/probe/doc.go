// Package probe provides a typed wrapper around ffprobe for structural
// media metadata.
//
// This package has no trackmux-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Rational: a 64-bit frame-rate quotient as stored by the container
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns a parsed Result
//   - PacketCount / Keyframes: packet-level scans of the best video stream
//   - FrameRate / Resolution / PixelFormat / TransferCharacteristics
//
// Every entry point opens the container fresh and reads only packet and
// stream headers, keeping probing cheap relative to the encode it informs.
package probe
