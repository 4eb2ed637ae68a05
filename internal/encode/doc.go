// Package encode orchestrates the external processes that extract,
// re-encode, and remux a source's audio and subtitle tracks.
//
// The pipeline has three layers:
//   - EncodeStreams: per-stream ffmpeg extraction piped into opusenc, one
//     lossy file per audio stream, sequential in ascending stream order.
//   - EncodeAudio: the top-level entry point; stream-copies audio out of the
//     source (one track in single-track mode, all tracks otherwise) and
//     hands single-track results to the remux composer.
//   - MuxOpus: the remux composer; folds the per-stream files and the
//     skeleton's subtitle streams back into one synchronized container.
//
// Command argument vectors are built by standalone functions so ordering
// invariants (the skeleton is always the last merge input) stay testable
// without spawning processes. No timeouts are enforced on spawned processes;
// cancellation is the caller's context.
package encode
