// Package workspace models the extraction workspace a transcode run writes
// into.
//
// A Workspace is an explicit value threaded through every pipeline call, so
// runs are isolable and parallel-run-safe by construction. It owns the
// filename conventions the remux composer depends on, lazily creates the
// audio subdirectory, and guards the directory against concurrent runs with
// an advisory file lock. The workspace is never deleted by this subsystem;
// its lifecycle belongs to the caller.
package workspace
