package workspace

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var statfs = realStatfs

// Check verifies the workspace directory is usable before a run starts: it
// must exist (created if absent), be read/write/searchable, and sit on a
// volume with at least minFreeGiB available. A zero floor disables the
// free-space check.
func Check(w *Workspace, minFreeGiB int) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("workspace: create %q: %w", w.root, err)
	}
	if err := unix.Access(w.root, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("workspace: insufficient permissions on %q: %w", w.root, err)
	}
	if minFreeGiB <= 0 {
		return nil
	}
	free, err := statfs(w.root)
	if err != nil {
		return fmt.Errorf("workspace: statfs %q: %w", w.root, err)
	}
	floor := uint64(minFreeGiB) * 1024 * 1024 * 1024
	if free < floor {
		return fmt.Errorf("workspace: %q has %d MiB free, need %d GiB", w.root, free/(1024*1024), minFreeGiB)
	}
	return nil
}

func realStatfs(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
