package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	audioDirName  = "audio"
	lockFileName  = ".trackmux.lock"
	lossyExt      = "opus"
	containerExt  = "mkv"
	singleTrackIn = "misc"
	finalAudio    = "audio"
)

// ErrLocked indicates another run holds the workspace.
var ErrLocked = errors.New("workspace locked by another run")

// Workspace is the directory scoped to one transcode run. Each run writes to
// distinct, uniquely-named files inside it, so no finer-grained locking is
// needed.
type Workspace struct {
	root  string
	runID string
	lock  *flock.Flock
}

// New creates a workspace value rooted at dir. The directory itself is
// created on first use, not here.
func New(dir string) (*Workspace, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("workspace: empty directory")
	}
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve %q: %w", dir, err)
	}
	return &Workspace{
		root:  absolute,
		runID: uuid.NewString(),
		lock:  flock.New(filepath.Join(absolute, lockFileName)),
	}, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string { return w.root }

// RunID returns the unique identifier of this run, used for journal
// correlation and log tagging.
func (w *Workspace) RunID() string { return w.runID }

// AudioDir returns the per-stream output directory.
func (w *Workspace) AudioDir() string {
	return filepath.Join(w.root, audioDirName)
}

// EnsureAudioDir creates the audio subdirectory if it does not yet exist.
func (w *Workspace) EnsureAudioDir() error {
	if err := os.MkdirAll(w.AudioDir(), 0o755); err != nil {
		return fmt.Errorf("workspace: create audio directory: %w", err)
	}
	return nil
}

// StreamFile returns the lossy output path for the audio stream with the
// given absolute index: <root>/audio/<index>.opus.
func (w *Workspace) StreamFile(index int) string {
	return filepath.Join(w.AudioDir(), strconv.Itoa(index)+"."+lossyExt)
}

// IntermediatePath returns the container the top-level audio copy writes:
// misc.mkv in single-track mode, audio.mkv otherwise.
func (w *Workspace) IntermediatePath(singleTrack bool) string {
	name := finalAudio
	if singleTrack {
		name = singleTrackIn
	}
	return filepath.Join(w.root, name+"."+containerExt)
}

// FinalAudioPath returns the remuxed output container: <root>/audio.mkv.
func (w *Workspace) FinalAudioPath() string {
	return filepath.Join(w.root, finalAudio+"."+containerExt)
}

// Acquire takes the workspace's advisory lock without blocking. ErrLocked is
// returned when another run already holds it. The workspace directory is
// created if needed so the lock file has somewhere to live.
func (w *Workspace) Acquire() error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("workspace: create %q: %w", w.root, err)
	}
	locked, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("workspace: lock %q: %w", w.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLocked, w.root)
	}
	return nil
}

// Release drops the advisory lock taken by Acquire.
func (w *Workspace) Release() error {
	if w == nil || w.lock == nil {
		return nil
	}
	return w.lock.Unlock()
}
