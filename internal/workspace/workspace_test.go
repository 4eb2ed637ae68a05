package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFilenameConventions(t *testing.T) {
	root := t.TempDir()
	ws, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if ws.StreamFile(3) != filepath.Join(root, "audio", "3.opus") {
		t.Fatalf("unexpected stream file: %q", ws.StreamFile(3))
	}
	if ws.IntermediatePath(true) != filepath.Join(root, "misc.mkv") {
		t.Fatalf("unexpected single-track intermediate: %q", ws.IntermediatePath(true))
	}
	if ws.IntermediatePath(false) != filepath.Join(root, "audio.mkv") {
		t.Fatalf("unexpected standard intermediate: %q", ws.IntermediatePath(false))
	}
	if ws.FinalAudioPath() != filepath.Join(root, "audio.mkv") {
		t.Fatalf("unexpected final audio path: %q", ws.FinalAudioPath())
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	root := t.TempDir()
	first, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	second, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if first.RunID() == "" || first.RunID() == second.RunID() {
		t.Fatalf("expected distinct run IDs, got %q and %q", first.RunID(), second.RunID())
	}
}

func TestEnsureAudioDirIsLazyAndIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "run")
	ws, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := os.Stat(ws.AudioDir()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected audio dir to not exist before EnsureAudioDir")
	}
	if err := ws.EnsureAudioDir(); err != nil {
		t.Fatalf("EnsureAudioDir returned error: %v", err)
	}
	if err := ws.EnsureAudioDir(); err != nil {
		t.Fatalf("EnsureAudioDir second call returned error: %v", err)
	}
	info, err := os.Stat(ws.AudioDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected audio dir to exist: %v", err)
	}
}

func TestAcquireRejectsSecondRun(t *testing.T) {
	root := t.TempDir()
	first, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	t.Cleanup(func() { _ = first.Release() })

	second, err := New(root)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := second.Acquire(); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked for concurrent run, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire after release returned error: %v", err)
	}
	_ = second.Release()
}

func TestCheckEnforcesFreeSpaceFloor(t *testing.T) {
	ws, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	original := statfs
	statfs = func(string) (uint64, error) { return 1 << 30, nil }
	t.Cleanup(func() { statfs = original })

	if err := Check(ws, 2); err == nil {
		t.Fatal("expected free-space error with 1 GiB available and 2 GiB floor")
	}
	if err := Check(ws, 1); err != nil {
		t.Fatalf("expected 1 GiB floor to pass, got %v", err)
	}
	if err := Check(ws, 0); err != nil {
		t.Fatalf("expected disabled floor to pass, got %v", err)
	}
}
