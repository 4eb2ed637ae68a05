package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmux/internal/journal"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	stubDir := filepath.Join(base, "bin")
	writeStubFFprobe(t, stubDir)

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
workspace_dir = %q
log_dir = %q
journal_path = %q

[binaries]
ffmpeg = "ffmpeg"
ffprobe = %q
opusenc = "opusenc"

[audio]
single_track = true
min_free_gib = 0

[logging]
format = "console"
level = "error"
`,
		filepath.Join(base, "workspace"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "journal.db"),
		filepath.Join(stubDir, "ffprobe"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath}
}

// writeStubFFprobe installs a shell stand-in that reports one video stream
// and no audio, regardless of arguments.
func writeStubFFprobe(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create stub bin dir: %v", err)
	}
	script := `#!/bin/sh
printf '%s' '{"streams":[{"index":0,"codec_type":"video","codec_name":"av1","width":640,"height":360}],"format":{"format_name":"matroska,webm","nb_streams":1}}'
`
	if err := os.WriteFile(filepath.Join(dir, "ffprobe"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub ffprobe: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "generated.toml")
	out, _, err := runCLI(t, env.configPath, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	out, _, err = runCLI(t, env.configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "workspace_dir") || !strings.Contains(out, env.baseDir) {
		t.Fatalf("unexpected show output: %q", out)
	}
}

func TestCLIProbeRendersStreams(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "probe", filepath.Join(env.baseDir, "in.mkv"))
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(out, "av1") || !strings.Contains(out, "640x360") {
		t.Fatalf("unexpected probe output: %q", out)
	}
	if !strings.Contains(out, "matroska") {
		t.Fatalf("expected container name in output: %q", out)
	}
}

func TestCLIRunsEmptyJournal(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(out, "no runs recorded") {
		t.Fatalf("unexpected runs output: %q", out)
	}
}

func TestCLIAudioWithoutAudioRecordsRun(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "video-only.mkv")
	if err := os.WriteFile(source, []byte("data"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	out, _, err := runCLI(t, env.configPath, "audio", source)
	if err != nil {
		t.Fatalf("audio: %v", err)
	}
	if !strings.Contains(out, "no audio produced") {
		t.Fatalf("unexpected audio output: %q", out)
	}

	store, err := journal.Open(filepath.Join(env.baseDir, "journal.db"))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != journal.StatusNoAudio {
		t.Fatalf("status = %q, want %q", runs[0].Status, journal.StatusNoAudio)
	}
	if runs[0].SourcePath != source {
		t.Fatalf("source = %q, want %q", runs[0].SourcePath, source)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "only") {
		t.Fatalf("expected cell in output: %q", out)
	}
}
