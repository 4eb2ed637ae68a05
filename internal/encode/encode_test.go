package encode

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/media/probe"
	"trackmux/internal/services"
	"trackmux/internal/workspace"
)

func testBinaries() config.Binaries {
	return config.Binaries{FFmpeg: "ffmpeg", FFprobe: "ffprobe", Opusenc: "opusenc"}
}

func newTestEncoder(result probe.Result) *Encoder {
	enc := New(testBinaries(), logging.NewNop())
	enc.WithInspector(func(ctx context.Context, binary, path string) (probe.Result, error) {
		return result, nil
	})
	return enc
}

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	return ws
}

// fakeEncodeCommands replaces process spawning with shell stand-ins: stream
// extraction emits bytes, opusenc drains stdin and creates its output file,
// and every other ffmpeg invocation creates its last argument. Each argument
// vector is recorded for later assertions.
func fakeEncodeCommands(t *testing.T) *[][]string {
	t.Helper()
	var calls [][]string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		switch {
		case name == "opusenc":
			output := args[len(args)-1]
			return exec.CommandContext(ctx, "sh", "-c", "cat >/dev/null; : > "+shellQuote(output))
		case contains(args, "flac"):
			return exec.CommandContext(ctx, "sh", "-c", "printf 'flacdata'")
		default:
			output := args[len(args)-1]
			return exec.CommandContext(ctx, "sh", "-c", ": > "+shellQuote(output))
		}
	}
	t.Cleanup(func() { commandContext = original })
	return &calls
}

func shellQuote(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `'\''`) + `'`
}

func contains(args []string, want string) bool {
	for _, arg := range args {
		if arg == want {
			return true
		}
	}
	return false
}

func TestExtractArgs(t *testing.T) {
	got := extractArgs("in.mkv", 3)
	want := []string{
		"-hide_banner", "-v", "quiet",
		"-i", "in.mkv",
		"-vn", "-sn", "-dn",
		"-map", "0:3",
		"-map_metadata", "0:s:3",
		"-f", "flac", "-",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("extractArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestOpusencArgs(t *testing.T) {
	got := opusencArgs(258, "audio/1.opus")
	want := []string{"--quiet", "--vbr", "--bitrate", "258K", "-", "audio/1.opus"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("opusencArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestCopyArgsSingleTrack(t *testing.T) {
	got := copyArgs("in.mkv", "misc.mkv", true, []string{"-ignored"})
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "in.mkv",
		"-map_metadata", "0",
		"-vn", "-dn",
		"-c", "copy",
		"-map", "0:a:0", "-map", "0:s?",
		"misc.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("copyArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestCopyArgsStandard(t *testing.T) {
	got := copyArgs("in.mkv", "audio.mkv", false, []string{"-b:a", "copy"})
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "in.mkv",
		"-map_metadata", "0",
		"-vn", "-dn",
		"-c", "copy",
		"-map", "0",
		"-b:a", "copy",
		"audio.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("copyArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestMergeArgsOrdering(t *testing.T) {
	got := mergeArgs([]string{"audio/1.opus", "audio/2.opus"}, "misc.mkv", "audio.mkv")
	want := []string{
		"-y", "-hide_banner", "-v", "quiet",
		"-i", "audio/1.opus",
		"-i", "audio/2.opus",
		"-i", "misc.mkv",
		"-map", "2:s?",
		"-map", "0:a:0",
		"-map", "1:a:0",
		"-c", "copy",
		"audio.mkv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mergeArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestSourcePipeArgs(t *testing.T) {
	got := SourcePipeArgs([]string{"-vf", "scale=1280:-2"}, "yuv420p10le")
	want := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", "-",
		"-vf", "scale=1280:-2",
		"-pix_fmt", "yuv420p10le",
		"-strict", "-1",
		"-f", "yuv4mpegpipe", "-",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SourcePipeArgs mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := EscapeFilterPath("clips/take[1],final.mkv")
	want := `clips/take\[1\]\,final.mkv`
	if got != want {
		t.Fatalf("EscapeFilterPath = %q, want %q", got, want)
	}
}

func TestEncodeStreamsWritesOneFilePerStream(t *testing.T) {
	fakeEncodeCommands(t)
	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 0, CodecType: "video", Width: 1920, Height: 1080},
		{Index: 2, CodecType: "audio", Channels: 6, ChannelLayout: "5.1"},
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
	}})

	var observed []int
	enc.WithStreamObserver(func(result StreamResult) {
		observed = append(observed, result.Index)
	})

	results, err := enc.EncodeStreams(context.Background(), "in.mkv", ws)
	if err != nil {
		t.Fatalf("EncodeStreams: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Index != 1 || results[1].Index != 2 {
		t.Fatalf("results out of order: %+v", results)
	}
	if results[1].Layout != "5.1" {
		t.Fatalf("layout = %q, want 5.1", results[1].Layout)
	}
	if !reflect.DeepEqual(observed, []int{1, 2}) {
		t.Fatalf("observer saw %v, want [1 2]", observed)
	}
	if results[0].BitrateKbps != 128 {
		t.Fatalf("stereo bitrate = %d, want 128", results[0].BitrateKbps)
	}
	if results[1].BitrateKbps != 258 {
		t.Fatalf("5.1 bitrate = %d, want 258", results[1].BitrateKbps)
	}
	for _, result := range results {
		if _, err := os.Stat(result.OutputPath); err != nil {
			t.Fatalf("missing output %s: %v", result.OutputPath, err)
		}
		if filepath.Dir(result.OutputPath) != ws.AudioDir() {
			t.Fatalf("output %s outside audio dir", result.OutputPath)
		}
	}
}

func TestEncodeStreamsOpusencFailureIsFatal(t *testing.T) {
	// Extraction produces far more than a pipe buffer so a dead consumer
	// must break the pipe for the run to finish at all.
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if name == "opusenc" {
			return exec.CommandContext(ctx, "sh", "-c", "exit 1")
		}
		return exec.CommandContext(ctx, "sh", "-c", "head -c 1048576 /dev/zero")
	}
	t.Cleanup(func() { commandContext = original })

	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
	}})

	done := make(chan error, 1)
	go func() {
		_, err := enc.EncodeStreams(context.Background(), "in.mkv", ws)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, services.ErrExternalTool) {
			t.Fatalf("expected services.ErrExternalTool, got %v", err)
		}
		if !strings.Contains(err.Error(), "opusenc") {
			t.Fatalf("expected encoder failure to be named, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("EncodeStreams did not return after encoder exit")
	}
}

func TestEncodeStreamsExtractFailureIsFatal(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if name == "opusenc" {
			output := args[len(args)-1]
			return exec.CommandContext(ctx, "sh", "-c", "cat >/dev/null; : > "+shellQuote(output))
		}
		return exec.CommandContext(ctx, "sh", "-c", "exit 1")
	}
	t.Cleanup(func() { commandContext = original })

	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
	}})

	_, err := enc.EncodeStreams(context.Background(), "in.mkv", ws)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected services.ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "extract") {
		t.Fatalf("expected extraction failure to be named, got %v", err)
	}
}

func TestEncodeAudioNoAudioSpawnsNothing(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		t.Fatalf("unexpected process spawn: %s %v", name, args)
		return nil
	}
	t.Cleanup(func() { commandContext = original })

	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 0, CodecType: "video", Width: 1280, Height: 720},
	}})

	path, produced, err := enc.EncodeAudio(context.Background(), "in.mkv", ws, true, nil)
	if err != nil {
		t.Fatalf("EncodeAudio: %v", err)
	}
	if produced || path != "" {
		t.Fatalf("expected no audio output, got produced=%v path=%q", produced, path)
	}
}

func TestEncodeAudioCopyFailureIsSoft(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'stream copy failed' >&2; exit 1")
	}
	t.Cleanup(func() { commandContext = original })

	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
	}})

	path, produced, err := enc.EncodeAudio(context.Background(), "in.mkv", ws, false, nil)
	if err != nil {
		t.Fatalf("expected soft failure, got error: %v", err)
	}
	if produced || path != "" {
		t.Fatalf("expected no audio output, got produced=%v path=%q", produced, path)
	}
}

func TestEncodeAudioStandardMode(t *testing.T) {
	calls := fakeEncodeCommands(t)
	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
	}})

	path, produced, err := enc.EncodeAudio(context.Background(), "in.mkv", ws, false, []string{"-c:a", "copy"})
	if err != nil {
		t.Fatalf("EncodeAudio: %v", err)
	}
	if !produced {
		t.Fatal("expected audio output")
	}
	if path != ws.IntermediatePath(false) {
		t.Fatalf("path = %q, want %q", path, ws.IntermediatePath(false))
	}
	if len(*calls) != 1 {
		t.Fatalf("expected a single stream copy, got %d invocations", len(*calls))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("missing output %s: %v", path, err)
	}
}

func TestEncodeAudioSingleTrackRemuxes(t *testing.T) {
	calls := fakeEncodeCommands(t)
	ws := newTestWorkspace(t)
	enc := newTestEncoder(probe.Result{Streams: []probe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, ChannelLayout: "stereo"},
		{Index: 2, CodecType: "audio", Channels: 6, ChannelLayout: "5.1"},
	}})

	path, produced, err := enc.EncodeAudio(context.Background(), "in.mkv", ws, true, nil)
	if err != nil {
		t.Fatalf("EncodeAudio: %v", err)
	}
	if !produced {
		t.Fatal("expected audio output")
	}
	if path != ws.FinalAudioPath() {
		t.Fatalf("path = %q, want %q", path, ws.FinalAudioPath())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("missing output %s: %v", path, err)
	}

	// copy, two extract/opusenc pairs, then the merge.
	if len(*calls) != 6 {
		t.Fatalf("expected 6 invocations, got %d", len(*calls))
	}
	merge := (*calls)[5]
	if merge[0] != "ffmpeg" {
		t.Fatalf("merge ran %s, want ffmpeg", merge[0])
	}
	wantMaps := []string{"2:s?", "0:a:0", "1:a:0"}
	var gotMaps []string
	for i, arg := range merge {
		if arg == "-map" && i+1 < len(merge) {
			gotMaps = append(gotMaps, merge[i+1])
		}
	}
	if !reflect.DeepEqual(gotMaps, wantMaps) {
		t.Fatalf("merge maps = %v, want %v", gotMaps, wantMaps)
	}
	if merge[len(merge)-1] != ws.FinalAudioPath() {
		t.Fatalf("merge output = %q, want %q", merge[len(merge)-1], ws.FinalAudioPath())
	}
}
