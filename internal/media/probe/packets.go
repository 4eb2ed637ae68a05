package probe

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// PacketCount counts the packets belonging to the best-ranked stream of the
// medium. For video this is the container's frame count.
func PacketCount(ctx context.Context, binary, path string, medium Medium) (int, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return 0, err
	}
	stream, err := result.BestStream(medium)
	if err != nil {
		return 0, err
	}
	packets, err := scanPackets(ctx, binary, path, stream.Index)
	if err != nil {
		return 0, err
	}
	return len(packets), nil
}

// Keyframes returns the 0-based positions, among the best video stream's
// packets in file order, that carry the key-frame flag. A stream with no
// key-marked packets yields [0]: the first frame is always treated as a
// keyframe boundary.
func Keyframes(ctx context.Context, binary, path string) ([]int, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return nil, err
	}
	stream, err := result.BestStream(MediumVideo)
	if err != nil {
		return nil, err
	}
	packets, err := scanPackets(ctx, binary, path, stream.Index)
	if err != nil {
		return nil, err
	}

	keyframes := make([]int, 0, len(packets)/24+1)
	for position, key := range packets {
		if key {
			keyframes = append(keyframes, position)
		}
	}
	if len(keyframes) == 0 {
		return []int{0}, nil
	}
	return keyframes, nil
}

// scanPackets reads packet headers for the whole container and returns one
// entry per packet of the requested stream, true when the packet carries the
// key flag. Packets are numbered in file order regardless of
// decode/presentation order.
func scanPackets(ctx context.Context, binary, path string, streamIndex int) ([]bool, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := commandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-show_entries", "packet=stream_index,flags",
		"-of", "csv=p=0",
		"--", path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe packets: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parsePacketLines(stdout.Bytes(), streamIndex)
}

// parsePacketLines filters csv packet rows ("<stream_index>,<flags>") down
// to the requested stream.
func parsePacketLines(output []byte, streamIndex int) ([]bool, error) {
	packets := make([]bool, 0, 1024)
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 2)
		index, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("probe packets: malformed row %q", line)
		}
		if index != streamIndex {
			continue
		}
		flags := ""
		if len(fields) == 2 {
			flags = fields[1]
		}
		packets = append(packets, strings.Contains(flags, "K"))
	}
	return packets, nil
}
