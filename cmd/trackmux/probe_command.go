package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trackmux/internal/media/layout"
	"trackmux/internal/media/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var showKeyframes bool
	var showPackets bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media container's streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := args[0]

			result, err := probe.Inspect(cmd.Context(), cfg.Binaries.FFprobe, source)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s, %d streams\n",
				source, formatName(result.Format), len(result.Streams))
			fmt.Fprintln(out, renderStreamTable(result))

			if showPackets {
				count, err := probe.PacketCount(cmd.Context(), cfg.Binaries.FFprobe, source, probe.MediumVideo)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "video packets: %d\n", count)
			}
			if showKeyframes {
				positions, err := probe.Keyframes(cmd.Context(), cfg.Binaries.FFprobe, source)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "keyframes: %d at %s\n", len(positions), formatPositions(positions))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeyframes, "keyframes", false, "Scan video packets and list keyframe positions")
	cmd.Flags().BoolVar(&showPackets, "packets", false, "Count packets of the best video stream")
	return cmd
}

func renderStreamTable(result probe.Result) string {
	headers := []string{"INDEX", "TYPE", "CODEC", "DETAIL", "DEFAULT"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(result.Streams))
	for _, stream := range result.Streams {
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecType,
			stream.CodecName,
			streamDetail(stream),
			yesNo(stream.Disposition["default"] == 1),
		})
	}
	return renderTable(headers, rows, aligns)
}

func streamDetail(stream probe.Stream) string {
	switch probe.Medium(stream.CodecType) {
	case probe.MediumVideo:
		detail := fmt.Sprintf("%dx%d", stream.Width, stream.Height)
		if stream.PixFmt != "" {
			detail += " " + stream.PixFmt
		}
		if stream.ColorTransfer != "" {
			detail += " " + stream.ColorTransfer
		}
		if stream.AvgFrameRate != "" && stream.AvgFrameRate != "0/0" {
			detail += " @ " + stream.AvgFrameRate
		}
		return detail
	case probe.MediumAudio:
		name := stream.ChannelLayout
		if name == "" {
			name = fmt.Sprintf("%dch", stream.Channels)
		}
		equivalent := layout.ForStream(stream)
		return fmt.Sprintf("%s, %d kbps target", name, layout.BitrateKbps(equivalent))
	default:
		if lang := stream.Tags["language"]; lang != "" {
			return lang
		}
		return ""
	}
}

func formatName(format probe.Format) string {
	if format.FormatName == "" {
		return "unknown container"
	}
	return format.FormatName
}

func formatPositions(positions []int) string {
	const maxShown = 12
	shown := positions
	suffix := ""
	if len(shown) > maxShown {
		shown = shown[:maxShown]
		suffix = ", ..."
	}
	parts := make([]string, 0, len(shown))
	for _, pos := range shown {
		parts = append(parts, strconv.Itoa(pos))
	}
	return "[" + strings.Join(parts, ", ") + suffix + "]"
}
