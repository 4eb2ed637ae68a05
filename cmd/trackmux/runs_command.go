package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trackmux/internal/journal"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded pipeline runs",
		Long:  "List recorded pipeline runs, newest first. With a run ID, show that run's per-stream encode results.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				streams, err := store.ListStreams(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(streams) == 0 {
					fmt.Fprintln(out, "no streams recorded")
					return nil
				}
				fmt.Fprintln(out, renderStreamRecords(streams))
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []journal.Run) string {
	headers := []string{"RUN", "SOURCE", "MODE", "STATUS", "STREAMS", "OUTPUT", "STARTED"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.RunID),
			run.SourcePath,
			runMode(run.SingleTrack),
			run.Status,
			strconv.Itoa(run.Streams),
			run.OutputPath,
			formatTime(run.StartedAt),
		})
	}
	return renderTable(headers, rows, aligns)
}

func renderStreamRecords(streams []journal.StreamRecord) string {
	headers := []string{"INDEX", "LAYOUT", "EQUIVALENT", "BITRATE", "OUTPUT"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(streams))
	for _, stream := range streams {
		rows = append(rows, []string{
			strconv.Itoa(stream.StreamIndex),
			stream.ChannelLayout,
			strconv.FormatFloat(stream.Equivalent, 'g', -1, 64),
			fmt.Sprintf("%d kbps", stream.BitrateKbps),
			stream.OutputPath,
		})
	}
	return renderTable(headers, rows, aligns)
}

func runMode(singleTrack bool) string {
	if singleTrack {
		return "single-track"
	}
	return "standard"
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Local().Format("2006-01-02 15:04:05")
}
