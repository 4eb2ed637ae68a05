package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackmux/internal/encode"
	"trackmux/internal/journal"
	"trackmux/internal/logging"
	"trackmux/internal/services"
	"trackmux/internal/workspace"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var singleTrack bool
	var workspaceDir string

	cmd := &cobra.Command{
		Use:   "audio <source>",
		Short: "Extract, re-encode, and remux a source's audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := args[0]
			if _, err := os.Stat(source); err != nil {
				return services.Wrap(services.ErrValidation, "audio", "source", source, err)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}

			single := cfg.Audio.SingleTrack
			if cmd.Flags().Changed("single-track") {
				single = singleTrack
			}
			dir := cfg.Paths.WorkspaceDir
			if workspaceDir != "" {
				dir = workspaceDir
			}

			ws, err := workspace.New(dir)
			if err != nil {
				return err
			}
			if err := ws.Acquire(); err != nil {
				return err
			}
			defer func() { _ = ws.Release() }()
			logger = logger.With(logging.String(logging.FieldRunID, ws.RunID()))

			if err := workspace.Check(ws, cfg.Audio.MinFreeGiB); err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runCtx := cmd.Context()
			if err := store.RecordRun(runCtx, ws.RunID(), source, single); err != nil {
				return err
			}

			enc := encode.New(cfg.Binaries, logger)
			enc.WithStreamObserver(func(result encode.StreamResult) {
				record := journal.StreamRecord{
					StreamIndex:   result.Index,
					ChannelLayout: result.Layout,
					Equivalent:    result.Equivalent,
					BitrateKbps:   result.BitrateKbps,
					OutputPath:    result.OutputPath,
				}
				if recordErr := store.RecordStream(runCtx, ws.RunID(), record); recordErr != nil {
					logger.Warn("journal stream record failed", logging.Args(
						logging.Int(logging.FieldStream, result.Index),
						logging.Error(recordErr),
					)...)
				}
			})

			path, produced, err := enc.EncodeAudio(runCtx, source, ws, single, cfg.Audio.ExtraParams)
			status, output, message := runOutcome(path, produced, err)
			if finishErr := store.FinishRun(runCtx, ws.RunID(), status, output, message); finishErr != nil {
				logger.Warn("journal finish failed", logging.Args(logging.Error(finishErr))...)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !produced {
				fmt.Fprintln(out, "no audio produced")
				return nil
			}
			fmt.Fprintf(out, "audio container: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&singleTrack, "single-track", false, "Carry one track through the copy and re-derive all tracks in the remux")
	cmd.Flags().StringVar(&workspaceDir, "workspace", "", "Workspace directory override")
	return cmd
}

func runOutcome(path string, produced bool, err error) (status, output, message string) {
	switch {
	case err != nil:
		return journal.StatusFailed, "", err.Error()
	case !produced:
		return journal.StatusNoAudio, "", ""
	default:
		return journal.StatusCompleted, path, ""
	}
}
