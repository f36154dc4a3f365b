package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"animutools/internal/encoding"
	"animutools/internal/episodes"
	"animutools/internal/history"
	"animutools/internal/logging"
	"animutools/internal/media/ffprobe"
	"animutools/internal/services/ffmpeg"
)

func newBulkCommand(ctx *commandContext) *cobra.Command {
	opts := &encodeOptions{}
	var skipDone bool

	cmd := &cobra.Command{
		Use:   "bulk <dir> <pattern>",
		Short: "Encode every episode in a directory",
		Long: "Scans a directory for .mkv/.mp4 files, parses episode numbers from\n" +
			"their names, and encodes each one to the output pattern. The pattern\n" +
			"must contain {num}, replaced with the zero-padded episode number.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulk(cmd, ctx, opts, args[0], args[1], skipDone)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.downscale, "downscale", false, "Downscale video to the configured width")
	flags.BoolVar(&opts.test, "test", false, "Encode only the first 60 seconds of each episode")
	flags.IntVar(&opts.targetBitrate, "target-bitrate", 2500, "Peak video bitrate in kb/s")
	flags.Float64Var(&opts.bufferDuration, "buffer-duration", 1.0, "Rate-control buffer size in seconds of peak bitrate")
	flags.BoolVar(&opts.hls, "hls", false, "Write HLS playlists with segment directories")
	flags.Float64Var(&opts.hlsTime, "hls-time", 4, "HLS segment duration in seconds")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the ffmpeg arguments without encoding")
	flags.BoolVar(&opts.remux, "remux", false, "Copy streams into new containers without re-encoding")
	flags.BoolVar(&skipDone, "skip-done", false, "Skip episodes whose output is already recorded as completed")

	return cmd
}

func runBulk(cmd *cobra.Command, ctx *commandContext, opts *encodeOptions, dir, pattern string, skipDone bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "bulk")

	found, err := episodes.Scan(dir)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no video files found in %s", dir)
	}

	// Dry runs stay filesystem-silent: no history database, no output
	// directories.
	var store *history.Store
	var done map[string]struct{}
	if !opts.dryRun {
		store, err = ctx.openHistory()
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		if store != nil {
			defer func() {
				_ = store.Close()
			}()
			if skipDone {
				done, err = store.CompletedOutputs(cmd.Context())
				if err != nil {
					return err
				}
			}
		} else if skipDone {
			return fmt.Errorf("--skip-done requires the history ledger to be enabled")
		}
	}

	prober := ffprobe.NewProber(cfg.Encoder.FFprobeBinary)
	runner, err := ffmpeg.New(cfg.Encoder.FFmpegBinary)
	if err != nil {
		return err
	}
	encoderOpts := []encoding.Option{encoding.WithDryRunOutput(cmd.OutOrStdout())}
	if store != nil {
		encoderOpts = append(encoderOpts, encoding.WithRecorder(store))
	}
	encoder, err := encoding.New(cfg, prober, runner, logger, encoderOpts...)
	if err != nil {
		return err
	}

	view := configView{
		targetBitrate:  cfg.Encoder.TargetBitrate,
		bufferDuration: cfg.Encoder.BufferDuration,
		hlsTime:        cfg.HLS.SegmentSeconds,
	}

	encoded := 0
	for _, episode := range found {
		if episode.Number == 0 {
			logger.Warn("no episode number in filename, skipping",
				logging.String("file", filepath.Base(episode.Path)))
			continue
		}
		output, err := episodes.ExpandPattern(pattern, episode.Number)
		if err != nil {
			return err
		}
		if _, ok := done[output]; ok {
			logger.Info("output already completed, skipping",
				logging.String(logging.FieldOutput, output))
			continue
		}
		if !opts.dryRun {
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
		}

		req := opts.request(cmd, episode.Path, output, view)
		if err := encoder.Encode(cmd.Context(), req); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(episode.Path), err)
		}
		encoded++
	}

	if !opts.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Encoded %d of %d episodes\n", encoded, len(found))
	}
	return nil
}
