package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	opts := &encodeOptions{}

	rootCmd := &cobra.Command{
		Use:           "animuencode <input> [output]",
		Short:         "Anime-oriented ffmpeg transcoding frontend",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncodeCommand(cmd, ctx, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json, auto)")

	flags := rootCmd.Flags()
	flags.IntVar(&opts.subtitleIndex, "subtitle-index", -1, "Scoped subtitle stream index to burn in, overriding selection")
	flags.StringVar(&opts.subtitleFile, "subtitle-file", "", "External subtitle file to burn in instead of an embedded track")
	flags.BoolVar(&opts.downscale, "downscale", false, "Downscale video to the configured width")
	flags.BoolVar(&opts.test, "test", false, "Encode only the first 60 seconds")
	flags.IntVar(&opts.targetBitrate, "target-bitrate", 2500, "Peak video bitrate in kb/s")
	flags.Float64Var(&opts.bufferDuration, "buffer-duration", 1.0, "Rate-control buffer size in seconds of peak bitrate")
	flags.BoolVar(&opts.hls, "hls", false, "Write an HLS playlist with a segment directory")
	flags.Float64Var(&opts.hlsTime, "hls-time", 4, "HLS segment duration in seconds")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the ffmpeg arguments without encoding")
	flags.BoolVar(&opts.remux, "remux", false, "Copy all streams into a new container without re-encoding")
	flags.BoolVar(&opts.probe, "probe", false, "Print stream information and exit")

	rootCmd.AddCommand(newBulkCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
