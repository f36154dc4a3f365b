package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"animutools/internal/encoding"
	"animutools/internal/media/ffprobe"
	"animutools/internal/services/ffmpeg"
)

type encodeOptions struct {
	subtitleIndex  int
	subtitleFile   string
	downscale      bool
	test           bool
	targetBitrate  int
	bufferDuration float64
	hls            bool
	hlsTime        float64
	dryRun         bool
	remux          bool
	probe          bool
}

// request converts the parsed flags into an encode request; flags left
// at their defaults fall back to the configured values.
func (o *encodeOptions) request(cmd *cobra.Command, input, output string, cfg configView) encoding.Request {
	req := encoding.Request{
		Input:          input,
		Output:         output,
		SubtitleFile:   o.subtitleFile,
		Downscale:      o.downscale,
		TargetBitrate:  o.targetBitrate,
		BufferDuration: o.bufferDuration,
		HLS:            o.hls,
		HLSTime:        o.hlsTime,
		Remux:          o.remux,
		Test:           o.test,
		DryRun:         o.dryRun,
	}
	if o.subtitleIndex >= 0 {
		index := o.subtitleIndex
		req.SubtitleIndex = &index
	}
	flags := cmd.Flags()
	if !flags.Changed("target-bitrate") {
		req.TargetBitrate = cfg.targetBitrate
	}
	if !flags.Changed("buffer-duration") {
		req.BufferDuration = cfg.bufferDuration
	}
	if !flags.Changed("hls-time") {
		req.HLSTime = cfg.hlsTime
	}
	return req
}

// configView carries the configured defaults the flag layer can fall
// back to.
type configView struct {
	targetBitrate  int
	bufferDuration float64
	hlsTime        float64
}

func runEncodeCommand(cmd *cobra.Command, ctx *commandContext, opts *encodeOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	input := args[0]
	if opts.probe {
		return runProbe(cmd, ctx, input)
	}
	if len(args) < 2 {
		return errors.New("output path required (or use --probe)")
	}
	output := args[1]

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	// Dry runs only print the argument list; they must not create the
	// output directory or the history database.
	if !opts.dryRun {
		if dir := filepath.Dir(output); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
	}

	prober := ffprobe.NewProber(cfg.Encoder.FFprobeBinary)
	runner, err := ffmpeg.New(cfg.Encoder.FFmpegBinary)
	if err != nil {
		return err
	}

	encoderOpts := []encoding.Option{encoding.WithDryRunOutput(cmd.OutOrStdout())}
	if !opts.dryRun {
		store, err := ctx.openHistory()
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		if store != nil {
			defer func() {
				_ = store.Close()
			}()
			encoderOpts = append(encoderOpts, encoding.WithRecorder(store))
		}
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
	return encoder.Encode(cmd.Context(), opts.request(cmd, input, output, view))
}
