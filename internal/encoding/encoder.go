package encoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"animutools/internal/config"
	"animutools/internal/logging"
	"animutools/internal/media/ffprobe"
	"animutools/internal/services"
	"animutools/internal/services/ffmpeg"
)

// Prober abstracts media inspection so tests can feed canned probes.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Runner abstracts encoder invocation.
type Runner interface {
	Encode(ctx context.Context, args []string, progress func(ffmpeg.ProgressUpdate)) error
}

// Recorder persists encode-run outcomes. A nil recorder disables the
// ledger without changing encode behavior.
type Recorder interface {
	Begin(ctx context.Context, runID, input, output, mode string) (int64, error)
	Finish(ctx context.Context, id int64, status, detail string) error
}

// Run statuses written to the ledger.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Option configures the encoder.
type Option func(*Encoder)

// WithRecorder attaches a run ledger.
func WithRecorder(rec Recorder) Option {
	return func(e *Encoder) { e.recorder = rec }
}

// WithDryRunOutput redirects the dry-run argument listing (stdout by
// default).
func WithDryRunOutput(w io.Writer) Option {
	return func(e *Encoder) {
		if w != nil {
			e.dryRunOut = w
		}
	}
}

// Encoder orchestrates one encode: probe, select tracks, plan filters
// and options, then hand the argument list to ffmpeg under the host
// lock.
type Encoder struct {
	cfg       *config.Config
	prober    Prober
	runner    Runner
	gate      *Gate
	recorder  Recorder
	logger    *slog.Logger
	dryRunOut io.Writer
}

// New constructs an encoder.
func New(cfg *config.Config, prober Prober, runner Runner, logger *slog.Logger, opts ...Option) (*Encoder, error) {
	if cfg == nil {
		return nil, errors.New("encoder requires config")
	}
	if prober == nil || runner == nil {
		return nil, errors.New("encoder requires prober and runner")
	}
	enc := &Encoder{
		cfg:       cfg,
		prober:    prober,
		runner:    runner,
		gate:      NewGate(cfg.Paths.LockFile, logger),
		logger:    logging.NewComponentLogger(logger, "encoder"),
		dryRunOut: os.Stdout,
	}
	for _, opt := range opts {
		opt(enc)
	}
	return enc, nil
}

// Encode runs the full pipeline for one request. The encoder's non-zero
// exit is the sole runtime failure signal; partial output files are the
// caller's responsibility.
func (e *Encoder) Encode(ctx context.Context, req Request) error {
	runID := uuid.NewString()
	logger := e.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldInput, req.Input),
		logging.String(logging.FieldOutput, req.Output),
	)

	result, err := e.prober.Inspect(ctx, req.Input)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "encoder", "probe input", "", err)
	}

	sel := SelectTracks(result.Streams)
	logger.Info("tracks selected",
		logging.Int("audio_track", sel.AudioTrack),
		logging.Int("audio_count", sel.AudioCount),
		logging.Int("subtitle_track", sel.SubtitleTrack),
		logging.Int("subtitle_count", sel.SubtitleCount),
		logging.String("subtitle_kind", string(sel.SubtitleKind)),
	)
	if req.SubtitleIndex != nil {
		logger.Info("subtitle track overridden",
			logging.Int("from", sel.SubtitleTrack),
			logging.Int("to", *req.SubtitleIndex),
		)
		sel = sel.WithSubtitleOverride(*req.SubtitleIndex)
	}

	mode := ResolveMode(req)

	var chain FilterChain
	if mode != ModeRemux {
		chain, err = BuildFilters(sel, req.Input, FilterOptions{
			Downscale:      req.Downscale,
			DownscaleWidth: e.cfg.Encoder.DownscaleWidth,
			SubtitleFile:   req.SubtitleFile,
		})
		if err != nil {
			return services.Wrap(services.ErrValidation, "encoder", "plan filters", "", err)
		}
	}

	plan := BuildPlan(sel, chain, req, e.cfg.Encoder, e.cfg.HLS)
	logger.Info("encode plan built",
		logging.String(logging.FieldMode, string(plan.Mode)),
		logging.Int("args", len(plan.Args())),
	)

	if req.DryRun {
		fmt.Fprintln(e.dryRunOut, plan.CommandLine())
		logger.Info("dry run, encoder not invoked")
		return nil
	}

	if plan.SegmentDir != "" {
		if err := os.MkdirAll(plan.SegmentDir, 0o755); err != nil {
			return fmt.Errorf("create segment directory: %w", err)
		}
	}

	var recordID int64 = -1
	if e.recorder != nil {
		id, err := e.recorder.Begin(ctx, runID, req.Input, req.Output, string(plan.Mode))
		if err != nil {
			logger.Warn("failed to record run start", logging.Error(err))
		} else {
			recordID = id
		}
	}

	runErr := e.gate.WithLock(ctx, func() error {
		return e.runner.Encode(ctx, plan.Args(), e.progressFunc(logger, result, req))
	})

	if e.recorder != nil && recordID >= 0 {
		status, detail := StatusCompleted, ""
		if runErr != nil {
			status, detail = StatusFailed, runErr.Error()
		}
		if err := e.recorder.Finish(ctx, recordID, status, detail); err != nil {
			logger.Warn("failed to record run outcome", logging.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("encode complete", logging.String(logging.FieldMode, string(plan.Mode)))
	return nil
}

// progressFunc converts ffmpeg progress timestamps into sampled percent
// logs against the probed container duration.
func (e *Encoder) progressFunc(logger *slog.Logger, result ffprobe.Result, req Request) func(ffmpeg.ProgressUpdate) {
	duration := result.DurationSeconds()
	if req.Test && duration > testDurationSeconds {
		duration = testDurationSeconds
	}
	sampler := logging.NewProgressSampler(5)

	return func(update ffmpeg.ProgressUpdate) {
		percent := -1.0
		if duration > 0 && update.Seconds >= 0 {
			percent = update.Seconds / duration * 100
			if percent > 100 {
				percent = 100
			}
		}
		if update.Done {
			percent = 100
		}
		if !sampler.ShouldLog(percent) {
			return
		}
		attrs := []logging.Attr{}
		if percent >= 0 {
			attrs = append(attrs, logging.Float64("percent", percent))
		}
		if update.Seconds >= 0 {
			attrs = append(attrs, logging.Float64("seconds", update.Seconds))
		}
		if update.Speed != "" {
			attrs = append(attrs, logging.String("speed", update.Speed))
		}
		logger.Info("encode progress", logging.Args(attrs...)...)
	}
}
