package encoding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofrs/flock"

	"animutools/internal/logging"
)

// Gate serializes encoder invocations across processes on one host via
// an exclusive lock on a shared sentinel file. The lock is a courtesy
// against CPU saturation, not a per-output correctness guarantee; it is
// host-global on purpose.
type Gate struct {
	path   string
	logger *slog.Logger
}

// NewGate constructs a gate for the given sentinel path.
func NewGate(path string, logger *slog.Logger) *Gate {
	return &Gate{
		path:   strings.TrimSpace(path),
		logger: logging.NewComponentLogger(logger, "gate"),
	}
}

// WithLock runs fn while holding the sentinel lock. Acquisition blocks
// with no timeout until the current holder releases; a dead holder
// therefore blocks future invocations, which is a documented
// limitation. When the lock cannot be provided at all (unsupported
// platform or filesystem), the gate degrades to running fn unguarded
// with a warning rather than failing the encode. The lock is released
// on every exit path, including fn failure.
func (g *Gate) WithLock(ctx context.Context, fn func() error) error {
	if g == nil || g.path == "" {
		return fn()
	}

	lock := flock.New(g.path)
	g.logger.Debug("waiting for encode lock", logging.String("path", g.path))
	if err := lock.Lock(); err != nil {
		g.logger.Warn("encode lock unavailable, continuing without serialization",
			logging.String("path", g.path),
			logging.Error(err),
		)
		return fn()
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			g.logger.Warn("failed to release encode lock", logging.Error(err))
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	g.logger.Debug("encode lock acquired", logging.String("path", g.path))
	return fn()
}
