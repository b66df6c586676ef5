package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vodkeeper/vodkeeper/internal/domain"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

// Watcher turns the one-shot run into a polling loop: one full sequential
// pass over the channels per tick, never overlapping.
type Watcher struct {
	logger   zerolog.Logger
	proc     *Processor
	channels []domain.Channel

	TickInterval time.Duration
}

func NewWatcher(logger zerolog.Logger, proc *Processor, channels []domain.Channel) *Watcher {
	return &Watcher{
		logger:       logger,
		proc:         proc,
		channels:     channels,
		TickInterval: 5 * time.Minute,
	}
}

// Run blocks until ctx is done or an authentication rejection aborts the
// loop. Per-channel failures are already handled inside RunAll.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.TickInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if err := w.runOnce(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("watcher stopped")
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	err := w.proc.RunAll(ctx, w.channels)
	if errors.Is(err, ports.ErrAuth) {
		w.logger.Error().Err(err).Msg("authentication rejected, stopping watcher")
		return err
	}
	return nil
}
