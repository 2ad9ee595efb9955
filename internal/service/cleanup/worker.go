package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Pruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Worker periodically deletes decision history older than the retention
// window.
type Worker struct {
	Repo      Pruner
	Retention time.Duration
	Interval  time.Duration

	now func() time.Time
}

func NewWorker(repo Pruner, retentionDays int, interval time.Duration) *Worker {
	return &Worker{
		Repo:      repo,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		Interval:  interval,
		now:       time.Now,
	}
}

// Start runs one cleanup immediately and then every Interval until ctx is
// done. It blocks; run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	if w.Interval <= 0 || w.Retention <= 0 {
		log.Info().Str("component", "cleanup").Msg("history cleanup disabled")
		return
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	log.Info().Str("component", "cleanup").Dur("interval", w.Interval).Msg("background worker started")

	w.RunCleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "cleanup").Msg("background worker stopped")
			return
		case <-ticker.C:
			w.RunCleanup(ctx)
		}
	}
}

// RunCleanup executes one pass and returns the number of rows removed.
func (w *Worker) RunCleanup(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.Retention)
	deleted, err := w.Repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Str("component", "cleanup").Err(err).Msg("error cleaning up decision history")
		return 0
	}
	if deleted > 0 {
		log.Info().Str("component", "cleanup").Int64("deleted", deleted).Msg("removed expired decisions")
	}
	return deleted
}
