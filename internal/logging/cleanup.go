package logging

import (
	"context"
	"log/slog"
	"time"
)

// StartCleanup runs a daily goroutine that deletes system logs older than
// retentionDays, until ctx is done.
func StartCleanup(ctx context.Context, store LogStore, retentionDays int) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PruneOnce(ctx, store, retentionDays, time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

// PruneOnce deletes rows older than retentionDays before now.
func PruneOnce(ctx context.Context, store LogStore, retentionDays int, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	deleted, err := store.PruneLogs(ctx, cutoff)
	if err != nil {
		slog.Warn("log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("log cleanup completed", "deleted", deleted)
	}
}
