package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
)

// DefaultWatchInterval is how often WatchSession polls the store.
const DefaultWatchInterval = 500 * time.Millisecond

// WatchSession polls a stored session and writes one JSON StateDiff line per
// change until ctx is cancelled. It follows sessions driven by another process
// (serve, mcp) through a shared file or redis store.
func WatchSession(ctx context.Context, svc *Services, sessionID string, interval time.Duration, w io.Writer) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	enc := json.NewEncoder(w)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *domain.State
	missing := false
	for {
		state, err := svc.Store.Load(ctx, sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			if !missing {
				svc.Logger.Info("Waiting for session", "session_id", sessionID)
				missing = true
			}
			last = nil
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to load session: %w", err)
		default:
			missing = false
			if diff := domain.Diff(last, state); diff != nil {
				if err := enc.Encode(diff); err != nil {
					return err
				}
			}
			last = state
		}

		select {
		case <-ctx.Done():
			svc.Logger.Info("Stopping watcher", "session_id", sessionID)
			return nil
		case <-ticker.C:
		}
	}
}
