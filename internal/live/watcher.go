package live

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/internal/discovery"
	"github.com/masterclass-hub/backend/internal/models"
)

// WatchInterval is how often the live-session set is re-evaluated.
const WatchInterval = 30 * time.Second

// Watcher polls for in-progress sessions and broadcasts the banner list to
// connected viewers whenever it changes.
type Watcher struct {
	hub    *Hub
	engine *discovery.Engine
	logger *zap.Logger
}

// NewWatcher creates a live-session watcher.
func NewWatcher(hub *Hub, engine *discovery.Engine, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{hub: hub, engine: engine, logger: logger}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(WatchInterval)
	defer ticker.Stop()

	var last []int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.hub.ViewerCount() == 0 {
				continue
			}
			videos, err := w.engine.Live(ctx)
			if err != nil {
				w.logger.Error("live poll failed", zap.Error(err))
				continue
			}
			ids := videoIDs(videos)
			if sameIDs(ids, last) {
				continue
			}
			last = ids
			w.hub.Broadcast("live_update", videos)
			w.logger.Info("live banner changed", zap.Int("count", len(ids)))
		}
	}
}

func videoIDs(videos []models.Video) []int64 {
	ids := make([]int64, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	return ids
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
