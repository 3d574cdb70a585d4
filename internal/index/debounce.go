package index

import (
	"context"
	"time"

	"github.com/hamr-launcher/hamrd/internal/logging"
)

// saveQuiet is how long the store must go without a new mutation before a
// dirty index is flushed to disk; tick is how often the saver checks.
// Mirrors TimeWtr-BlitzMem's FileProvider.scheduleReload debounce shape,
// adapted to a poll loop instead of a single retriggerable timer since
// writes here arrive from many goroutines (engine, broker, rpc) rather
// than one watcher.
const (
	saveQuietPeriod = time.Second
	saveTick        = 100 * time.Millisecond
)

// RunDebouncedSaver blocks, periodically flushing s to path once it has
// been dirty and quiescent for saveQuietPeriod, until ctx is cancelled. A
// final save is attempted on shutdown if the store is still dirty, so a
// clean daemon exit never drops the last few seconds of frecency updates.
func RunDebouncedSaver(ctx context.Context, s *Store, path string) {
	ticker := time.NewTicker(saveTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.IsDirty() {
				if err := s.Save(path); err != nil {
					logging.Index().Error().Err(err).Msg("index: final save failed")
				}
			}
			return
		case <-ticker.C:
			if !s.IsDirty() {
				continue
			}
			if time.Since(time.UnixMilli(s.LastDirtyMs())) < saveQuietPeriod {
				continue
			}
			if err := s.Save(path); err != nil {
				logging.Index().Error().Err(err).Str("path", path).Msg("index: save failed")
			}
		}
	}
}
