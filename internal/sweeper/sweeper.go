package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/ondrasimku/edrive-go/internal/registry"
	"github.com/ondrasimku/edrive-go/internal/storage"
)

// DefaultInterval between sweep cycles.
const DefaultInterval = time.Minute

// Sweeper periodically purges expired artifacts: one bulk registry removal
// per cycle, then blob deletion for every removed entry. Failures are logged
// and retried on the next tick, never propagated.
type Sweeper struct {
	registry registry.Registry
	blobs    storage.BlobStore
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func New(reg registry.Registry, blobs storage.BlobStore, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		registry: reg,
		blobs:    blobs,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Start blocks, running one sweep per tick until the context is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep cycle. The expired set is computed once;
// artifacts expiring mid-cycle wait for the next tick.
func (s *Sweeper) RunOnce(ctx context.Context) {
	expired, err := s.registry.DeleteExpiredBefore(ctx, s.now())
	if err != nil {
		// The registry may have removed some records before failing. Those
		// records are gone for good, so their blobs must be reclaimed now;
		// no later cycle will see them again.
		s.logger.Error("expiration sweep failed", "error", err)
	}
	for _, a := range expired {
		for _, e := range a.Entries {
			if err := s.blobs.Delete(ctx, e.StorageName); err != nil {
				s.logger.Error("failed to delete expired blob",
					"accessCode", a.AccessCode, "storageName", e.StorageName, "error", err)
			}
		}
	}
	if len(expired) > 0 {
		s.logger.Info("cleaned up expired files", "count", len(expired))
	}
}
