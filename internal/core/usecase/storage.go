package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

// StorageUseCase aggregates the storage-admin panels of the backend and
// transcription services. Each service is polled independently; a failing
// service simply drops out of the snapshot so one outage never hides the
// other panel.
type StorageUseCase struct {
	admins       map[domain.StorageService]ports.StorageAdmin
	logger       *slog.Logger
	refreshDelay time.Duration

	mu       sync.Mutex
	snapshot map[domain.StorageService]*domain.StorageStats
	taken    time.Time
}

func NewStorageUseCase(
	backend ports.StorageAdmin,
	transcription ports.StorageAdmin,
	refreshDelay time.Duration,
	logger *slog.Logger,
) *StorageUseCase {
	return &StorageUseCase{
		admins: map[domain.StorageService]ports.StorageAdmin{
			domain.StorageBackend:       backend,
			domain.StorageTranscription: transcription,
		},
		logger:       logger,
		refreshDelay: refreshDelay,
	}
}

// Stats polls both services and returns whatever answered. A service that
// errors maps to a nil entry and the failure is only logged.
func (uc *StorageUseCase) Stats(ctx context.Context) map[domain.StorageService]*domain.StorageStats {
	snapshot := make(map[domain.StorageService]*domain.StorageStats, len(uc.admins))
	for service, admin := range uc.admins {
		stats, err := admin.StorageStats(ctx)
		if err != nil {
			uc.logger.Warn("storage stats unavailable",
				slog.String("service", string(service)),
				slog.String("error", err.Error()),
			)
			snapshot[service] = nil
			continue
		}
		snapshot[service] = &stats
	}

	uc.mu.Lock()
	uc.snapshot = snapshot
	uc.taken = time.Now()
	uc.mu.Unlock()

	return snapshot
}

// Snapshot returns the last polled stats without touching the network.
func (uc *StorageUseCase) Snapshot() (map[domain.StorageService]*domain.StorageStats, time.Time) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshot, uc.taken
}

// Cleanup triggers a manual cleanup on one service and schedules a stats
// refresh shortly after, giving the service time to settle before the panel
// re-polls.
func (uc *StorageUseCase) Cleanup(ctx context.Context, service domain.StorageService) (domain.StorageStats, error) {
	admin, ok := uc.admins[service]
	if !ok {
		return domain.StorageStats{}, domain.WrapError(domain.ErrInvalidInput, "storage cleanup",
			fmt.Errorf("unknown storage service %q", service))
	}

	stats, err := admin.StorageCleanup(ctx)
	if err != nil {
		return domain.StorageStats{}, domain.WrapError(domain.ErrUpstream, "storage cleanup", err)
	}

	uc.scheduleRefresh()
	return stats, nil
}

func (uc *StorageUseCase) scheduleRefresh() {
	if uc.refreshDelay <= 0 {
		return
	}
	time.AfterFunc(uc.refreshDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		uc.Stats(ctx)
	})
}
