package resilience

import (
	"context"

	"github.com/leadops/lead-console/internal/core/domain"
	"github.com/leadops/lead-console/internal/core/ports"
)

// storageAdminGuard decorates a StorageAdmin with the executor. Stats and
// cleanup are idempotent on both services, so repeating them is safe.
type storageAdminGuard struct {
	inner    ports.StorageAdmin
	executor *Executor
	target   string
}

func GuardStorageAdmin(inner ports.StorageAdmin, executor *Executor, target string) ports.StorageAdmin {
	return &storageAdminGuard{inner: inner, executor: executor, target: target}
}

func (g *storageAdminGuard) StorageStats(ctx context.Context) (domain.StorageStats, error) {
	var stats domain.StorageStats
	err := g.executor.Execute(ctx, g.target+" storage stats", func(ctx context.Context) error {
		var callErr error
		stats, callErr = g.inner.StorageStats(ctx)
		return callErr
	})
	return stats, err
}

func (g *storageAdminGuard) StorageCleanup(ctx context.Context) (domain.StorageStats, error) {
	var stats domain.StorageStats
	err := g.executor.Execute(ctx, g.target+" storage cleanup", func(ctx context.Context) error {
		var callErr error
		stats, callErr = g.inner.StorageCleanup(ctx)
		return callErr
	})
	return stats, err
}
