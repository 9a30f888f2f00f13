package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leadops/lead-console/internal/core/domain"
)

type fakeStorageAdmin struct {
	stats      domain.StorageStats
	statsErr   error
	cleanupErr error
	statsCalls atomic.Int64
	statsSeen  chan struct{}
}

func (f *fakeStorageAdmin) StorageStats(context.Context) (domain.StorageStats, error) {
	f.statsCalls.Add(1)
	if f.statsSeen != nil {
		select {
		case f.statsSeen <- struct{}{}:
		default:
		}
	}
	return f.stats, f.statsErr
}

func (f *fakeStorageAdmin) StorageCleanup(context.Context) (domain.StorageStats, error) {
	if f.cleanupErr != nil {
		return domain.StorageStats{}, f.cleanupErr
	}
	return f.stats, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStorageStatsIndependentFailure(t *testing.T) {
	backend := &fakeStorageAdmin{stats: domain.StorageStats{TimelineFiles: 12}}
	transcription := &fakeStorageAdmin{statsErr: errors.New("connection refused")}
	uc := NewStorageUseCase(backend, transcription, 0, discardLogger())

	snapshot := uc.Stats(context.Background())
	if snapshot[domain.StorageBackend] == nil {
		t.Fatalf("backend panel missing from snapshot")
	}
	if snapshot[domain.StorageBackend].TimelineFiles != 12 {
		t.Fatalf("backend stats = %+v", snapshot[domain.StorageBackend])
	}
	if snapshot[domain.StorageTranscription] != nil {
		t.Fatalf("failed service must map to nil, got %+v", snapshot[domain.StorageTranscription])
	}
}

func TestStorageSnapshotCaches(t *testing.T) {
	backend := &fakeStorageAdmin{stats: domain.StorageStats{SummaryFiles: 3}}
	uc := NewStorageUseCase(backend, &fakeStorageAdmin{}, 0, discardLogger())

	if cached, taken := uc.Snapshot(); cached != nil || !taken.IsZero() {
		t.Fatalf("fresh use case already has a snapshot")
	}

	uc.Stats(context.Background())
	cached, taken := uc.Snapshot()
	if cached == nil || taken.IsZero() {
		t.Fatalf("snapshot not recorded after Stats")
	}
	if cached[domain.StorageBackend].SummaryFiles != 3 {
		t.Fatalf("cached stats = %+v", cached[domain.StorageBackend])
	}
}

func TestStorageCleanupUnknownService(t *testing.T) {
	uc := NewStorageUseCase(&fakeStorageAdmin{}, &fakeStorageAdmin{}, 0, discardLogger())
	_, err := uc.Cleanup(context.Background(), domain.StorageService("mystery"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestStorageCleanupWrapsServiceError(t *testing.T) {
	backend := &fakeStorageAdmin{cleanupErr: errors.New("disk busy")}
	uc := NewStorageUseCase(backend, &fakeStorageAdmin{}, 0, discardLogger())

	_, err := uc.Cleanup(context.Background(), domain.StorageBackend)
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestStorageCleanupSchedulesRefresh(t *testing.T) {
	backend := &fakeStorageAdmin{statsSeen: make(chan struct{}, 1)}
	uc := NewStorageUseCase(backend, &fakeStorageAdmin{}, 10*time.Millisecond, discardLogger())

	if _, err := uc.Cleanup(context.Background(), domain.StorageBackend); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	select {
	case <-backend.statsSeen:
	case <-time.After(2 * time.Second):
		t.Fatalf("refresh never fired after cleanup")
	}
}
