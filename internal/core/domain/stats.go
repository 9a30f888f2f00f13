package domain

import "fmt"

// StorageStats is the aggregate counts/sizes record a storage-admin endpoint
// reports. Only timeline_files, total_size_mb and the age fields are always
// present; the rest depend on the service.
type StorageStats struct {
	TimelineFiles   int     `json:"timeline_files"`
	LeadDirectories int     `json:"lead_directories,omitempty"`
	SummaryFiles    int     `json:"summary_files,omitempty"`
	TranscriptFiles int     `json:"transcript_files,omitempty"`
	LogFiles        int     `json:"log_files,omitempty"`
	TotalSizeMB     float64 `json:"total_size_mb"`
	OldestFileDays  int     `json:"oldest_file_days"`
	NewestFileDays  int     `json:"newest_file_days"`
}

func (s StorageStats) TotalItems() int {
	return s.TimelineFiles + s.LeadDirectories + s.SummaryFiles + s.TranscriptFiles + s.LogFiles
}

// Status buckets the stats for the dashboard badge.
func (s StorageStats) Status() string {
	switch {
	case s.TotalItems() > 100 || s.TotalSizeMB > 100:
		return "warning"
	case s.TotalItems() > 50 || s.TotalSizeMB > 50:
		return "info"
	default:
		return "success"
	}
}

// FormatSize renders a megabyte figure the way the panel displays it.
func FormatSize(sizeMB float64) string {
	switch {
	case sizeMB < 1:
		return fmt.Sprintf("%.1f KB", sizeMB*1024)
	case sizeMB < 1024:
		return fmt.Sprintf("%.1f MB", sizeMB)
	default:
		return fmt.Sprintf("%.1f GB", sizeMB/1024)
	}
}

// StorageService names one of the two storage-admin collaborators.
type StorageService string

const (
	StorageBackend       StorageService = "backend"
	StorageTranscription StorageService = "transcription"
)

func ParseStorageService(raw string) (StorageService, error) {
	switch StorageService(raw) {
	case StorageBackend, StorageTranscription:
		return StorageService(raw), nil
	default:
		return "", WrapError(ErrInvalidInput, "parse storage service", fmt.Errorf("unknown service %q", raw))
	}
}
