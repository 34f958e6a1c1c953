package models

// SyncMetadata is the singleton row describing the last refresh.
type SyncMetadata struct {
	LastSyncTime         *int64 `json:"last_sync_time" db:"last_sync_time"` // unix millis
	TotalPhotosProcessed int    `json:"total_photos_processed" db:"total_photos_processed"`
	TotalLocations       int    `json:"total_locations" db:"total_locations"`
	PhotosWithLocation   int    `json:"photos_with_location" db:"photos_with_location"`
	LastRunID            string `json:"last_run_id,omitempty" db:"last_run_id"`
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	RunID          string        `json:"runId"`
	ProcessedCount int           `json:"processedCount"`
	WithLocation   int           `json:"withLocation"`
	Total          int           `json:"total"`
	Stays          int           `json:"stays"`
	SyncStatus     *SyncMetadata `json:"syncStatus,omitempty"`
}
