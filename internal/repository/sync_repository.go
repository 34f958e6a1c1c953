package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
)

// SyncRepository reads and writes the singleton sync_metadata row.
type SyncRepository struct {
	db *database.DB
}

// NewSyncRepository creates a new sync metadata repository
func NewSyncRepository(db *database.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// Get returns the sync metadata.
func (r *SyncRepository) Get(ctx context.Context) (*models.SyncMetadata, error) {
	var (
		m        models.SyncMetadata
		lastSync sql.NullInt64
		runID    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT last_sync_time, total_photos_processed, total_locations, photos_with_location, last_run_id
		FROM sync_metadata WHERE id = 1`).Scan(
		&lastSync, &m.TotalPhotosProcessed, &m.TotalLocations, &m.PhotosWithLocation, &runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync metadata: %w", err)
	}
	if lastSync.Valid {
		m.LastSyncTime = &lastSync.Int64
	}
	m.LastRunID = runID.String
	return &m, nil
}

// RecordSync stores the outcome of an extraction pass.
func (r *SyncRepository) RecordSync(ctx context.Context, syncedAt int64, totalProcessed, withLocation int, runID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sync_metadata SET
			last_sync_time = ?,
			total_photos_processed = ?,
			photos_with_location = ?,
			total_locations = (SELECT COUNT(*) FROM consolidated_locations),
			last_run_id = ?
		WHERE id = 1`,
		syncedAt, totalProcessed, withLocation, runID)
	if err != nil {
		return fmt.Errorf("failed to update sync metadata: %w", err)
	}
	return nil
}
