package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
)

// FactRepository is the location fact store: processed photos and their
// extracted locations. It is append-only apart from ReplaceBatch.
type FactRepository struct {
	db *database.DB
}

// NewFactRepository creates a new fact repository
func NewFactRepository(db *database.DB) *FactRepository {
	return &FactRepository{db: db}
}

// ListLocationFacts returns every fact ordered by date, ties in insertion order.
func (r *FactRepository) ListLocationFacts(ctx context.Context) ([]models.LocationFact, error) {
	query := `SELECT id, photo_uuid, timestamp, date, city, state, country, latitude, longitude, created_at
		FROM raw_locations
		ORDER BY date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query location facts: %w", err)
	}
	defer rows.Close()

	var facts []models.LocationFact
	for rows.Next() {
		var f models.LocationFact
		var city, state, country sql.NullString
		var timestamp, lat, lon sql.NullFloat64
		var createdAt sql.NullInt64
		if err := rows.Scan(&f.ID, &f.PhotoID, &timestamp, &f.Date, &city, &state, &country, &lat, &lon, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan location fact: %w", err)
		}
		f.City, f.State, f.Country = city.String, state.String, country.String
		f.Timestamp = timestamp.Float64
		f.CreatedAt = createdAt.Int64
		if lat.Valid && lon.Valid {
			f.Latitude, f.Longitude = &lat.Float64, &lon.Float64
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate location facts: %w", err)
	}

	return facts, nil
}

// ProcessedPhotoIDs returns the set of photo ids already examined.
func (r *FactRepository) ProcessedPhotoIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT photo_uuid FROM processed_photos")
	if err != nil {
		return nil, fmt.Errorf("failed to query processed photos: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan processed photo: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// InsertBatch records processed photos and their facts in one transaction.
// Photos already recorded are ignored, so their facts are never duplicated.
func (r *FactRepository) InsertBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error) {
	inserted := 0
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		var err error
		inserted, err = insertBatch(ctx, tx, processed, facts)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ReplaceBatch clears all location data and records the batch in one
// transaction. On error the previous data is left intact.
func (r *FactRepository) ReplaceBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error) {
	inserted := 0
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if err := reset(ctx, tx); err != nil {
			return err
		}
		var err error
		inserted, err = insertBatch(ctx, tx, processed, facts)
		return err
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// reset deletes all facts, processed photo records and stays.
func reset(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"raw_locations", "processed_photos", "consolidated_locations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "UPDATE sync_metadata SET total_locations = 0 WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to reset stay count: %w", err)
	}
	return nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error) {
	insertProcessed, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO processed_photos (photo_uuid, processed_at, has_location)
		VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare processed insert: %w", err)
	}
	defer insertProcessed.Close()

	insertFact, err := tx.PrepareContext(ctx, `
		INSERT INTO raw_locations (photo_uuid, timestamp, city, state, country, date, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare location insert: %w", err)
	}
	defer insertFact.Close()

	fresh := make(map[string]bool, len(processed))
	for _, p := range processed {
		res, err := insertProcessed.ExecContext(ctx, p.PhotoID, p.ProcessedAt, boolToInt(p.HasLocation))
		if err != nil {
			return 0, fmt.Errorf("failed to insert processed photo %s: %w", p.PhotoID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			fresh[p.PhotoID] = true
		}
	}

	inserted := 0
	for _, f := range facts {
		if !fresh[f.PhotoID] {
			continue
		}
		if _, err := insertFact.ExecContext(ctx,
			f.PhotoID, f.Timestamp, f.City, f.State, f.Country, f.Date,
			nullFloat(f.Latitude), nullFloat(f.Longitude), f.CreatedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert location for %s: %w", f.PhotoID, err)
		}
		inserted++
	}
	return inserted, nil
}

// DistinctStates returns every (state, country) pair seen in the facts.
func (r *FactRepository) DistinctStates(ctx context.Context) ([]models.StateOption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT state, country
		FROM raw_locations
		ORDER BY country, state`)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	states := []models.StateOption{}
	for rows.Next() {
		var state, country sql.NullString
		if err := rows.Scan(&state, &country); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, models.StateOption{State: state.String, Country: country.String})
	}
	return states, rows.Err()
}

// CountProcessed returns how many photos were examined and how many had a location.
func (r *FactRepository) CountProcessed(ctx context.Context) (total, withLocation int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN has_location = 1 THEN 1 ELSE 0 END), 0)
		FROM processed_photos`).Scan(&total, &withLocation)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count processed photos: %w", err)
	}
	return total, withLocation, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
