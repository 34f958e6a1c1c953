package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

const stayColumns = `id, city, state, country, start_date, end_date, year, month, month_name,
	display_date, days_stayed, is_home, photo_count, center_lat, center_lon, radius_meters,
	created_at, updated_at`

// StayRepository handles database operations for consolidated stays
type StayRepository struct {
	db *database.DB
}

// NewStayRepository creates a new stay repository
func NewStayRepository(db *database.DB) *StayRepository {
	return &StayRepository{db: db}
}

// ReplaceAllStays deletes every stored stay, inserts the given ones and
// updates the stay counter in sync metadata, all in one transaction. On
// failure the previous stays are left intact.
func (r *StayRepository) ReplaceAllStays(ctx context.Context, stays []models.Stay) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM consolidated_locations"); err != nil {
			return fmt.Errorf("failed to clear stays: %w", err)
		}

		insert, err := tx.PrepareContext(ctx, `
			INSERT INTO consolidated_locations
				(city, state, country, start_date, end_date, year, month, month_name, display_date, days_stayed,
				 is_home, photo_count, center_lat, center_lon, radius_meters, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare stay insert: %w", err)
		}
		defer insert.Close()

		for _, s := range stays {
			if _, err := insert.ExecContext(ctx,
				s.City, s.State, s.Country, s.StartDate, s.EndDate, s.Year, s.Month, s.MonthName,
				s.DisplayDate, s.DaysStayed, boolToInt(s.IsHome), s.PhotoCount,
				nullFloat(s.CenterLat), nullFloat(s.CenterLon), nullFloat(s.RadiusMeters),
				s.CreatedAt, s.UpdatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert stay %s %s: %w", s.StartDate, s.City, err)
			}
		}

		return updateStayCount(ctx, tx)
	})
}

// ListTimeline returns a page of stays, newest first, and the total count.
func (r *StayRepository) ListTimeline(ctx context.Context, filter models.TimelineFilter) ([]models.Stay, int64, error) {
	filter.Normalize()

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM consolidated_locations").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stays: %w", err)
	}

	query := "SELECT " + stayColumns + " FROM consolidated_locations ORDER BY start_date DESC, id DESC LIMIT ? OFFSET ?"
	stays, err := r.query(ctx, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	return stays, total, nil
}

// ListAll returns every stay in chronological order.
func (r *StayRepository) ListAll(ctx context.Context) ([]models.Stay, error) {
	return r.query(ctx, "SELECT "+stayColumns+" FROM consolidated_locations ORDER BY start_date ASC, id ASC")
}

// ListByPlace returns every stay with the given display name and region, newest first.
func (r *StayRepository) ListByPlace(ctx context.Context, place models.PlaceFilter) ([]models.Stay, error) {
	query := "SELECT " + stayColumns + ` FROM consolidated_locations
		WHERE city = ? AND state = ? AND country = ?
		ORDER BY start_date DESC, id DESC`
	return r.query(ctx, query, place.City, place.State, place.Country)
}

// GetStayByID retrieves a single stay by ID
func (r *StayRepository) GetStayByID(ctx context.Context, id int64) (*models.Stay, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+stayColumns+" FROM consolidated_locations WHERE id = ?", id)
	s, err := scanStay(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stay %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stay: %w", err)
	}
	return s, nil
}

// RenameStay changes the display name of one stay.
func (r *StayRepository) RenameStay(ctx context.Context, id int64, city string, updatedAt int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE consolidated_locations SET city = ?, updated_at = ? WHERE id = ?", city, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to rename stay: %w", err)
	}
	return requireAffected(res, id)
}

// DeleteStay removes one stay and refreshes the stay counter.
func (r *StayRepository) DeleteStay(ctx context.Context, id int64) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM consolidated_locations WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete stay: %w", err)
		}
		if err := requireAffected(res, id); err != nil {
			return err
		}
		return updateStayCount(ctx, tx)
	})
}

// CountStays returns the number of stored stays.
func (r *StayRepository) CountStays(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM consolidated_locations").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stays: %w", err)
	}
	return n, nil
}

func (r *StayRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Stay, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stays: %w", err)
	}
	defer rows.Close()

	stays := []models.Stay{}
	for rows.Next() {
		s, err := scanStay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stay: %w", err)
		}
		stays = append(stays, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stays: %w", err)
	}
	return stays, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStay(row rowScanner) (*models.Stay, error) {
	var (
		s                         models.Stay
		isHome                    int
		centerLat, centerLon, rad sql.NullFloat64
	)
	err := row.Scan(
		&s.ID, &s.City, &s.State, &s.Country, &s.StartDate, &s.EndDate, &s.Year, &s.Month, &s.MonthName,
		&s.DisplayDate, &s.DaysStayed, &isHome, &s.PhotoCount, &centerLat, &centerLon, &rad,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.IsHome = isHome == 1
	if centerLat.Valid && centerLon.Valid {
		s.CenterLat, s.CenterLon = &centerLat.Float64, &centerLon.Float64
	}
	if rad.Valid {
		s.RadiusMeters = &rad.Float64
	}
	return &s, nil
}

func updateStayCount(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE sync_metadata
		SET total_locations = (SELECT COUNT(*) FROM consolidated_locations)
		WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to update stay count: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("stay %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
