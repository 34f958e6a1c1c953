// Package photos reads assets and their reverse-geocoded places from a
// Photos library database.
package photos

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

// AppleEpochOffset is the number of seconds between 1970-01-01 and 2001-01-01 UTC.
const AppleEpochOffset = 978307200

// missingCoordinate is what the library stores when an asset has no position.
const missingCoordinate = -180.0

const assetsQuery = `
	SELECT a.ZUUID, a.ZDATECREATED, a.ZLATITUDE, a.ZLONGITUDE, b.ZREVERSELOCATIONDATA
	FROM ZASSET a
	JOIN ZADDITIONALASSETATTRIBUTES b ON b.ZASSET = a.Z_PK
	WHERE a.ZTRASHEDSTATE = 0
	ORDER BY a.ZDATECREATED DESC`

// DefaultLibraryPath returns the Photos database of the current user's
// system library.
func DefaultLibraryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Pictures", "Photos Library.photoslibrary", "database", "Photos.sqlite")
}

// ResolveLibraryPath returns custom when it exists, else fallback when it
// exists, else ErrPhotosLibraryNotFound.
func ResolveLibraryPath(custom, fallback string) (string, error) {
	for _, p := range []string{custom, fallback} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("photos database not found at %q: %w", fallback, apperrors.ErrPhotosLibraryNotFound)
}

// Asset is one non-trashed photo with its resolved location, if any.
type Asset struct {
	UUID      string
	Created   float64 // seconds since 2001-01-01 UTC
	Location  *Location
	Latitude  *float64
	Longitude *float64
}

// Batch is what an extraction pass produced for photos not seen before.
type Batch struct {
	Processed []models.ProcessedPhoto
	Facts     []models.LocationFact
	Total     int // assets considered, after the test-mode limit
}

// WithLocation returns how many processed photos had a location.
func (b *Batch) WithLocation() int {
	n := 0
	for _, p := range b.Processed {
		if p.HasLocation {
			n++
		}
	}
	return n
}

// Extractor converts library assets into location facts.
type Extractor struct {
	logger   *zap.Logger
	location *time.Location
	now      func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeZone sets the time zone used to derive calendar days.
func WithTimeZone(loc *time.Location) Option {
	return func(e *Extractor) { e.location = loc }
}

// WithClock overrides the clock used for processed_at and created_at.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor creates an extractor using the local time zone.
func NewExtractor(logger *zap.Logger, opts ...Option) *Extractor {
	e := &Extractor{logger: logger, location: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReadAssets lists assets newest first. A positive limit keeps only the
// newest limit assets.
func (e *Extractor) ReadAssets(ctx context.Context, libraryPath string, limit int) ([]Asset, error) {
	db, err := database.OpenReadOnly(libraryPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := assetsQuery
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var (
			a        Asset
			created  sql.NullFloat64
			lat, lon sql.NullFloat64
			blob     []byte
		)
		if err := rows.Scan(&a.UUID, &created, &lat, &lon, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		a.Created = created.Float64
		if loc, ok := ParseLocationBlob(blob); ok {
			a.Location = &loc
		}
		if validCoordinate(lat, lon) {
			a.Latitude, a.Longitude = &lat.Float64, &lon.Float64
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}
	return assets, nil
}

// Extract reads the library and builds facts for assets whose id is not in
// known. In test mode only the newest photoLimit assets are considered.
func (e *Extractor) Extract(ctx context.Context, libraryPath string, testMode bool, photoLimit int, known map[string]bool) (*Batch, error) {
	limit := 0
	if testMode {
		limit = photoLimit
	}

	start := e.now()
	assets, err := e.ReadAssets(ctx, libraryPath, limit)
	if err != nil {
		return nil, err
	}

	now := e.now().UnixMilli()
	batch := &Batch{Total: len(assets)}
	for _, a := range assets {
		if known[a.UUID] {
			continue
		}
		batch.Processed = append(batch.Processed, models.ProcessedPhoto{
			PhotoID:     a.UUID,
			ProcessedAt: now,
			HasLocation: a.Location != nil,
		})
		if a.Location == nil {
			continue
		}
		batch.Facts = append(batch.Facts, models.LocationFact{
			PhotoID:   a.UUID,
			Timestamp: a.Created,
			Date:      e.CalendarDay(a.Created),
			City:      a.Location.City,
			State:     a.Location.State,
			Country:   a.Location.Country,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			CreatedAt: now,
		})
	}

	e.logger.Info("Photos extracted",
		zap.String("library", libraryPath),
		zap.Int("assets", len(assets)),
		zap.Int("new", len(batch.Processed)),
		zap.Int("with_location", len(batch.Facts)),
		zap.Duration("duration", e.now().Sub(start)),
	)
	return batch, nil
}

// CalendarDay converts a library timestamp to a YYYY-MM-DD day in the
// extractor's time zone.
func (e *Extractor) CalendarDay(created float64) string {
	sec := int64(created)
	nsec := int64((created - float64(sec)) * float64(time.Second))
	return time.Unix(sec+AppleEpochOffset, nsec).In(e.location).Format("2006-01-02")
}

func validCoordinate(lat, lon sql.NullFloat64) bool {
	if !lat.Valid || !lon.Valid {
		return false
	}
	if lat.Float64 == missingCoordinate || lon.Float64 == missingCoordinate {
		return false
	}
	return lat.Float64 >= -90 && lat.Float64 <= 90 && lon.Float64 >= -180 && lon.Float64 <= 180
}
