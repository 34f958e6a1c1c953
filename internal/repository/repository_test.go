package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/models"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "locations.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stay(city, start, end string) models.Stay {
	return models.Stay{
		City:        city,
		State:       "California",
		Country:     "United States",
		StartDate:   start,
		EndDate:     end,
		Year:        2024,
		Month:       1,
		MonthName:   "January",
		DisplayDate: start,
		DaysStayed:  1,
		PhotoCount:  1,
	}
}

func totalLocations(t *testing.T, db *database.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT total_locations FROM sync_metadata WHERE id = 1").Scan(&n))
	return n
}
