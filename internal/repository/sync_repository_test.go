package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/photo-timeline/internal/models"
)

func TestSyncRepository_RecordSync(t *testing.T) {
	db := openTestDB(t)
	repo := NewSyncRepository(db)
	ctx := context.Background()

	m, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, m.LastSyncTime)
	assert.Zero(t, m.TotalPhotosProcessed)

	require.NoError(t, NewStayRepository(db).ReplaceAllStays(ctx, []models.Stay{stay("Reno", "2024-01-01", "2024-01-01")}))
	require.NoError(t, repo.RecordSync(ctx, 1700000000000, 10, 7, "run-1"))

	m, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, m.LastSyncTime)
	assert.EqualValues(t, 1700000000000, *m.LastSyncTime)
	assert.Equal(t, 10, m.TotalPhotosProcessed)
	assert.Equal(t, 7, m.PhotosWithLocation)
	assert.Equal(t, 1, m.TotalLocations)
	assert.Equal(t, "run-1", m.LastRunID)
}
