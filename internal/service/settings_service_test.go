package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/consolidation"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

type memSettings struct {
	s models.Settings
}

func (m *memSettings) GetSettings(ctx context.Context) (*models.Settings, error) {
	s := m.s
	return &s, nil
}

func (m *memSettings) ApplyUpdate(ctx context.Context, u models.SettingsUpdate) error {
	if u.TestMode != nil {
		m.s.TestMode = *u.TestMode
	}
	if u.PhotoLimit != nil {
		m.s.PhotoLimit = *u.PhotoLimit
	}
	if u.HomeState != nil {
		m.s.HomeState = *u.HomeState
	}
	if u.HomeCountry != nil {
		m.s.HomeCountry = *u.HomeCountry
	}
	if u.HomePolicy != nil {
		m.s.HomePolicy = *u.HomePolicy
	}
	return nil
}

type fakeStates []models.StateOption

func (f fakeStates) DistinctStates(ctx context.Context) ([]models.StateOption, error) {
	return f, nil
}

type countingRebuild struct{ n int }

func (c *countingRebuild) Consolidate(ctx context.Context) (*consolidation.Result, error) {
	c.n++
	return &consolidation.Result{}, nil
}

func TestUpdateSettings_RebuildsOnlyForHomeChanges(t *testing.T) {
	store := &memSettings{s: models.Settings{PhotoLimit: 100}}
	rebuild := &countingRebuild{}
	svc := NewSettingsService(store, fakeStates{}, rebuild, zap.NewNop())
	ctx := context.Background()

	testMode := true
	got, err := svc.UpdateSettings(ctx, models.SettingsUpdate{TestMode: &testMode})
	require.NoError(t, err)
	assert.True(t, got.TestMode)
	assert.Zero(t, rebuild.n)

	state, policy := "California", "state"
	got, err = svc.UpdateSettings(ctx, models.SettingsUpdate{HomeState: &state, HomePolicy: &policy})
	require.NoError(t, err)
	assert.Equal(t, "California", got.HomeState)
	assert.Equal(t, 1, rebuild.n)
}

func TestUpdateSettings_Validation(t *testing.T) {
	store := &memSettings{s: models.Settings{PhotoLimit: 100}}
	rebuild := &countingRebuild{}
	svc := NewSettingsService(store, fakeStates{}, rebuild, zap.NewNop())
	ctx := context.Background()

	zero := 0
	_, err := svc.UpdateSettings(ctx, models.SettingsUpdate{PhotoLimit: &zero})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSettings)

	bogus := "country"
	_, err = svc.UpdateSettings(ctx, models.SettingsUpdate{HomePolicy: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSettings)

	assert.Equal(t, 100, store.s.PhotoLimit)
	assert.Zero(t, rebuild.n)
}

func TestListStates(t *testing.T) {
	states := fakeStates{{State: "Nevada", Country: "United States"}}
	svc := NewSettingsService(&memSettings{}, states, &countingRebuild{}, zap.NewNop())

	got, err := svc.ListStates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StateOption(states), got)
}
