package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/consolidation"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

// SettingsStore persists user settings.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	ApplyUpdate(ctx context.Context, u models.SettingsUpdate) error
}

// StateLister lists the (state, country) pairs seen in location facts.
type StateLister interface {
	DistinctStates(ctx context.Context) ([]models.StateOption, error)
}

// Reconsolidator rebuilds stays after a grouping-relevant change.
type Reconsolidator interface {
	Consolidate(ctx context.Context) (*consolidation.Result, error)
}

// SettingsService validates and applies settings changes.
type SettingsService struct {
	store   SettingsStore
	states  StateLister
	rebuild Reconsolidator
	logger  *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(store SettingsStore, states StateLister, rebuild Reconsolidator, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, states: states, rebuild: rebuild, logger: logger}
}

// GetSettings returns the current settings.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.store.GetSettings(ctx)
}

// UpdateSettings applies a partial update. Changing the home region or the
// home policy rebuilds the stays before returning.
func (s *SettingsService) UpdateSettings(ctx context.Context, u models.SettingsUpdate) (*models.Settings, error) {
	if err := validateUpdate(u); err != nil {
		return nil, err
	}
	if err := s.store.ApplyUpdate(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	if u.AffectsConsolidation() {
		s.logger.Info("Home settings changed, rebuilding stays")
		if _, err := s.rebuild.Consolidate(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.GetSettings(ctx)
}

// ListStates returns the options for the home region picker.
func (s *SettingsService) ListStates(ctx context.Context) ([]models.StateOption, error) {
	return s.states.DistinctStates(ctx)
}

func validateUpdate(u models.SettingsUpdate) error {
	if u.PhotoLimit != nil && *u.PhotoLimit <= 0 {
		return fmt.Errorf("photo_limit must be positive: %w", apperrors.ErrInvalidSettings)
	}
	if u.HomePolicy != nil {
		if _, err := consolidation.ParseHomePolicy(*u.HomePolicy); err != nil {
			return err
		}
	}
	return nil
}
