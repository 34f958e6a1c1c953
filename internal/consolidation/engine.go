// Package consolidation turns per-photo location facts into stays: contiguous
// runs of calendar days spent in one place.
//
// The pipeline is GroupByDay -> ExpandHome -> Merge -> ResolveDisplayName and
// FormatDateRange. Every run recomputes the full stay set from the full fact
// set and replaces the stored stays atomically.
package consolidation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/spatial"
)

// FactSource lists every location fact ordered by date ascending.
type FactSource interface {
	ListLocationFacts(ctx context.Context) ([]models.LocationFact, error)
}

// SettingsSource returns the current user settings.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
}

// StayWriter atomically replaces the stored stay set and the stay counter in
// sync metadata. On error the previous stays must remain intact.
type StayWriter interface {
	ReplaceAllStays(ctx context.Context, stays []models.Stay) error
}

// Result describes one consolidation run.
type Result struct {
	Facts    int
	Stays    []models.Stay
	Policy   HomePolicy
	Home     HomeRegion
	Skipped  bool // no facts; stored stays were left untouched
	Duration time.Duration
}

// Engine runs the consolidation pipeline against a store.
type Engine struct {
	facts    FactSource
	settings SettingsSource
	writer   StayWriter
	policy   HomePolicy
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultPolicy sets the policy used when settings do not name one.
func WithDefaultPolicy(p HomePolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock overrides the clock used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a consolidation engine.
func NewEngine(facts FactSource, settings SettingsSource, writer StayWriter, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		facts:    facts,
		settings: settings,
		writer:   writer,
		policy:   DefaultHomePolicy,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run recomputes all stays from all facts and replaces the stored stays.
// With no facts it is a no-op.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := e.now()

	facts, err := e.facts.ListLocationFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list location facts: %w", err)
	}

	home, policy := e.loadSettings(ctx)
	result := &Result{Facts: len(facts), Home: home, Policy: policy}

	if len(facts) == 0 {
		e.logger.Info("No location facts, keeping existing stays")
		result.Skipped = true
		return result, nil
	}

	stays, err := Consolidate(facts, home, policy, start)
	if err != nil {
		return nil, err
	}

	if err := e.writer.ReplaceAllStays(ctx, stays); err != nil {
		return nil, fmt.Errorf("failed to replace stays: %w", err)
	}

	result.Stays = stays
	result.Duration = e.now().Sub(start)

	e.logger.Info("Consolidated locations",
		zap.Int("facts", len(facts)),
		zap.Int("stays", len(stays)),
		zap.String("policy", string(policy)),
		zap.Bool("home_set", home.IsSet()),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// loadSettings never fails: unreadable settings mean no home region.
func (e *Engine) loadSettings(ctx context.Context) (HomeRegion, HomePolicy) {
	settings, err := e.settings.GetSettings(ctx)
	if err != nil || settings == nil {
		e.logger.Warn("Failed to read settings, consolidating without home region", zap.Error(err))
		return HomeRegion{}, e.policy
	}

	policy := e.policy
	if settings.HomePolicy != "" {
		p, err := ParseHomePolicy(settings.HomePolicy)
		if err != nil {
			e.logger.Warn("Ignoring stored home policy", zap.String("home_policy", settings.HomePolicy), zap.Error(err))
		} else {
			policy = p
		}
	}

	return NewHomeRegion(settings.HomeState, settings.HomeCountry), policy
}

// Consolidate is the pure pipeline: facts in date order to finished stays.
func Consolidate(facts []models.LocationFact, home HomeRegion, policy HomePolicy, now time.Time) ([]models.Stay, error) {
	groups := ExpandHome(GroupByDay(facts), home, policy)
	pending := Merge(groups)

	stamp := now.UnixMilli()
	stays := make([]models.Stay, 0, len(pending))
	for i := range pending {
		stay, err := finalize(&pending[i], home, policy)
		if err != nil {
			return nil, err
		}
		stay.CreatedAt = stamp
		stay.UpdatedAt = stamp
		stays = append(stays, stay)
	}
	return stays, nil
}

func finalize(p *PendingStay, home HomeRegion, policy HomePolicy) (models.Stay, error) {
	start, err := ParseDate(p.StartDate)
	if err != nil {
		return models.Stay{}, err
	}
	end, err := ParseDate(p.EndDate)
	if err != nil {
		return models.Stay{}, err
	}

	stay := models.Stay{
		City:        ResolveDisplayName(p, home, policy),
		State:       p.State,
		Country:     p.Country,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Year:        start.Year(),
		Month:       int(start.Month()),
		MonthName:   MonthName(start),
		DisplayDate: FormatDateRange(start, end),
		DaysStayed:  DaysStayed(start, end),
		IsHome:      p.Home || home.Matches(p.State, p.Country),
		PhotoCount:  p.Cities.Total(),
	}

	if center, ok := spatial.Centroid(p.Points); ok {
		radius := spatial.MaxDistanceFrom(center, p.Points)
		stay.CenterLat = &center.Lat
		stay.CenterLon = &center.Lon
		stay.RadiusMeters = &radius
	}

	return stay, nil
}
