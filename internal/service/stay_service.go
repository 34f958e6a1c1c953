package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

const placesCacheKey = "places"

// StayStore is the stay storage used by the read and edit endpoints.
type StayStore interface {
	ListTimeline(ctx context.Context, filter models.TimelineFilter) ([]models.Stay, int64, error)
	ListAll(ctx context.Context) ([]models.Stay, error)
	ListByPlace(ctx context.Context, place models.PlaceFilter) ([]models.Stay, error)
	RenameStay(ctx context.Context, id int64, city string, updatedAt int64) error
	DeleteStay(ctx context.Context, id int64) error
}

// StayService handles business logic for consolidated stays
type StayService struct {
	repo   StayStore
	cache  *gocache.Cache
	logger *zap.Logger

	// gen counts invalidations; a read only caches its result if no
	// invalidation happened while it was loading.
	mu  sync.Mutex
	gen uint64
}

// NewStayService creates a new stay service. Places views are cached for ttl.
func NewStayService(repo StayStore, ttl time.Duration, logger *zap.Logger) *StayService {
	return &StayService{
		repo:   repo,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// GetTimeline returns a page of stays, newest first.
func (s *StayService) GetTimeline(ctx context.Context, filter models.TimelineFilter) (*models.TimelineResponse, error) {
	filter.Normalize()
	stays, total, err := s.repo.ListTimeline(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.TimelineResponse{
		Locations: stays,
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
		HasMore:   int64(filter.Offset+filter.Limit) < total,
	}, nil
}

// GetPlaces groups every stay by country, state and display name.
func (s *StayService) GetPlaces(ctx context.Context) (*models.PlacesSummary, error) {
	if cached, ok := s.cache.Get(placesCacheKey); ok {
		return cached.(*models.PlacesSummary), nil
	}

	gen := s.generation()
	stays, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := BuildPlaces(stays)
	s.store(placesCacheKey, summary, gen)
	return summary, nil
}

// GetPlaceDetail lists the visits to one place, newest first.
func (s *StayService) GetPlaceDetail(ctx context.Context, place models.PlaceFilter) (*models.PlaceDetail, error) {
	key := fmt.Sprintf("place:%s\x00%s\x00%s", place.City, place.State, place.Country)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.PlaceDetail), nil
	}

	gen := s.generation()
	visits, err := s.repo.ListByPlace(ctx, place)
	if err != nil {
		return nil, err
	}

	detail := &models.PlaceDetail{
		City:        place.City,
		State:       place.State,
		Country:     place.Country,
		Visits:      visits,
		TotalVisits: len(visits),
	}
	for _, v := range visits {
		detail.TotalDays += v.DaysStayed
	}
	s.store(key, detail, gen)
	return detail, nil
}

// RenameStay sets the display name of one stay and returns the stored name.
// The change lasts until the next consolidation.
func (s *StayService) RenameStay(ctx context.Context, id int64, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fmt.Errorf("city must not be empty: %w", apperrors.ErrInvalidInput)
	}
	if err := s.repo.RenameStay(ctx, id, city, time.Now().UnixMilli()); err != nil {
		return "", err
	}
	s.logger.Info("Stay renamed", zap.Int64("id", id), zap.String("city", city))
	s.Invalidate()
	return city, nil
}

// DeleteStay removes one stay until the next consolidation.
func (s *StayService) DeleteStay(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStay(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Stay deleted", zap.Int64("id", id))
	s.Invalidate()
	return nil
}

// Invalidate drops every cached places view. Reads already in flight will
// not cache their results.
func (s *StayService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache.Flush()
}

func (s *StayService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *StayService) store(key string, value interface{}, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.cache.SetDefault(key, value)
}

// BuildPlaces groups stays country -> state -> display name. Countries are
// ordered by place count descending, then name; states and places by name.
func BuildPlaces(stays []models.Stay) *models.PlacesSummary {
	type stateKey struct{ country, state string }

	ids := make(map[stateKey]map[string][]int64)
	for _, st := range stays {
		k := stateKey{st.Country, st.State}
		if ids[k] == nil {
			ids[k] = make(map[string][]int64)
		}
		ids[k][st.City] = append(ids[k][st.City], st.ID)
	}

	byCountry := make(map[string]*models.CountryPlaces)
	for k, cities := range ids {
		sp := models.StatePlaces{State: k.state}
		for city, stayIDs := range cities {
			sp.Cities = append(sp.Cities, models.PlaceEntry{City: city, IDs: stayIDs})
		}
		sort.Slice(sp.Cities, func(i, j int) bool { return sp.Cities[i].City < sp.Cities[j].City })

		cp := byCountry[k.country]
		if cp == nil {
			cp = &models.CountryPlaces{Country: k.country}
			byCountry[k.country] = cp
		}
		cp.States = append(cp.States, sp)
		cp.PlaceCount += len(sp.Cities)
	}

	summary := &models.PlacesSummary{Countries: []models.CountryPlaces{}}
	for _, cp := range byCountry {
		sort.Slice(cp.States, func(i, j int) bool { return cp.States[i].State < cp.States[j].State })
		summary.Countries = append(summary.Countries, *cp)
		summary.TotalPlaces += cp.PlaceCount
	}
	sort.Slice(summary.Countries, func(i, j int) bool {
		a, b := summary.Countries[i], summary.Countries[j]
		if a.PlaceCount != b.PlaceCount {
			return a.PlaceCount > b.PlaceCount
		}
		return a.Country < b.Country
	})
	summary.TotalCountries = len(summary.Countries)
	return summary
}
