package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jengzang/photo-timeline/internal/consolidation"
	"github.com/jengzang/photo-timeline/internal/metrics"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/photos"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

// FactStore is the location fact store used by a refresh.
type FactStore interface {
	ProcessedPhotoIDs(ctx context.Context) (map[string]bool, error)
	InsertBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error)
	ReplaceBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error)
	CountProcessed(ctx context.Context) (total, withLocation int, err error)
}

// SyncStore reads and records sync metadata.
type SyncStore interface {
	Get(ctx context.Context) (*models.SyncMetadata, error)
	RecordSync(ctx context.Context, syncedAt int64, totalProcessed, withLocation int, runID string) error
}

// PhotoSource extracts facts for photos not yet processed.
type PhotoSource interface {
	Extract(ctx context.Context, libraryPath string, testMode bool, photoLimit int, known map[string]bool) (*photos.Batch, error)
}

// Consolidator rebuilds all stays from all facts.
type Consolidator interface {
	Run(ctx context.Context) (*consolidation.Result, error)
}

// Invalidator drops cached read models after stays change.
type Invalidator interface {
	Invalidate()
}

// RefreshOptions holds the refresh tunables.
type RefreshOptions struct {
	LibraryPath    string // used when the photos_library_path setting is unset or missing
	ExtractTimeout time.Duration
}

// RefreshService runs extraction followed by consolidation. Only one run,
// refresh or consolidation, is active at a time.
type RefreshService struct {
	facts        FactStore
	sync         SyncStore
	settings     consolidation.SettingsSource
	source       PhotoSource
	consolidator Consolidator
	cache        Invalidator
	metrics      *metrics.Metrics
	opts         RefreshOptions
	busy         *semaphore.Weighted
	logger       *zap.Logger
	now          func() time.Time
}

// NewRefreshService creates a new refresh service. cache and m may be nil.
func NewRefreshService(
	facts FactStore,
	sync SyncStore,
	settings consolidation.SettingsSource,
	source PhotoSource,
	consolidator Consolidator,
	cache Invalidator,
	m *metrics.Metrics,
	opts RefreshOptions,
	logger *zap.Logger,
) *RefreshService {
	return &RefreshService{
		facts:        facts,
		sync:         sync,
		settings:     settings,
		source:       source,
		consolidator: consolidator,
		cache:        cache,
		metrics:      m,
		opts:         opts,
		busy:         semaphore.NewWeighted(1),
		logger:       logger,
		now:          time.Now,
	}
}

// Refresh imports new photos from the library and rebuilds the stays. A
// full refresh reads the whole library, then replaces every fact, processed
// photo and stay in one transaction; a failed read leaves the old data in
// place. It returns ErrRefreshInProgress when another run holds the lock.
func (s *RefreshService) Refresh(ctx context.Context, full bool) (*models.RefreshResult, error) {
	if !s.busy.TryAcquire(1) {
		s.record(full, "busy", 0)
		return nil, apperrors.ErrRefreshInProgress
	}
	defer s.busy.Release(1)

	start := s.now()
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.Bool("full", full))
	logger.Info("Refresh started")

	result, err := s.refresh(ctx, full, runID, logger)
	if err != nil {
		s.record(full, "error", s.now().Sub(start))
		logger.Error("Refresh failed", zap.Error(err))
		return nil, err
	}

	s.record(full, "success", s.now().Sub(start))
	logger.Info("Refresh finished",
		zap.Int("processed", result.ProcessedCount),
		zap.Int("with_location", result.WithLocation),
		zap.Int("stays", result.Stays),
		zap.Duration("duration", s.now().Sub(start)),
	)
	return result, nil
}

func (s *RefreshService) refresh(ctx context.Context, full bool, runID string, logger *zap.Logger) (*models.RefreshResult, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	libraryPath, err := photos.ResolveLibraryPath(settings.PhotosLibraryPath, s.opts.LibraryPath)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	if !full {
		if known, err = s.facts.ProcessedPhotoIDs(ctx); err != nil {
			return nil, err
		}
	}

	extractCtx := ctx
	if s.opts.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.opts.ExtractTimeout)
		defer cancel()
	}
	batch, err := s.source.Extract(extractCtx, libraryPath, settings.TestMode, settings.PhotoLimit, known)
	if err != nil {
		return nil, fmt.Errorf("failed to extract photos: %w", err)
	}

	inserted := 0
	switch {
	case full:
		if inserted, err = s.facts.ReplaceBatch(ctx, batch.Processed, batch.Facts); err != nil {
			return nil, fmt.Errorf("failed to replace location data: %w", err)
		}
		logger.Info("Replaced location data for full refresh")
	case len(batch.Processed) > 0:
		if inserted, err = s.facts.InsertBatch(ctx, batch.Processed, batch.Facts); err != nil {
			return nil, err
		}
	}
	if s.metrics != nil && len(batch.Processed) > 0 {
		s.metrics.RecordExtraction(len(batch.Processed), inserted)
	}

	total, withLocation, err := s.facts.CountProcessed(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sync.RecordSync(ctx, s.now().UnixMilli(), total, withLocation, runID); err != nil {
		return nil, err
	}

	if _, err := s.consolidate(ctx); err != nil {
		return nil, err
	}

	status, err := s.sync.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &models.RefreshResult{
		RunID:          runID,
		ProcessedCount: len(batch.Processed),
		WithLocation:   batch.WithLocation(),
		Total:          batch.Total,
		Stays:          status.TotalLocations,
		SyncStatus:     status,
	}, nil
}

// Consolidate rebuilds the stays without touching the photo library. It
// waits for a running refresh to finish.
func (s *RefreshService) Consolidate(ctx context.Context) (*consolidation.Result, error) {
	if err := s.busy.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.busy.Release(1)
	return s.consolidate(ctx)
}

func (s *RefreshService) consolidate(ctx context.Context) (*consolidation.Result, error) {
	result, err := s.consolidator.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to consolidate locations: %w", err)
	}
	if !result.Skipped && s.metrics != nil {
		s.metrics.RecordConsolidation(len(result.Stays), result.Duration)
	}
	// A full refresh may have cleared stays even when the run was skipped.
	if s.cache != nil {
		s.cache.Invalidate()
	}
	return result, nil
}

// SyncStatus returns the stored sync metadata.
func (s *RefreshService) SyncStatus(ctx context.Context) (*models.SyncMetadata, error) {
	return s.sync.Get(ctx)
}

func (s *RefreshService) record(full bool, status string, d time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordRefresh(full, status, d)
	}
}
