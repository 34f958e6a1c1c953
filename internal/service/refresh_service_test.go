package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/consolidation"
	"github.com/jengzang/photo-timeline/internal/metrics"
	"github.com/jengzang/photo-timeline/internal/models"
	"github.com/jengzang/photo-timeline/internal/photos"
	"github.com/jengzang/photo-timeline/pkg/apperrors"
)

type fakeFacts struct {
	mu        sync.Mutex
	processed map[string]bool
	withLoc   int
	resets    int
}

func newFakeFacts() *fakeFacts { return &fakeFacts{processed: map[string]bool{}} }

func (f *fakeFacts) ProcessedPhotoIDs(ctx context.Context) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(f.processed))
	for k := range f.processed {
		ids[k] = true
	}
	return ids, nil
}

func (f *fakeFacts) InsertBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range processed {
		f.processed[p.PhotoID] = true
		if p.HasLocation {
			f.withLoc++
		}
	}
	return len(facts), nil
}

func (f *fakeFacts) ReplaceBatch(ctx context.Context, processed []models.ProcessedPhoto, facts []models.LocationFact) (int, error) {
	f.mu.Lock()
	f.processed = map[string]bool{}
	f.withLoc = 0
	f.resets++
	f.mu.Unlock()
	return f.InsertBatch(ctx, processed, facts)
}

func (f *fakeFacts) CountProcessed(ctx context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.processed), f.withLoc, nil
}

type fakeSync struct {
	meta models.SyncMetadata
}

func (f *fakeSync) Get(ctx context.Context) (*models.SyncMetadata, error) {
	m := f.meta
	return &m, nil
}

func (f *fakeSync) RecordSync(ctx context.Context, syncedAt int64, total, withLocation int, runID string) error {
	f.meta.LastSyncTime = &syncedAt
	f.meta.TotalPhotosProcessed = total
	f.meta.PhotosWithLocation = withLocation
	f.meta.LastRunID = runID
	return nil
}

type fakeSettings struct {
	settings models.Settings
}

func (f *fakeSettings) GetSettings(ctx context.Context) (*models.Settings, error) {
	s := f.settings
	return &s, nil
}

// fakeSource returns a fixed set of assets, minus known ones.
type fakeSource struct {
	ids     []string
	err     error
	started chan struct{}
	release chan struct{}
	gotPath string
	gotTest bool
	gotLim  int
}

func (f *fakeSource) Extract(ctx context.Context, libraryPath string, testMode bool, limit int, known map[string]bool) (*photos.Batch, error) {
	f.gotPath, f.gotTest, f.gotLim = libraryPath, testMode, limit
	if f.err != nil {
		return nil, f.err
	}
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	batch := &photos.Batch{Total: len(f.ids)}
	for _, id := range f.ids {
		if known[id] {
			continue
		}
		batch.Processed = append(batch.Processed, models.ProcessedPhoto{PhotoID: id, HasLocation: true})
		batch.Facts = append(batch.Facts, models.LocationFact{PhotoID: id, Date: "2024-01-01"})
	}
	return batch, nil
}

type fakeConsolidator struct {
	sync  *fakeSync
	runs  int
	stays int
	err   error
}

func (f *fakeConsolidator) Run(ctx context.Context) (*consolidation.Result, error) {
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	f.sync.meta.TotalLocations = f.stays
	return &consolidation.Result{Stays: make([]models.Stay, f.stays)}, nil
}

type countingCache struct{ n int }

func (c *countingCache) Invalidate() { c.n++ }

type refreshFixture struct {
	svc          *RefreshService
	facts        *fakeFacts
	sync         *fakeSync
	settings     *fakeSettings
	source       *fakeSource
	consolidator *fakeConsolidator
	cache        *countingCache
	library      string
}

func newRefreshFixture(t *testing.T, ids ...string) *refreshFixture {
	t.Helper()
	library := filepath.Join(t.TempDir(), "Photos.sqlite")
	require.NoError(t, os.WriteFile(library, nil, 0o644))

	m, err := metrics.New()
	require.NoError(t, err)

	f := &refreshFixture{
		facts:    newFakeFacts(),
		sync:     &fakeSync{},
		settings: &fakeSettings{settings: models.Settings{PhotoLimit: 100}},
		source:   &fakeSource{ids: ids},
		cache:    &countingCache{},
		library:  library,
	}
	f.consolidator = &fakeConsolidator{sync: f.sync, stays: 2}
	f.svc = NewRefreshService(f.facts, f.sync, f.settings, f.source, f.consolidator, f.cache, m,
		RefreshOptions{LibraryPath: library}, zap.NewNop())
	return f
}

func TestRefresh_IncrementalOnlyAddsNewPhotos(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newRefreshFixture(t, "a", "b")
	ctx := context.Background()

	res, err := f.svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ProcessedCount)
	assert.Equal(t, 2, res.WithLocation)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Stays)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, res.RunID, res.SyncStatus.LastRunID)
	assert.Equal(t, f.library, f.source.gotPath)

	f.source.ids = append(f.source.ids, "c")
	res, err = f.svc.Refresh(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedCount)
	assert.Equal(t, 3, res.SyncStatus.TotalPhotosProcessed)
	assert.Equal(t, 2, f.consolidator.runs)
	assert.Equal(t, 2, f.cache.n)
	assert.Zero(t, f.facts.resets)
}

func TestRefresh_FullClearsFirst(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newRefreshFixture(t, "a", "b")
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, false)
	require.NoError(t, err)

	res, err := f.svc.Refresh(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.facts.resets)
	assert.Equal(t, 2, res.ProcessedCount)
	assert.Equal(t, 2, res.SyncStatus.TotalPhotosProcessed)
}

func TestRefresh_FullKeepsDataWhenExtractionFails(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newRefreshFixture(t, "a", "b")
	ctx := context.Background()

	_, err := f.svc.Refresh(ctx, false)
	require.NoError(t, err)
	runs := f.consolidator.runs

	f.source.err = errors.New("photos database is locked")
	_, err = f.svc.Refresh(ctx, true)
	require.ErrorContains(t, err, "photos database is locked")

	assert.Zero(t, f.facts.resets)
	ids, err := f.facts.ProcessedPhotoIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, ids)
	assert.Equal(t, runs, f.consolidator.runs)
}

func TestRefresh_UsesSettings(t *testing.T) {
	f := newRefreshFixture(t, "a")
	custom := filepath.Join(t.TempDir(), "Custom.sqlite")
	require.NoError(t, os.WriteFile(custom, nil, 0o644))
	f.settings.settings = models.Settings{TestMode: true, PhotoLimit: 5, PhotosLibraryPath: custom}

	_, err := f.svc.Refresh(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, custom, f.source.gotPath)
	assert.True(t, f.source.gotTest)
	assert.Equal(t, 5, f.source.gotLim)
}

func TestRefresh_MissingLibrary(t *testing.T) {
	f := newRefreshFixture(t, "a")
	require.NoError(t, os.Remove(f.library))

	_, err := f.svc.Refresh(context.Background(), true)
	assert.ErrorIs(t, err, apperrors.ErrPhotosLibraryNotFound)
	assert.Zero(t, f.facts.resets)
	assert.Zero(t, f.consolidator.runs)
}

func TestRefresh_ConsolidationError(t *testing.T) {
	f := newRefreshFixture(t, "a")
	f.consolidator.err = errors.New("disk full")

	_, err := f.svc.Refresh(context.Background(), false)
	assert.ErrorContains(t, err, "disk full")
}

func TestRefresh_RejectsConcurrentRun(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newRefreshFixture(t, "a")
	f.source.started = make(chan struct{})
	f.source.release = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.svc.Refresh(context.Background(), false)
	}()

	<-f.source.started
	_, err := f.svc.Refresh(context.Background(), false)
	assert.ErrorIs(t, err, apperrors.ErrRefreshInProgress)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.svc.Consolidate(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(f.source.release)
	wg.Wait()
	require.NoError(t, firstErr)

	_, err = f.svc.Consolidate(context.Background())
	assert.NoError(t, err)
}
