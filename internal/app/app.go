// Package app wires the database, repositories, services and HTTP handlers.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/api"
	"github.com/jengzang/photo-timeline/internal/config"
	"github.com/jengzang/photo-timeline/internal/consolidation"
	"github.com/jengzang/photo-timeline/internal/database"
	"github.com/jengzang/photo-timeline/internal/handler"
	"github.com/jengzang/photo-timeline/internal/metrics"
	"github.com/jengzang/photo-timeline/internal/middleware"
	"github.com/jengzang/photo-timeline/internal/photos"
	"github.com/jengzang/photo-timeline/internal/repository"
	"github.com/jengzang/photo-timeline/internal/service"
)

// App is the assembled application.
type App struct {
	Config   *config.Config
	DB       *database.DB
	Metrics  *metrics.Metrics
	Refresh  *service.RefreshService
	Stays    *service.StayService
	Settings *service.SettingsService

	logger  *zap.Logger
	limiter *middleware.RateLimiter
}

// Option configures New.
type Option func(*options)

type options struct {
	source service.PhotoSource
}

// WithPhotoSource replaces the Photos library extractor.
func WithPhotoSource(src service.PhotoSource) Option {
	return func(o *options) { o.source = src }
}

// New opens the database and builds every service.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	policy, err := consolidation.ParseHomePolicy(cfg.HomePolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid home_policy: %w", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath}, logger)
	if err != nil {
		return nil, err
	}

	m, err := metrics.New()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	factRepo := repository.NewFactRepository(db)
	stayRepo := repository.NewStayRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	syncRepo := repository.NewSyncRepository(db)

	if o.source == nil {
		o.source = photos.NewExtractor(logger.Named("photos"))
	}
	libraryPath := cfg.PhotosDBPath
	if libraryPath == "" {
		libraryPath = photos.DefaultLibraryPath()
	}

	engine := consolidation.NewEngine(factRepo, settingsRepo, stayRepo, logger.Named("consolidation"),
		consolidation.WithDefaultPolicy(policy))
	stays := service.NewStayService(stayRepo, cfg.CacheTTL, logger.Named("stays"))
	refresh := service.NewRefreshService(factRepo, syncRepo, settingsRepo, o.source, engine, stays, m,
		service.RefreshOptions{LibraryPath: libraryPath, ExtractTimeout: cfg.ExtractTimeout},
		logger.Named("refresh"))
	settings := service.NewSettingsService(settingsRepo, factRepo, refresh, logger.Named("settings"))

	return &App{
		Config:   cfg,
		DB:       db,
		Metrics:  m,
		Refresh:  refresh,
		Stays:    stays,
		Settings: settings,
		logger:   logger,
	}, nil
}

// Router builds the HTTP handler. It starts the refresh rate limiter, which
// Close stops.
func (a *App) Router() *gin.Engine {
	if a.limiter == nil {
		a.limiter = middleware.NewRateLimiter(a.Config.RateLimit.Requests, a.Config.RateLimit.Window)
	}
	return api.SetupRouter(a.Config, api.Handlers{
		Stays:    handler.NewStayHandler(a.Stays),
		Refresh:  handler.NewRefreshHandler(a.Refresh),
		Settings: handler.NewSettingsHandler(a.Settings),
	}, a.Metrics, a.limiter, a.logger.Named("http"))
}

// Close releases the database and background workers.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return a.DB.Close()
}
