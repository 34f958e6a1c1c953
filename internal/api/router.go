package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jengzang/photo-timeline/internal/config"
	"github.com/jengzang/photo-timeline/internal/handler"
	"github.com/jengzang/photo-timeline/internal/metrics"
	"github.com/jengzang/photo-timeline/internal/middleware"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Stays    *handler.StayHandler
	Refresh  *handler.RefreshHandler
	Settings *handler.SettingsHandler
}

// SetupRouter builds the gin engine. Mutating routes require a bearer token
// when a JWT secret is configured; refresh is also rate limited.
func SetupRouter(cfg *config.Config, h Handlers, m *metrics.Metrics, limiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Photo timeline API is running",
		})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}

	auth := middleware.Auth(cfg.JWTSecret, logger)

	api := r.Group("/api/v1")
	{
		api.GET("/timeline", h.Stays.GetTimeline)
		api.GET("/places", h.Stays.GetPlaces)
		api.GET("/place-detail", h.Stays.GetPlaceDetail)
		api.PATCH("/places/:id", auth, h.Stays.RenamePlace)
		api.DELETE("/places/:id", auth, h.Stays.DeletePlace)

		refresh := []gin.HandlerFunc{auth}
		if limiter != nil {
			refresh = append(refresh, limiter.Middleware())
		}
		refresh = append(refresh, h.Refresh.Refresh)
		api.POST("/refresh", refresh...)
		api.GET("/sync-status", h.Refresh.GetSyncStatus)

		api.GET("/settings", h.Settings.GetSettings)
		api.POST("/settings", auth, h.Settings.UpdateSettings)
		api.GET("/locations/states", h.Settings.ListStates)
	}

	return r
}
