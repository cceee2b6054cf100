package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/horvbalint/recet/internal/middleware"
	"github.com/horvbalint/recet/internal/service"
)

// Dependencies are the collaborators the HTTP API is built from.
// A nil Images disables image normalization; a nil ExtractLimiter disables rate limiting.
type Dependencies struct {
	Extractor      Extractor
	Drafts         service.IDraftService
	Images         service.IImageService
	Auth           middleware.TokenValidator
	ExtractLimiter *middleware.RateLimiter
	Checks         map[string]HealthChecker
	Logger         *slog.Logger
}

// HealthCheck returns the health status of the API and its backing stores
func HealthCheck(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		components := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				components[name] = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			components[name] = "healthy"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		c.JSON(status, gin.H{"status": overall, "components": components})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck(deps.Checks))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.Auth))

	var extractMW []gin.HandlerFunc
	if deps.ExtractLimiter != nil {
		extractMW = append(extractMW, deps.ExtractLimiter.RateLimitMiddleware())
	}
	NewExtractHandler(deps.Extractor, deps.Drafts, deps.Logger).RegisterRoutes(v1, extractMW...)
	NewDraftHandler(deps.Drafts).RegisterRoutes(v1)
	if deps.Images != nil {
		NewImageHandler(deps.Images).RegisterRoutes(v1)
	}
}
