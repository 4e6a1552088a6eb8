package handler

import (
	"net/http"
	"time"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db        *gorm.DB
	cache     redis.Client
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, cache redis.Client) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		startedAt: time.Now(),
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{}
	healthy := true

	dbStatus := "up"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "down"
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "down"
		healthy = false
	}
	checks["database"] = dbStatus

	// A disabled cache is not a failure; the portal runs without it
	cacheStatus := "disabled"
	if h.cache.IsEnabled() {
		cacheStatus = "up"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "down"
		}
	}
	checks["cache"] = cacheStatus

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	c.JSON(status, constants.BuildSuccessResponse("Health check", gin.H{
		"status":  overall,
		"uptime":  time.Since(h.startedAt).String(),
		"checks":  checks,
		"version": constants.AppVersion,
	}))
}

// Info handles GET /api
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.AppName, gin.H{
		"name":    constants.AppName,
		"version": constants.AppVersion,
		"endpoints": gin.H{
			"auth":     "/api/auth",
			"users":    "/api/users",
			"services": "/api/services",
			"tools":    "/api/tools",
			"health":   "/api/health",
		},
	}))
}
