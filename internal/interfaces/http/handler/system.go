package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and version endpoints.
type SystemHandler struct {
	BaseHandler
	db        Pinger
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db Pinger, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports service liveness and database reachability.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.Error(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "database is not reachable")
		return
	}
	h.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}
