package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	db      *gorm.DB
	service string
}

// NewHandler creates a health Handler.
func NewHandler(db *gorm.DB, service string) *Handler {
	return &Handler{db: db, service: service}
}

// RegisterRoutes registers /health and /ready.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health reports process liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

// Ready reports readiness by pinging the database.
func (h *Handler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": h.service})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": h.service})
}
