package handler

import (
	"net/http"

	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process health and capability state. Vector and
// search-source availability is advertised here so operators can tell a
// degraded deployment from a broken one.
type HealthHandler struct {
	db               *gorm.DB
	vectors          service.VectorStore
	vectorsConfig    bool
	searchConfigured bool
}

// NewHealthHandler creates a new health handler.
// Parameters:
//   - db: database handle for the liveness ping.
//   - vectors: vector store (enabled or disabled).
//   - vectorsConfigured: whether vector credentials are present in config.
//   - searchConfigured: whether the external search source is configured.
// Returns:
//   - *HealthHandler: initialized handler.
func NewHealthHandler(db *gorm.DB, vectors service.VectorStore, vectorsConfigured, searchConfigured bool) *HealthHandler {
	return &HealthHandler{
		db:               db,
		vectors:          vectors,
		vectorsConfig:    vectorsConfigured,
		searchConfigured: searchConfigured,
	}
}

// Health handles GET /health.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		dbStatus = "error"
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbStatus,
		"vectors": gin.H{
			"enabled":    h.vectors.Enabled(),
			"configured": h.vectorsConfig,
		},
		"search_source": gin.H{
			"configured": h.searchConfigured,
		},
	})
}
