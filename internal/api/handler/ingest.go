package handler

import (
	"net/http"
	"strconv"

	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/gin-gonic/gin"
)

// IngestHandler handles ingestion-related endpoints.
type IngestHandler struct {
	ingestService *service.IngestService
	runRepo       *repository.RunRepository

	defaultQuery      string
	defaultMaxResults int
}

// NewIngestHandler creates a new ingest handler.
// Parameters:
//   - ingestService: ingestion pipeline service.
//   - runRepo: run ledger for listing history.
//   - defaultQuery: query used when the request omits one.
//   - defaultMaxResults: result cap used when the request omits one.
// Returns:
//   - *IngestHandler: initialized handler.
func NewIngestHandler(ingestService *service.IngestService, runRepo *repository.RunRepository, defaultQuery string, defaultMaxResults int) *IngestHandler {
	return &IngestHandler{
		ingestService:     ingestService,
		runRepo:           runRepo,
		defaultQuery:      defaultQuery,
		defaultMaxResults: defaultMaxResults,
	}
}

type runRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// TriggerRun handles POST /api/v1/ingest/run and POST /webhook/ingest.
// The run executes synchronously; the response is the finalized ledger entry.
// A concurrent trigger gets 409 without touching the pipeline.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) TriggerRun(c *gin.Context) {
	var req runRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}
	}

	if req.Query == "" {
		req.Query = h.defaultQuery
	}
	if req.MaxResults <= 0 {
		req.MaxResults = h.defaultMaxResults
	}

	run, err := h.ingestService.Run(c.Request.Context(), req.Query, req.MaxResults)
	if err != nil {
		// The failed run is still finalized in the ledger and visible
		// under /api/v1/runs.
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// Reindex handles POST /api/v1/reindex, backfilling vector entries for
// records that were persisted while indexing was unavailable.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) Reindex(c *gin.Context) {
	result, err := h.ingestService.Reindex(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListRuns handles GET /api/v1/runs.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	runs, err := h.runRepo.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// LatestRun handles GET /api/v1/runs/latest.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) LatestRun(c *gin.Context) {
	run, err := h.runRepo.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
