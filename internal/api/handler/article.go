package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Anantaverma20/NovaIQ/internal/repository"
	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/gin-gonic/gin"
)

// ArticleHandler handles article browsing and manual submission.
type ArticleHandler struct {
	articleRepo   *repository.ArticleRepository
	ingestService *service.IngestService
}

// NewArticleHandler creates a new article handler.
// Parameters:
//   - articleRepo: article repository for reads.
//   - ingestService: pipeline used for manual submissions.
// Returns:
//   - *ArticleHandler: initialized handler.
func NewArticleHandler(articleRepo *repository.ArticleRepository, ingestService *service.IngestService) *ArticleHandler {
	return &ArticleHandler{
		articleRepo:   articleRepo,
		ingestService: ingestService,
	}
}

// ListArticles handles GET /api/v1/articles with limit/offset pagination,
// newest fetch first.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	limit := 20
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	articles, err := h.articleRepo.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	total, err := h.articleRepo.Count(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetArticle handles GET /api/v1/articles/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

type submitRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SubmitArticle handles POST /api/v1/articles. The submission flows through
// the same dedup and indexing pipeline as fetched content, so resubmitting
// the same document is a no-op recorded as a duplicate.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ArticleHandler) SubmitArticle(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url and body are required",
		})
		return
	}

	run, err := h.ingestService.Submit(c.Request.Context(), req.URL, req.Title, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}
