package handler

import (
	"net/http"
	"strings"

	"github.com/Anantaverma20/NovaIQ/internal/service"
	"github.com/gin-gonic/gin"
)

// AskHandler handles the question-answering endpoint.
type AskHandler struct {
	askService *service.AskService
}

// NewAskHandler creates a new ask handler.
// Parameters:
//   - askService: retrieval service instance.
// Returns:
//   - *AskHandler: initialized handler.
func NewAskHandler(askService *service.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

type askRequest struct {
	Question string `json:"question"`
}

// Ask handles POST /api/v1/ask.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AskHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "question is required",
		})
		return
	}

	resp, err := h.askService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
