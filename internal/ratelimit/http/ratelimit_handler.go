// Package http provides the operator endpoint for rate limiter resets.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/httputil"
	"github.com/contractflow/contractflow/internal/ratelimit"
)

// RateLimitHandler handles HTTP requests for rate limiter operations.
type RateLimitHandler struct {
	limiter ratelimit.Limiter
	logger  *slog.Logger
}

// NewRateLimitHandler creates a new rate limit handler with required dependencies.
func NewRateLimitHandler(limiter ratelimit.Limiter, logger *slog.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		limiter: limiter,
		logger:  logger,
	}
}

// ResetHandler clears a recipient's send allowance, lifting any active block.
// DELETE /v1/rate-limits/:recipient
// Returns 204 No Content.
func (h *RateLimitHandler) ResetHandler(c *gin.Context) {
	recipient := c.Param("recipient")
	if recipient == "" {
		httputil.HandleBadRequestGin(c, apperrors.New("recipient cannot be empty"), h.logger)
		return
	}

	h.limiter.Reset(recipient)

	h.logger.InfoContext(c.Request.Context(), "rate limit reset",
		slog.String("recipient", recipient),
	)
	c.Data(http.StatusNoContent, "application/json", nil)
}
