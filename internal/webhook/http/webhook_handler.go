// Package http provides the HTTP endpoint for signing provider webhooks.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contractflow/contractflow/internal/httputil"
	customValidation "github.com/contractflow/contractflow/internal/validation"
	"github.com/contractflow/contractflow/internal/webhook/http/dto"
	webhookUseCase "github.com/contractflow/contractflow/internal/webhook/usecase"
)

// WebhookHandler handles HTTP requests from the signing provider.
type WebhookHandler struct {
	processorUseCase webhookUseCase.UseCase
	logger           *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with required dependencies.
func NewWebhookHandler(processor webhookUseCase.UseCase, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		processorUseCase: processor,
		logger:           logger,
	}
}

// SignatureEventHandler ingests a signing provider event.
// POST /v1/webhooks/signature
// Returns 200 OK for processed events and business no-ops alike; only
// malformed payloads (4xx) and infrastructure failures (5xx) differ, so the
// provider retries exactly the events a retry can help.
func (h *WebhookHandler) SignatureEventHandler(c *gin.Context) {
	var req dto.WebhookRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.processorUseCase.Process(c.Request.Context(), req.ToEvent()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
