// Package http provides HTTP handlers for notification operations: pause
// controls, delivery receipts and notification lookup.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/httputil"
	"github.com/contractflow/contractflow/internal/notification/http/dto"
	notificationUseCase "github.com/contractflow/contractflow/internal/notification/usecase"
	settingsUseCase "github.com/contractflow/contractflow/internal/settings/usecase"
	customValidation "github.com/contractflow/contractflow/internal/validation"
)

// NotificationHandler handles HTTP requests for notification operations.
type NotificationHandler struct {
	dispatcherUseCase notificationUseCase.UseCase
	settingsUseCase   settingsUseCase.UseCase
	logger            *slog.Logger
}

// NewNotificationHandler creates a new notification handler with required dependencies.
func NewNotificationHandler(
	dispatcher notificationUseCase.UseCase,
	settings settingsUseCase.UseCase,
	logger *slog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		dispatcherUseCase: dispatcher,
		settingsUseCase:   settings,
		logger:            logger,
	}
}

// GetHandler retrieves a notification by id.
// GET /v1/notifications/:id
// Returns 200 OK with the notification.
func (h *NotificationHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	notification, err := h.dispatcherUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNotificationToResponse(notification))
}

// PauseHandler suspends notification dispatch until the given deadline.
// PUT /v1/notifications/pause
// Returns 204 No Content.
func (h *NotificationHandler) PauseHandler(c *gin.Context) {
	var req dto.PauseNotificationsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.settingsUseCase.PauseNotifications(c.Request.Context(), req.Until); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "notifications paused",
		slog.Time("until", req.Until),
	)
	c.Data(http.StatusNoContent, "application/json", nil)
}

// ResumeHandler lifts an active notification pause.
// DELETE /v1/notifications/pause
// Returns 204 No Content.
func (h *NotificationHandler) ResumeHandler(c *gin.Context) {
	if err := h.settingsUseCase.ResumeNotifications(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "notifications resumed")
	c.Data(http.StatusNoContent, "application/json", nil)
}

// DeliveryReceiptHandler records a gateway delivery confirmation.
// POST /v1/notifications/delivery-receipts
// Returns 204 No Content.
func (h *NotificationHandler) DeliveryReceiptHandler(c *gin.Context) {
	var req dto.DeliveryReceiptRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.dispatcherUseCase.ConfirmDelivery(c.Request.Context(), req.ExternalID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
