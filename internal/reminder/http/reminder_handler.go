// Package http provides manual trigger endpoints for the reminder policy.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/httputil"
	reminderUseCase "github.com/contractflow/contractflow/internal/reminder/usecase"
)

// ReminderHandler handles HTTP requests for manual reminder triggers.
type ReminderHandler struct {
	schedulerUseCase reminderUseCase.UseCase
	logger           *slog.Logger
}

// NewReminderHandler creates a new reminder handler with required dependencies.
func NewReminderHandler(scheduler reminderUseCase.UseCase, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		schedulerUseCase: scheduler,
		logger:           logger,
	}
}

// ProcessAllHandler runs the reminder policy over every pending contract.
// POST /v1/reminders/process
// Returns 200 OK with the number of reminders created.
func (h *ReminderHandler) ProcessAllHandler(c *gin.Context) {
	created, err := h.schedulerUseCase.ProcessAll(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}

// ProcessContractHandler runs the reminder policy for one contract.
// POST /v1/contracts/:id/reminders
// Returns 200 OK reporting whether a reminder was dispatched.
func (h *ReminderHandler) ProcessContractHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	dispatched, err := h.schedulerUseCase.ProcessContract(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dispatched": dispatched})
}
