// Package http provides HTTP handlers for contract lifecycle operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/contract/http/dto"
	contractUseCase "github.com/contractflow/contractflow/internal/contract/usecase"
	"github.com/contractflow/contractflow/internal/httputil"
	customValidation "github.com/contractflow/contractflow/internal/validation"
)

// ContractHandler handles HTTP requests for contract lifecycle operations.
type ContractHandler struct {
	contractUseCase contractUseCase.UseCase
	logger          *slog.Logger
}

// NewContractHandler creates a new contract handler with required dependencies.
func NewContractHandler(uc contractUseCase.UseCase, logger *slog.Logger) *ContractHandler {
	return &ContractHandler{
		contractUseCase: uc,
		logger:          logger,
	}
}

// CreateHandler creates a new contract in DRAFT status.
// POST /v1/contracts
// Returns 201 Created with the contract.
func (h *ContractHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateContractRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// UUID format is validated by the request DTO.
	input := contractUseCase.CreateContractInput{
		SellerID:   uuid.MustParse(req.SellerID),
		TemplateID: uuid.MustParse(req.TemplateID),
		ExpiresAt:  req.ExpiresAt,
	}

	contract, err := h.contractUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapContractToResponse(contract))
}

// GetHandler retrieves a contract by id.
// GET /v1/contracts/:id
// Returns 200 OK with the contract.
func (h *ContractHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseContractID(c)
	if !ok {
		return
	}

	contract, err := h.contractUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapContractToResponse(contract))
}

// ChangeStatusHandler applies a status transition to a contract.
// PATCH /v1/contracts/:id/status
// Returns 200 OK with the updated contract, 409 Conflict when the
// transition graph forbids the move.
func (h *ContractHandler) ChangeStatusHandler(c *gin.Context) {
	id, ok := h.parseContractID(c)
	if !ok {
		return
	}

	var req dto.ChangeStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	contract, err := h.contractUseCase.ChangeStatus(
		c.Request.Context(),
		id,
		domain.Status(req.Status),
		domain.Reason(req.Reason),
		req.Metadata,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapContractToResponse(contract))
}

// SendToSignatureHandler records the signing provider identifiers and moves
// the contract to PENDING_SIGNATURE.
// POST /v1/contracts/:id/send-to-signature
// Returns 200 OK with the updated contract, 409 Conflict when the provider
// identifiers were already set.
func (h *ContractHandler) SendToSignatureHandler(c *gin.Context) {
	id, ok := h.parseContractID(c)
	if !ok {
		return
	}

	var req dto.SendToSignatureRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	contract, err := h.contractUseCase.SendToSignature(
		c.Request.Context(), id, req.ExternalID, req.SigningURL,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapContractToResponse(contract))
}

// parseContractID extracts and validates the contract id path parameter.
func (h *ContractHandler) parseContractID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return uuid.Nil, false
	}
	return id, true
}
