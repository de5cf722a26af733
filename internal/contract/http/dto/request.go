// Package dto provides data transfer objects for contract HTTP handlers.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// CreateContractRequest contains the parameters for creating a contract.
type CreateContractRequest struct {
	SellerID   string     `json:"seller_id" binding:"required"`
	TemplateID string     `json:"template_id" binding:"required"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// Validate checks if the create contract request is valid.
func (r *CreateContractRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SellerID, validation.Required, is.UUID),
		validation.Field(&r.TemplateID, validation.Required, is.UUID),
	)
}

// ChangeStatusRequest contains the parameters for a status transition.
type ChangeStatusRequest struct {
	Status   string         `json:"status" binding:"required"`
	Reason   string         `json:"reason" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

// Validate checks if the change status request is valid.
func (r *ChangeStatusRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Status, validation.Required),
		validation.Field(&r.Reason, validation.Required),
	)
}

// SendToSignatureRequest contains the signing provider identifiers assigned
// to a contract when it is sent out for signature.
type SendToSignatureRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	SigningURL string `json:"signing_url" binding:"required"`
}

// Validate checks if the send to signature request is valid.
func (r *SendToSignatureRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ExternalID, validation.Required),
		validation.Field(&r.SigningURL, validation.Required, is.URL),
	)
}
