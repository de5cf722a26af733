// Package dto provides data transfer objects for contract HTTP handlers.
package dto

import (
	"time"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
)

// ContractResponse represents a contract in API responses.
type ContractResponse struct {
	ID         string     `json:"id"`
	SellerID   string     `json:"seller_id"`
	TemplateID string     `json:"template_id"`
	Status     string     `json:"status"`
	ExternalID *string    `json:"external_id,omitempty"`
	SigningURL *string    `json:"signing_url,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	SignedAt   *time.Time `json:"signed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MapContractToResponse converts a domain contract to an API response.
func MapContractToResponse(contract *contractDomain.Contract) ContractResponse {
	return ContractResponse{
		ID:         contract.ID.String(),
		SellerID:   contract.SellerID.String(),
		TemplateID: contract.TemplateID.String(),
		Status:     string(contract.Status),
		ExternalID: contract.ExternalID,
		SigningURL: contract.SigningURL,
		ExpiresAt:  contract.ExpiresAt,
		SignedAt:   contract.SignedAt,
		CreatedAt:  contract.CreatedAt,
		UpdatedAt:  contract.UpdatedAt,
	}
}
