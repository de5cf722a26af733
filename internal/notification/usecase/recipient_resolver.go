package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/notification/domain"
)

// Recipient is a seller's contact address on their preferred channel.
type Recipient struct {
	Address string
	Channel domain.Channel
}

// RecipientResolver maps a seller to the contact the gateway should message.
// Seller contact data lives in an external directory service.
type RecipientResolver interface {
	Resolve(ctx context.Context, sellerID uuid.UUID) (Recipient, error)
}
