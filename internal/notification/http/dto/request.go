// Package dto provides data transfer objects for notification HTTP handlers.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"
)

// PauseNotificationsRequest contains the pause deadline.
type PauseNotificationsRequest struct {
	Until time.Time `json:"until" binding:"required"`
}

// Validate checks if the pause notifications request is valid.
func (r *PauseNotificationsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Until, validation.Required),
	)
}

// DeliveryReceiptRequest contains a gateway delivery confirmation.
type DeliveryReceiptRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
}

// Validate checks if the delivery receipt request is valid.
func (r *DeliveryReceiptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ExternalID, validation.Required),
	)
}
