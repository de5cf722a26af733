// Package dto provides data transfer objects for webhook HTTP handlers.
package dto

import (
	validation "github.com/jellydator/validation"

	webhookDomain "github.com/contractflow/contractflow/internal/webhook/domain"
)

// WebhookRequest is the provider's webhook envelope.
type WebhookRequest struct {
	ID    string `json:"id" binding:"required"`
	Event struct {
		Type string `json:"type" binding:"required"`
		Data struct {
			Object struct {
				Document string `json:"document"`
				Reason   string `json:"reason"`
			} `json:"object"`
		} `json:"data"`
	} `json:"event" binding:"required"`
}

// Validate checks if the webhook request is valid.
func (r *WebhookRequest) Validate() error {
	return validation.Errors{
		"id":       validation.Validate(r.ID, validation.Required),
		"type":     validation.Validate(r.Event.Type, validation.Required),
		"document": validation.Validate(r.Event.Data.Object.Document, validation.Required),
	}.Filter()
}

// ToEvent unwraps the envelope into a domain event.
func (r *WebhookRequest) ToEvent() webhookDomain.Event {
	return webhookDomain.Event{
		ID:         r.ID,
		Type:       r.Event.Type,
		DocumentID: r.Event.Data.Object.Document,
		Reason:     r.Event.Data.Object.Reason,
	}
}
