// Package dto provides data transfer objects for notification HTTP handlers.
package dto

import (
	"time"

	notificationDomain "github.com/contractflow/contractflow/internal/notification/domain"
)

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID            string     `json:"id"`
	ContractID    string     `json:"contract_id"`
	SellerID      string     `json:"seller_id"`
	Recipient     string     `json:"recipient"`
	Type          string     `json:"type"`
	Channel       string     `json:"channel"`
	Content       string     `json:"content"`
	Status        string     `json:"status"`
	AttemptNumber int        `json:"attempt_number"`
	ExternalID    *string    `json:"external_id,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MapNotificationToResponse converts a domain notification to an API response.
func MapNotificationToResponse(n *notificationDomain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID.String(),
		ContractID:    n.ContractID.String(),
		SellerID:      n.SellerID.String(),
		Recipient:     n.Recipient,
		Type:          string(n.Type),
		Channel:       string(n.Channel),
		Content:       n.Content,
		Status:        string(n.Status),
		AttemptNumber: n.AttemptNumber,
		ExternalID:    n.ExternalID,
		SentAt:        n.SentAt,
		DeliveredAt:   n.DeliveredAt,
		CreatedAt:     n.CreatedAt,
	}
}
