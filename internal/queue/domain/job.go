// Package domain defines the durable delivery job model. The queue is
// at-least-once: jobs may be redelivered after a crash, so consumers must
// treat the notification row, not the job, as the source of truth.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle status of a delivery job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusDead       Status = "dead"
)

// Job represents one unit of delivery work. The payload carries only the
// notification id; content is always reloaded from the notification row.
type Job struct {
	// ID is the unique identifier for the job.
	ID uuid.UUID

	// NotificationID is the notification this job delivers.
	NotificationID uuid.UUID

	// RedeliveryCount is how many times the job re-entered the queue.
	RedeliveryCount int

	// AvailableAt is the earliest time the job may be dequeued.
	AvailableAt time.Time

	// Status is the queue status.
	Status Status

	// LastError is the most recent failure, for operator inspection.
	LastError *string

	// CreatedAt is when the job was first enqueued.
	CreatedAt time.Time

	// UpdatedAt is when the job last changed.
	UpdatedAt time.Time
}
