// Package domain contains the delivery worker domain model.
package domain

// Outcome classifies what a worker did with a claimed delivery job.
type Outcome string

const (
	// OutcomeSent means the gateway accepted the message.
	OutcomeSent Outcome = "sent"
	// OutcomeSuperseded means the contract was signed before the send
	// happened and the notification was failed as superseded.
	OutcomeSuperseded Outcome = "superseded"
	// OutcomeDiscarded means the job referenced nothing deliverable and
	// was completed without side effects.
	OutcomeDiscarded Outcome = "discarded"
	// OutcomeRetry means the job was released back to the queue.
	OutcomeRetry Outcome = "retry"
	// OutcomeFailed means redeliveries were exhausted and the
	// notification was marked failed.
	OutcomeFailed Outcome = "failed"
)

// Result is the terminal disposition of a single job processing pass.
type Result struct {
	// Outcome is what happened to the job.
	Outcome Outcome
	// Err is the cause behind a retry or failure outcome, nil otherwise.
	Err error
}
