package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	valid := []Status{StatusDraft, StatusPendingSignature, StatusSigned, StatusExpired, StatusCancelled}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	assert.False(t, Status("UNKNOWN").IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("draft").IsValid())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusPendingSignature.IsTerminal())
	assert.True(t, StatusSigned.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	// An unknown status is not terminal, it is invalid
	assert.False(t, Status("UNKNOWN").IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusPendingSignature, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusSigned, false},
		{StatusDraft, StatusExpired, false},
		{StatusPendingSignature, StatusSigned, true},
		{StatusPendingSignature, StatusExpired, true},
		{StatusPendingSignature, StatusCancelled, true},
		{StatusPendingSignature, StatusDraft, false},
		{StatusSigned, StatusCancelled, false},
		{StatusSigned, StatusPendingSignature, false},
		{StatusExpired, StatusPendingSignature, false},
		{StatusCancelled, StatusDraft, false},
		// Same-state no-ops are rejected
		{StatusDraft, StatusDraft, false},
		{StatusPendingSignature, StatusPendingSignature, false},
		{StatusSigned, StatusSigned, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReason_IsValid(t *testing.T) {
	valid := []Reason{
		ReasonCreated, ReasonSentToSignature, ReasonSigned,
		ReasonExpired, ReasonCancelled, ReasonManualCancellation,
	}
	for _, r := range valid {
		assert.True(t, r.IsValid(), "expected %s to be valid", r)
	}

	assert.False(t, Reason("OTHER").IsValid())
	assert.False(t, Reason("").IsValid())
}
