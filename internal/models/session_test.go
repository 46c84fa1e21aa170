package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		to      SessionStatus
		allowed bool
	}{
		{"requested to accepted", SessionRequested, SessionAccepted, true},
		{"requested to declined", SessionRequested, SessionDeclined, true},
		{"requested to completed", SessionRequested, SessionCompleted, false},
		{"accepted to completed", SessionAccepted, SessionCompleted, true},
		{"accepted to declined", SessionAccepted, SessionDeclined, false},
		{"accepted to requested", SessionAccepted, SessionRequested, false},
		{"declined is terminal", SessionDeclined, SessionAccepted, false},
		{"completed is terminal", SessionCompleted, SessionAccepted, false},
		{"completed to completed", SessionCompleted, SessionCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSessionStatus_IsTerminal(t *testing.T) {
	assert.False(t, SessionRequested.IsTerminal())
	assert.False(t, SessionAccepted.IsTerminal())
	assert.True(t, SessionDeclined.IsTerminal())
	assert.True(t, SessionCompleted.IsTerminal())
}

func TestPaymentStatus_IsOpen(t *testing.T) {
	assert.True(t, PaymentPending.IsOpen())
	assert.True(t, PaymentCompleted.IsOpen())
	assert.False(t, PaymentFailed.IsOpen())
	assert.False(t, PaymentRefunded.IsOpen())
}

func TestPayment_AmountMinor(t *testing.T) {
	p := &Payment{Amount: 500}
	assert.Equal(t, int64(50000), p.AmountMinor())
}
