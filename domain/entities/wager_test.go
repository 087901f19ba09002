package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWagerStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   WagerStatus
		terminal bool
	}{
		{WagerStatusOpen, false},
		{WagerStatusAccepted, false},
		{WagerStatusResolved, true},
		{WagerStatusFailed, true},
		{WagerStatusDeclined, true},
		{WagerStatusExpired, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.IsTerminal(), "status %s", tt.status)
	}
}

func TestWager_CanBeAnsweredBy(t *testing.T) {
	wager := &Wager{ProposerID: 10, OpponentID: 20, Status: WagerStatusOpen}

	assert.True(t, wager.CanBeAnsweredBy(20))
	assert.False(t, wager.CanBeAnsweredBy(10), "proposer cannot answer their own wager")
	assert.False(t, wager.CanBeAnsweredBy(30))

	wager.Status = WagerStatusAccepted
	assert.False(t, wager.CanBeAnsweredBy(20))
}

func TestWager_IsParticipant(t *testing.T) {
	wager := &Wager{ProposerID: 10, OpponentID: 20}

	assert.True(t, wager.IsParticipant(10))
	assert.True(t, wager.IsParticipant(20))
	assert.False(t, wager.IsParticipant(30))
}

func TestWager_OlderThan(t *testing.T) {
	now := time.Now()
	wager := &Wager{CreatedAt: now.Add(-15 * time.Minute)}

	assert.True(t, wager.OlderThan(10*time.Minute, now))
	assert.False(t, wager.OlderThan(20*time.Minute, now))
}
