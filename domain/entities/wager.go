package entities

import (
	"time"
)

// WagerStatus represents the lifecycle state of a wager
type WagerStatus string

const (
	WagerStatusOpen     WagerStatus = "open"
	WagerStatusAccepted WagerStatus = "accepted"
	WagerStatusResolved WagerStatus = "resolved"
	WagerStatusFailed   WagerStatus = "failed"
	WagerStatusDeclined WagerStatus = "declined"
	WagerStatusExpired  WagerStatus = "expired"
)

// IsTerminal reports whether no further transitions are possible from s.
func (s WagerStatus) IsTerminal() bool {
	return s != WagerStatusOpen && s != WagerStatusAccepted
}

// Wager represents an IQ wager between two users, keyed by the Discord
// message ID of the proposal message.
type Wager struct {
	MessageID  int64       `db:"message_id"`
	GuildID    int64       `db:"guild_id"`
	ChannelID  int64       `db:"channel_id"`
	ProposerID int64       `db:"proposer_id"`
	OpponentID int64       `db:"opponent_id"`
	Status     WagerStatus `db:"status"`
	WinnerID   *int64      `db:"winner_id"`
	Verdict    *string     `db:"verdict"`
	CreatedAt  time.Time   `db:"created_at"`
	ResolvedAt *time.Time  `db:"resolved_at"`
}

// IsParticipant checks if a user is involved in the wager
func (w *Wager) IsParticipant(userID int64) bool {
	return w.ProposerID == userID || w.OpponentID == userID
}

// CanBeAnsweredBy checks if the wager is awaiting a response from the given user
func (w *Wager) CanBeAnsweredBy(userID int64) bool {
	return w.Status == WagerStatusOpen && w.OpponentID == userID
}

// OlderThan reports whether the wager was created more than d before now.
func (w *Wager) OlderThan(d time.Duration, now time.Time) bool {
	return now.Sub(w.CreatedAt) > d
}
