package entities

import (
	"time"
)

// BaselineRating is the rating assigned to a participant on first reference.
const BaselineRating = 100

// Participant represents a guild member enrolled in the IQ rating system.
// Rows are created lazily on first reference and never deleted automatically.
type Participant struct {
	ID             int64     `db:"id"`
	GuildID        int64     `db:"guild_id"`
	UserID         int64     `db:"user_id"`
	Rating         int       `db:"rating"`
	NumResolutions int       `db:"num_resolutions"`
	Present        bool      `db:"present"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// RatingChange records a participant's rating before and after a resolution,
// for the user-facing announcement.
type RatingChange struct {
	UserID int64
	Before int
	After  int
}
