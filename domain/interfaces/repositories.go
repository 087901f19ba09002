package interfaces

import (
	"context"
	"time"

	"iqbot/domain/entities"
)

// WagerRepository defines wager data access
type WagerRepository interface {
	// Create inserts a new wager keyed by its proposal message ID.
	Create(ctx context.Context, wager *entities.Wager) error

	// GetByMessageID retrieves a wager by its proposal message ID.
	// Returns nil without error when no wager exists.
	GetByMessageID(ctx context.Context, messageID int64) (*entities.Wager, error)

	// TransitionStatus performs the compare-and-set transition primitive:
	// the status column is updated to "to" only if it currently equals
	// "from". Returns false when zero rows matched, which means another
	// actor committed a conflicting transition first.
	TransitionStatus(ctx context.Context, messageID int64, from, to entities.WagerStatus) (bool, error)

	// UpdateResolution records the winner and verdict text for a resolved
	// or failed wager.
	UpdateResolution(ctx context.Context, messageID int64, winnerID *int64, verdict string) error

	// ListOpenOlderThan returns all Open wagers created before cutoff.
	ListOpenOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error)

	// ListAcceptedOlderThan returns all Accepted wagers created before
	// cutoff, used by the recovery sweep for wagers stuck mid-resolution.
	ListAcceptedOlderThan(ctx context.Context, cutoff time.Time) ([]*entities.Wager, error)
}

// ParticipantRepository defines participant data access
type ParticipantRepository interface {
	// GetOrCreate returns the participant for (guildID, userID), creating
	// the row at the baseline rating on first reference.
	GetOrCreate(ctx context.Context, guildID, userID int64) (*entities.Participant, error)

	// UpdateRating writes a participant's new rating and resolution count.
	UpdateRating(ctx context.Context, id int64, rating, numResolutions int) error

	// SetRating overrides a participant's rating, creating the row if needed.
	SetRating(ctx context.Context, guildID, userID int64, rating int) error

	// SetPresent updates the membership flag for a user across all guilds.
	SetPresent(ctx context.Context, userID int64, present bool) error
}
