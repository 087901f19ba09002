package interfaces

import (
	"context"
	"time"

	"iqbot/domain/entities"
)

// Oracle is the external arbitration service that completes a prompt pair
// into a verdict text. Implementations must honor ctx cancellation; a timeout
// is treated identically to any other call failure.
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxOutputTokens int) (string, error)
}

// ChannelHistorian supplies bounded, newest-first message history for a
// channel: messages sent within the window before the anchor message, capped
// at limit.
type ChannelHistorian interface {
	RecentMessages(ctx context.Context, channelID, beforeMessageID int64, window time.Duration, limit int) ([]entities.ChannelMessage, error)
}

// NameResolver maps a guild member to their canonical username (what the
// oracle sees in transcripts) and display form (what announcements show).
type NameResolver interface {
	MemberNames(ctx context.Context, guildID, userID int64) (username, display string, err error)
}

// WagerNotifier posts user-facing wager outcomes back to the messaging
// platform. Delivery mechanics are outside the core's concern.
type WagerNotifier interface {
	AnnounceVerdict(ctx context.Context, wager *entities.Wager, verdictText string, changes []entities.RatingChange) error
	AnnounceDeclined(ctx context.Context, wager *entities.Wager) error
	AnnounceFailure(ctx context.Context, wager *entities.Wager) error
}
