package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"iqbot/domain/entities"
	"iqbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// maxMessageLength is the Discord message content limit.
const maxMessageLength = 2000

// wagerNotifier posts wager outcomes back to the channel the wager was
// proposed in, as replies to the proposal message. It implements
// interfaces.WagerNotifier.
type wagerNotifier struct {
	session *discordgo.Session
}

// NewWagerNotifier creates a notifier over the given session.
func NewWagerNotifier(session *discordgo.Session) interfaces.WagerNotifier {
	return &wagerNotifier{session: session}
}

// AnnounceVerdict posts the oracle's verdict followed by the rating movements.
func (n *wagerNotifier) AnnounceVerdict(ctx context.Context, wager *entities.Wager, verdictText string, changes []entities.RatingChange) error {
	return n.reply(ctx, wager, formatVerdictAnnouncement(verdictText, changes))
}

func formatVerdictAnnouncement(verdictText string, changes []entities.RatingChange) string {
	var ratings strings.Builder
	ratings.WriteString("\n")
	for _, change := range changes {
		ratings.WriteString(fmt.Sprintf("\n<@%d>: IQ %d -> %d", change.UserID, change.Before, change.After))
	}

	// leave room for the rating lines when the verdict runs long
	budget := maxMessageLength - ratings.Len()
	return truncate(verdictText, budget) + ratings.String()
}

// truncate shortens s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// AnnounceDeclined posts a decline notice.
func (n *wagerNotifier) AnnounceDeclined(ctx context.Context, wager *entities.Wager) error {
	content := fmt.Sprintf("<@%d> declined the wager from <@%d>. No IQ changes hands.", wager.OpponentID, wager.ProposerID)
	return n.reply(ctx, wager, content)
}

// AnnounceFailure posts a resolution-failure notice.
func (n *wagerNotifier) AnnounceFailure(ctx context.Context, wager *entities.Wager) error {
	content := "The judge could not reach a verdict. The wager is off and nobody's IQ changes."
	return n.reply(ctx, wager, content)
}

func (n *wagerNotifier) reply(ctx context.Context, wager *entities.Wager, content string) error {
	reference := &discordgo.MessageReference{
		MessageID: strconv.FormatInt(wager.MessageID, 10),
		ChannelID: strconv.FormatInt(wager.ChannelID, 10),
		GuildID:   strconv.FormatInt(wager.GuildID, 10),
	}

	_, err := n.session.ChannelMessageSendReply(
		strconv.FormatInt(wager.ChannelID, 10),
		content,
		reference,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to send wager announcement: %w", err)
	}
	return nil
}
