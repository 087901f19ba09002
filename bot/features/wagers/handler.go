package wagers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"iqbot/bot/common"
	"iqbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// handleBetPropose handles the /bet command: post the challenge message,
// seed it with the accept and decline reactions, then record the wager
// keyed by the challenge message ID.
func (f *Feature) handleBetPropose(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) < 1 {
		common.RespondWithError(s, i, "Please specify a user to bet against")
		return
	}

	targetUser := options[0].UserValue(s)
	if targetUser == nil {
		common.RespondWithError(s, i, "Invalid user specified")
		return
	}
	if targetUser.Bot {
		common.RespondWithError(s, i, "You cannot bet against a bot")
		return
	}

	proposerID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}
	targetID, err := strconv.ParseInt(targetUser.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid target user ID")
		return
	}
	if proposerID == targetID {
		common.RespondWithError(s, i, "You cannot bet against yourself")
		return
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	channelID, err := strconv.ParseInt(i.ChannelID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing channel ID %s: %v", i.ChannelID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	content := fmt.Sprintf(
		"<@%d> bets their IQ that they are right. <@%d>, react %s to accept or %s to decline.",
		proposerID, targetID, emojiAccept, emojiDecline,
	)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Errorf("Error responding to bet command: %v", err)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.Errorf("Error fetching challenge message: %v", err)
		return
	}
	messageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing challenge message ID %s: %v", msg.ID, err)
		return
	}

	for _, emoji := range []string{emojiAccept, emojiDecline} {
		if err := s.MessageReactionAdd(i.ChannelID, msg.ID, emoji); err != nil {
			log.Warnf("Error seeding %s reaction on wager %d: %v", emoji, messageID, err)
		}
	}

	if _, err := f.machine.Propose(context.Background(), guildID, channelID, messageID, proposerID, targetID); err != nil {
		log.Errorf("Error recording wager %d: %v", messageID, err)
		if err := s.InteractionResponseDelete(i.Interaction); err != nil {
			log.Warnf("Error deleting orphaned challenge message %d: %v", messageID, err)
		}
	}
}

// HandleReaction routes reaction adds on challenge messages. Reactions on
// unrelated messages are ignored; foreign emoji and reactions from anyone
// but the challenged opponent are removed while the wager is still open.
func (f *Feature) HandleReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID {
		return
	}

	messageID, err := strconv.ParseInt(r.MessageID, 10, 64)
	if err != nil {
		return
	}
	userID, err := strconv.ParseInt(r.UserID, 10, 64)
	if err != nil {
		return
	}

	ctx := context.Background()
	wager, err := f.lookupWager(ctx, messageID)
	if err != nil {
		log.Errorf("Error looking up wager for reaction on message %d: %v", messageID, err)
		return
	}
	if wager == nil {
		return
	}

	emoji := r.Emoji.Name
	if wager.Status == entities.WagerStatusOpen && (userID != wager.OpponentID || (emoji != emojiAccept && emoji != emojiDecline)) {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
			log.Warnf("Error removing stray reaction on wager %d: %v", messageID, err)
		}
		return
	}

	switch emoji {
	case emojiAccept:
		err = f.machine.Accept(ctx, messageID, userID)
	case emojiDecline:
		err = f.machine.Decline(ctx, messageID, userID)
	default:
		return
	}

	if err == nil || errors.Is(err, entities.ErrStateConflict) {
		// a conflicting transition already won; nothing to tell the user
		return
	}

	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
			log.Warnf("Error removing invalid reaction on wager %d: %v", messageID, err)
		}
		return
	}

	log.Errorf("Error handling %s reaction on wager %d: %v", emoji, messageID, err)
}

// lookupWager reads the wager for a message in a read-only transaction.
func (f *Feature) lookupWager(ctx context.Context, messageID int64) (*entities.Wager, error) {
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WagerRepository().GetByMessageID(ctx, messageID)
}
