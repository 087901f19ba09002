package ratings

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"iqbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// HandleIQ handles the /iq command: show a user's rating, defaulting to
// the invoker. First lookup creates the row at the baseline.
func (f *Feature) HandleIQ(s *discordgo.Session, i *discordgo.InteractionCreate) {
	target := i.Member.User
	if options := i.ApplicationCommandData().Options; len(options) > 0 {
		if user := options[0].UserValue(s); user != nil {
			target = user
		}
	}
	if target.Bot {
		common.RespondWithError(s, i, "Bots have no measurable IQ")
		return
	}

	userID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to begin transaction"))
		return
	}
	defer uow.Rollback()

	participant, err := uow.ParticipantRepository().GetOrCreate(ctx, guildID, userID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load participant"))
		return
	}

	if err := uow.Commit(); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to commit transaction"))
		return
	}

	respond(s, i, fmt.Sprintf("🧠 <@%d> has an IQ of %d.", userID, participant.Rating))
}

// HandleIQSet handles the owner-only /iqset command: override a user's
// rating, creating the row if needed.
func (f *Feature) HandleIQSet(s *discordgo.Session, i *discordgo.InteractionCreate) {
	invokerID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil || invokerID != f.ownerID {
		common.HandleError(s, i, common.NewUserError("Only the bot owner can set IQ", "unauthorized iqset attempt"))
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) < 2 {
		common.RespondWithError(s, i, "Please specify a user and a value")
		return
	}
	target := options[0].UserValue(s)
	if target == nil {
		common.RespondWithError(s, i, "Invalid user specified")
		return
	}
	rating := int(options[1].IntValue())

	userID, err := strconv.ParseInt(target.ID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Invalid user ID")
		return
	}
	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to begin transaction"))
		return
	}
	defer uow.Rollback()

	if err := uow.ParticipantRepository().SetRating(ctx, guildID, userID, rating); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to set rating"))
		return
	}

	if err := uow.Commit(); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to commit transaction"))
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"rating":   rating,
	}).Info("Rating overridden by owner")

	respond(s, i, fmt.Sprintf("🧠 <@%d> now has an IQ of %d.", userID, rating))
}

// HandleMemberAdd marks a returning member present again.
func (f *Feature) HandleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	f.setPresent(m.User.ID, true)
}

// HandleMemberRemove marks a departed member absent. Their rating survives
// in case they return.
func (f *Feature) HandleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}
	f.setPresent(m.User.ID, false)
}

func (f *Feature) setPresent(discordID string, present bool) {
	userID, err := strconv.ParseInt(discordID, 10, 64)
	if err != nil {
		return
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		return
	}
	defer uow.Rollback()

	if err := uow.ParticipantRepository().SetPresent(ctx, userID, present); err != nil {
		log.Errorf("Error updating presence for user %d: %v", userID, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing presence update for user %d: %v", userID, err)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Errorf("Error sending response: %v", err)
	}
}
