package wagers

import (
	"iqbot/application"

	"github.com/bwmarrin/discordgo"
)

// Reaction emoji the challenge message is seeded with.
const (
	emojiAccept  = "✅"
	emojiDecline = "❌"
)

// Feature represents the wagers feature: the /bet command and the
// reaction-driven accept/decline flow.
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	machine    *application.WagerStateMachine
}

// NewFeature creates a new wagers feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, machine *application.WagerStateMachine) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// HandleCommand handles the /bet command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBetPropose(s, i)
}
