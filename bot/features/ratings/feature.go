package ratings

import (
	"iqbot/application"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the ratings feature: the /iq and /iqset commands and
// the guild membership tracking behind them.
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
	ownerID    int64
}

// NewFeature creates a new ratings feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, ownerID int64) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		ownerID:    ownerID,
	}
}
