package bot

import (
	"context"
	"fmt"

	"iqbot/application"
	"iqbot/bot/features/ratings"
	"iqbot/bot/features/wagers"
	"iqbot/config"
	"iqbot/domain/interfaces"
	"iqbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Bot manages the Discord session and all feature modules
type Bot struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory

	// Feature modules
	wagers  *wagers.Feature
	ratings *ratings.Feature

	// Worker cleanup functions
	stopSweeper func()
}

// New creates a new bot instance with all features and opens the gateway
// connection.
func New(cfg *config.Config, uowFactory application.UnitOfWorkFactory, oracle interfaces.Oracle) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	// Session-backed adapters
	historian := NewChannelHistorian(dg)
	names := NewMemberNameResolver(dg)
	notifier := NewWagerNotifier(dg)

	// Domain services
	ratingEngine := services.NewRatingEngine(services.RatingConfig{
		Scale:         cfg.RatingScale,
		MaxDelta:      cfg.RatingMaxDelta,
		StrictZeroSum: cfg.RatingStrictZeroSum,
	})
	assembler := services.NewContextAssembler(services.TokenBudget{
		ModelLimit:      cfg.TokenLimit,
		OverheadReserve: cfg.TokenOverheadReserve,
		PromptReserve:   cfg.TokenPromptReserve,
		OutputReserve:   cfg.TokenOutputReserve,
	}, cfg.SystemInstruction)
	arbiter := services.NewArbiter(oracle, services.ArbiterConfig{
		SystemInstruction: cfg.SystemInstruction,
		PromptReserve:     cfg.TokenPromptReserve,
		OutputReserve:     cfg.TokenOutputReserve,
	})

	machine := application.NewWagerStateMachine(
		uowFactory, ratingEngine, assembler, arbiter,
		historian, names, notifier,
		application.StateMachineConfig{
			HistoryWindow:   cfg.HistoryWindow,
			HistoryLimit:    cfg.HistoryMessages,
			OracleTimeout:   cfg.OracleTimeout,
			ExpiryThreshold: cfg.WagerExpiry,
		},
	)

	bot := &Bot{
		session:    dg,
		uowFactory: uowFactory,
	}

	bot.wagers = wagers.NewFeature(dg, uowFactory, machine)
	bot.ratings = ratings.NewFeature(dg, uowFactory, cfg.OwnerDiscordID)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleMemberAdd)
	dg.AddHandler(bot.handleMemberRemove)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	sweeper := application.NewExpirySweeper(uowFactory, machine, cfg.SweepInterval, cfg.WagerExpiry, cfg.WagerRecovery)
	bot.stopSweeper = sweeper.Start(context.Background())
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopSweeper != nil {
		b.stopSweeper()
	}
	log.Info("Background workers stopped")

	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "bet":
		b.wagers.HandleCommand(s, i)
	case "iq":
		b.ratings.HandleIQ(s, i)
	case "iqset":
		b.ratings.HandleIQSet(s, i)
	}
}

// handleReactionAdd routes reaction adds to the wagers feature
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.wagers.HandleReaction(s, r)
}

// handleMemberAdd tracks members joining a guild
func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	b.ratings.HandleMemberAdd(s, m)
}

// handleMemberRemove tracks members leaving a guild
func (b *Bot) handleMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	b.ratings.HandleMemberRemove(s, m)
}
