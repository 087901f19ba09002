package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"iqbot/bot"
	"iqbot/config"
	"iqbot/database"
	"iqbot/infrastructure/oracle"
	"iqbot/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting iqbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Run pending migrations
	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Initialize the oracle client
	var oracleOpts []oracle.Option
	if cfg.OracleBaseURL != "" {
		oracleOpts = append(oracleOpts, oracle.WithBaseURL(cfg.OracleBaseURL))
	}
	oracleClient := oracle.NewClient(cfg.OracleAPIKey, cfg.OracleModel, oracleOpts...)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	discordBot, err := bot.New(cfg, uowFactory, oracleClient)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
