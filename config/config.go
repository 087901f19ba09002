package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// defaultSystemInstruction is the fixed judge instruction sent to the oracle.
const defaultSystemInstruction = "Play the role of a fair judge and evaluate the arguments made by two sides. " +
	"Avoid fence sitting and placating. Do not take statements to be inherently true; evaluate their validity yourself. " +
	"Give a verdict on which side is more correct in relation to the topic and evaluate the effectiveness of their arguments. " +
	"Refer to users with the exact characters provided in the conversation. " +
	"When asked for a winner, respond with \"winner: <name>**\" as the first token of your response, " +
	"where <name> is one of the two participants, \"draw\", or \"none\"."

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	OwnerDiscordID int64

	// Database configuration
	DatabaseURL string

	// Oracle configuration
	OracleAPIKey      string
	OracleModel       string
	OracleBaseURL     string
	OracleTimeout     time.Duration
	SystemInstruction string

	// Token budget for context assembly
	TokenLimit           int
	TokenOverheadReserve int
	TokenPromptReserve   int
	TokenOutputReserve   int

	// Conversation history bounds
	HistoryWindow   time.Duration
	HistoryMessages int

	// Rating configuration
	RatingScale         float64
	RatingMaxDelta      float64
	RatingStrictZeroSum bool

	// Wager lifecycle configuration
	WagerExpiry   time.Duration // age past which an Open wager expires
	WagerRecovery time.Duration // age past which a stuck Accepted wager fails
	SweepInterval time.Duration

	// Environment: "development", "production" or "test"
	Environment string
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		OracleAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OracleModel:       "gpt-4o",
		OracleBaseURL:     os.Getenv("ORACLE_BASE_URL"),
		OracleTimeout:     30 * time.Second,
		SystemInstruction: defaultSystemInstruction,

		TokenLimit:           16384,
		TokenOverheadReserve: 512,
		TokenPromptReserve:   256,
		TokenOutputReserve:   512,

		HistoryWindow:   30 * time.Minute,
		HistoryMessages: 100,

		RatingScale:         400,
		RatingMaxDelta:      20,
		RatingStrictZeroSum: os.Getenv("RATING_STRICT_ZERO_SUM") == "true",

		WagerExpiry:   10 * time.Minute,
		WagerRecovery: 30 * time.Minute,
		SweepInterval: time.Minute,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if model := os.Getenv("ORACLE_MODEL"); model != "" {
		config.OracleModel = model
	}
	if prompt := os.Getenv("ORACLE_SYSTEM_PROMPT"); prompt != "" {
		config.SystemInstruction = prompt
	}
	if owner := os.Getenv("OWNER_DISCORD_ID"); owner != "" {
		if id, err := strconv.ParseInt(owner, 10, 64); err == nil {
			config.OwnerDiscordID = id
		}
	}

	overrideInt(&config.TokenLimit, "TOKEN_LIMIT")
	overrideInt(&config.TokenOverheadReserve, "TOKEN_OVERHEAD_RESERVE")
	overrideInt(&config.TokenPromptReserve, "TOKEN_PROMPT_RESERVE")
	overrideInt(&config.TokenOutputReserve, "TOKEN_OUTPUT_RESERVE")
	overrideInt(&config.HistoryMessages, "HISTORY_MESSAGES")

	overrideFloat(&config.RatingScale, "RATING_SCALE")
	overrideFloat(&config.RatingMaxDelta, "RATING_MAX_DELTA")

	overrideMinutes(&config.HistoryWindow, "HISTORY_MINUTES")
	overrideMinutes(&config.WagerExpiry, "WAGER_EXPIRY_MINUTES")
	overrideMinutes(&config.WagerRecovery, "WAGER_RECOVERY_MINUTES")
	overrideSeconds(&config.SweepInterval, "SWEEP_INTERVAL_SECONDS")
	overrideSeconds(&config.OracleTimeout, "ORACLE_TIMEOUT_SECONDS")

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.OracleAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
	}

	return config, nil
}

func overrideInt(target *int, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideFloat(target *float64, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideMinutes(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = time.Duration(parsed) * time.Minute
		}
	}
}

func overrideSeconds(target *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = time.Duration(parsed) * time.Second
		}
	}
}
