package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
// All Discord snowflakes are kept as strings, matching discordgo.
type Config struct {
	DiscordToken string `validate:"required"`

	DatabaseURI  string `validate:"required"`
	DatabaseName string `validate:"required"`

	TwitchClientID     string `validate:"required"`
	TwitchClientSecret string `validate:"required"`

	GuildID              string `validate:"required,number"`
	AdminRoleID          string `validate:"required,number"`
	LogChannelID         string `validate:"required,number"`
	LeaderboardChannelID string `validate:"required,number"`
	BirthdayChannelID    string `validate:"required,number"`
	BotOwnerID           string `validate:"required,number"`

	// Testing unhides responses that are normally ephemeral.
	// WARNING: do not enable in prod.
	Testing bool

	HealthPort int
	LogLevel   string
	LogFormat  string
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_TOKEN"),
		DatabaseURI:          os.Getenv("DATABASE_URI"),
		DatabaseName:         os.Getenv("DATABASE_NAME"),
		TwitchClientID:       os.Getenv("TWITCH_CLIENT_ID"),
		TwitchClientSecret:   os.Getenv("TWITCH_CLIENT_SECRET"),
		GuildID:              os.Getenv("GUILD_ID"),
		AdminRoleID:          os.Getenv("ADMIN_ROLE_ID"),
		LogChannelID:         os.Getenv("LOG_CHANNEL_ID"),
		LeaderboardChannelID: os.Getenv("LEADERBOARD_CHANNEL_ID"),
		BirthdayChannelID:    os.Getenv("BIRTHDAY_CHANNEL_ID"),
		BotOwnerID:           os.Getenv("BOT_OWNER_ID"),
		Testing:              getEnv("TESTING", "0") == "1",
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "text"),
	}

	portStr := getEnv("HEALTH_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HEALTH_PORT value: %w", err)
	}
	cfg.HealthPort = port

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
