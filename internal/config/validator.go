package config

import (
	"fmt"
	"os"
	"strings"
)

// RequiredEnvVars lists all environment variables that must be set.
var RequiredEnvVars = []string{
	"DISCORD_TOKEN",
	"DATABASE_URI",
	"DATABASE_NAME",
	"TWITCH_CLIENT_ID",
	"TWITCH_CLIENT_SECRET",
	"GUILD_ID",
	"ADMIN_ROLE_ID",
	"LOG_CHANNEL_ID",
	"LEADERBOARD_CHANNEL_ID",
	"BIRTHDAY_CHANNEL_ID",
	"BOT_OWNER_ID",
}

// ValidateEnv checks that all required environment variables are set.
// Used by deployment checks before the process is restarted.
func ValidateEnv() error {
	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv("TESTING") == "1" {
		warnings = append(warnings, "TESTING is enabled - normally-ephemeral responses will be visible to everyone")
	}

	return warnings, nil
}
