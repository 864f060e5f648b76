package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URI", "mongodb://localhost:27017")
	t.Setenv("DATABASE_NAME", "aubot_test")
	t.Setenv("TWITCH_CLIENT_ID", "client-id")
	t.Setenv("TWITCH_CLIENT_SECRET", "client-secret")
	t.Setenv("GUILD_ID", "123456789012345678")
	t.Setenv("ADMIN_ROLE_ID", "223456789012345678")
	t.Setenv("LOG_CHANNEL_ID", "323456789012345678")
	t.Setenv("LEADERBOARD_CHANNEL_ID", "423456789012345678")
	t.Setenv("BIRTHDAY_CHANNEL_ID", "523456789012345678")
	t.Setenv("BOT_OWNER_ID", "623456789012345678")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TESTING", "")
	t.Setenv("HEALTH_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HealthPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Testing)
}

func TestLoad_ReadsValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TESTING", "1")
	t.Setenv("HEALTH_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, "aubot_test", cfg.DatabaseName)
	assert.Equal(t, "123456789012345678", cfg.GuildID)
	assert.Equal(t, 9090, cfg.HealthPort)
	assert.True(t, cfg.Testing)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoad_SnowflakeMustBeNumeric(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GUILD_ID", "not-a-snowflake")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidHealthPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HEALTH_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEALTH_PORT")
}
