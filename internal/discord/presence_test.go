package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aou-community/aubot/internal/domain"
)

func TestStreamInfoFromPresence_TwitchStream(t *testing.T) {
	p := &discordgo.Presence{
		Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeGame, Name: "Factorio"},
			{Type: discordgo.ActivityTypeStreaming, Name: "Twitch", URL: "https://www.twitch.tv/alice"},
		},
	}

	stream := streamInfoFromPresence(p)
	require.NotNil(t, stream)
	assert.Equal(t, domain.PlatformTwitch, stream.Platform)
	assert.Equal(t, "https://www.twitch.tv/alice", stream.URL)
}

func TestStreamInfoFromPresence_NoStreamingActivity(t *testing.T) {
	p := &discordgo.Presence{
		Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeGame, Name: "Factorio"},
		},
	}

	assert.Nil(t, streamInfoFromPresence(p))
}

func TestStreamInfoFromPresence_OtherPlatform(t *testing.T) {
	p := &discordgo.Presence{
		Activities: []*discordgo.Activity{
			{Type: discordgo.ActivityTypeStreaming, Name: "YouTube", URL: "https://youtube.com/watch?v=x"},
		},
	}

	stream := streamInfoFromPresence(p)
	require.NotNil(t, stream)
	assert.Equal(t, "youtube", stream.Platform)
}

func TestHasRole(t *testing.T) {
	m := &discordgo.Member{Roles: []string{"1", "2", "3"}}

	assert.True(t, hasRole(m, "2"))
	assert.False(t, hasRole(m, "9"))
}
