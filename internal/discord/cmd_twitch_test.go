package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/registry"
	"github.com/aou-community/aubot/internal/twitch"
)

var aliceOnTwitch = &twitch.User{ID: 42, Login: "alice"}

func TestRegistrationEmbed_New(t *testing.T) {
	embed := registrationEmbed(&registry.Registration{Outcome: registry.OutcomeNew}, aliceOnTwitch, "100")

	assert.Equal(t, ColorBlue, embed.Color)
	assert.Contains(t, embed.Description, "alice")
	assert.Contains(t, embed.Description, "<@100>")
	assert.NotContains(t, embed.Description, "reset")
}

func TestRegistrationEmbed_LinkedKeepsPoints(t *testing.T) {
	plan := &registry.Registration{
		Outcome:  registry.OutcomeLinked,
		Previous: &domain.Member{TwitchLogin: "alice", Points: 150},
	}

	embed := registrationEmbed(plan, aliceOnTwitch, "100")
	assert.Equal(t, ColorBlue, embed.Color)
	assert.Contains(t, embed.Description, "**150** points carry over")
}

func TestRegistrationEmbed_OverwriteWarnsAboutReset(t *testing.T) {
	plan := &registry.Registration{
		Outcome:  registry.OutcomeOverwritten,
		Previous: &domain.Member{TwitchLogin: "oldchannel", Points: 900},
	}

	embed := registrationEmbed(plan, aliceOnTwitch, "100")
	assert.Equal(t, ColorYellow, embed.Color)
	assert.Contains(t, embed.Description, "oldchannel")
	assert.Contains(t, embed.Description, "**900** points reset to 0")
}
