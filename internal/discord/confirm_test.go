package discord

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingManager(t *testing.T, token, initiatorID string) *ConfirmManager {
	t.Helper()

	m := NewConfirmManager()
	p := &pendingConfirm{
		initiatorID: initiatorID,
		embed:       &discordgo.MessageEmbed{Title: "Register"},
	}
	p.timer = time.AfterFunc(time.Hour, func() {})
	m.pending[token] = p
	return m
}

func TestClaim_InitiatorResolvesOnce(t *testing.T) {
	m := pendingManager(t, "tok", "100")

	p, status := m.claim("tok", "100")
	require.Equal(t, claimOK, status)
	require.NotNil(t, p)

	// A second click on either button finds nothing to run.
	p, status = m.claim("tok", "100")
	assert.Equal(t, claimUnknown, status)
	assert.Nil(t, p)
}

func TestClaim_NonInitiatorLeavesConfirmationPending(t *testing.T) {
	m := pendingManager(t, "tok", "100")

	p, status := m.claim("tok", "999")
	assert.Equal(t, claimNotInitiator, status)
	assert.Nil(t, p)

	// The initiator can still resolve it afterwards.
	_, status = m.claim("tok", "100")
	assert.Equal(t, claimOK, status)
}

func TestClaim_UnknownToken(t *testing.T) {
	m := NewConfirmManager()

	_, status := m.claim("missing", "100")
	assert.Equal(t, claimUnknown, status)
}

func TestTake_RemovesPendingEntry(t *testing.T) {
	m := pendingManager(t, "tok", "100")

	require.NotNil(t, m.take("tok"))
	assert.Nil(t, m.take("tok"))

	// Expired entries can no longer be claimed either.
	_, status := m.claim("tok", "100")
	assert.Equal(t, claimUnknown, status)
}

func TestResolvedEmbed(t *testing.T) {
	src := &discordgo.MessageEmbed{Title: "Register", Color: ColorBlue}

	done := resolvedEmbed(src, "DONE", ColorGreen)
	assert.Equal(t, "Register : DONE", done.Title)
	assert.Equal(t, ColorGreen, done.Color)

	// Source embed is untouched.
	assert.Equal(t, "Register", src.Title)
	assert.Equal(t, ColorBlue, src.Color)
}

func TestConfirmButtons_Disabled(t *testing.T) {
	row, ok := confirmButtons("tok", true)[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	for _, c := range row.Components {
		button, ok := c.(discordgo.Button)
		require.True(t, ok)
		assert.True(t, button.Disabled)
	}
}

func TestConfirmButtons_CustomIDs(t *testing.T) {
	row := confirmButtons("tok", false)[0].(discordgo.ActionsRow)

	confirm := row.Components[0].(discordgo.Button)
	deny := row.Components[1].(discordgo.Button)

	assert.Equal(t, "confirm:tok", confirm.CustomID)
	assert.Equal(t, "deny:tok", deny.CustomID)
}
