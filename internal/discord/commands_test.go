package discord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/aou-community/aubot/internal/domain"
)

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"member missing", domain.ErrMemberNotFound, MsgNotRegistered},
		{"wrapped member missing", fmt.Errorf("lookup: %w", domain.ErrMemberNotFound), MsgNotRegistered},
		{"twitch missing", domain.ErrTwitchUserNotFound, MsgTwitchUserNotFound},
		{"claimed", domain.ErrAccountClaimed, MsgAccountClaimed},
		{"bad birthday", domain.ErrInvalidBirthday, MsgInvalidBirthday},
		{"role missing", domain.ErrRoleNotFound, MsgRoleNotFound},
		{"unknown", errors.New("mongo timeout"), MsgGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFriendlyError(tt.err))
		})
	}
}

func TestCommandsEqual(t *testing.T) {
	perms := int64(discordgo.PermissionManageServer)

	a := []*discordgo.ApplicationCommand{
		{Name: "twitch", Description: "Manage your Twitch link and points"},
		{Name: "admin", Description: "Admin utilities", DefaultMemberPermissions: &perms},
	}
	b := []*discordgo.ApplicationCommand{
		{Name: "admin", Description: "Admin utilities", DefaultMemberPermissions: &perms},
		{Name: "twitch", Description: "Manage your Twitch link and points"},
	}

	assert.True(t, commandsEqual(a, b), "order must not matter")
}

func TestCommandsEqual_DetectsChanges(t *testing.T) {
	a := []*discordgo.ApplicationCommand{{Name: "twitch", Description: "old"}}
	b := []*discordgo.ApplicationCommand{{Name: "twitch", Description: "new"}}
	assert.False(t, commandsEqual(a, b))

	c := []*discordgo.ApplicationCommand{{Name: "twitch", Description: "old"}, {Name: "status", Description: "s"}}
	assert.False(t, commandsEqual(a, c))
}

func TestCommandEqual_Options(t *testing.T) {
	a := &discordgo.ApplicationCommand{
		Name: "twitch",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "register"},
		},
	}
	b := &discordgo.ApplicationCommand{
		Name: "twitch",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "unregister"},
		},
	}

	assert.False(t, commandEqual(a, b))
}
