package discord

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

func (b *Bot) guildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer b.recoverPanic("member-add")

	if !b.ownGuild(m.GuildID) || m.User.Bot {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	if err := b.Inactivity.Touch(ctx, m.User.ID, time.Now().UTC()); err != nil {
		slog.Error("Failed to seed activity for new member", "discord_id", m.User.ID, "error", err)
	}
}

// guildMemberUpdate mirrors display name and admin role changes onto the
// member record. Unregistered members are ignored.
func (b *Bot) guildMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	defer b.recoverPanic("member-update")

	if !b.ownGuild(m.GuildID) || m.User.Bot {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())

	name := m.Nick
	if name == "" {
		name = m.User.GlobalName
	}
	if name == "" {
		name = m.User.Username
	}

	if err := b.Members.SetDisplayName(ctx, m.User.ID, name); err != nil && !errors.Is(err, domain.ErrMemberNotFound) {
		slog.Error("Failed to update display name", "discord_id", m.User.ID, "error", err)
	}

	if err := b.Members.SetAdmin(ctx, m.User.ID, hasRole(m.Member, b.cfg.AdminRoleID)); err != nil && !errors.Is(err, domain.ErrMemberNotFound) {
		slog.Error("Failed to update admin flag", "discord_id", m.User.ID, "error", err)
	}
}

// guildMemberRemove cleans up everything keyed on the departing member.
func (b *Bot) guildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	defer b.recoverPanic("member-remove")

	if !b.ownGuild(m.GuildID) {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	log := logger.FromContext(ctx)
	log.Info("Member left, removing records", "discord_id", m.User.ID)

	if err := b.Members.RemoveMember(ctx, m.User.ID); err != nil {
		log.Error("Failed to remove member record", "discord_id", m.User.ID, "error", err)
	}
	if err := b.Inactivity.Forget(ctx, m.User.ID); err != nil {
		log.Error("Failed to remove last-seen record", "discord_id", m.User.ID, "error", err)
	}
	if err := b.Birthdays.Forget(ctx, m.User.ID); err != nil {
		log.Error("Failed to remove birthday record", "discord_id", m.User.ID, "error", err)
	}
}
