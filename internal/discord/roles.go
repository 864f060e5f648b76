package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

func roleInfoFrom(role *discordgo.Role) domain.RoleInfo {
	return domain.RoleInfo{
		RoleID: role.ID,
		Name:   role.Name,
		Color:  role.Color,
	}
}

func (b *Bot) guildRoleCreate(s *discordgo.Session, r *discordgo.GuildRoleCreate) {
	defer b.recoverPanic("role-create")

	if !b.ownGuild(r.GuildID) {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	if err := b.Roles.RoleChanged(ctx, roleInfoFrom(r.Role)); err != nil {
		slog.Error("Failed to store new role", "role_id", r.Role.ID, "error", err)
	}
}

func (b *Bot) guildRoleUpdate(s *discordgo.Session, r *discordgo.GuildRoleUpdate) {
	defer b.recoverPanic("role-update")

	if !b.ownGuild(r.GuildID) {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	if err := b.Roles.RoleChanged(ctx, roleInfoFrom(r.Role)); err != nil {
		slog.Error("Failed to update role", "role_id", r.Role.ID, "error", err)
	}
}

func (b *Bot) guildRoleDelete(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
	defer b.recoverPanic("role-delete")

	if !b.ownGuild(r.GuildID) {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	if err := b.Roles.RoleDeleted(ctx, r.RoleID); err != nil {
		slog.Error("Failed to delete role info", "role_id", r.RoleID, "error", err)
	}
}

// ResyncRoles mirrors the guild's full role list into the store. Descriptions
// written by members survive the upsert.
func (b *Bot) ResyncRoles(ctx context.Context) error {
	roles, err := b.Session.GuildRoles(b.cfg.GuildID)
	if err != nil {
		return err
	}

	infos := make([]domain.RoleInfo, 0, len(roles))
	for _, role := range roles {
		// Skip @everyone and integration-managed roles.
		if role.ID == b.cfg.GuildID || role.Managed {
			continue
		}
		infos = append(infos, roleInfoFrom(role))
	}

	return b.Roles.Sync(ctx, infos)
}
