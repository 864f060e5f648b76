package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
	"github.com/aou-community/aubot/internal/metrics"
)

// presenceUpdate derives streaming state from presence activities. Only a
// literal transition reaches the store; Discord repeats presence payloads
// freely.
func (b *Bot) presenceUpdate(s *discordgo.Session, p *discordgo.PresenceUpdate) {
	defer b.recoverPanic("presence")

	if !b.ownGuild(p.GuildID) || p.User == nil {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	stream := streamInfoFromPresence(&p.Presence)

	written, err := b.Members.UpdateStreamStatus(ctx, p.User.ID, stream)
	if err != nil {
		slog.Error("Failed to update stream status", "discord_id", p.User.ID, "error", err)
		return
	}

	result := metrics.ResultSkipped
	if written {
		result = metrics.ResultWritten
		logger.FromContext(ctx).Info("Stream status changed",
			"discord_id", p.User.ID, "streaming", stream != nil)
	}
	metrics.StreamUpdates.WithLabelValues(result).Inc()
}

// streamInfoFromPresence extracts the streaming activity, if any.
func streamInfoFromPresence(p *discordgo.Presence) *domain.StreamInfo {
	for _, activity := range p.Activities {
		if activity.Type != discordgo.ActivityTypeStreaming {
			continue
		}
		return &domain.StreamInfo{
			Platform: streamPlatform(activity),
			URL:      activity.URL,
		}
	}
	return nil
}

func streamPlatform(activity *discordgo.Activity) string {
	if strings.Contains(activity.URL, "twitch.tv") {
		return domain.PlatformTwitch
	}
	return strings.ToLower(activity.Name)
}

// ResyncStreams reconciles every linked member's stream status against the
// gateway presence cache. Runs at startup to correct drift accumulated while
// the bot was offline.
func (b *Bot) ResyncStreams(ctx context.Context) error {
	log := logger.FromContext(ctx)

	guild, err := b.Session.State.Guild(b.cfg.GuildID)
	if err != nil {
		return err
	}

	streaming := make(map[string]*domain.StreamInfo)
	for _, presence := range guild.Presences {
		if presence.User == nil {
			continue
		}
		if stream := streamInfoFromPresence(presence); stream != nil {
			streaming[presence.User.ID] = stream
		}
	}

	members, err := b.Members.All(ctx)
	if err != nil {
		return err
	}

	for _, m := range members {
		if !m.Linked() {
			continue
		}
		if err := b.Members.ForceStreamStatus(ctx, m.DiscordID, streaming[m.DiscordID]); err != nil {
			log.Error("Failed to force stream status", "discord_id", m.DiscordID, "error", err)
		}
	}

	log.Info("Resynced stream statuses", "streaming", len(streaming), "members", len(members))
	return nil
}

// ResyncAdmins walks the guild member list and forces every record's admin
// flag to match current role membership.
func (b *Bot) ResyncAdmins(ctx context.Context) error {
	adminIDs := []string{}

	after := ""
	for {
		members, err := b.Session.GuildMembers(b.cfg.GuildID, after, 1000)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			break
		}

		for _, m := range members {
			if hasRole(m, b.cfg.AdminRoleID) {
				adminIDs = append(adminIDs, m.User.ID)
			}
			after = m.User.ID
		}

		if len(members) < 1000 {
			break
		}
	}

	if err := b.Members.SyncAdmins(ctx, adminIDs); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Resynced admin flags", "admins", len(adminIDs))
	return nil
}

func hasRole(m *discordgo.Member, roleID string) bool {
	for _, id := range m.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}
