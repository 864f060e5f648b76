package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/inactivity"
	"github.com/aou-community/aubot/internal/logger"
	"github.com/aou-community/aubot/internal/metrics"
)

const (
	// backfillMessagesPerChannel bounds the startup history scan.
	backfillMessagesPerChannel = 200

	kickReason = "inactive for 30 days"
)

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer b.recoverPanic("message")

	if !b.ownGuild(m.GuildID) || m.Author == nil || m.Author.Bot {
		return
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	if err := b.Inactivity.Touch(ctx, m.Author.ID, time.Now().UTC()); err != nil {
		slog.Error("Failed to record activity", "discord_id", m.Author.ID, "error", err)
	}
}

// BackfillActivity seeds last-seen records for members who have none yet,
// first from recent channel history, then from the bot's startup time. Seeds
// never overwrite an existing record, so repeated startups are harmless.
func (b *Bot) BackfillActivity(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()
	cutoff := now.Add(-inactivity.KickAfter)

	seen := make(map[string]time.Time)

	channels, err := b.Session.GuildChannels(b.cfg.GuildID)
	if err != nil {
		return err
	}

	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		b.scanChannelHistory(channel.ID, cutoff, seen)
	}

	// Members with no message inside the window start their clock now rather
	// than being swept on the first pass.
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
			if !m.User.Bot {
				if _, ok := seen[m.User.ID]; !ok {
					seen[m.User.ID] = now
				}
			}
			after = m.User.ID
		}

		if len(members) < 1000 {
			break
		}
	}

	log.Info("Scanned activity history", "members", len(seen))
	return b.Inactivity.Backfill(ctx, seen)
}

// scanChannelHistory walks a channel backwards collecting each author's
// newest message time inside the window.
func (b *Bot) scanChannelHistory(channelID string, cutoff time.Time, seen map[string]time.Time) {
	before := ""
	scanned := 0

	for scanned < backfillMessagesPerChannel {
		messages, err := b.Session.ChannelMessages(channelID, 100, before, "", "")
		if err != nil {
			// Missing read permission on some channels is normal.
			slog.Debug("Skipping channel during backfill", "channel_id", channelID, "error", err)
			return
		}
		if len(messages) == 0 {
			return
		}

		for _, msg := range messages {
			scanned++
			before = msg.ID
			if msg.Timestamp.Before(cutoff) {
				return
			}
			if msg.Author == nil || msg.Author.Bot {
				continue
			}
			if current, ok := seen[msg.Author.ID]; !ok || msg.Timestamp.After(current) {
				seen[msg.Author.ID] = msg.Timestamp
			}
		}
	}
}

// SweepInactive warns members quiet past the notice threshold and kicks
// members quiet past the kick threshold. Runs hourly.
func (b *Bot) SweepInactive(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	notices, err := b.Inactivity.NoticeCandidates(ctx, now)
	if err != nil {
		return err
	}

	notified := make([]string, 0, len(notices))
	for _, rec := range notices {
		if rec.DiscordID == b.cfg.BotOwnerID {
			continue
		}
		kickAt := rec.LastSeen.Add(inactivity.KickAfter)
		msg := fmt.Sprintf("👋 You have been quiet in AoU for a while. "+
			"Without any activity you will be removed <t:%d:D>. Drop a message to stay!", kickAt.Unix())

		if err := b.directMessage(rec.DiscordID, msg); err != nil {
			// DMs can be closed; the notice stays pending for the next sweep.
			log.Warn("Failed to send inactivity notice", "discord_id", rec.DiscordID, "error", err)
			continue
		}
		notified = append(notified, rec.DiscordID)
		metrics.InactivityActions.WithLabelValues(metrics.KindNotice).Inc()
	}

	if err := b.Inactivity.MarkNotified(ctx, notified); err != nil {
		return err
	}

	kicks, err := b.Inactivity.KickCandidates(ctx, now)
	if err != nil {
		return err
	}

	for _, rec := range kicks {
		if rec.DiscordID == b.cfg.BotOwnerID {
			continue
		}

		farewell := "You have been removed from AoU after 30 days of inactivity. You are welcome back any time!"
		if invite := b.rejoinInvite(); invite != "" {
			farewell += "\n" + invite
		}
		if err := b.directMessage(rec.DiscordID, farewell); err != nil {
			log.Warn("Failed to send farewell", "discord_id", rec.DiscordID, "error", err)
		}

		if err := b.Session.GuildMemberDeleteWithReason(b.cfg.GuildID, rec.DiscordID, kickReason); err != nil {
			// Role hierarchy or permissions can block individual kicks.
			log.Error("Failed to kick inactive member", "discord_id", rec.DiscordID, "error", err)
			continue
		}

		log.Info("Kicked inactive member", "discord_id", rec.DiscordID, "last_seen", rec.LastSeen)
		metrics.InactivityActions.WithLabelValues(metrics.KindKick).Inc()
	}

	return nil
}

// directMessage DMs a user, creating the channel on demand.
func (b *Bot) directMessage(userID, content string) error {
	channel, err := b.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = b.Session.ChannelMessageSend(channel.ID, content)
	return err
}

// rejoinInvite mints a single-use style invite for a kicked member, best
// effort.
func (b *Bot) rejoinInvite() string {
	invite, err := b.Session.ChannelInviteCreate(b.cfg.LeaderboardChannelID, discordgo.Invite{
		MaxAge:  0,
		MaxUses: 1,
	})
	if err != nil {
		slog.Warn("Failed to create rejoin invite", "error", err)
		return ""
	}
	return "https://discord.gg/" + invite.Code
}
