package discord

import (
	"context"
	"time"

	"github.com/aou-community/aubot/internal/leaderboard"
	"github.com/aou-community/aubot/internal/logger"
	"github.com/aou-community/aubot/internal/metrics"
)

// leaderboardScanLimit bounds how far back the bot looks for its own message
// to adopt after a restart.
const leaderboardScanLimit = 50

// RefreshLeaderboard re-renders the persistent leaderboard message from the
// current store state. Runs at startup and on the refresh schedule.
func (b *Bot) RefreshLeaderboard(ctx context.Context) error {
	members, err := b.Members.Top(ctx, leaderboard.Size)
	if err != nil {
		return err
	}

	embed := leaderboard.BuildEmbed(leaderboard.Rank(members), time.Now().UTC())

	msgID, err := b.leaderboardMessage()
	if err != nil {
		return err
	}

	if _, err := b.Session.ChannelMessageEditEmbed(b.cfg.LeaderboardChannelID, msgID, embed); err != nil {
		// The message may have been deleted by a moderator; re-adopt next run.
		b.mu.Lock()
		b.leaderboardMsgID = ""
		b.mu.Unlock()
		return err
	}

	metrics.LeaderboardRefreshes.Inc()
	logger.FromContext(ctx).Info("Refreshed leaderboard", "entries", len(members))
	return nil
}

// leaderboardMessage returns the id of the persistent message, adopting an
// existing one from the channel or sending a fresh one.
func (b *Bot) leaderboardMessage() (string, error) {
	b.mu.Lock()
	cached := b.leaderboardMsgID
	b.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	messages, err := b.Session.ChannelMessages(b.cfg.LeaderboardChannelID, leaderboardScanLimit, "", "", "")
	if err != nil {
		return "", err
	}

	botID := b.Session.State.User.ID
	for _, msg := range messages {
		if msg.Author == nil || msg.Author.ID != botID {
			continue
		}
		for _, embed := range msg.Embeds {
			if embed.Title == leaderboard.EmbedTitle {
				b.mu.Lock()
				b.leaderboardMsgID = msg.ID
				b.mu.Unlock()
				return msg.ID, nil
			}
		}
	}

	placeholder := leaderboard.BuildEmbed(nil, time.Now().UTC())
	sent, err := b.Session.ChannelMessageSendEmbed(b.cfg.LeaderboardChannelID, placeholder)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	b.leaderboardMsgID = sent.ID
	b.mu.Unlock()
	return sent.ID, nil
}
