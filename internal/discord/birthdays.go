package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/aou-community/aubot/internal/logger"
)

// BirthdayCheckInterval is how often due birthdays are collected. Collecting
// advances each fired record a year, so overlapping runs never double-post.
const BirthdayCheckInterval = time.Hour

// AnnounceBirthdays posts a shout-out for every birthday that has come due.
func (b *Bot) AnnounceBirthdays(ctx context.Context) error {
	due, err := b.Birthdays.CollectDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	log := logger.FromContext(ctx)
	for _, rec := range due {
		msg := fmt.Sprintf("🎂 Happy birthday <@%s>! 🎉", rec.DiscordID)
		if _, err := b.Session.ChannelMessageSend(b.cfg.BirthdayChannelID, msg); err != nil {
			log.Error("Failed to announce birthday", "discord_id", rec.DiscordID, "error", err)
			continue
		}
		log.Info("Announced birthday", "discord_id", rec.DiscordID)
	}

	return nil
}
