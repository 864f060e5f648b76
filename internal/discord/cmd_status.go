package discord

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
)

// StatusCommand returns the status command definition and handler
func StatusCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show bot uptime and gateway latency",
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !b.deferEphemeral(s, i) {
			return
		}

		embed := createEmbed("Status", "", ColorBlue)
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: formatUptime(time.Since(b.started)), Inline: true},
			{Name: "Latency", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
			{Name: "Runtime", Value: fmt.Sprintf("%s, %d goroutines", runtime.Version(), runtime.NumGoroutine()), Inline: true},
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// formatUptime renders a duration as days/hours/minutes.
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
