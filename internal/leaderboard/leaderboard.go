// Package leaderboard derives the ranked points view rendered into the
// persistent leaderboard message.
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/domain"
)

const (
	// Size is how many members the leaderboard shows.
	Size = 10
	// RefreshInterval is how often the persistent message is re-rendered.
	RefreshInterval = 10 * time.Minute

	// EmbedTitle identifies the persistent message when the bot re-adopts it
	// after a restart.
	EmbedTitle = "Points leaderboard"

	embedColor = 0xF7EB02
)

// Rank orders members by descending points. Ties break on ascending Twitch id
// so that re-rendering with unchanged points yields the same order.
func Rank(members []domain.Member) []domain.Member {
	ranked := make([]domain.Member, len(members))
	copy(ranked, members)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].TwitchID < ranked[j].TwitchID
	})

	if len(ranked) > Size {
		ranked = ranked[:Size]
	}
	return ranked
}

// BuildEmbed renders the ranked members and a last-updated stamp.
func BuildEmbed(ranked []domain.Member, now time.Time) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(ranked))
	for _, m := range ranked {
		twitchMention := fmt.Sprintf("[%s](https://www.twitch.tv/%s)", m.TwitchLogin, m.TwitchLogin)

		mention := twitchMention
		if m.Linked() {
			mention = fmt.Sprintf("<@%s> / %s", m.DiscordID, twitchMention)
		}

		lines = append(lines, fmt.Sprintf("%s : **%d**", mention, m.Points))
	}

	return &discordgo.MessageEmbed{
		Title:       EmbedTitle,
		Color:       embedColor,
		Description: strings.Join(lines, "\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: "last updated"},
		Timestamp:   now.UTC().Format(time.RFC3339),
	}
}
