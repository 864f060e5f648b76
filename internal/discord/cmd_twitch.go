package discord

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/registry"
	"github.com/aou-community/aubot/internal/twitch"
)

// TwitchCommand returns the twitch command definition and handler
func TwitchCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "twitch",
		Description: "Manage your Twitch link and points",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "register",
				Description: "Link a Twitch channel to your Discord account",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "channel",
						Description: "Twitch channel name or URL",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unregister",
				Description: "Remove your Twitch link",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "points",
				Description: "Show your current points",
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		options := getOptions(i)
		if len(options) == 0 {
			return
		}

		switch options[0].Name {
		case "register":
			b.handleTwitchRegister(s, i, options[0].Options)
		case "unregister":
			b.handleTwitchUnregister(s, i)
		case "points":
			b.handleTwitchPoints(s, i)
		}
	}

	return cmd, handler
}

func (b *Bot) handleTwitchRegister(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !deferResponse(s, i) {
		return
	}

	login := twitch.NormalizeLogin(opts[0].StringValue())
	if login == "" {
		respondError(s, i, MsgTwitchUserNotFound)
		return
	}

	ctx := requestContext()
	user := getInteractionUser(i)

	twitchUser, err := b.Twitch.UserByLogin(ctx, login)
	if err != nil {
		slog.Error("Twitch lookup failed", "login", login, "error", err)
		respondFriendlyError(s, i, err)
		return
	}

	plan, err := b.Members.PlanRegistration(ctx, twitchUser.ID, twitchUser.Login, registry.DiscordIdentity{
		ID:      user.ID,
		Name:    displayNameOf(i),
		IsAdmin: b.memberIsAdmin(i),
	})
	if err != nil {
		var conflict *registry.ConflictError
		if errors.As(err, &conflict) {
			sendEmbed(s, i, createEmbed("Register",
				fmt.Sprintf("**%s** is already claimed by <@%s>.", twitchUser.Login, conflict.ClaimedBy),
				ColorRed))
			return
		}
		slog.Error("Failed to plan registration", "error", err)
		respondFriendlyError(s, i, err)
		return
	}

	embed := registrationEmbed(plan, twitchUser, user.ID)
	b.Confirms.Begin(s, i, embed, plan.Apply)
}

// registrationEmbed renders the confirmation prompt for a planned
// registration.
func registrationEmbed(plan *registry.Registration, twitchUser *twitch.User, discordID string) *discordgo.MessageEmbed {
	switch plan.Outcome {
	case registry.OutcomeLinked:
		return createEmbed("Register",
			fmt.Sprintf("Link [%s](%s) to <@%s>?\nThe channel's existing **%d** points carry over.",
				twitchUser.Login, twitchUser.ChannelURL(), discordID, plan.Previous.Points),
			ColorBlue)

	case registry.OutcomeOverwritten:
		return createEmbed("Register",
			fmt.Sprintf("Replace your linked channel **%s** with [%s](%s)?\n⚠️ Your **%d** points reset to 0.",
				plan.Previous.TwitchLogin, twitchUser.Login, twitchUser.ChannelURL(), plan.Previous.Points),
			ColorYellow)

	default:
		return createEmbed("Register",
			fmt.Sprintf("Link [%s](%s) to <@%s>?", twitchUser.Login, twitchUser.ChannelURL(), discordID),
			ColorBlue)
	}
}

func (b *Bot) handleTwitchUnregister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !deferResponse(s, i) {
		return
	}

	ctx := requestContext()
	user := getInteractionUser(i)

	member, apply, err := b.Members.PlanUnregister(ctx, user.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	embed := createEmbed("Unregister",
		fmt.Sprintf("Remove your link to **%s**?\n⚠️ Your **%d** points are forfeited.",
			member.TwitchLogin, member.Points),
		ColorRed)
	b.Confirms.Begin(s, i, embed, apply)
}

func (b *Bot) handleTwitchPoints(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferEphemeral(s, i) {
		return
	}

	ctx := requestContext()
	user := getInteractionUser(i)

	points, err := b.Members.Points(ctx, user.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	sendEmbed(s, i, createEmbed("Points",
		fmt.Sprintf("You have **%d** points.", points), ColorGreen))
}
