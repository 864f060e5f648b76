package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/registry"
	"github.com/aou-community/aubot/internal/twitch"
)

// membersPerPage bounds /admin viewall embed pages.
const membersPerPage = 15

// AdminCommand returns the admin command definition and handler
func AdminCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	adminPerms := int64(discordgo.PermissionManageServer)

	cmd := &discordgo.ApplicationCommand{
		Name:                     "admin",
		Description:              "Admin utilities for the member registry",
		DefaultMemberPermissions: &adminPerms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "Inspect a member record",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "twitch",
						Description: "Twitch channel name or URL",
						Required:    false,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "Discord member",
						Required:    false,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "viewall",
				Description: "List every member record",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "transfer",
				Description: "Move a record to another Discord account",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "from",
						Description: "Current owner",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "to",
						Description: "New owner",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a member record",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "member",
						Description: "Discord member",
						Required:    true,
					},
				},
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !deferResponse(s, i) {
			return
		}
		if !b.requireAdmin(s, i) {
			return
		}

		options := getOptions(i)
		if len(options) == 0 {
			return
		}

		switch options[0].Name {
		case "view":
			b.handleAdminView(s, i, options[0].Options)
		case "viewall":
			b.handleAdminViewAll(s, i)
		case "transfer":
			b.handleAdminTransfer(s, i, options[0].Options)
		case "delete":
			b.handleAdminDelete(s, i, options[0].Options)
		}
	}

	return cmd, handler
}

func (b *Bot) handleAdminView(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := requestContext()

	var member *domain.Member
	var err error
	for _, opt := range opts {
		switch opt.Name {
		case "twitch":
			login := twitch.NormalizeLogin(opt.StringValue())
			if login == "" {
				respondError(s, i, MsgTwitchUserNotFound)
				return
			}
			member, err = b.Members.MemberByTwitchLogin(ctx, login)
		case "member":
			member, err = b.Members.MemberByDiscordID(ctx, opt.UserValue(nil).ID)
		}
	}

	if member == nil && err == nil {
		respondError(s, i, "Provide either a twitch channel or a member.")
		return
	}
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	sendEmbed(s, i, memberEmbed(member))
}

// memberEmbed renders a single record for admin inspection.
func memberEmbed(m *domain.Member) *discordgo.MessageEmbed {
	embed := createEmbed("Member record", "", ColorBlue)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Twitch", Value: fmt.Sprintf("%s (%d)", m.TwitchLogin, m.TwitchID), Inline: true},
		{Name: "Discord", Value: discordField(m), Inline: true},
		{Name: "Points", Value: fmt.Sprintf("%d", m.Points), Inline: true},
		{Name: "Admin", Value: fmt.Sprintf("%t", m.IsAdmin), Inline: true},
		{Name: "Streaming", Value: streamField(m), Inline: true},
	}
	return embed
}

func discordField(m *domain.Member) string {
	if !m.Linked() {
		return "unlinked"
	}
	return fmt.Sprintf("<@%s>", m.DiscordID)
}

func streamField(m *domain.Member) string {
	if !m.IsStreaming() {
		return "no"
	}
	platform := cases.Title(language.English).String(m.Stream.Platform)
	return fmt.Sprintf("%s: %s", platform, m.Stream.URL)
}

func (b *Bot) handleAdminViewAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := requestContext()

	members, err := b.Members.All(ctx)
	if err != nil {
		slog.Error("Failed to list members", "error", err)
		respondFriendlyError(s, i, err)
		return
	}
	if len(members) == 0 {
		respondError(s, i, "No member records yet.")
		return
	}

	b.Pages.Begin(s, i, buildMemberPages(members))
}

// buildMemberPages splits member records into embed pages.
func buildMemberPages(members []domain.Member) []*discordgo.MessageEmbed {
	var pages []*discordgo.MessageEmbed

	for start := 0; start < len(members); start += membersPerPage {
		end := min(start+membersPerPage, len(members))

		description := ""
		for _, m := range members[start:end] {
			line := fmt.Sprintf("**%s** : %d points", m.TwitchLogin, m.Points)
			if m.Linked() {
				line = fmt.Sprintf("**%s** / <@%s> : %d points", m.TwitchLogin, m.DiscordID, m.Points)
			}
			description += line + "\n"
		}

		page := createEmbed(fmt.Sprintf("Member records (%d)", len(members)), description, ColorBlue)
		pages = append(pages, page)
	}

	return pages
}

func (b *Bot) handleAdminTransfer(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := requestContext()

	from := opts[0].UserValue(s)
	to := opts[1].UserValue(s)

	member, apply, err := b.Members.PlanTransfer(ctx, from.ID, registry.DiscordIdentity{
		ID:   to.ID,
		Name: to.Username,
	})
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	embed := createEmbed("Transfer",
		fmt.Sprintf("Move **%s** (%d points) from <@%s> to <@%s>?",
			member.TwitchLogin, member.Points, from.ID, to.ID),
		ColorYellow)
	b.Confirms.Begin(s, i, embed, apply)
}

func (b *Bot) handleAdminDelete(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := requestContext()

	target := opts[0].UserValue(s)

	member, apply, err := b.Members.PlanUnregister(ctx, target.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	embed := createEmbed("Delete record",
		fmt.Sprintf("Delete the record of <@%s>?\n⚠️ **%s** and its **%d** points are removed permanently.",
			target.ID, member.TwitchLogin, member.Points),
		ColorRed)
	b.Confirms.Begin(s, i, embed, apply)
}
