package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// RoleCommand returns the role command definition and handler
func RoleCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "role",
		Description: "Look up and describe guild roles",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "info",
				Description: "Show a role's description",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to look up",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List all described roles",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "describe",
				Description: "Set a role's description (admin)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "Role to describe",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "description",
						Description: "New description",
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

		options := getOptions(i)
		if len(options) == 0 {
			return
		}

		switch options[0].Name {
		case "info":
			b.handleRoleInfo(s, i, options[0].Options)
		case "list":
			b.handleRoleList(s, i)
		case "describe":
			b.handleRoleDescribe(s, i, options[0].Options)
		}
	}

	return cmd, handler
}

func (b *Bot) handleRoleInfo(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := requestContext()

	role := opts[0].RoleValue(s, b.cfg.GuildID)
	info, err := b.Roles.Get(ctx, role.ID)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	embed := createEmbed(info.Name, info.Description, info.Color)
	sendEmbed(s, i, embed)
}

func (b *Bot) handleRoleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := requestContext()

	roles, err := b.Roles.All(ctx)
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}
	if len(roles) == 0 {
		respondError(s, i, "No roles stored yet.")
		return
	}

	description := ""
	for _, role := range roles {
		description += fmt.Sprintf("<@&%s> — %s\n", role.RoleID, role.Description)
	}

	sendEmbed(s, i, createEmbed("Guild roles", description, ColorBlue))
}

func (b *Bot) handleRoleDescribe(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	if !b.requireAdmin(s, i) {
		return
	}

	ctx := requestContext()
	role := opts[0].RoleValue(s, b.cfg.GuildID)
	description := opts[1].StringValue()

	if err := b.Roles.Describe(ctx, role.ID, description); err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	sendEmbed(s, i, createEmbed("Role updated",
		fmt.Sprintf("<@&%s> now reads:\n%s", role.ID, description), ColorGreen))
}
