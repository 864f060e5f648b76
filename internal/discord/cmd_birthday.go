package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/birthday"
)

// BirthdayCommand returns the birthday command definition and handler
func BirthdayCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "birthday",
		Description: "Get a yearly birthday shout-out",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Save your birthday",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "date",
						Description: "Your birthday as " + birthday.HumanDateFormat,
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "forget",
				Description: "Remove your saved birthday",
			},
		},
	}

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, b *Bot) {
		if !b.deferEphemeral(s, i) {
			return
		}

		options := getOptions(i)
		if len(options) == 0 {
			return
		}

		switch options[0].Name {
		case "set":
			b.handleBirthdaySet(s, i, options[0].Options)
		case "forget":
			b.handleBirthdayForget(s, i)
		}
	}

	return cmd, handler
}

func (b *Bot) handleBirthdaySet(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := requestContext()
	user := getInteractionUser(i)

	next, err := b.Birthdays.Set(ctx, user.ID, opts[0].StringValue(), time.Now().UTC())
	if err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	sendEmbed(s, i, createEmbed("Birthday saved",
		fmt.Sprintf("🎂 Next celebration: <t:%d:D>", next.Unix()), ColorGreen))
}

func (b *Bot) handleBirthdayForget(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := requestContext()
	user := getInteractionUser(i)

	if err := b.Birthdays.Forget(ctx, user.ID); err != nil {
		respondFriendlyError(s, i, err)
		return
	}

	sendEmbed(s, i, createEmbed("Birthday removed",
		"Your birthday is no longer stored.", ColorGreen))
}
