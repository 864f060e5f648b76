package discord

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/aou-community/aubot/internal/birthday"
	"github.com/aou-community/aubot/internal/config"
	"github.com/aou-community/aubot/internal/inactivity"
	"github.com/aou-community/aubot/internal/metrics"
	"github.com/aou-community/aubot/internal/registry"
	"github.com/aou-community/aubot/internal/roleinfo"
	"github.com/aou-community/aubot/internal/twitch"
	"github.com/aou-community/aubot/internal/worker"
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	Registry *CommandRegistry
	Confirms *ConfirmManager
	Pages    *PaginatorManager

	Members    registry.Service
	Roles      roleinfo.Service
	Birthdays  birthday.Service
	Inactivity inactivity.Service
	Twitch     *twitch.Client
	Pool       *worker.Pool

	cfg     *config.Config
	started time.Time

	mu               sync.Mutex
	leaderboardMsgID string
}

// Options wires the bot's collaborators.
type Options struct {
	Config     *config.Config
	Members    registry.Service
	Roles      roleinfo.Service
	Birthdays  birthday.Service
	Inactivity inactivity.Service
	Twitch     *twitch.Client
	Pool       *worker.Pool
}

// New creates a new Discord bot
func New(opts Options) (*Bot, error) {
	s, err := discordgo.New("Bot " + opts.Config.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	// Presences and members are privileged intents; both must be enabled on
	// the application portal.
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMessages

	b := &Bot{
		Session:    s,
		Registry:   NewCommandRegistry(),
		Confirms:   NewConfirmManager(),
		Pages:      NewPaginatorManager(),
		Members:    opts.Members,
		Roles:      opts.Roles,
		Birthdays:  opts.Birthdays,
		Inactivity: opts.Inactivity,
		Twitch:     opts.Twitch,
		Pool:       opts.Pool,
		cfg:        opts.Config,
	}

	b.registerAllCommands()
	return b, nil
}

func (b *Bot) registerAllCommands() {
	register := func(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
		b.Registry.Register(cmd, handler)
	}
	register(TwitchCommand())
	register(AdminCommand())
	register(RoleCommand())
	register(BirthdayCommand())
	register(StatusCommand())
}

// Start opens the gateway connection and registers event handlers.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.presenceUpdate)
	b.Session.AddHandler(b.messageCreate)
	b.Session.AddHandler(b.guildMemberAdd)
	b.Session.AddHandler(b.guildMemberUpdate)
	b.Session.AddHandler(b.guildMemberRemove)
	b.Session.AddHandler(b.guildRoleCreate)
	b.Session.AddHandler(b.guildRoleUpdate)
	b.Session.AddHandler(b.guildRoleDelete)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	b.started = time.Now()

	if err := b.RegisterCommands(false); err != nil {
		return err
	}

	slog.Info("Discord bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	b.Session.Close()
}

// Run runs the bot until a signal is received
func (b *Bot) Run() error {
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Stop()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}

// Started reports when the gateway connection came up.
func (b *Bot) Started() time.Time {
	return b.started
}

// Connected reports whether the gateway heartbeat is alive.
func (b *Bot) Connected() bool {
	return b.Session.HeartbeatLatency() > 0
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)

	if _, err := s.ChannelMessageSendEmbed(b.cfg.LogChannelID,
		createEmbed("Online", "Bot connected and resyncing state.", ColorGreen)); err != nil {
		slog.Error("Failed to announce startup", "error", err)
	}

	// The store may have drifted while the bot was offline; resync before
	// relying on incremental events.
	b.Pool.Enqueue(worker.NewJob("resync-roles", b.ResyncRoles))
	b.Pool.Enqueue(worker.NewJob("resync-admins", b.ResyncAdmins))
	b.Pool.Enqueue(worker.NewJob("resync-streams", b.ResyncStreams))
	b.Pool.Enqueue(worker.NewJob("backfill-activity", b.BackfillActivity))
	b.Pool.Enqueue(worker.NewJob("refresh-leaderboard", b.RefreshLeaderboard))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer b.recoverPanic("interaction")

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.Registry.Handle(s, i, b)
	case discordgo.InteractionMessageComponent:
		if b.Confirms.HandleComponent(s, i) {
			return
		}
		b.Pages.HandleComponent(s, i)
	}
}

// recoverPanic keeps a handler panic from killing the gateway goroutine and
// surfaces it to the operator channel.
func (b *Bot) recoverPanic(scope string) {
	r := recover()
	if r == nil {
		return
	}

	metrics.HandlerPanics.Inc()
	slog.Error("Recovered panic in handler",
		"scope", scope, "panic", r, "stack", string(debug.Stack()))

	b.reportError(fmt.Sprintf("Recovered panic in %s handler: `%v`", scope, r))
}

// reportError posts an operator-facing error to the log channel, mentioning
// the bot owner.
func (b *Bot) reportError(msg string) {
	content := fmt.Sprintf("<@%s> %s", b.cfg.BotOwnerID, msg)
	if len(content) > 1900 {
		content = content[:1900] + "…"
	}
	if _, err := b.Session.ChannelMessageSend(b.cfg.LogChannelID, content); err != nil {
		slog.Error("Failed to report error to log channel", "error", err)
	}
}

// ownGuild discards events from foreign guilds. The bot serves exactly one
// guild.
func (b *Bot) ownGuild(guildID string) bool {
	return guildID == b.cfg.GuildID
}
