package discord

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/aou-community/aubot/internal/logger"
	"github.com/aou-community/aubot/internal/metrics"
)

// ConfirmTimeout is how long a pending confirmation stays clickable.
const ConfirmTimeout = 5 * time.Minute

const (
	confirmPrefix = "confirm:"
	denyPrefix    = "deny:"
)

// Confirmation outcomes, used as metric labels and log fields.
const (
	outcomeConfirmed = "confirmed"
	outcomeCancelled = "cancelled"
	outcomeExpired   = "expired"
	outcomeFailed    = "failed"
)

type claimStatus int

const (
	claimOK claimStatus = iota
	claimUnknown
	claimNotInitiator
)

// pendingConfirm is a mutation waiting for its initiator to accept it.
type pendingConfirm struct {
	initiatorID string
	apply       func(ctx context.Context) error
	embed       *discordgo.MessageEmbed
	interaction *discordgo.Interaction
	timer       *time.Timer
}

// ConfirmManager renders accept/cancel buttons on a planned mutation and
// guarantees the mutation runs at most once: on accept, never on cancel or
// timeout, and never twice no matter how buttons are clicked.
type ConfirmManager struct {
	mu      sync.Mutex
	pending map[string]*pendingConfirm
	timeout time.Duration
}

// NewConfirmManager creates an empty manager.
func NewConfirmManager() *ConfirmManager {
	return &ConfirmManager{
		pending: make(map[string]*pendingConfirm),
		timeout: ConfirmTimeout,
	}
}

// Begin renders the embed with accept/cancel buttons on an already-deferred
// interaction and arms the timeout. apply runs only if the initiator accepts.
func (m *ConfirmManager) Begin(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, apply func(ctx context.Context) error) {
	token := uuid.NewString()
	p := &pendingConfirm{
		initiatorID: getInteractionUser(i).ID,
		apply:       apply,
		embed:       embed,
		interaction: i.Interaction,
	}

	m.mu.Lock()
	m.pending[token] = p
	p.timer = time.AfterFunc(m.timeout, func() { m.expire(s, token) })
	m.mu.Unlock()

	components := confirmButtons(token, false)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}); err != nil {
		slog.Error("Failed to render confirmation", "error", err)
	}
}

// claim resolves a button click against the pending set. A successful claim
// removes the entry, so a second click on either button finds nothing.
func (m *ConfirmManager) claim(token, userID string) (*pendingConfirm, claimStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[token]
	if !ok {
		return nil, claimUnknown
	}
	if p.initiatorID != userID {
		return nil, claimNotInitiator
	}

	delete(m.pending, token)
	p.timer.Stop()
	return p, claimOK
}

// take removes a pending entry without an initiator check, used by the
// timeout path.
func (m *ConfirmManager) take(token string) *pendingConfirm {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[token]
	if !ok {
		return nil
	}
	delete(m.pending, token)
	return p
}

// HandleComponent processes a button click. Returns false when the custom id
// does not belong to a confirmation.
func (m *ConfirmManager) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	customID := i.MessageComponentData().CustomID

	var token string
	var accepted bool
	switch {
	case strings.HasPrefix(customID, confirmPrefix):
		token = strings.TrimPrefix(customID, confirmPrefix)
		accepted = true
	case strings.HasPrefix(customID, denyPrefix):
		token = strings.TrimPrefix(customID, denyPrefix)
	default:
		return false
	}

	user := getInteractionUser(i)
	p, status := m.claim(token, user.ID)
	switch status {
	case claimUnknown:
		respondEphemeral(s, i, MsgConfirmExpired)
		return true
	case claimNotInitiator:
		respondEphemeral(s, i, MsgConfirmNotYours)
		return true
	}

	ctx := logger.WithEventID(context.Background(), logger.GenerateEventID())
	log := logger.FromContext(ctx)

	if !accepted {
		log.Info("Confirmation cancelled", "initiator", p.initiatorID)
		metrics.ConfirmationsTotal.WithLabelValues(outcomeCancelled).Inc()
		renderResolved(s, i, p.embed, token, "Cancelled", ColorRed)
		return true
	}

	if err := p.apply(ctx); err != nil {
		log.Error("Confirmed mutation failed", "initiator", p.initiatorID, "error", err)
		metrics.ConfirmationsTotal.WithLabelValues(outcomeFailed).Inc()
		renderResolved(s, i, p.embed, token, "Failed", ColorRed)
		return true
	}

	log.Info("Confirmation accepted", "initiator", p.initiatorID)
	metrics.ConfirmationsTotal.WithLabelValues(outcomeConfirmed).Inc()
	renderResolved(s, i, p.embed, token, "DONE", ColorGreen)
	return true
}

// expire fires when no button was clicked in time. The message is re-rendered
// as cancelled but logged with a distinct reason.
func (m *ConfirmManager) expire(s *discordgo.Session, token string) {
	p := m.take(token)
	if p == nil {
		return
	}

	slog.Info("Confirmation timed out", "initiator", p.initiatorID)
	metrics.ConfirmationsTotal.WithLabelValues(outcomeExpired).Inc()

	embed := resolvedEmbed(p.embed, "Cancelled", ColorRed)
	components := confirmButtons(token, true)
	if _, err := s.InteractionResponseEdit(p.interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}); err != nil {
		slog.Error("Failed to render expired confirmation", "error", err)
	}
}

// renderResolved answers the component interaction by rewriting the original
// message with the resolved embed and dead buttons.
func renderResolved(s *discordgo.Session, i *discordgo.InteractionCreate, src *discordgo.MessageEmbed, token, suffix string, color int) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{resolvedEmbed(src, suffix, color)},
			Components: confirmButtons(token, true),
		},
	}); err != nil {
		slog.Error("Failed to render resolved confirmation", "error", err)
	}
}

// resolvedEmbed clones the confirmation embed with a resolution suffix.
func resolvedEmbed(src *discordgo.MessageEmbed, suffix string, color int) *discordgo.MessageEmbed {
	out := *src
	out.Title = src.Title + " : " + suffix
	out.Color = color
	return &out
}

// confirmButtons builds the accept/cancel row for a token.
func confirmButtons(token string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.SuccessButton,
					CustomID: confirmPrefix + token,
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: denyPrefix + token,
					Disabled: disabled,
				},
			},
		},
	}
}

// respondEphemeral answers a component interaction with a message only the
// clicker sees.
func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		slog.Error("Failed to send ephemeral response", "error", err)
	}
}
