package discord

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// PaginatorTimeout is how long page buttons stay clickable.
const PaginatorTimeout = 5 * time.Minute

const (
	pagePrevPrefix = "page_prev:"
	pageNextPrefix = "page_next:"
)

type paginatorState struct {
	initiatorID string
	pages       []*discordgo.MessageEmbed
	page        int
	interaction *discordgo.Interaction
	timer       *time.Timer
}

// PaginatorManager drives multi-page embed responses with prev/next buttons.
// Only the initiator can turn pages.
type PaginatorManager struct {
	mu      sync.Mutex
	pending map[string]*paginatorState
	timeout time.Duration
}

// NewPaginatorManager creates an empty manager.
func NewPaginatorManager() *PaginatorManager {
	return &PaginatorManager{
		pending: make(map[string]*paginatorState),
		timeout: PaginatorTimeout,
	}
}

// Begin renders the first page on an already-deferred interaction. A single
// page renders without buttons.
func (m *PaginatorManager) Begin(s *discordgo.Session, i *discordgo.InteractionCreate, pages []*discordgo.MessageEmbed) {
	if len(pages) == 0 {
		respondError(s, i, MsgGenericError)
		return
	}

	stampPages(pages)

	if len(pages) == 1 {
		sendEmbed(s, i, pages[0])
		return
	}

	token := uuid.NewString()
	st := &paginatorState{
		initiatorID: getInteractionUser(i).ID,
		pages:       pages,
		interaction: i.Interaction,
	}

	m.mu.Lock()
	m.pending[token] = st
	st.timer = time.AfterFunc(m.timeout, func() { m.expire(s, token) })
	m.mu.Unlock()

	components := pageButtons(token, 0, len(pages), false)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{pages[0]},
		Components: &components,
	}); err != nil {
		slog.Error("Failed to render paginator", "error", err)
	}
}

// turn advances the state by delta pages, clamped to the valid range.
func (m *PaginatorManager) turn(token, userID string, delta int) (*paginatorState, claimStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.pending[token]
	if !ok {
		return nil, claimUnknown
	}
	if st.initiatorID != userID {
		return nil, claimNotInitiator
	}

	st.page = clampPage(st.page+delta, len(st.pages))
	return st, claimOK
}

// HandleComponent processes a page button click. Returns false when the
// custom id does not belong to a paginator.
func (m *PaginatorManager) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	customID := i.MessageComponentData().CustomID

	var token string
	var delta int
	switch {
	case strings.HasPrefix(customID, pagePrevPrefix):
		token = strings.TrimPrefix(customID, pagePrevPrefix)
		delta = -1
	case strings.HasPrefix(customID, pageNextPrefix):
		token = strings.TrimPrefix(customID, pageNextPrefix)
		delta = 1
	default:
		return false
	}

	user := getInteractionUser(i)
	st, status := m.turn(token, user.ID, delta)
	switch status {
	case claimUnknown:
		respondEphemeral(s, i, MsgConfirmExpired)
		return true
	case claimNotInitiator:
		respondEphemeral(s, i, MsgConfirmNotYours)
		return true
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{st.pages[st.page]},
			Components: pageButtons(token, st.page, len(st.pages), false),
		},
	}); err != nil {
		slog.Error("Failed to render page", "error", err)
	}
	return true
}

// expire disables the buttons on the current page.
func (m *PaginatorManager) expire(s *discordgo.Session, token string) {
	m.mu.Lock()
	st, ok := m.pending[token]
	delete(m.pending, token)
	m.mu.Unlock()
	if !ok {
		return
	}

	components := pageButtons(token, st.page, len(st.pages), true)
	if _, err := s.InteractionResponseEdit(st.interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{st.pages[st.page]},
		Components: &components,
	}); err != nil {
		slog.Error("Failed to render expired paginator", "error", err)
	}
}

// clampPage keeps a page index inside [0, total).
func clampPage(page, total int) int {
	if page < 0 {
		return 0
	}
	if page >= total {
		return total - 1
	}
	return page
}

// stampPages writes "Page x/y" footers onto each page.
func stampPages(pages []*discordgo.MessageEmbed) {
	if len(pages) < 2 {
		return
	}
	for idx, page := range pages {
		page.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", idx+1, len(pages)),
		}
	}
}

// pageButtons builds the prev/next row. Edge buttons disable at the ends.
func pageButtons(token string, page, total int, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: pagePrevPrefix + token,
					Disabled: disabled || page == 0,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: pageNextPrefix + token,
					Disabled: disabled || page == total-1,
				},
			},
		},
	}
}
