// Package registry owns the Twitch-to-Discord identity mapping and the point
// balances attached to it. All reads go to the document store; the bot holds
// no authoritative in-memory copy.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

// Repository defines data access for member records.
type Repository interface {
	Insert(ctx context.Context, m *domain.Member) error
	FindByTwitchID(ctx context.Context, id int64) (*domain.Member, error)
	FindByDiscordID(ctx context.Context, id string) (*domain.Member, error)
	FindByTwitchLogin(ctx context.Context, login string) (*domain.Member, error)

	// AttachDiscord links a Discord identity onto the record for twitchID,
	// preserving points.
	AttachDiscord(ctx context.Context, twitchID int64, discordID, discordName string) error
	// OverwriteTwitch replaces the Twitch identity on the record for discordID
	// and resets points to zero.
	OverwriteTwitch(ctx context.Context, discordID string, twitchID int64, twitchLogin string) error
	// SetDiscordIdentity rewrites the Discord identity on the record currently
	// held by discordID (account transfer). Points are untouched.
	SetDiscordIdentity(ctx context.Context, discordID, newID, newName string) error

	Delete(ctx context.Context, discordID string) error
	SetAdmin(ctx context.Context, discordID string, isAdmin bool) error
	// SyncAdminFlags sets is_admin true for every linked record in adminIDs and
	// false for every linked record outside it.
	SyncAdminFlags(ctx context.Context, adminIDs []string) error
	SetDisplayName(ctx context.Context, discordID, name string) error
	SetStream(ctx context.Context, discordID string, stream *domain.StreamInfo) error

	Top(ctx context.Context, limit int) ([]domain.Member, error)
	All(ctx context.Context) ([]domain.Member, error)
}

// DiscordIdentity is the acting user's chat identity at registration time.
type DiscordIdentity struct {
	ID      string
	Name    string
	IsAdmin bool
}

// Outcome classifies what a registration will do when applied.
type Outcome int

const (
	// OutcomeNew inserts a brand-new record with zero points.
	OutcomeNew Outcome = iota
	// OutcomeLinked attaches the Discord identity to an existing unlinked
	// Twitch record, preserving its points.
	OutcomeLinked
	// OutcomeOverwritten replaces the Twitch identity on the caller's existing
	// record and resets points to zero.
	OutcomeOverwritten
)

// Registration is a planned, not-yet-applied registration. The confirmation
// workflow invokes Apply after the user accepts.
type Registration struct {
	Outcome  Outcome
	Previous *domain.Member // record the plan modifies; nil for OutcomeNew
	Apply    func(ctx context.Context) error
}

// ConflictError reports a Twitch account already claimed by another member.
type ConflictError struct {
	ClaimedBy string // Discord id of the current claimant
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: claimed by %s", domain.ErrMsgAccountClaimed, e.ClaimedBy)
}

func (e *ConflictError) Unwrap() error { return domain.ErrAccountClaimed }

// Service exposes the account registry operations.
type Service interface {
	MemberByDiscordID(ctx context.Context, discordID string) (*domain.Member, error)
	MemberByTwitchLogin(ctx context.Context, login string) (*domain.Member, error)
	Points(ctx context.Context, discordID string) (int64, error)
	Top(ctx context.Context, limit int) ([]domain.Member, error)
	All(ctx context.Context) ([]domain.Member, error)

	// PlanRegistration decides how the given Twitch identity registers for the
	// acting Discord user, without writing anything. The returned plan's Apply
	// performs the single write.
	PlanRegistration(ctx context.Context, twitchID int64, twitchLogin string, identity DiscordIdentity) (*Registration, error)
	// PlanUnregister returns the record that would be deleted and the deletion.
	PlanUnregister(ctx context.Context, discordID string) (*domain.Member, func(ctx context.Context) error, error)
	// PlanTransfer returns the record owned by fromDiscordID and a mutation
	// moving it to the target identity.
	PlanTransfer(ctx context.Context, fromDiscordID string, to DiscordIdentity) (*domain.Member, func(ctx context.Context) error, error)

	SetDisplayName(ctx context.Context, discordID, name string) error
	SetAdmin(ctx context.Context, discordID string, isAdmin bool) error
	// SyncAdmins forces every linked record's admin flag to equal current role
	// membership, including the false case for removed admins.
	SyncAdmins(ctx context.Context, adminIDs []string) error

	// UpdateStreamStatus writes stream info only on a literal streaming
	// transition. Returns whether a write happened.
	UpdateStreamStatus(ctx context.Context, discordID string, stream *domain.StreamInfo) (bool, error)
	// ForceStreamStatus overwrites stream info regardless of transition, used
	// by the startup resync to correct drift accumulated while offline.
	ForceStreamStatus(ctx context.Context, discordID string, stream *domain.StreamInfo) error

	RemoveMember(ctx context.Context, discordID string) error
}

type service struct {
	repo Repository
}

// NewService creates a new registry service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) MemberByDiscordID(ctx context.Context, discordID string) (*domain.Member, error) {
	return s.repo.FindByDiscordID(ctx, discordID)
}

func (s *service) MemberByTwitchLogin(ctx context.Context, login string) (*domain.Member, error) {
	return s.repo.FindByTwitchLogin(ctx, login)
}

func (s *service) Points(ctx context.Context, discordID string) (int64, error) {
	m, err := s.repo.FindByDiscordID(ctx, discordID)
	if err != nil {
		return 0, err
	}
	return m.Points, nil
}

func (s *service) Top(ctx context.Context, limit int) ([]domain.Member, error) {
	return s.repo.Top(ctx, limit)
}

func (s *service) All(ctx context.Context) ([]domain.Member, error) {
	return s.repo.All(ctx)
}

func (s *service) PlanRegistration(ctx context.Context, twitchID int64, twitchLogin string, identity DiscordIdentity) (*Registration, error) {
	log := logger.FromContext(ctx)

	byTwitch, err := s.repo.FindByTwitchID(ctx, twitchID)
	switch {
	case err == nil && byTwitch.Linked():
		// Claimed already, even if by the acting user themselves.
		return nil, &ConflictError{ClaimedBy: byTwitch.DiscordID}

	case err == nil:
		// Twitch record exists without a Discord identity: link it, keep points.
		return &Registration{
			Outcome:  OutcomeLinked,
			Previous: byTwitch,
			Apply: func(ctx context.Context) error {
				log.Info("Linking existing twitch record",
					"twitch_id", twitchID, "discord_id", identity.ID)
				return s.repo.AttachDiscord(ctx, twitchID, identity.ID, identity.Name)
			},
		}, nil

	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, err
	}

	byDiscord, err := s.repo.FindByDiscordID(ctx, identity.ID)
	switch {
	case err == nil:
		// The acting user already has a record: overwrite its Twitch identity.
		// Points always reset when the Twitch identity changes.
		return &Registration{
			Outcome:  OutcomeOverwritten,
			Previous: byDiscord,
			Apply: func(ctx context.Context) error {
				log.Info("Overwriting twitch identity",
					"old_login", byDiscord.TwitchLogin, "new_login", twitchLogin,
					"discord_id", identity.ID)
				return s.repo.OverwriteTwitch(ctx, identity.ID, twitchID, twitchLogin)
			},
		}, nil

	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, err
	}

	return &Registration{
		Outcome: OutcomeNew,
		Apply: func(ctx context.Context) error {
			log.Info("Registering new member",
				"twitch_login", twitchLogin, "discord_id", identity.ID)
			return s.repo.Insert(ctx, &domain.Member{
				TwitchID:    twitchID,
				TwitchLogin: twitchLogin,
				DiscordID:   identity.ID,
				DiscordName: identity.Name,
				Points:      0,
				IsAdmin:     identity.IsAdmin,
			})
		},
	}, nil
}

func (s *service) PlanUnregister(ctx context.Context, discordID string) (*domain.Member, func(ctx context.Context) error, error) {
	m, err := s.repo.FindByDiscordID(ctx, discordID)
	if err != nil {
		return nil, nil, err
	}

	return m, func(ctx context.Context) error {
		logger.FromContext(ctx).Info("Deleting member record",
			"discord_id", discordID, "twitch_login", m.TwitchLogin)
		return s.repo.Delete(ctx, discordID)
	}, nil
}

func (s *service) PlanTransfer(ctx context.Context, fromDiscordID string, to DiscordIdentity) (*domain.Member, func(ctx context.Context) error, error) {
	m, err := s.repo.FindByDiscordID(ctx, fromDiscordID)
	if err != nil {
		return nil, nil, err
	}

	return m, func(ctx context.Context) error {
		logger.FromContext(ctx).Info("Transferring member record",
			"from", fromDiscordID, "to", to.ID)
		return s.repo.SetDiscordIdentity(ctx, fromDiscordID, to.ID, to.Name)
	}, nil
}

func (s *service) SetDisplayName(ctx context.Context, discordID, name string) error {
	return s.repo.SetDisplayName(ctx, discordID, name)
}

func (s *service) SetAdmin(ctx context.Context, discordID string, isAdmin bool) error {
	return s.repo.SetAdmin(ctx, discordID, isAdmin)
}

func (s *service) SyncAdmins(ctx context.Context, adminIDs []string) error {
	return s.repo.SyncAdminFlags(ctx, adminIDs)
}

func (s *service) UpdateStreamStatus(ctx context.Context, discordID string, stream *domain.StreamInfo) (bool, error) {
	m, err := s.repo.FindByDiscordID(ctx, discordID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			// Unregistered members have no record to update.
			return false, nil
		}
		return false, err
	}

	// Only a literal transition writes; repeated "still streaming" or
	// "still offline" notifications are no-ops.
	if m.IsStreaming() == (stream != nil) {
		return false, nil
	}

	if err := s.repo.SetStream(ctx, discordID, stream); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) ForceStreamStatus(ctx context.Context, discordID string, stream *domain.StreamInfo) error {
	err := s.repo.SetStream(ctx, discordID, stream)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil
	}
	return err
}

func (s *service) RemoveMember(ctx context.Context, discordID string) error {
	err := s.repo.Delete(ctx, discordID)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil
	}
	return err
}
