// Package inactivity tracks when members were last active and selects who to
// warn or kick.
package inactivity

import (
	"context"
	"time"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

// Thresholds for the hourly sweep.
const (
	NoticeAfter = 7 * 24 * time.Hour
	KickAfter   = 30 * 24 * time.Hour

	SweepInterval = time.Hour
)

// Repository defines data access for last-seen records.
type Repository interface {
	// Touch stamps the member as active now and clears the notified flag.
	Touch(ctx context.Context, discordID string, at time.Time) error
	// Seed creates a record only when none exists yet.
	Seed(ctx context.Context, discordID string, at time.Time) error
	InactiveSince(ctx context.Context, before time.Time, onlyUnnotified bool) ([]domain.LastSeen, error)
	MarkNotified(ctx context.Context, discordIDs []string) error
	Delete(ctx context.Context, discordID string) error
}

// Service exposes inactivity tracking operations.
type Service interface {
	Touch(ctx context.Context, discordID string, now time.Time) error
	// Backfill seeds records from scanned message history without clobbering
	// fresher entries.
	Backfill(ctx context.Context, seen map[string]time.Time) error
	// NoticeCandidates lists members silent past the notice threshold who have
	// not been warned yet.
	NoticeCandidates(ctx context.Context, now time.Time) ([]domain.LastSeen, error)
	MarkNotified(ctx context.Context, discordIDs []string) error
	// KickCandidates lists members silent past the kick threshold.
	KickCandidates(ctx context.Context, now time.Time) ([]domain.LastSeen, error)
	Forget(ctx context.Context, discordID string) error
}

type service struct {
	repo Repository
}

// NewService creates a new inactivity service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Touch(ctx context.Context, discordID string, now time.Time) error {
	return s.repo.Touch(ctx, discordID, now)
}

func (s *service) Backfill(ctx context.Context, seen map[string]time.Time) error {
	log := logger.FromContext(ctx)
	for discordID, at := range seen {
		if err := s.repo.Seed(ctx, discordID, at); err != nil {
			return err
		}
	}
	log.Info("Backfilled last-seen records", "count", len(seen))
	return nil
}

func (s *service) NoticeCandidates(ctx context.Context, now time.Time) ([]domain.LastSeen, error) {
	return s.repo.InactiveSince(ctx, now.Add(-NoticeAfter), true)
}

func (s *service) MarkNotified(ctx context.Context, discordIDs []string) error {
	if len(discordIDs) == 0 {
		return nil
	}
	return s.repo.MarkNotified(ctx, discordIDs)
}

func (s *service) KickCandidates(ctx context.Context, now time.Time) ([]domain.LastSeen, error) {
	return s.repo.InactiveSince(ctx, now.Add(-KickAfter), false)
}

func (s *service) Forget(ctx context.Context, discordID string) error {
	return s.repo.Delete(ctx, discordID)
}
