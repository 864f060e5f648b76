// Package birthday stores members' birthdays and fires reminders.
package birthday

import (
	"context"
	"fmt"
	"time"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

// DateFormat is the input layout users type, day first.
const (
	DateFormat      = "02/01"
	HumanDateFormat = "dd/mm"
)

// Repository defines data access for birthday records.
type Repository interface {
	Upsert(ctx context.Context, rec domain.BirthdayRecord) error
	Due(ctx context.Context, now time.Time) ([]domain.BirthdayRecord, error)
	// Advance moves a record's next occurrence to the given date.
	Advance(ctx context.Context, discordID string, to time.Time) error
	Delete(ctx context.Context, discordID string) error
}

// Service exposes birthday operations.
type Service interface {
	// Set parses a dd/mm input, normalizes it to the next future occurrence
	// and stores it. Returns the stored date.
	Set(ctx context.Context, discordID, input string, now time.Time) (time.Time, error)
	// CollectDue returns every birthday that has come due and advances each
	// record by one year.
	CollectDue(ctx context.Context, now time.Time) ([]domain.BirthdayRecord, error)
	Forget(ctx context.Context, discordID string) error
}

type service struct {
	repo Repository
}

// NewService creates a new birthday service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// NextOccurrence normalizes a day/month to the next future occurrence:
// this year if still ahead of now, otherwise next year.
func NextOccurrence(day, month int, now time.Time) time.Time {
	occurrence := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !occurrence.After(now) {
		occurrence = time.Date(now.Year()+1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return occurrence
}

// ParseDate parses a dd/mm input into its next future occurrence.
func ParseDate(input string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse(DateFormat, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not %s", domain.ErrInvalidBirthday, input, HumanDateFormat)
	}
	return NextOccurrence(parsed.Day(), int(parsed.Month()), now), nil
}

func (s *service) Set(ctx context.Context, discordID, input string, now time.Time) (time.Time, error) {
	date, err := ParseDate(input, now)
	if err != nil {
		return time.Time{}, err
	}

	if err := s.repo.Upsert(ctx, domain.BirthdayRecord{DiscordID: discordID, NextDate: date}); err != nil {
		return time.Time{}, err
	}

	logger.FromContext(ctx).Info("Stored birthday", "discord_id", discordID, "next", date)
	return date, nil
}

func (s *service) CollectDue(ctx context.Context, now time.Time) ([]domain.BirthdayRecord, error) {
	due, err := s.repo.Due(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, rec := range due {
		next := rec.NextDate.AddDate(1, 0, 0)
		if err := s.repo.Advance(ctx, rec.DiscordID, next); err != nil {
			return nil, err
		}
	}

	return due, nil
}

func (s *service) Forget(ctx context.Context, discordID string) error {
	return s.repo.Delete(ctx, discordID)
}
