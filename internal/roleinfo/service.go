// Package roleinfo keeps a community-described copy of the guild's roles.
package roleinfo

import (
	"context"

	"github.com/aou-community/aubot/internal/domain"
	"github.com/aou-community/aubot/internal/logger"
)

// Repository defines data access for role info.
type Repository interface {
	// Upsert writes name and color; the description is only set when the
	// record is first created.
	Upsert(ctx context.Context, role domain.RoleInfo) error
	SetDescription(ctx context.Context, roleID, description string) error
	Delete(ctx context.Context, roleID string) error
	Get(ctx context.Context, roleID string) (*domain.RoleInfo, error)
	All(ctx context.Context) ([]domain.RoleInfo, error)
}

// Service exposes role info operations.
type Service interface {
	// Sync upserts every current guild role, preserving user descriptions.
	Sync(ctx context.Context, roles []domain.RoleInfo) error
	RoleChanged(ctx context.Context, role domain.RoleInfo) error
	RoleDeleted(ctx context.Context, roleID string) error
	Describe(ctx context.Context, roleID, description string) error
	Get(ctx context.Context, roleID string) (*domain.RoleInfo, error)
	All(ctx context.Context) ([]domain.RoleInfo, error)
}

type service struct {
	repo Repository
}

// NewService creates a new role info service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Sync(ctx context.Context, roles []domain.RoleInfo) error {
	log := logger.FromContext(ctx)
	for _, role := range roles {
		if err := s.repo.Upsert(ctx, role); err != nil {
			return err
		}
	}
	log.Info("Synced guild roles", "count", len(roles))
	return nil
}

func (s *service) RoleChanged(ctx context.Context, role domain.RoleInfo) error {
	return s.repo.Upsert(ctx, role)
}

func (s *service) RoleDeleted(ctx context.Context, roleID string) error {
	return s.repo.Delete(ctx, roleID)
}

func (s *service) Describe(ctx context.Context, roleID, description string) error {
	return s.repo.SetDescription(ctx, roleID, description)
}

func (s *service) Get(ctx context.Context, roleID string) (*domain.RoleInfo, error) {
	return s.repo.Get(ctx, roleID)
}

func (s *service) All(ctx context.Context) ([]domain.RoleInfo, error) {
	return s.repo.All(ctx)
}
