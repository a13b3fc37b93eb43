// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

// PointsSummer totals a user's ledger entries.
type PointsSummer interface {
	LifetimeSum(ctx context.Context, userID string) (int, error)
}

type CreateInput struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        string
}

// UpdateInput holds the profile fields to change; nil means keep.
type UpdateInput struct {
	Name  *string
	Phone *string
}

type Service struct {
	repo   Repository
	points PointsSummer
}

func NewService(repo Repository, points PointsSummer) *Service {
	return &Service{repo: repo, points: points}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return nil, ErrNameTooShort
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: in.PasswordHash,
		Name:         name,
		Phone:        optional(in.Phone),
		Role:         RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	in UpdateInput,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	if in.Name == nil && in.Phone == nil {
		return nil, ErrNothingToApply
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < 2 {
			return nil, ErrNameTooShort
		}
		user.Name = name
	}

	if in.Phone != nil {
		user.Phone = optional(*in.Phone)
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	lifetime, err := s.points.LifetimeSum(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	stats.LifetimePoints = lifetime

	return stats, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
