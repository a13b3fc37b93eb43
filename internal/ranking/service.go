// AngelaMos | 2026
// service.go

package ranking

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

const cachePrefix = "ranking:"

var (
	ErrInvalidLimit   = core.ValidationError("Limite inválido.")
	ErrWinnerRecorded = core.ConflictError("O vencedor deste mês já foi registrado.")
)

// Service reads the monthly ranking. Reads go through Redis when a client is
// configured; every committed points change must call Invalidate.
type Service struct {
	repo  Repository
	tx    core.Transactor
	cache redis.Cmdable
	clock core.Clock
	cfg   config.RankingConfig
}

func NewService(
	repo Repository,
	tx core.Transactor,
	cache redis.Cmdable,
	clock core.Clock,
	cfg config.RankingConfig,
) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = cfg.DefaultLimit
	}
	if cfg.WinnersLimit <= 0 {
		cfg.WinnersLimit = 12
	}

	return &Service{
		repo:  repo,
		tx:    tx,
		cache: cache,
		clock: clock,
		cfg:   cfg,
	}
}

func (s *Service) CurrentRanking(ctx context.Context, limit int) ([]Standing, error) {
	limit, err := s.normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	key := cachePrefix + "current:" + strconv.Itoa(limit)

	if s.cache != nil {
		var cached []Standing
		found, err := core.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			slog.WarnContext(ctx, "ranking cache read failed", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	standings, err := s.repo.Current(ctx, limit)
	if err != nil {
		return nil, err
	}
	if standings == nil {
		standings = []Standing{}
	}

	if s.cache != nil {
		if err := core.SetJSON(ctx, s.cache, key, standings, s.cfg.CacheTTL); err != nil {
			slog.WarnContext(ctx, "ranking cache write failed", "error", err)
		}
	}

	return standings, nil
}

// PositionOf returns the user's 1-based position, 0 meaning unranked.
func (s *Service) PositionOf(ctx context.Context, userID string) (int, error) {
	return s.repo.PositionOf(ctx, userID)
}

func (s *Service) Winners(ctx context.Context, limit int) ([]Winner, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 || limit > s.cfg.WinnersLimit {
		limit = s.cfg.WinnersLimit
	}

	winners, err := s.repo.Winners(ctx, limit)
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// Invalidate drops every cached ranking page. Failures are logged only; the
// entries expire on their own.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := core.DeletePrefix(ctx, s.cache, cachePrefix); err != nil {
		slog.WarnContext(ctx, "ranking cache invalidation failed", "error", err)
	}
}

func (s *Service) normalizeLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("ranking limit %d: %w", limit, ErrInvalidLimit)
	case limit == 0:
		return s.cfg.DefaultLimit, nil
	case limit > s.cfg.MaxLimit:
		return s.cfg.MaxLimit, nil
	default:
		return limit, nil
	}
}
