// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/middleware"
	"github.com/carterperez-dev/restaurant-rewards/internal/user"
)

var (
	ErrInvalidCredentials = core.UnauthorizedError("Email ou senha incorretos.")
	ErrWrongPassword      = core.UnauthorizedError("Senha atual incorreta.")
)

const blacklistPrefix = "blacklist:"

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Create(ctx context.Context, in user.CreateInput) (*user.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	Stats(ctx context.Context, userID string) (*user.Stats, error)
}

type RankingProvider interface {
	PositionOf(ctx context.Context, userID string) (int, error)
}

type Service struct {
	jwt     *JWTManager
	users   UserProvider
	ranking RankingProvider
	redis   redis.Cmdable
}

func NewService(
	jwt *JWTManager,
	users UserProvider,
	ranking RankingProvider,
	redisClient redis.Cmdable,
) *Service {
	return &Service{
		jwt:     jwt,
		users:   users,
		ranking: ranking,
		redis:   redisClient,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps unknown emails as slow as wrong passwords
			_, _ = core.VerifyPasswordTimingSafe(req.Senha, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Senha, &u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	issued, err := s.jwt.CreateAccessToken(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	stats, err := s.users.Stats(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	position, err := s.ranking.PositionOf(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	resp := &LoginResponse{
		Usuario:      user.ToResponse(u),
		Estatisticas: user.ToStatsResponse(stats),
		Tokens:       s.tokenResponse(issued),
	}
	if position > 0 {
		resp.PosicaoRanking = &position
	}

	slog.InfoContext(ctx, "user logged in", "user_id", u.ID)

	return resp, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	passwordHash, err := core.HashPassword(req.Senha)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.CreateInput{
		Name:         req.Nome,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Telefone,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", u.ID)

	return u, nil
}

func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("email availability: %w", err)
	}
	return !exists, nil
}

// Logout blacklists the presented token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if claims == nil {
		return fmt.Errorf("logout: %w", core.ErrUnauthorized)
	}
	return s.revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

// ChangePassword replaces the password hash and revokes the token used for
// the request.
func (s *Service) ChangePassword(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	req ChangePasswordRequest,
) error {
	if claims == nil {
		return fmt.Errorf("change password: %w", core.ErrUnauthorized)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	valid, err := core.VerifyPassword(req.SenhaAtual, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrWrongPassword
	}

	newHash, err := core.HashPassword(req.NovaSenha)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.revoke(ctx, claims.TokenID, claims.ExpiresAt)
}

// VerifyAccessToken validates the token and rejects blacklisted ids. It is
// the verifier the authenticator middleware runs with.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	exists, err := s.redis.Exists(ctx, blacklistPrefix+claims.TokenID).Result()
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (s *Service) tokenResponse(t *IssuedToken) TokenResponse {
	return TokenResponse{
		AccessToken: t.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.config.AccessTokenExpire / time.Second),
		ExpiresAt:   t.ExpiresAt,
	}
}

var _ middleware.TokenVerifier = (*Service)(nil)
