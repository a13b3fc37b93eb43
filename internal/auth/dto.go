// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/user"
)

type LoginRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Senha string `json:"senha" validate:"required,max=128"`
}

type RegisterRequest struct {
	Nome     string `json:"nome"               validate:"required,min=2,max=100"`
	Email    string `json:"email"              validate:"required,email,max=255"`
	Senha    string `json:"senha"              validate:"required,min=6,max=128"`
	Telefone string `json:"telefone,omitempty" validate:"omitempty,max=20"`
}

type ChangePasswordRequest struct {
	SenhaAtual string `json:"senha_atual" validate:"required"`
	NovaSenha  string `json:"nova_senha"  validate:"required,min=6,max=128"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// LoginResponse carries everything the client shows right after signing
// in. PosicaoRanking is null while the user has no points this month.
type LoginResponse struct {
	Usuario        user.Response      `json:"usuario"`
	Estatisticas   user.StatsResponse `json:"estatisticas"`
	PosicaoRanking *int               `json:"posicao_ranking"`
	Tokens         TokenResponse      `json:"tokens"`
}

type RegisterResponse struct {
	Usuario user.Response `json:"usuario"`
}

type EmailAvailabilityResponse struct {
	EmailExiste bool `json:"email_existe"`
	Disponivel  bool `json:"disponivel"`
}
