// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateMeRequest struct {
	Nome     *string `json:"nome,omitempty"     validate:"omitempty,min=2,max=100"`
	Telefone *string `json:"telefone,omitempty" validate:"omitempty,max=20"`
}

type Response struct {
	ID             string    `json:"id"`
	Nome           string    `json:"nome"`
	Email          string    `json:"email"`
	Telefone       *string   `json:"telefone"`
	Role           string    `json:"role"`
	PontosMesAtual int       `json:"pontos_mes_atual"`
	PontosTotal    int       `json:"pontos_total"`
	CreatedAt      time.Time `json:"created_at"`
}

type StatsResponse struct {
	TotalReservas        int `json:"total_reservas"`
	TotalAvaliacoes      int `json:"total_avaliacoes"`
	PendentesAvaliacao   int `json:"pendentes_avaliacao"`
	PontosTotalHistorico int `json:"pontos_total_historico"`
}

func ToResponse(u *User) Response {
	return Response{
		ID:             u.ID,
		Nome:           u.Name,
		Email:          u.Email,
		Telefone:       u.Phone,
		Role:           u.Role,
		PontosMesAtual: u.MonthlyPoints,
		PontosTotal:    u.TotalPoints,
		CreatedAt:      u.CreatedAt,
	}
}

func ToStatsResponse(s *Stats) StatsResponse {
	return StatsResponse{
		TotalReservas:        s.TotalReservations,
		TotalAvaliacoes:      s.TotalReviews,
		PendentesAvaliacao:   s.PendingReviews,
		PontosTotalHistorico: s.LifetimePoints,
	}
}
