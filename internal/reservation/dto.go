// AngelaMos | 2026
// dto.go

package reservation

import (
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type CreateRequest struct {
	UsuarioID         string `json:"usuario_id"         validate:"omitempty,uuid"`
	MesaID            string `json:"mesa_id"            validate:"required,uuid"`
	DataReserva       string `json:"data_reserva"       validate:"required,isodate"`
	Horario           string `json:"horario"            validate:"required,hhmm"`
	QuantidadePessoas int    `json:"quantidade_pessoas" validate:"required"`
	Observacoes       string `json:"observacoes"        validate:"max=500"`
}

type UpdateRequest struct {
	MesaID            *string `json:"mesa_id,omitempty"            validate:"omitempty,uuid"`
	DataReserva       *string `json:"data_reserva,omitempty"       validate:"omitempty,isodate"`
	Horario           *string `json:"horario,omitempty"            validate:"omitempty,hhmm"`
	QuantidadePessoas *int    `json:"quantidade_pessoas,omitempty"`
	Observacoes       *string `json:"observacoes,omitempty"        validate:"omitempty,max=500"`
}

func (r UpdateRequest) toInput() UpdateInput {
	return UpdateInput{
		TableID:   r.MesaID,
		Date:      r.DataReserva,
		Time:      r.Horario,
		PartySize: r.QuantidadePessoas,
		Notes:     r.Observacoes,
	}
}

type Response struct {
	ID                string    `json:"id"`
	UsuarioID         string    `json:"usuario_id"`
	MesaID            string    `json:"mesa_id"`
	DataReserva       string    `json:"data_reserva"`
	Horario           string    `json:"horario"`
	QuantidadePessoas int       `json:"quantidade_pessoas"`
	Observacoes       string    `json:"observacoes"`
	Status            Status    `json:"status"`
	PontosGanhos      int       `json:"pontos_ganhos"`
	CriadoEm          time.Time `json:"created_at"`
	AtualizadoEm      time.Time `json:"updated_at"`

	NomeUsuario string  `json:"nome_usuario,omitempty"`
	Email       string  `json:"email,omitempty"`
	Telefone    *string `json:"telefone,omitempty"`

	NumeroMesa  int    `json:"numero_mesa,omitempty"`
	Capacidade  int    `json:"capacidade,omitempty"`
	Localizacao string `json:"localizacao,omitempty"`

	AvaliacaoID *string `json:"avaliacao_id,omitempty"`
	Nota        *int    `json:"nota,omitempty"`
	Comentario  *string `json:"comentario,omitempty"`
}

type StatsResponse struct {
	Total       int `json:"total"`
	Pendentes   int `json:"pendentes"`
	Confirmadas int `json:"confirmadas"`
	Finalizadas int `json:"finalizadas"`
	Canceladas  int `json:"canceladas"`
	EsteMes     int `json:"este_mes"`
}

func ToResponse(r *Reservation) Response {
	return Response{
		ID:                r.ID,
		UsuarioID:         r.UserID,
		MesaID:            r.TableID,
		DataReserva:       r.Date.Format(core.DateLayout),
		Horario:           r.Time,
		QuantidadePessoas: r.PartySize,
		Observacoes:       r.Notes,
		Status:            r.Status,
		PontosGanhos:      r.PointsAwarded,
		CriadoEm:          r.CreatedAt,
		AtualizadoEm:      r.UpdatedAt,
	}
}

func ToDetailResponse(d *Detail) Response {
	resp := ToResponse(&d.Reservation)
	resp.NomeUsuario = d.UserName
	resp.Email = d.UserEmail
	resp.Telefone = d.UserPhone
	resp.NumeroMesa = d.TableNumber
	resp.Capacidade = d.TableCapacity
	resp.Localizacao = d.TableLocation
	resp.AvaliacaoID = d.ReviewID
	resp.Nota = d.ReviewRating
	resp.Comentario = d.ReviewComment
	return resp
}

func ToDetailResponseList(details []Detail) []Response {
	out := make([]Response, 0, len(details))
	for i := range details {
		out = append(out, ToDetailResponse(&details[i]))
	}
	return out
}

func ToStatsResponse(s *Stats) StatsResponse {
	return StatsResponse{
		Total:       s.Total,
		Pendentes:   s.Pending,
		Confirmadas: s.Confirmed,
		Finalizadas: s.Finalized,
		Canceladas:  s.Cancelled,
		EsteMes:     s.ThisMonth,
	}
}
