// AngelaMos | 2026
// dto.go

package ranking

import (
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

// Response keeps the records key at the top level, next to success, so
// existing scoreboard clients keep working.
type Response struct {
	Success bool             `json:"success"`
	Records []RecordResponse `json:"records"`
}

type RecordResponse struct {
	Posicao        int    `json:"posicao"`
	ID             string `json:"id"`
	Nome           string `json:"nome"`
	PontosMesAtual int    `json:"pontos_mes_atual"`
	PontosTotal    int    `json:"pontos_total"`
}

type WinnerResponse struct {
	ID            string `json:"id"`
	UsuarioID     string `json:"usuario_id"`
	NomeUsuario   string `json:"nome_usuario"`
	MesCompeticao string `json:"mes_competicao"`
	MesNumerico   string `json:"mes_numerico"`
	PontosTotal   int    `json:"pontos_total"`
}

func ToResponse(standings []Standing) Response {
	records := make([]RecordResponse, 0, len(standings))
	for _, s := range standings {
		records = append(records, RecordResponse{
			Posicao:        s.Position,
			ID:             s.UserID,
			Nome:           s.Name,
			PontosMesAtual: s.MonthlyPoints,
			PontosTotal:    s.TotalPoints,
		})
	}
	return Response{Success: true, Records: records}
}

func ToWinnerResponse(w *Winner) WinnerResponse {
	return WinnerResponse{
		ID:            w.ID,
		UsuarioID:     w.UserID,
		NomeUsuario:   w.UserName,
		MesCompeticao: w.CompetitionMonth.Format(core.DateLayout),
		MesNumerico:   w.CompetitionMonth.Format("01/2006"),
		PontosTotal:   w.PointsTotal,
	}
}

func ToWinnerResponseList(winners []Winner) []WinnerResponse {
	out := make([]WinnerResponse, 0, len(winners))
	for i := range winners {
		out = append(out, ToWinnerResponse(&winners[i]))
	}
	return out
}
