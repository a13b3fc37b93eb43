// AngelaMos | 2026
// entity.go

package points

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type ReferenceType string

const (
	ReferenceReservation ReferenceType = "reservation"
	ReferenceReview      ReferenceType = "review"
)

func (t ReferenceType) Valid() bool {
	return t == ReferenceReservation || t == ReferenceReview
}

const (
	ActionReservationCreated   = "reservation created"
	ActionReservationCancelled = "reservation cancelled"
	ActionReviewCreated        = "review created"
)

// Entry is one immutable ledger line. Reversals are separate entries with a
// negative amount.
type Entry struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	Action           string        `db:"action"`
	Points           int           `db:"points"`
	ReferenceID      string        `db:"reference_id"`
	ReferenceType    ReferenceType `db:"reference_type"`
	CompetitionMonth time.Time     `db:"competition_month"`
	CreatedAt        time.Time     `db:"created_at"`
}

// HistoryEntry is an Entry joined with whatever it references.
type HistoryEntry struct {
	Entry
	TableNumber     *int       `db:"table_number"`
	ReservationDate *time.Time `db:"reservation_date"`
	ReservationTime *string    `db:"reservation_time"`
	Rating          *int       `db:"rating"`
}

func (h *HistoryEntry) Description() string {
	switch h.ReferenceType {
	case ReferenceReservation:
		if h.TableNumber == nil || h.ReservationDate == nil || h.ReservationTime == nil {
			return ""
		}
		return fmt.Sprintf(
			"Mesa %d - %s às %s",
			*h.TableNumber,
			h.ReservationDate.Format("02/01/2006"),
			*h.ReservationTime,
		)
	case ReferenceReview:
		if h.Rating == nil {
			return ""
		}
		return fmt.Sprintf("Avaliação - Nota %d/5", *h.Rating)
	default:
		return ""
	}
}

// Credit describes a signed change to a user's points.
type Credit struct {
	UserID        string
	Points        int
	Action        string
	ReferenceID   string
	ReferenceType ReferenceType
}

type HistoryItem struct {
	ID             string    `json:"id"`
	Acao           string    `json:"acao"`
	Pontos         int       `json:"pontos"`
	ReferenciaID   string    `json:"referencia_id"`
	ReferenciaTipo string    `json:"referencia_tipo"`
	MesCompeticao  string    `json:"mes_competicao"`
	Descricao      string    `json:"descricao"`
	CriadoEm       time.Time `json:"criado_em"`
}

type HistoryResponse struct {
	Records []HistoryItem `json:"records"`
}

func ToHistoryItem(h *HistoryEntry) HistoryItem {
	return HistoryItem{
		ID:             h.ID,
		Acao:           h.Action,
		Pontos:         h.Points,
		ReferenciaID:   h.ReferenceID,
		ReferenciaTipo: string(h.ReferenceType),
		MesCompeticao:  h.CompetitionMonth.Format(core.DateLayout),
		Descricao:      h.Description(),
		CriadoEm:       h.CreatedAt,
	}
}
