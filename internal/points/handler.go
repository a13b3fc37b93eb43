// AngelaMos | 2026
// handler.go

package points

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/middleware"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/points", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/history", h.History)
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.ledger.HistoryForUser(
		r.Context(),
		userID,
		r.URL.Query().Get("month"),
	)
	if err != nil {
		core.HandleError(w, err, "points")
		return
	}

	records := make([]HistoryItem, 0, len(entries))
	for i := range entries {
		records = append(records, ToHistoryItem(&entries[i]))
	}

	core.OK(w, HistoryResponse{Records: records})
}
