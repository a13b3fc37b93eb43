// AngelaMos | 2026
// handler.go

package ranking

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ranking", func(r chi.Router) {
		r.Get("/", h.Current)
		r.Get("/winners", h.Winners)
	})
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	standings, err := h.service.CurrentRanking(r.Context(), limit)
	if err != nil {
		core.HandleError(w, err, "ranking")
		return
	}

	core.JSON(w, http.StatusOK, ToResponse(standings))
}

func (h *Handler) Winners(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r)
	if !ok {
		return
	}

	winners, err := h.service.Winners(r.Context(), limit)
	if err != nil {
		core.HandleError(w, err, "winner")
		return
	}

	core.OK(w, ToWinnerResponseList(winners))
}

func queryLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		core.JSONError(w, ErrInvalidLimit)
		return 0, false
	}

	return limit, true
}
