// AngelaMos | 2026
// handler.go

package table

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

// AvailabilityFinder answers which tables are free for a slot. Dates are
// YYYY-MM-DD and clock times HH:MM.
type AvailabilityFinder interface {
	ListAvailableTables(
		ctx context.Context,
		date, clock string,
		partySize int,
	) ([]Table, error)
}

type Handler struct {
	repo      Repository
	available AvailabilityFinder
}

func NewHandler(repo Repository, available AvailabilityFinder) *Handler {
	return &Handler{repo: repo, available: available}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/available", h.Available)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.repo.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToResponseList(tables))
}

func (h *Handler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date := q.Get("data")
	clock := q.Get("horario")
	if date == "" || clock == "" {
		core.BadRequest(w, "Data e horário são obrigatórios.")
		return
	}

	partySize := 1
	if raw := q.Get("quantidade_pessoas"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			core.BadRequest(w, "Quantidade de pessoas inválida.")
			return
		}
		partySize = n
	}

	tables, err := h.available.ListAvailableTables(r.Context(), date, clock, partySize)
	if err != nil {
		core.HandleError(w, err, "table")
		return
	}

	core.OK(w, ToResponseList(tables))
}
