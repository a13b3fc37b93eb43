// AngelaMos | 2026
// handler.go

package reservation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/reservations", func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/upcoming", h.Upcoming)
		r.Get("/stats", h.Stats)
		r.Get("/{reservationID}", h.Get)
		r.Put("/{reservationID}", h.Update)
		r.Delete("/{reservationID}", h.Cancel)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if req.UsuarioID != "" && req.UsuarioID != userID {
		core.JSONError(w, ErrNotOwner)
		return
	}

	res, err := h.service.Create(r.Context(), CreateInput{
		UserID:    userID,
		TableID:   req.MesaID,
		Date:      req.DataReserva,
		Time:      req.Horario,
		PartySize: req.QuantidadePessoas,
		Notes:     req.Observacoes,
	})
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.Created(w, "Reserva criada com sucesso!", ToDetailResponse(res))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.service.ListByUser(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.OK(w, ToDetailResponseList(list))
}

func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.service.ListUpcoming(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.OK(w, ToDetailResponseList(list))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.service.ComputeStats(r.Context(), userID)
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.OK(w, ToStatsResponse(stats))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	res, err := h.service.FindByID(ctx, id)
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	if !res.OwnedBy(middleware.GetUserID(ctx)) && !middleware.IsAdmin(ctx) {
		core.JSONError(w, ErrNotFound)
		return
	}

	core.OK(w, ToDetailResponse(res))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	res, err := h.service.Update(
		ctx,
		id,
		actingUser(r),
		req.toInput(),
	)
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.OKWithMessage(w, "Reserva atualizada com sucesso!", ToDetailResponse(res))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := reservationID(w, r)
	if !ok {
		return
	}

	res, err := h.service.Cancel(
		r.Context(),
		id,
		actingUser(r),
	)
	if err != nil {
		core.HandleError(w, err, "reservation")
		return
	}

	core.OKWithMessage(w, "Reserva cancelada com sucesso!", ToResponse(res))
}

// actingUser is the token subject, or empty for admins, who may act on any
// reservation.
func actingUser(r *http.Request) string {
	if middleware.IsAdmin(r.Context()) {
		return ""
	}
	return middleware.GetUserID(r.Context())
}

// reservationID answers 404 for ids that cannot exist.
func reservationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "reservationID")
	if !core.IsUUID(id) {
		core.JSONError(w, ErrNotFound)
		return "", false
	}
	return id, true
}
