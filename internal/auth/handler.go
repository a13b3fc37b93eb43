// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/mail"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/middleware"
	"github.com/carterperez-dev/restaurant-rewards/internal/user"
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

// RegisterRoutes mounts /auth. The limiter guards the credential endpoints
// separately from the global limit.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})
		r.Get("/email-available", h.EmailAvailable)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
			r.Put("/password", h.ChangePassword)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OKWithMessage(w, "Login realizado com sucesso!", resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Created(w, "Usuário cadastrado com sucesso!", RegisterResponse{
		Usuario: user.ToResponse(u),
	})
}

func (h *Handler) EmailAvailable(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		core.BadRequest(w, "Email é obrigatório.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		core.BadRequest(w, "Email inválido.")
		return
	}

	available, err := h.service.EmailAvailable(r.Context(), email)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, EmailAvailabilityResponse{
		EmailExiste: !available,
		Disponivel:  available,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.GetClaims(r.Context())); err != nil {
		core.HandleError(w, err, "session")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.ChangePassword(r.Context(), middleware.GetClaims(r.Context()), req)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OKWithMessage(w, "Senha alterada com sucesso. Faça login novamente.", nil)
}
