// AngelaMos | 2026
// errors.go

package user

import (
	"net/http"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

var (
	ErrNotFound = core.NewAppError(
		core.ErrNotFound,
		"Usuário não encontrado.",
		http.StatusNotFound,
		"USER_NOT_FOUND",
	)
	ErrEmailTaken = core.NewAppError(
		core.ErrDuplicateKey,
		"Este email já está cadastrado.",
		http.StatusConflict,
		"EMAIL_TAKEN",
	)
	ErrNameTooShort   = core.ValidationError("Nome deve ter pelo menos 2 caracteres.")
	ErrNothingToApply = core.ValidationError("Nenhum campo para atualizar.")
)
