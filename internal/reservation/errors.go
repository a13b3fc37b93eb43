// AngelaMos | 2026
// errors.go

package reservation

import (
	"fmt"
	"net/http"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

var (
	ErrNotFound = core.NewAppError(
		core.ErrNotFound,
		"Reserva não encontrada.",
		http.StatusNotFound,
		"RESERVATION_NOT_FOUND",
	)
	ErrTableNotFound = core.NewAppError(
		core.ErrNotFound,
		"Mesa não encontrada.",
		http.StatusNotFound,
		"TABLE_NOT_FOUND",
	)

	ErrUserRequired   = core.ValidationError("Usuário é obrigatório.")
	ErrTableRequired  = core.ValidationError("Mesa é obrigatória.")
	ErrInvalidDate    = core.ValidationError("Data inválida. Use o formato AAAA-MM-DD.")
	ErrDateInPast     = core.ValidationError("Não é possível reservar para uma data passada.")
	ErrInvalidTime    = core.ValidationError("Horário inválido. Use o formato HH:MM.")
	ErrInvalidStatus  = core.ValidationError("Status de reserva inválido.")
	ErrNothingToApply = core.ValidationError("Nenhum campo para atualizar.")

	ErrSlotTaken            = core.ConflictError("Mesa já reservada para este horário.")
	ErrInsufficientCapacity = core.ConflictError("Quantidade de pessoas excede a capacidade da mesa.")
	ErrAlreadyCancelled     = core.ConflictError("Reserva já está cancelada.")
	ErrAlreadyFinalized     = core.ConflictError("Reserva já foi finalizada.")
	ErrInvalidTransition    = core.ConflictError("Transição de status inválida.")

	ErrNotOwner = core.ForbiddenError("Você não tem permissão para alterar esta reserva.")
)

func outsideHoursError(opening, closing string) *core.AppError {
	return core.ValidationError(fmt.Sprintf(
		"Horário fora do funcionamento (%s às %s).",
		opening,
		closing,
	))
}

func partySizeError(minSize, maxSize int) *core.AppError {
	return core.ValidationError(fmt.Sprintf(
		"Quantidade de pessoas deve ser entre %d e %d.",
		minSize,
		maxSize,
	))
}
