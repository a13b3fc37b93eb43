// AngelaMos | 2026
// response_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	slotTaken := ConflictError("Mesa já reservada para este horário.")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "wrapped app error", err: fmt.Errorf("create: %w", slotTaken), status: http.StatusConflict, code: "CONFLICT"},
		{name: "bare not found", err: fmt.Errorf("get: %w", ErrNotFound), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "bare duplicate", err: ErrDuplicateKey, status: http.StatusConflict, code: "DUPLICATE"},
		{name: "forbidden", err: ErrForbidden, status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "storage failure", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err, "reservation")

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
			assert.Contains(t, rec.Body.String(), `"success":false`)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestAppErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("cancel: %w", ConflictError("Reserva já está cancelada."))

	assert.ErrorIs(t, err, ErrConflict)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Reserva já está cancelada.", appErr.Message)
}

func TestEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, "Reserva criada com sucesso!", map[string]int{"pontos": 50})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Reserva criada com sucesso!","data":{"pontos":50}}`,
		rec.Body.String(),
	)
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "reservations_active_slot_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "reservations_active_slot_key"))
	assert.False(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}
