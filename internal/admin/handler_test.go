// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/restaurant-rewards/internal/middleware"
	"github.com/carterperez-dev/restaurant-rewards/internal/ranking"
	"github.com/carterperez-dev/restaurant-rewards/internal/reservation"
)

const reservationUUID = "0f8fad5b-d9cb-469f-a165-70867728950e"

type stubFinalizer struct {
	calls []string
	err   error
}

func (s *stubFinalizer) Finalize(_ context.Context, id string) (*reservation.Reservation, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return nil, s.err
	}
	return &reservation.Reservation{
		ID:     id,
		Date:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Time:   "20:00",
		Status: reservation.StatusFinalized,
	}, nil
}

type stubResetter struct {
	winner *ranking.Winner
	err    error
}

func (s stubResetter) Reset(context.Context) (*ranking.Winner, error) {
	return s.winner, s.err
}

func as(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithClaims(r.Context(), &middleware.AccessTokenClaims{UserID: "u-1", Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(cfg HandlerConfig, role string) chi.Router {
	r := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(r, as(role), middleware.RequireAdmin)
	return r
}

func TestFinalizeReservation(t *testing.T) {
	fin := &stubFinalizer{}
	r := newRouter(HandlerConfig{Reservations: fin}, middleware.RoleAdmin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/reservations/"+reservationUUID+"/finalize", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{reservationUUID}, fin.calls)

	var body struct {
		Data reservation.Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, reservation.StatusFinalized, body.Data.Status)
}

func TestFinalizeReservationErrors(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		id     string
		err    error
		status int
	}{
		{name: "not admin", role: "user", id: reservationUUID, status: http.StatusForbidden},
		{name: "malformed id", role: middleware.RoleAdmin, id: "abc", status: http.StatusNotFound},
		{name: "missing", role: middleware.RoleAdmin, id: reservationUUID, err: reservation.ErrNotFound, status: http.StatusNotFound},
		{name: "already final", role: middleware.RoleAdmin, id: reservationUUID, err: reservation.ErrAlreadyFinalized, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fin := &stubFinalizer{err: tt.err}
			r := newRouter(HandlerConfig{Reservations: fin}, tt.role)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/admin/reservations/"+tt.id+"/finalize", nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestResetRanking(t *testing.T) {
	winner := &ranking.Winner{
		ID:               "w-1",
		UserID:           "u-9",
		UserName:         "Carla",
		CompetitionMonth: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		PointsTotal:      120,
	}

	r := newRouter(HandlerConfig{Ranking: stubResetter{winner: winner}}, middleware.RoleAdmin)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ranking/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mes_numerico":"02/2025"`)
	assert.Contains(t, rec.Body.String(), `"pontos_total":120`)

	r = newRouter(HandlerConfig{Ranking: stubResetter{}}, middleware.RoleAdmin)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ranking/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vencedor":null`)

	r = newRouter(HandlerConfig{Ranking: stubResetter{err: ranking.ErrWinnerRecorded}}, middleware.RoleAdmin)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/ranking/reset", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSystemStats(t *testing.T) {
	r := newRouter(HandlerConfig{
		DBStats:   func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 3} },
		DBPing:    func(context.Context) error { return nil },
		RedisPing: func(context.Context) error { return errors.New("down") },
	}, middleware.RoleAdmin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Database.Healthy)
	require.NotNil(t, body.Data.Database.Stats)
	assert.Equal(t, 25, body.Data.Database.Stats.MaxOpenConnections)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Nil(t, body.Data.Redis.Stats)
	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}
