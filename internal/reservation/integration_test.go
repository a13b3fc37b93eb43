// AngelaMos | 2026
// integration_test.go

package reservation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/points"
	"github.com/carterperez-dev/restaurant-rewards/internal/reservation"
	"github.com/carterperez-dev/restaurant-rewards/internal/table"
	"github.com/carterperez-dev/restaurant-rewards/internal/testutil"
)

func newPostgresService(t *testing.T) (*reservation.Service, *core.Database) {
	t.Helper()

	db := testutil.SetupTestDB(t, "reservation")
	clock := core.NewSystemClock(time.UTC)

	ledger := points.NewLedger(points.NewRepository(db.DB), clock, config.PointsConfig{})

	svc := reservation.NewService(
		reservation.NewRepository(db.DB),
		table.NewRepository(db.DB),
		db,
		ledger,
		nil,
		clock,
		config.ReservationConfig{
			OpeningTime:        "11:00",
			ClosingTime:        "23:00",
			MinPartySize:       1,
			MaxPartySize:       20,
			CreationBonus:      50,
			UpcomingWindowDays: 3,
			TimeZone:           "UTC",
		},
	)

	return svc, db
}

func TestPostgresConcurrentBookingHasOneWinner(t *testing.T) {
	svc, db := newPostgresService(t)
	ctx := context.Background()

	tableID := testutil.TableID(t, db, 4)
	date := time.Now().UTC().AddDate(0, 1, 0).Format(core.DateLayout)

	const attempts = 8

	users := make([]string, attempts)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, "Guest", 0)
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := range attempts {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()

			_, err := svc.Create(ctx, reservation.CreateInput{
				UserID:    userID,
				TableID:   tableID,
				Date:      date,
				Time:      "20:00",
				PartySize: 2,
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, reservation.ErrSlotTaken):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(users[i])
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())

	var active int
	err := db.DB.GetContext(ctx, &active, `
		SELECT COUNT(*) FROM reservations
		WHERE table_id = $1 AND reservation_date = $2 AND reservation_time = '20:00'
		  AND status IN ('pending', 'confirmed')`, tableID, date)
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	var credited int
	err = db.DB.GetContext(ctx, &credited,
		`SELECT COALESCE(SUM(monthly_points), 0) FROM users WHERE id = ANY($1)`, users)
	require.NoError(t, err)
	assert.Equal(t, 50, credited)
}

func TestPostgresCancelReversesMonthlyPoints(t *testing.T) {
	svc, db := newPostgresService(t)
	ctx := context.Background()

	userID := testutil.CreateUser(t, db, "Ana", 0)
	tableID := testutil.TableID(t, db, 6)
	date := time.Now().UTC().AddDate(0, 0, 7).Format(core.DateLayout)

	created, err := svc.Create(ctx, reservation.CreateInput{
		UserID:    userID,
		TableID:   tableID,
		Date:      date,
		Time:      "19:30",
		PartySize: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, testutil.MonthlyPoints(t, db, userID))
	assert.Equal(t, 6, created.TableNumber)

	_, err = svc.Cancel(ctx, created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, testutil.MonthlyPoints(t, db, userID))

	var entries []int
	err = db.DB.SelectContext(ctx, &entries,
		`SELECT points FROM points_ledger WHERE reference_id = $1 ORDER BY created_at`, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{50, -50}, entries)

	_, err = svc.Cancel(ctx, created.ID, userID)
	require.ErrorIs(t, err, reservation.ErrAlreadyCancelled)
	assert.Equal(t, 0, testutil.MonthlyPoints(t, db, userID))

	rebooked, err := svc.Create(ctx, reservation.CreateInput{
		UserID:    userID,
		TableID:   tableID,
		Date:      date,
		Time:      "19:30",
		PartySize: 4,
	})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, rebooked.ID)
}
