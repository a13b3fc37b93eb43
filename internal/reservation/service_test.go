// AngelaMos | 2026
// service_test.go

package reservation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/points"
)

const (
	ana   = "11111111-1111-1111-1111-111111111111"
	bruno = "22222222-2222-2222-2222-222222222222"

	table2  = "00000000-0000-0000-0000-000000000002"
	table5  = "00000000-0000-0000-0000-000000000005"
	table8  = "00000000-0000-0000-0000-000000000008"
	table9  = "00000000-0000-0000-0000-000000000009"
	missing = "00000000-0000-0000-0000-0000000000ff"
)

var now = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.ReservationConfig {
	return config.ReservationConfig{
		OpeningTime:        "11:00",
		ClosingTime:        "23:00",
		MinPartySize:       1,
		MaxPartySize:       20,
		CreationBonus:      50,
		UpcomingWindowDays: 3,
		TimeZone:           "UTC",
	}
}

type fixture struct {
	db      *memDB
	ledger  *fakeLedger
	cache   *fakeCache
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newMemDB()
	db.users[ana] = "Ana"
	db.users[bruno] = "Bruno"
	db.addTable(table2, 2, 2, true)
	db.addTable(table5, 5, 4, true)
	db.addTable(table8, 8, 8, true)
	db.addTable(table9, 9, 10, false)

	ledger := &fakeLedger{db: db}
	cache := &fakeCache{}

	svc := NewService(
		fakeReservations{db: db},
		fakeTables{db: db},
		db,
		ledger,
		cache,
		core.FixedClock{T: now},
		testConfig(),
	)

	return &fixture{db: db, ledger: ledger, cache: cache, service: svc}
}

func (f *fixture) book(t *testing.T, userID, tableID, date, clock string, party int) *Detail {
	t.Helper()

	res, err := f.service.Create(context.Background(), CreateInput{
		UserID:    userID,
		TableID:   tableID,
		Date:      date,
		Time:      clock,
		PartySize: party,
	})
	require.NoError(t, err)
	return res
}

func TestCreateThenDoubleBookConflicts(t *testing.T) {
	f := newFixture(t)

	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	assert.Equal(t, StatusConfirmed, res.Status)
	assert.Equal(t, 50, res.PointsAwarded)
	assert.Equal(t, 5, res.TableNumber)
	assert.Equal(t, "Ana", res.UserName)
	assert.Equal(t, 50, f.db.points(ana))
	assert.Equal(t, 1, f.db.ledgerLen())
	assert.Equal(t, 1, f.cache.count())

	_, err := f.service.Create(context.Background(), CreateInput{
		UserID:    bruno,
		TableID:   table5,
		Date:      "2025-03-10",
		Time:      "19:00",
		PartySize: 2,
	})
	require.ErrorIs(t, err, core.ErrConflict)

	appErr, ok := core.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Mesa já reservada para este horário.", appErr.Message)
	assert.Equal(t, 0, f.db.points(bruno))
	assert.Equal(t, 1, f.db.ledgerLen())
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		party int
		want  error
	}{
		{name: "before opening", date: "2025-03-10", clock: "10:00", party: 2, want: core.ErrInvalidInput},
		{name: "after closing", date: "2025-03-10", clock: "23:01", party: 2, want: core.ErrInvalidInput},
		{name: "not a clock time", date: "2025-03-10", clock: "7pm", party: 2, want: ErrInvalidTime},
		{name: "hour out of range", date: "2025-03-10", clock: "24:00", party: 2, want: ErrInvalidTime},
		{name: "past date", date: "2025-02-28", clock: "19:00", party: 2, want: ErrDateInPast},
		{name: "bad date", date: "10/03/2025", clock: "19:00", party: 2, want: ErrInvalidDate},
		{name: "empty party", date: "2025-03-10", clock: "19:00", party: 0, want: core.ErrInvalidInput},
		{name: "party too large", date: "2025-03-10", clock: "19:00", party: 21, want: core.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Create(context.Background(), CreateInput{
				UserID:    ana,
				TableID:   table8,
				Date:      tt.date,
				Time:      tt.clock,
				PartySize: tt.party,
			})
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, core.ErrInvalidInput)
			assert.Empty(t, f.db.reservations)
			assert.Zero(t, f.db.ledgerLen())
		})
	}
}

func TestCreateAcceptsBoundaryHoursAndToday(t *testing.T) {
	f := newFixture(t)

	first := f.book(t, ana, table8, "2025-03-01", "11:00", 2)
	last := f.book(t, ana, table8, "2025-03-01", "23:00", 2)

	assert.Equal(t, "11:00", first.Time)
	assert.Equal(t, "23:00", last.Time)
}

func TestCreatePadsSingleDigitHours(t *testing.T) {
	f := newFixture(t)
	cfg := testConfig()
	cfg.OpeningTime = "09:00"
	f.service.cfg = cfg

	res := f.book(t, ana, table8, "2025-03-10", "9:30", 2)
	assert.Equal(t, "09:30", res.Time)

	_, err := f.service.Create(context.Background(), CreateInput{
		UserID: ana, TableID: table8, Date: "2025-03-10", Time: "8:59", PartySize: 2,
	})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateInput{
		UserID: ana, TableID: table5, Date: "2025-03-10", Time: "19:00", PartySize: 5,
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	_, err = f.service.Create(ctx, CreateInput{
		UserID: ana, TableID: table9, Date: "2025-03-10", Time: "19:00", PartySize: 2,
	})
	assert.ErrorIs(t, err, ErrInsufficientCapacity, "inactive tables never seat anyone")

	_, err = f.service.Create(ctx, CreateInput{
		UserID: ana, TableID: missing, Date: "2025-03-10", Time: "19:00", PartySize: 2,
	})
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Empty(t, f.db.reservations)
}

func TestCreateRollsBackWhenLedgerFails(t *testing.T) {
	f := newFixture(t)
	f.ledger.fail = true

	_, err := f.service.Create(context.Background(), CreateInput{
		UserID: ana, TableID: table5, Date: "2025-03-10", Time: "19:00", PartySize: 2,
	})
	require.ErrorIs(t, err, errLedgerDown)
	assert.Empty(t, f.db.reservations)
	assert.Zero(t, f.cache.count())
}

func TestCreateWithoutBonusSkipsLedger(t *testing.T) {
	f := newFixture(t)
	cfg := testConfig()
	cfg.CreationBonus = 0
	f.service.cfg = cfg

	f.book(t, ana, table5, "2025-03-10", "19:00", 2)
	assert.Zero(t, f.db.ledgerLen())
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			user := ana
			if i%2 == 1 {
				user = bruno
			}

			_, err := f.service.Create(context.Background(), CreateInput{
				UserID: user, TableID: table5, Date: "2025-03-10", Time: "19:00", PartySize: 2,
			})
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, ErrSlotTaken):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
	assert.Equal(t, 1, f.db.ledgerLen())
}

func TestCancelReversesPoints(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	cancelled, err := f.service.Cancel(context.Background(), res.ID, ana)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 0, f.db.points(ana))
	require.Equal(t, 2, f.db.ledgerLen())

	reversal := f.db.ledger[1]
	assert.Equal(t, -50, reversal.Points)
	assert.Equal(t, points.ActionReservationCancelled, reversal.Action)
	assert.Equal(t, res.ID, reversal.ReferenceID)
	assert.Equal(t, 2, f.cache.count())
}

func TestCancelledReservationFreesSlot(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	_, err := f.service.Cancel(context.Background(), res.ID, "")
	require.NoError(t, err)

	again := f.book(t, bruno, table5, "2025-03-10", "19:00", 2)
	assert.Equal(t, StatusConfirmed, again.Status)
}

func TestCancelTerminalReservationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cancelled := f.book(t, ana, table5, "2025-03-10", "19:00", 4)
	_, err := f.service.Cancel(ctx, cancelled.ID, ana)
	require.NoError(t, err)

	finalized := f.book(t, ana, table5, "2025-03-11", "19:00", 4)
	_, err = f.service.Finalize(ctx, finalized.ID)
	require.NoError(t, err)

	ledgerBefore := f.db.ledgerLen()
	pointsBefore := f.db.points(ana)

	_, err = f.service.Cancel(ctx, cancelled.ID, ana)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = f.service.Cancel(ctx, finalized.ID, ana)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	assert.Equal(t, ledgerBefore, f.db.ledgerLen())
	assert.Equal(t, pointsBefore, f.db.points(ana))
	assert.Equal(t, StatusCancelled, f.db.reservation(cancelled.ID).Status)
	assert.Equal(t, StatusFinalized, f.db.reservation(finalized.ID).Status)
}

func TestCancelByAnotherUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	_, err := f.service.Cancel(context.Background(), res.ID, bruno)
	require.ErrorIs(t, err, core.ErrForbidden)

	assert.Equal(t, StatusConfirmed, f.db.reservation(res.ID).Status)
	assert.Equal(t, 50, f.db.points(ana))
}

func TestCancelPendingDoesNotTouchLedger(t *testing.T) {
	f := newFixture(t)
	f.db.reservations["pending-1"] = Reservation{
		ID:            "pending-1",
		UserID:        ana,
		TableID:       table5,
		Date:          time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Time:          "19:00",
		PartySize:     2,
		Status:        StatusPending,
		PointsAwarded: 50,
	}

	_, err := f.service.Cancel(context.Background(), "pending-1", ana)
	require.NoError(t, err)
	assert.Zero(t, f.db.ledgerLen())
	assert.Zero(t, f.cache.count())
}

func TestCancelUnknownReservation(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Cancel(context.Background(), "nope", ana)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)
	other := f.book(t, bruno, table5, "2025-03-10", "20:00", 2)

	notes := "aniversário"
	updated, err := f.service.Update(ctx, res.ID, ana, UpdateInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "aniversário", updated.Notes)

	party := 3
	updated, err = f.service.Update(ctx, res.ID, ana, UpdateInput{PartySize: &party})
	require.NoError(t, err, "a reservation never conflicts with its own slot")
	assert.Equal(t, 3, updated.PartySize)

	clock := "20:00"
	_, err = f.service.Update(ctx, res.ID, ana, UpdateInput{Time: &clock})
	assert.ErrorIs(t, err, ErrSlotTaken)

	clock = "21:30"
	updated, err = f.service.Update(ctx, res.ID, ana, UpdateInput{Time: &clock})
	require.NoError(t, err)
	assert.Equal(t, "21:30", updated.Time)

	big := 6
	_, err = f.service.Update(ctx, res.ID, ana, UpdateInput{PartySize: &big})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	_, err = f.service.Update(ctx, other.ID, ana, UpdateInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotOwner)

	assert.Equal(t, 50, f.db.points(ana), "updates never change points")
	assert.Equal(t, 2, f.db.ledgerLen())
}

func TestUpdateRejectsTerminalAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	_, err := f.service.Update(ctx, res.ID, ana, UpdateInput{})
	assert.ErrorIs(t, err, ErrNothingToApply)

	_, err = f.service.Finalize(ctx, res.ID)
	require.NoError(t, err)

	notes := "late"
	_, err = f.service.Update(ctx, res.ID, ana, UpdateInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	past := "2025-02-01"
	_, err = f.service.Update(ctx, res.ID, ana, UpdateInput{Date: &past})
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestFinalize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.book(t, ana, table5, "2025-03-10", "19:00", 4)

	done, err := f.service.Finalize(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFinalized, done.Status)
	assert.Equal(t, 50, f.db.points(ana))

	_, err = f.service.Finalize(ctx, res.ID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestListUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := f.book(t, ana, table5, "2025-03-04", "12:00", 2)
	soon := f.book(t, ana, table5, "2025-03-01", "20:00", 2)
	f.book(t, ana, table5, "2025-03-05", "12:00", 2)
	cancelled := f.book(t, ana, table8, "2025-03-02", "12:00", 2)
	_, err := f.service.Cancel(ctx, cancelled.ID, ana)
	require.NoError(t, err)

	list, err := f.service.ListUpcoming(ctx, ana)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, soon.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)
}

func TestListByUserFiltersStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, ana, table5, "2025-03-10", "19:00", 2)
	res := f.book(t, ana, table5, "2025-03-11", "19:00", 2)
	f.book(t, bruno, table5, "2025-03-12", "19:00", 2)
	_, err := f.service.Cancel(ctx, res.ID, ana)
	require.NoError(t, err)

	all, err := f.service.ListByUser(ctx, ana, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled, err := f.service.ListByUser(ctx, ana, "cancelled")
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, res.ID, cancelled[0].ID)

	_, err = f.service.ListByUser(ctx, ana, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListAvailableTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, ana, table5, "2025-03-10", "19:00", 2)

	tables, err := f.service.ListAvailableTables(ctx, "2025-03-10", "19:00", 2)
	require.NoError(t, err)

	var numbers []int
	for _, tb := range tables {
		assert.True(t, tb.Active)
		assert.GreaterOrEqual(t, tb.Capacity, 2)
		numbers = append(numbers, tb.Number)
	}
	assert.Equal(t, []int{2, 8}, numbers)

	tables, err = f.service.ListAvailableTables(ctx, "2025-03-10", "20:00", 3)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 5, tables[0].Number, "smallest fitting table first")

	_, err = f.service.ListAvailableTables(ctx, "2025-03-10", "10:00", 2)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestComputeStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.book(t, ana, table5, "2025-03-10", "19:00", 2)
	res := f.book(t, ana, table5, "2025-03-11", "19:00", 2)
	_, err := f.service.Cancel(ctx, res.ID, ana)
	require.NoError(t, err)

	stats, err := f.service.ComputeStats(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Cancelled)
}
