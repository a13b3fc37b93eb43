// AngelaMos | 2026
// fakes_test.go

package reservation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/points"
	"github.com/carterperez-dev/restaurant-rewards/internal/table"
)

// memDB is an in-memory stand-in for the relational store. InTx serializes
// transactions and restores a snapshot when fn fails.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	tables       map[string]table.Table
	users        map[string]string
	reservations map[string]Reservation
	monthly      map[string]int
	ledger       []points.Credit
}

func newMemDB() *memDB {
	return &memDB{
		tables:       map[string]table.Table{},
		users:        map[string]string{},
		reservations: map[string]Reservation{},
		monthly:      map[string]int{},
	}
}

func (m *memDB) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	reservations := maps.Clone(m.reservations)
	monthly := maps.Clone(m.monthly)
	ledger := slices.Clone(m.ledger)
	m.mu.Unlock()

	if err := fn(nil); err != nil {
		m.mu.Lock()
		m.reservations = reservations
		m.monthly = monthly
		m.ledger = ledger
		m.mu.Unlock()
		return err
	}

	return nil
}

func (m *memDB) addTable(id string, number, capacity int, active bool) {
	m.tables[id] = table.Table{
		ID:       id,
		Number:   number,
		Capacity: capacity,
		Location: "Salão principal",
		Active:   active,
	}
}

func (m *memDB) reservation(id string) Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[id]
}

func (m *memDB) ledgerLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ledger)
}

func (m *memDB) points(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.monthly[userID]
}

type fakeTables struct{ db *memDB }

func (f fakeTables) WithTx(core.DBTX) table.Repository { return f }

func (f fakeTables) List(context.Context) ([]table.Table, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return slices.Collect(maps.Values(f.db.tables)), nil
}

func (f fakeTables) GetByID(_ context.Context, id string) (*table.Table, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tables[id]
	if !ok {
		return nil, fmt.Errorf("get table: %w", core.ErrNotFound)
	}
	return &t, nil
}

func (f fakeTables) GetForUpdate(ctx context.Context, id string) (*table.Table, error) {
	return f.GetByID(ctx, id)
}

func (f fakeTables) ListAvailable(
	_ context.Context,
	date time.Time,
	clock string,
	partySize int,
) ([]table.Table, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []table.Table
	for _, t := range f.db.tables {
		if !t.Active || t.Capacity < partySize {
			continue
		}
		if f.db.slotTakenLocked(t.ID, date, clock, "") {
			continue
		}
		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b table.Table) int {
		if a.Capacity != b.Capacity {
			return a.Capacity - b.Capacity
		}
		return a.Number - b.Number
	})

	return out, nil
}

func (m *memDB) slotTakenLocked(tableID string, date time.Time, clock, excludeID string) bool {
	for _, r := range m.reservations {
		if r.ID == excludeID || !r.Status.IsActive() {
			continue
		}
		if r.TableID == tableID && r.Date.Equal(date) && r.Time == clock {
			return true
		}
	}
	return false
}

type fakeReservations struct{ db *memDB }

func (f fakeReservations) WithTx(core.DBTX) Repository { return f }

func (f fakeReservations) Create(_ context.Context, r *Reservation) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if f.db.slotTakenLocked(r.TableID, r.Date, r.Time, "") {
		return fmt.Errorf("create reservation: %w", ErrSlotTaken)
	}

	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	f.db.reservations[r.ID] = *r
	return nil
}

func (f fakeReservations) GetByID(_ context.Context, id string) (*Reservation, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	r, ok := f.db.reservations[id]
	if !ok {
		return nil, fmt.Errorf("get reservation: %w", ErrNotFound)
	}
	return &r, nil
}

func (f fakeReservations) GetForUpdate(ctx context.Context, id string) (*Reservation, error) {
	return f.GetByID(ctx, id)
}

func (f fakeReservations) GetDetail(_ context.Context, id string) (*Detail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	r, ok := f.db.reservations[id]
	if !ok {
		return nil, fmt.Errorf("get reservation detail: %w", ErrNotFound)
	}
	d := f.db.detailLocked(r)
	return &d, nil
}

func (m *memDB) detailLocked(r Reservation) Detail {
	t := m.tables[r.TableID]
	return Detail{
		Reservation:   r,
		UserName:      m.users[r.UserID],
		TableNumber:   t.Number,
		TableCapacity: t.Capacity,
		TableLocation: t.Location,
	}
}

func (f fakeReservations) Update(_ context.Context, r *Reservation) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	if _, ok := f.db.reservations[r.ID]; !ok {
		return fmt.Errorf("update reservation: %w", ErrNotFound)
	}
	if r.Status.IsActive() && f.db.slotTakenLocked(r.TableID, r.Date, r.Time, r.ID) {
		return fmt.Errorf("update reservation: %w", ErrSlotTaken)
	}

	r.UpdatedAt = time.Now()
	f.db.reservations[r.ID] = *r
	return nil
}

func (f fakeReservations) ListByUser(_ context.Context, userID string, status Status) ([]Detail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []Detail
	for _, r := range f.db.reservations {
		if r.UserID != userID || (status != "" && r.Status != status) {
			continue
		}
		out = append(out, f.db.detailLocked(r))
	}

	slices.SortFunc(out, func(a, b Detail) int { return -compareSlot(a.Reservation, b.Reservation) })
	return out, nil
}

func (f fakeReservations) ListUpcoming(_ context.Context, userID string, from, to time.Time) ([]Detail, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var out []Detail
	for _, r := range f.db.reservations {
		if r.UserID != userID || !r.Status.IsActive() {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, f.db.detailLocked(r))
	}

	slices.SortFunc(out, func(a, b Detail) int { return compareSlot(a.Reservation, b.Reservation) })
	return out, nil
}

func compareSlot(a, b Reservation) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	}
	return 0
}

func (f fakeReservations) SlotTaken(
	_ context.Context,
	tableID string,
	date time.Time,
	clock, excludeID string,
) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.db.slotTakenLocked(tableID, date, clock, excludeID), nil
}

func (f fakeReservations) Stats(_ context.Context, userID string, monthStart time.Time) (*Stats, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	var s Stats
	for _, r := range f.db.reservations {
		if r.UserID != userID {
			continue
		}
		s.Total++
		switch r.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		case StatusFinalized:
			s.Finalized++
		case StatusCancelled:
			s.Cancelled++
		}
		if !r.CreatedAt.Before(monthStart) {
			s.ThisMonth++
		}
	}
	return &s, nil
}

var errLedgerDown = errors.New("ledger unavailable")

// fakeLedger keeps monthly totals on the memDB so they roll back with it.
type fakeLedger struct {
	db   *memDB
	fail bool
}

func (l *fakeLedger) Credit(_ context.Context, _ core.DBTX, c points.Credit) (*points.Entry, error) {
	if l.fail {
		return nil, errLedgerDown
	}

	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	l.db.ledger = append(l.db.ledger, c)
	l.db.monthly[c.UserID] = max(l.db.monthly[c.UserID]+c.Points, 0)

	return &points.Entry{UserID: c.UserID, Points: c.Points, Action: c.Action}, nil
}

type fakeCache struct {
	mu    sync.Mutex
	calls int
}

func (c *fakeCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *fakeCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
