// AngelaMos | 2026
// fakes_test.go

package ranking

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type fakeUser struct {
	id      string
	name    string
	monthly int
	total   int
}

type fakeRepo struct {
	mu      sync.Mutex
	users   map[string]fakeUser
	winners []Winner

	currentCalls int
	failInsert   bool
	locked       bool
}

func newFakeRepo(users ...fakeUser) *fakeRepo {
	f := &fakeRepo{users: map[string]fakeUser{}}
	for _, u := range users {
		f.users[u.id] = u
	}
	return f
}

func (f *fakeRepo) WithTx(core.DBTX) Repository { return f }

func (f *fakeRepo) sorted() []Standing {
	var out []Standing
	for _, u := range f.users {
		out = append(out, Standing{
			UserID:        u.id,
			Name:          u.name,
			MonthlyPoints: u.monthly,
			TotalPoints:   u.total,
		})
	}
	slices.SortFunc(out, func(a, b Standing) int {
		if c := cmp.Compare(b.MonthlyPoints, a.MonthlyPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func (f *fakeRepo) Current(_ context.Context, limit int) ([]Standing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentCalls++

	var out []Standing
	for _, s := range f.sorted() {
		if s.MonthlyPoints <= 0 || len(out) == limit {
			continue
		}
		s.Position = len(out) + 1
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) PositionOf(ctx context.Context, userID string) (int, error) {
	standings, _ := f.Current(ctx, len(f.users)) //nolint:errcheck // never fails
	for _, s := range standings {
		if s.UserID == userID {
			return s.Position, nil
		}
	}
	return 0, nil
}

func (f *fakeRepo) LockUsers(context.Context) error {
	f.locked = true
	return nil
}

func (f *fakeRepo) Leader(context.Context) (*Standing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.sorted()
	if len(all) == 0 {
		return nil, nil
	}
	leader := all[0]
	leader.Position = 1
	return &leader, nil
}

var errInsertFailed = errors.New("insert failed")

func (f *fakeRepo) InsertWinner(_ context.Context, w *Winner) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return errInsertFailed
	}
	for _, existing := range f.winners {
		if existing.CompetitionMonth.Equal(w.CompetitionMonth) {
			return ErrWinnerRecorded
		}
	}
	f.winners = append(f.winners, *w)
	return nil
}

func (f *fakeRepo) ResetMonthly(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, u := range f.users {
		if u.monthly != 0 {
			u.monthly = 0
			f.users[id] = u
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Winners(_ context.Context, limit int) ([]Winner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := slices.Clone(f.winners)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) monthly(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id].monthly
}

// fakeTx restores the repository state when fn fails.
type fakeTx struct {
	repo *fakeRepo
}

func (t fakeTx) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	t.repo.mu.Lock()
	users := maps.Clone(t.repo.users)
	winners := slices.Clone(t.repo.winners)
	t.repo.mu.Unlock()

	if err := fn(nil); err != nil {
		t.repo.mu.Lock()
		t.repo.users = users
		t.repo.winners = winners
		t.repo.mu.Unlock()
		return err
	}
	return nil
}
