// AngelaMos | 2026
// service.go

package reservation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/points"
	"github.com/carterperez-dev/restaurant-rewards/internal/table"
)

// Ledger credits points inside the caller's transaction.
type Ledger interface {
	Credit(ctx context.Context, db core.DBTX, c points.Credit) (*points.Entry, error)
}

// CacheInvalidator drops derived views of user points after a commit.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type CreateInput struct {
	UserID    string
	TableID   string
	Date      string
	Time      string
	PartySize int
	Notes     string
}

// UpdateInput holds the fields to change; nil means keep.
type UpdateInput struct {
	TableID   *string
	Date      *string
	Time      *string
	PartySize *int
	Notes     *string
}

func (in UpdateInput) empty() bool {
	return in.TableID == nil && in.Date == nil && in.Time == nil &&
		in.PartySize == nil && in.Notes == nil
}

type Service struct {
	repo    Repository
	tables  table.Repository
	checker *Checker
	tx      core.Transactor
	ledger  Ledger
	cache   CacheInvalidator
	clock   core.Clock
	cfg     config.ReservationConfig
}

func NewService(
	repo Repository,
	tables table.Repository,
	tx core.Transactor,
	ledger Ledger,
	cache CacheInvalidator,
	clock core.Clock,
	cfg config.ReservationConfig,
) *Service {
	return &Service{
		repo:    repo,
		tables:  tables,
		checker: NewChecker(repo, tables),
		tx:      tx,
		ledger:  ledger,
		cache:   cache,
		clock:   clock,
		cfg:     cfg,
	}
}

// Create books a table and credits the creation bonus in one transaction.
// The table row stays locked until commit, so concurrent bookings of the
// same table run one after the other.
func (s *Service) Create(ctx context.Context, in CreateInput) (res *Detail, err error) {
	ctx, span := core.StartSpan(ctx, "reservation.create",
		attribute.String("user.id", in.UserID),
		attribute.String("table.id", in.TableID),
	)
	defer func() { core.EndSpan(span, err) }()

	if in.UserID == "" {
		return nil, ErrUserRequired
	}
	if in.TableID == "" {
		return nil, ErrTableRequired
	}

	date, err := s.parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	clock, err := s.parseClock(in.Time)
	if err != nil {
		return nil, err
	}

	if err := s.checkPartySize(in.PartySize); err != nil {
		return nil, err
	}

	r := &Reservation{
		ID:            uuid.New().String(),
		UserID:        in.UserID,
		TableID:       in.TableID,
		Date:          date,
		Time:          clock,
		PartySize:     in.PartySize,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        StatusConfirmed,
		PointsAwarded: s.cfg.CreationBonus,
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := s.checkSlot(ctx, tx, r, ""); err != nil {
			return err
		}

		if err := repo.Create(ctx, r); err != nil {
			return err
		}

		if r.PointsAwarded == 0 {
			return nil
		}

		_, err := s.ledger.Credit(ctx, tx, points.Credit{
			UserID:        r.UserID,
			Points:        r.PointsAwarded,
			Action:        points.ActionReservationCreated,
			ReferenceID:   r.ID,
			ReferenceType: points.ReferenceReservation,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.invalidate(ctx)

	slog.InfoContext(ctx, "reservation created",
		"reservation_id", r.ID,
		"user_id", r.UserID,
		"table_id", r.TableID,
		"points", r.PointsAwarded,
	)

	return s.repo.GetDetail(ctx, r.ID)
}

// Update applies a partial change. Slot and capacity are re-checked when a
// field that affects them changes; points are never touched.
func (s *Service) Update(
	ctx context.Context,
	id, actingUserID string,
	in UpdateInput,
) (*Detail, error) {
	if in.empty() {
		return nil, ErrNothingToApply
	}

	var (
		date      *time.Time
		clock     *string
		partySize *int
	)

	if in.Date != nil {
		d, err := s.parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}

	if in.Time != nil {
		c, err := s.parseClock(*in.Time)
		if err != nil {
			return nil, err
		}
		clock = &c
	}

	if in.PartySize != nil {
		if err := s.checkPartySize(*in.PartySize); err != nil {
			return nil, err
		}
		partySize = in.PartySize
	}

	if in.TableID != nil && *in.TableID == "" {
		return nil, ErrTableRequired
	}

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		r, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := r.ensureModifiable(); err != nil {
			return err
		}

		if actingUserID != "" && !r.OwnedBy(actingUserID) {
			return ErrNotOwner
		}

		recheck := false
		if in.TableID != nil {
			r.TableID = *in.TableID
			recheck = true
		}
		if date != nil {
			r.Date = *date
			recheck = true
		}
		if clock != nil {
			r.Time = *clock
			recheck = true
		}
		if partySize != nil {
			r.PartySize = *partySize
			recheck = true
		}
		if in.Notes != nil {
			r.Notes = strings.TrimSpace(*in.Notes)
		}

		if recheck {
			if err := s.checkSlot(ctx, tx, r, r.ID); err != nil {
				return err
			}
		}

		return repo.Update(ctx, r)
	})
	if err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}

	return s.repo.GetDetail(ctx, id)
}

// Cancel moves a pending or confirmed reservation to cancelled. A confirmed
// reservation has its points reversed with a negative ledger entry in the
// same transaction. actingUserID, when set, must own the reservation.
func (s *Service) Cancel(
	ctx context.Context,
	id, actingUserID string,
) (res *Reservation, err error) {
	ctx, span := core.StartSpan(ctx, "reservation.cancel",
		attribute.String("reservation.id", id),
	)
	defer func() { core.EndSpan(span, err) }()

	var reversed int

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		r, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := r.ensureModifiable(); err != nil {
			return err
		}

		if actingUserID != "" && !r.OwnedBy(actingUserID) {
			return ErrNotOwner
		}

		wasConfirmed := r.Status == StatusConfirmed

		if err := r.Cancel(); err != nil {
			return err
		}

		if wasConfirmed && r.PointsAwarded > 0 {
			_, err := s.ledger.Credit(ctx, tx, points.Credit{
				UserID:        r.UserID,
				Points:        -r.PointsAwarded,
				Action:        points.ActionReservationCancelled,
				ReferenceID:   r.ID,
				ReferenceType: points.ReferenceReservation,
			})
			if err != nil {
				return err
			}
			reversed = r.PointsAwarded
		}

		if err := repo.Update(ctx, r); err != nil {
			return err
		}

		res = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}

	if reversed > 0 {
		s.invalidate(ctx)
	}

	slog.InfoContext(ctx, "reservation cancelled",
		"reservation_id", id,
		"points_reversed", reversed,
	)

	return res, nil
}

// Finalize marks the visit as completed. Points are unchanged.
func (s *Service) Finalize(ctx context.Context, id string) (*Reservation, error) {
	var res *Reservation

	err := s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		r, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if err := r.Finalize(); err != nil {
			return err
		}

		if err := repo.Update(ctx, r); err != nil {
			return err
		}

		res = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("finalize reservation: %w", err)
	}

	return res, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID string,
	status string,
) ([]Detail, error) {
	st := Status(status)
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.repo.ListByUser(ctx, userID, st)
}

// ListUpcoming returns active reservations from today through the
// configured window, soonest first.
func (s *Service) ListUpcoming(ctx context.Context, userID string) ([]Detail, error) {
	from := core.Today(s.clock)
	to := from.AddDate(0, 0, s.cfg.UpcomingWindowDays)

	return s.repo.ListUpcoming(ctx, userID, from, to)
}

// ListAvailableTables returns active tables that seat partySize and are
// free at the slot, smallest first.
func (s *Service) ListAvailableTables(
	ctx context.Context,
	date, clock string,
	partySize int,
) ([]table.Table, error) {
	d, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	c, err := s.parseClock(clock)
	if err != nil {
		return nil, err
	}

	if err := s.checkPartySize(partySize); err != nil {
		return nil, err
	}

	return s.tables.ListAvailable(ctx, d, c, partySize)
}

func (s *Service) ComputeStats(ctx context.Context, userID string) (*Stats, error) {
	return s.repo.Stats(ctx, userID, core.MonthStart(s.clock.Now()))
}

// checkSlot locks the target table, then verifies the slot is free and the
// table seats the party.
func (s *Service) checkSlot(
	ctx context.Context,
	tx core.DBTX,
	r *Reservation,
	excludeID string,
) error {
	if _, err := s.tables.WithTx(tx).GetForUpdate(ctx, r.TableID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrTableNotFound
		}
		return err
	}

	checker := s.checker.WithTx(tx)

	free, err := checker.IsAvailable(ctx, r.TableID, r.Date, r.Time, excludeID)
	if err != nil {
		return err
	}
	if !free {
		return ErrSlotTaken
	}

	fits, err := checker.HasCapacity(ctx, r.TableID, r.PartySize)
	if err != nil {
		return err
	}
	if !fits {
		return ErrInsufficientCapacity
	}

	return nil
}

func (s *Service) parseDate(raw string) (time.Time, error) {
	today := core.Today(s.clock)

	d, err := time.ParseInLocation(core.DateLayout, strings.TrimSpace(raw), today.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	if d.Before(today) {
		return time.Time{}, ErrDateInPast
	}

	return d, nil
}

// parseClock accepts H:MM or HH:MM and returns the zero-padded form, which
// orders correctly as a string.
func (s *Service) parseClock(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !core.IsClockTime(raw) {
		return "", ErrInvalidTime
	}

	t, err := time.Parse("15:04", raw)
	if err != nil {
		return "", ErrInvalidTime
	}
	clock := t.Format("15:04")

	if clock < s.cfg.OpeningTime || clock > s.cfg.ClosingTime {
		return "", outsideHoursError(s.cfg.OpeningTime, s.cfg.ClosingTime)
	}

	return clock, nil
}

func (s *Service) checkPartySize(n int) error {
	if n < s.cfg.MinPartySize || n > s.cfg.MaxPartySize {
		return partySizeError(s.cfg.MinPartySize, s.cfg.MaxPartySize)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
