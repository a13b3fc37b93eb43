// AngelaMos | 2026
// repository.go

package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/schema"
)

type Repository interface {
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	GetForUpdate(ctx context.Context, id string) (*Reservation, error)
	GetDetail(ctx context.Context, id string) (*Detail, error)
	Update(ctx context.Context, r *Reservation) error
	ListByUser(ctx context.Context, userID string, status Status) ([]Detail, error)
	ListUpcoming(ctx context.Context, userID string, from, to time.Time) ([]Detail, error)
	SlotTaken(
		ctx context.Context,
		tableID string,
		date time.Time,
		clock, excludeID string,
	) (bool, error)
	Stats(ctx context.Context, userID string, monthStart time.Time) (*Stats, error)
	WithTx(tx core.DBTX) Repository
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

const reservationColumns = `
	r.id, r.user_id, r.table_id, r.reservation_date, r.reservation_time,
	r.party_size, r.notes, r.status, r.points_awarded, r.created_at, r.updated_at`

const detailQuery = `
	SELECT ` + reservationColumns + `,
	       u.name AS user_name, u.email AS user_email, u.phone AS user_phone,
	       t.number AS table_number, t.capacity AS table_capacity,
	       t.location AS table_location,
	       rv.id AS review_id, rv.rating AS review_rating,
	       rv.comment AS review_comment
	FROM reservations r
	JOIN users u ON u.id = r.user_id
	JOIN dining_tables t ON t.id = r.table_id
	LEFT JOIN reviews rv ON rv.reservation_id = r.id`

func (r *repository) Create(ctx context.Context, res *Reservation) error {
	query := `
		INSERT INTO reservations
		    (id, user_id, table_id, reservation_date, reservation_time,
		     party_size, notes, status, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, res, query,
		res.ID,
		res.UserID,
		res.TableID,
		res.Date.Format(core.DateLayout),
		res.Time,
		res.PartySize,
		res.Notes,
		res.Status,
		res.PointsAwarded,
	)
	if err != nil {
		if core.IsUniqueViolation(err, schema.ActiveSlotIndex) {
			return fmt.Errorf("create reservation: %w", ErrSlotTaken)
		}
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return r.get(ctx, "get reservation", `
		SELECT `+reservationColumns+`
		FROM reservations r
		WHERE r.id = $1`, id)
}

func (r *repository) GetForUpdate(ctx context.Context, id string) (*Reservation, error) {
	return r.get(ctx, "lock reservation", `
		SELECT `+reservationColumns+`
		FROM reservations r
		WHERE r.id = $1
		FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, op, query, id string) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &res, nil
}

func (r *repository) GetDetail(ctx context.Context, id string) (*Detail, error) {
	var d Detail
	err := r.db.GetContext(ctx, &d, detailQuery+` WHERE r.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reservation detail: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation detail: %w", err)
	}

	return &d, nil
}

func (r *repository) Update(ctx context.Context, res *Reservation) error {
	query := `
		UPDATE reservations
		SET table_id = $2, reservation_date = $3, reservation_time = $4,
		    party_size = $5, notes = $6, status = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &res.UpdatedAt, query,
		res.ID,
		res.TableID,
		res.Date.Format(core.DateLayout),
		res.Time,
		res.PartySize,
		res.Notes,
		res.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update reservation: %w", ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err, schema.ActiveSlotIndex) {
			return fmt.Errorf("update reservation: %w", ErrSlotTaken)
		}
		return fmt.Errorf("update reservation: %w", err)
	}

	return nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	status Status,
) ([]Detail, error) {
	query := detailQuery + ` WHERE r.user_id = $1`
	args := []any{userID}

	if status != "" {
		query += ` AND r.status = $2`
		args = append(args, status)
	}

	query += ` ORDER BY r.reservation_date DESC, r.reservation_time DESC`

	var out []Detail
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	return out, nil
}

func (r *repository) ListUpcoming(
	ctx context.Context,
	userID string,
	from, to time.Time,
) ([]Detail, error) {
	query := detailQuery + `
		WHERE r.user_id = $1
		  AND r.reservation_date BETWEEN $2 AND $3
		  AND r.status IN ('pending', 'confirmed')
		ORDER BY r.reservation_date ASC, r.reservation_time ASC`

	var out []Detail
	err := r.db.SelectContext(ctx, &out, query,
		userID,
		from.Format(core.DateLayout),
		to.Format(core.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming reservations: %w", err)
	}

	return out, nil
}

func (r *repository) SlotTaken(
	ctx context.Context,
	tableID string,
	date time.Time,
	clock, excludeID string,
) (bool, error) {
	query := `
		SELECT EXISTS (
		    SELECT 1 FROM reservations
		    WHERE table_id = $1
		      AND reservation_date = $2
		      AND reservation_time = $3
		      AND status IN ('pending', 'confirmed')
		      AND ($4::text = '' OR id::text <> $4::text)
		)`

	var taken bool
	err := r.db.GetContext(ctx, &taken, query,
		tableID,
		date.Format(core.DateLayout),
		clock,
		excludeID,
	)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}

	return taken, nil
}

func (r *repository) Stats(
	ctx context.Context,
	userID string,
	monthStart time.Time,
) (*Stats, error) {
	query := `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		       COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
		       COUNT(*) FILTER (WHERE status = 'finalized') AS finalized,
		       COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
		       COUNT(*) FILTER (WHERE created_at >= $2) AS this_month
		FROM reservations
		WHERE user_id = $1`

	var stats Stats
	if err := r.db.GetContext(ctx, &stats, query, userID, monthStart); err != nil {
		return nil, fmt.Errorf("reservation stats: %w", err)
	}

	return &stats, nil
}
