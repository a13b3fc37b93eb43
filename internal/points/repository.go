// AngelaMos | 2026
// repository.go

package points

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	AdjustUserTotals(
		ctx context.Context,
		userID string,
		monthlyDelta, lifetimeDelta int,
	) error
	History(
		ctx context.Context,
		userID string,
		month *time.Time,
		limit int,
	) ([]HistoryEntry, error)
	LifetimeSum(ctx context.Context, userID string) (int, error)
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

func (r *repository) Append(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO points_ledger
		    (id, user_id, action, points, reference_id, reference_type, competition_month)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &e.CreatedAt, query,
		e.ID,
		e.UserID,
		e.Action,
		e.Points,
		e.ReferenceID,
		e.ReferenceType,
		e.CompetitionMonth.Format(core.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	return nil
}

// AdjustUserTotals applies the deltas to the user's running totals. Monthly
// points are clamped at zero.
func (r *repository) AdjustUserTotals(
	ctx context.Context,
	userID string,
	monthlyDelta, lifetimeDelta int,
) error {
	query := `
		UPDATE users
		SET monthly_points = GREATEST(monthly_points + $2, 0),
		    total_points = total_points + $3,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, monthlyDelta, lifetimeDelta)
	if err != nil {
		return fmt.Errorf("adjust user points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust user points: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("adjust user points: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) History(
	ctx context.Context,
	userID string,
	month *time.Time,
	limit int,
) ([]HistoryEntry, error) {
	query := `
		SELECT pl.id, pl.user_id, pl.action, pl.points, pl.reference_id,
		       pl.reference_type, pl.competition_month, pl.created_at,
		       t.number AS table_number,
		       r.reservation_date, r.reservation_time,
		       rv.rating
		FROM points_ledger pl
		LEFT JOIN reservations r
		       ON pl.reference_type = 'reservation' AND r.id = pl.reference_id
		LEFT JOIN dining_tables t ON t.id = r.table_id
		LEFT JOIN reviews rv
		       ON pl.reference_type = 'review' AND rv.id = pl.reference_id
		WHERE pl.user_id = $1`

	args := []any{userID}
	if month != nil {
		query += ` AND pl.competition_month = $2 ORDER BY pl.created_at DESC`
		args = append(args, month.Format(core.DateLayout))
	} else {
		query += ` ORDER BY pl.created_at DESC LIMIT $2`
		args = append(args, limit)
	}

	var entries []HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("points history: %w", err)
	}

	return entries, nil
}

func (r *repository) LifetimeSum(
	ctx context.Context,
	userID string,
) (int, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM points_ledger WHERE user_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, query, userID); err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}

	return total, nil
}
