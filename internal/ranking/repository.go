// AngelaMos | 2026
// repository.go

package ranking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

const winnerMonthKey = "monthly_winners_competition_month_key"

type Repository interface {
	Current(ctx context.Context, limit int) ([]Standing, error)
	PositionOf(ctx context.Context, userID string) (int, error)
	LockUsers(ctx context.Context) error
	Leader(ctx context.Context) (*Standing, error)
	InsertWinner(ctx context.Context, w *Winner) error
	ResetMonthly(ctx context.Context) (int64, error)
	Winners(ctx context.Context, limit int) ([]Winner, error)
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

const standingOrder = `ORDER BY monthly_points DESC, name ASC`

func (r *repository) Current(ctx context.Context, limit int) ([]Standing, error) {
	query := `
		SELECT id, name, monthly_points, total_points
		FROM users
		WHERE monthly_points > 0
		` + standingOrder + `
		LIMIT $1`

	var standings []Standing
	if err := r.db.SelectContext(ctx, &standings, query, limit); err != nil {
		return nil, fmt.Errorf("current ranking: %w", err)
	}

	for i := range standings {
		standings[i].Position = i + 1
	}

	return standings, nil
}

// PositionOf returns the 1-based position of userID, or 0 when the user has
// no points this month.
func (r *repository) PositionOf(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT position FROM (
		    SELECT id, ROW_NUMBER() OVER (` + standingOrder + `) AS position
		    FROM users
		    WHERE monthly_points > 0
		) ranked
		WHERE id = $1`

	var position int
	err := r.db.GetContext(ctx, &position, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ranking position: %w", err)
	}

	return position, nil
}

// LockUsers blocks concurrent point adjustments until the transaction ends.
func (r *repository) LockUsers(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock users: %w", err)
	}
	return nil
}

func (r *repository) Leader(ctx context.Context) (*Standing, error) {
	query := `
		SELECT id, name, monthly_points, total_points
		FROM users
		` + standingOrder + `
		LIMIT 1`

	var s Standing
	err := r.db.GetContext(ctx, &s, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ranking leader: %w", err)
	}

	s.Position = 1
	return &s, nil
}

func (r *repository) InsertWinner(ctx context.Context, w *Winner) error {
	query := `
		INSERT INTO monthly_winners (id, user_id, user_name, competition_month, points_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &w.CreatedAt, query,
		w.ID,
		w.UserID,
		w.UserName,
		w.CompetitionMonth.Format(core.DateLayout),
		w.PointsTotal,
	)
	if err != nil {
		if core.IsUniqueViolation(err, winnerMonthKey) {
			return ErrWinnerRecorded
		}
		return fmt.Errorf("insert monthly winner: %w", err)
	}

	return nil
}

func (r *repository) ResetMonthly(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET monthly_points = 0, updated_at = NOW()
		WHERE monthly_points <> 0`)
	if err != nil {
		return 0, fmt.Errorf("reset monthly points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset monthly points: %w", err)
	}

	return rows, nil
}

func (r *repository) Winners(ctx context.Context, limit int) ([]Winner, error) {
	query := `
		SELECT id, user_id, user_name, competition_month, points_total, created_at
		FROM monthly_winners
		ORDER BY competition_month DESC
		LIMIT $1`

	var winners []Winner
	if err := r.db.SelectContext(ctx, &winners, query, limit); err != nil {
		return nil, fmt.Errorf("monthly winners: %w", err)
	}

	return winners, nil
}
