// AngelaMos | 2026
// repository.go

package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Table, error)
	GetByID(ctx context.Context, id string) (*Table, error)
	GetForUpdate(ctx context.Context, id string) (*Table, error)
	ListAvailable(
		ctx context.Context,
		date time.Time,
		clock string,
		partySize int,
	) ([]Table, error)
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

func (r *repository) List(ctx context.Context) ([]Table, error) {
	query := `
		SELECT id, number, capacity, location, active
		FROM dining_tables
		WHERE active
		ORDER BY number ASC`

	var tables []Table
	if err := r.db.SelectContext(ctx, &tables, query); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	return tables, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Table, error) {
	return r.get(ctx, "get table", `
		SELECT id, number, capacity, location, active
		FROM dining_tables
		WHERE id = $1`, id)
}

// GetForUpdate locks the table row until the surrounding transaction ends,
// serializing bookings against the same table.
func (r *repository) GetForUpdate(
	ctx context.Context,
	id string,
) (*Table, error) {
	return r.get(ctx, "lock table", `
		SELECT id, number, capacity, location, active
		FROM dining_tables
		WHERE id = $1
		FOR UPDATE`, id)
}

func (r *repository) get(
	ctx context.Context,
	op, query, id string,
) (*Table, error) {
	var t Table
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &t, nil
}

func (r *repository) ListAvailable(
	ctx context.Context,
	date time.Time,
	clock string,
	partySize int,
) ([]Table, error) {
	query := `
		SELECT t.id, t.number, t.capacity, t.location, t.active
		FROM dining_tables t
		WHERE t.active
		  AND t.capacity >= $3
		  AND NOT EXISTS (
		      SELECT 1 FROM reservations r
		      WHERE r.table_id = t.id
		        AND r.reservation_date = $1
		        AND r.reservation_time = $2
		        AND r.status IN ('pending', 'confirmed')
		  )
		ORDER BY t.capacity ASC, t.number ASC`

	var tables []Table
	err := r.db.SelectContext(
		ctx,
		&tables,
		query,
		date.Format(core.DateLayout),
		clock,
		partySize,
	)
	if err != nil {
		return nil, fmt.Errorf("list available tables: %w", err)
	}

	return tables, nil
}
