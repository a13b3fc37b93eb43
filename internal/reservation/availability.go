// AngelaMos | 2026
// availability.go

package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/table"
)

// Checker answers slot and capacity questions. Slots are compared exactly;
// only pending and confirmed reservations occupy one.
type Checker struct {
	reservations Repository
	tables       table.Repository
}

func NewChecker(reservations Repository, tables table.Repository) *Checker {
	return &Checker{reservations: reservations, tables: tables}
}

func (c *Checker) WithTx(tx core.DBTX) *Checker {
	return &Checker{
		reservations: c.reservations.WithTx(tx),
		tables:       c.tables.WithTx(tx),
	}
}

// IsAvailable reports whether the slot is free. excludeID, when set, is
// ignored so a reservation never conflicts with itself.
func (c *Checker) IsAvailable(
	ctx context.Context,
	tableID string,
	date time.Time,
	clock, excludeID string,
) (bool, error) {
	taken, err := c.reservations.SlotTaken(ctx, tableID, date, clock, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// HasCapacity reports whether the table is active and seats partySize.
func (c *Checker) HasCapacity(
	ctx context.Context,
	tableID string,
	partySize int,
) (bool, error) {
	t, err := c.tables.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return false, fmt.Errorf("has capacity: %w", ErrTableNotFound)
		}
		return false, err
	}

	return t.Seats(partySize), nil
}
