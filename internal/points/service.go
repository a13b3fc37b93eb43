// AngelaMos | 2026
// service.go

package points

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

var ErrInvalidMonth = core.ValidationError("Mês inválido. Use o formato AAAA-MM.")

const monthLayout = "2006-01"

// Ledger is the only writer of points. Every change is an appended entry
// plus a matching adjustment of the user's running totals.
type Ledger struct {
	repo  Repository
	clock core.Clock
	cfg   config.PointsConfig
}

func NewLedger(repo Repository, clock core.Clock, cfg config.PointsConfig) *Ledger {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	return &Ledger{repo: repo, clock: clock, cfg: cfg}
}

// Credit records c inside the caller's transaction when db is non-nil, so
// the ledger line commits or rolls back together with the change that
// caused it.
func (l *Ledger) Credit(
	ctx context.Context,
	db core.DBTX,
	c Credit,
) (entry *Entry, err error) {
	ctx, span := core.StartSpan(ctx, "points.credit",
		attribute.String("user.id", c.UserID),
		attribute.Int("points", c.Points),
		attribute.String("action", c.Action),
	)
	defer func() { core.EndSpan(span, err) }()

	if err := validateCredit(c); err != nil {
		return nil, err
	}

	repo := l.repo
	if db != nil {
		repo = repo.WithTx(db)
	}

	entry = &Entry{
		ID:               uuid.New().String(),
		UserID:           c.UserID,
		Action:           c.Action,
		Points:           c.Points,
		ReferenceID:      c.ReferenceID,
		ReferenceType:    c.ReferenceType,
		CompetitionMonth: core.MonthStart(l.clock.Now()),
	}

	if err := repo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}

	lifetime := c.Points
	if lifetime < 0 && !l.cfg.ReverseLifetimeOnCancel {
		lifetime = 0
	}

	if err := repo.AdjustUserTotals(ctx, c.UserID, c.Points, lifetime); err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}

	return entry, nil
}

func validateCredit(c Credit) error {
	switch {
	case c.UserID == "":
		return fmt.Errorf("credit: missing user: %w", core.ErrInvalidInput)
	case c.Points == 0:
		return fmt.Errorf("credit: zero points: %w", core.ErrInvalidInput)
	case c.Action == "":
		return fmt.Errorf("credit: missing action: %w", core.ErrInvalidInput)
	case c.ReferenceID == "":
		return fmt.Errorf("credit: missing reference: %w", core.ErrInvalidInput)
	case !c.ReferenceType.Valid():
		return fmt.Errorf(
			"credit: reference type %q: %w",
			c.ReferenceType,
			core.ErrInvalidInput,
		)
	}
	return nil
}

// HistoryForUser returns the user's entries newest first. month is YYYY-MM;
// when empty the latest entries up to the configured limit are returned.
func (l *Ledger) HistoryForUser(
	ctx context.Context,
	userID, month string,
) ([]HistoryEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("points history: %w", core.ErrUnauthorized)
	}

	var filter *time.Time
	if month != "" {
		parsed, err := time.ParseInLocation(monthLayout, month, l.clock.Now().Location())
		if err != nil {
			return nil, ErrInvalidMonth
		}
		start := core.MonthStart(parsed)
		filter = &start
	}

	entries, err := l.repo.History(ctx, userID, filter, l.cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (l *Ledger) LifetimeSum(ctx context.Context, userID string) (int, error) {
	return l.repo.LifetimeSum(ctx, userID)
}
