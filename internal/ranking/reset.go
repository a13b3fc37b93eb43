// AngelaMos | 2026
// reset.go

package ranking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/restaurant-rewards/internal/core"
)

// Reset closes the competition month. The leader, if it has any points, is
// recorded as the winner of the previous month and every user's monthly
// points go back to zero. Both happen in one transaction with the users
// table locked. It returns the recorded winner or nil.
func (s *Service) Reset(ctx context.Context) (winner *Winner, err error) {
	ctx, span := core.StartSpan(ctx, "ranking.reset")
	defer func() { core.EndSpan(span, err) }()

	var zeroed int64

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := repo.LockUsers(ctx); err != nil {
			return err
		}

		leader, err := repo.Leader(ctx)
		if err != nil {
			return err
		}

		if leader != nil && leader.MonthlyPoints > 0 {
			w := &Winner{
				ID:               uuid.New().String(),
				UserID:           leader.UserID,
				UserName:         leader.Name,
				CompetitionMonth: core.PreviousMonthStart(s.clock.Now()),
				PointsTotal:      leader.MonthlyPoints,
			}
			if err := repo.InsertWinner(ctx, w); err != nil {
				return err
			}
			winner = w
		}

		zeroed, err = repo.ResetMonthly(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("monthly reset: %w", err)
	}

	s.Invalidate(ctx)

	attrs := []any{"users_reset", zeroed}
	if winner != nil {
		span.SetAttributes(attribute.String("winner.id", winner.UserID))
		attrs = append(attrs,
			"winner_id", winner.UserID,
			"winner_points", winner.PointsTotal,
			"competition_month", winner.CompetitionMonth.Format(core.DateLayout),
		)
	}
	slog.InfoContext(ctx, "monthly ranking reset", attrs...)

	return winner, nil
}
