// AngelaMos | 2026
// entity.go

package ranking

import (
	"time"
)

// Standing is one user's place in the current competition month.
type Standing struct {
	Position      int    `db:"-"              json:"position"`
	UserID        string `db:"id"             json:"user_id"`
	Name          string `db:"name"           json:"name"`
	MonthlyPoints int    `db:"monthly_points" json:"monthly_points"`
	TotalPoints   int    `db:"total_points"   json:"total_points"`
}

// Winner is the snapshot taken for a closed competition month.
type Winner struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	UserName         string    `db:"user_name"`
	CompetitionMonth time.Time `db:"competition_month"`
	PointsTotal      int       `db:"points_total"`
	CreatedAt        time.Time `db:"created_at"`
}
