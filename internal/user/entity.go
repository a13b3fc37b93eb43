// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID            string    `db:"id"`
	Email         string    `db:"email"`
	PasswordHash  string    `db:"password_hash"`
	Name          string    `db:"name"`
	Phone         *string   `db:"phone"`
	Role          string    `db:"role"`
	MonthlyPoints int       `db:"monthly_points"`
	TotalPoints   int       `db:"total_points"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Stats summarizes a user's activity. Reservations count confirmed and
// finalized bookings; pending reviews are finalized bookings without one.
type Stats struct {
	TotalReservations int `db:"total_reservations"`
	TotalReviews      int `db:"total_reviews"`
	PendingReviews    int `db:"pending_reviews"`
	LifetimePoints    int `db:"-"`
}
