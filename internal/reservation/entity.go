// AngelaMos | 2026
// entity.go

package reservation

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFinalized Status = "finalized"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFinalized, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a reservation in this state occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusFinalized || s == StatusCancelled
}

type Reservation struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	TableID       string    `db:"table_id"`
	Date          time.Time `db:"reservation_date"`
	Time          string    `db:"reservation_time"`
	PartySize     int       `db:"party_size"`
	Notes         string    `db:"notes"`
	Status        Status    `db:"status"`
	PointsAwarded int       `db:"points_awarded"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ensureModifiable rejects any change to a finalized or cancelled
// reservation.
func (r *Reservation) ensureModifiable() error {
	switch r.Status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusFinalized:
		return ErrAlreadyFinalized
	}
	return nil
}

func (r *Reservation) Confirm() error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}
	if r.Status != StatusPending {
		return ErrInvalidTransition
	}
	r.Status = StatusConfirmed
	return nil
}

func (r *Reservation) Finalize() error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}
	r.Status = StatusFinalized
	return nil
}

func (r *Reservation) Cancel() error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}
	r.Status = StatusCancelled
	return nil
}

func (r *Reservation) OwnedBy(userID string) bool {
	return r.UserID == userID
}

// Detail is a reservation joined with the display fields of its user, its
// table and its review, if any.
type Detail struct {
	Reservation
	UserName      string  `db:"user_name"`
	UserEmail     string  `db:"user_email"`
	UserPhone     *string `db:"user_phone"`
	TableNumber   int     `db:"table_number"`
	TableCapacity int     `db:"table_capacity"`
	TableLocation string  `db:"table_location"`
	ReviewID      *string `db:"review_id"`
	ReviewRating  *int    `db:"review_rating"`
	ReviewComment *string `db:"review_comment"`
}

type Stats struct {
	Total     int `db:"total"`
	Pending   int `db:"pending"`
	Confirmed int `db:"confirmed"`
	Finalized int `db:"finalized"`
	Cancelled int `db:"cancelled"`
	ThisMonth int `db:"this_month"`
}
