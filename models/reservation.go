package models

import "time"

const (
	ReservationStatusPending   = "pending"
	ReservationStatusReady     = "ready"
	ReservationStatusPickedUp  = "picked-up"
	ReservationStatusCancelled = "cancelled"
)

// Reservation queues a user for a book with no available copies. Position is
// the place in the per-book queue; the oldest pending reservation is promoted
// to "ready" when a copy comes back.
type Reservation struct {
	ID                    string       `json:"id" db:"id"`
	UserID                string       `json:"userId" db:"user_id"`
	BookID                string       `json:"bookId" db:"book_id"`
	Book                  *BookSummary `json:"book,omitempty"`
	ReservationDate       time.Time    `json:"reservationDate" db:"reservation_date"`
	ExpectedAvailableDate *time.Time   `json:"expectedAvailableDate,omitempty" db:"expected_available_date"`
	Status                string       `json:"status" db:"status"`
	Position              int          `json:"position" db:"position"`
	Notes                 string       `json:"notes,omitempty" db:"notes"`
	CreatedAt             time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time    `json:"updatedAt" db:"updated_at"`
}

type ReservationRequest struct {
	BookID string `json:"bookId"`
	Notes  string `json:"notes"`
}
