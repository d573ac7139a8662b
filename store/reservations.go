package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"library-api/models"
)

// CreateReservation queues the user for the book. Position is one past the
// current end of the per-book queue; the count and insert share a
// transaction so two concurrent reservations cannot claim the same slot.
func (s *MySQLStore) CreateReservation(userID, bookID, notes string) (*models.Reservation, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.Get(&exists, "SELECT COUNT(*) FROM books WHERE id = ? FOR UPDATE", bookID); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrBookNotFound
	}

	var open int
	err = tx.Get(&open,
		"SELECT COUNT(*) FROM reservations WHERE book_id = ? AND status IN (?, ?)",
		bookID, models.ReservationStatusPending, models.ReservationStatusReady)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resv := &models.Reservation{
		ID:              uuid.NewString(),
		UserID:          userID,
		BookID:          bookID,
		ReservationDate: now,
		Status:          models.ReservationStatusPending,
		Position:        open + 1,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err = tx.Exec(
		`INSERT INTO reservations (id, user_id, book_id, reservation_date, status, position, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resv.ID, resv.UserID, resv.BookID, resv.ReservationDate, resv.Status,
		resv.Position, resv.Notes, resv.CreatedAt, resv.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return resv, nil
}

func (s *MySQLStore) GetReservationByID(id string) (*models.Reservation, error) {
	var resv models.Reservation
	err := s.db.Get(&resv,
		`SELECT id, user_id, book_id, reservation_date, expected_available_date, status, position, notes, created_at, updated_at
		 FROM reservations WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resv, nil
}

func (s *MySQLStore) ListReservationsByUser(userID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.Select(&reservations,
		`SELECT id, user_id, book_id, reservation_date, expected_available_date, status, position, notes, created_at, updated_at
		 FROM reservations WHERE user_id = ? ORDER BY reservation_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	for i := range reservations {
		var b models.BookSummary
		err := s.db.Get(&b, "SELECT id, title, author, isbn FROM books WHERE id = ?", reservations[i].BookID)
		if err == nil {
			reservations[i].Book = &b
		}
	}
	return reservations, nil
}

// CancelReservation closes a pending or ready reservation; picked-up and
// cancelled ones are final.
func (s *MySQLStore) CancelReservation(id string) (*models.Reservation, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var resv models.Reservation
	err = tx.Get(&resv,
		`SELECT id, user_id, book_id, reservation_date, expected_available_date, status, position, notes, created_at, updated_at
		 FROM reservations WHERE id = ? FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}

	if resv.Status != models.ReservationStatusPending && resv.Status != models.ReservationStatusReady {
		return nil, ErrReservationClosed
	}

	now := time.Now()
	_, err = tx.Exec("UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
		models.ReservationStatusCancelled, now, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	resv.Status = models.ReservationStatusCancelled
	resv.UpdatedAt = now
	return &resv, nil
}
