package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"library-api/models"
)

// BorrowBook runs the availability check and the record creation as one
// transaction. The decrement is conditional on a copy remaining, so two
// racing borrows on the last copy cannot both pass.
func (s *MySQLStore) BorrowBook(userID, bookID string, dueDate time.Time) (*models.BorrowRecord, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.Get(&exists, "SELECT COUNT(*) FROM books WHERE id = ?", bookID); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrBookNotFound
	}

	now := time.Now()
	res, err := tx.Exec(
		"UPDATE books SET available_copies = available_copies - 1, updated_at = ? WHERE id = ? AND available_copies > 0",
		now, bookID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrBookUnavailable
	}

	rec := &models.BorrowRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    dueDate,
		Status:     models.BorrowStatusActive,
	}
	_, err = tx.Exec(
		"INSERT INTO borrow_records (id, user_id, book_id, borrow_date, due_date, status) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.UserID, rec.BookID, rec.BorrowDate, rec.DueDate, rec.Status)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ReturnBook flips the record to returned exactly once and gives the copy
// back, clamped so available_copies never exceeds total_copies. If the book
// has pending reservations the oldest one is promoted to ready and its
// holder notified, all inside the same transaction.
func (s *MySQLStore) ReturnBook(recordID string) (*models.BorrowRecord, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rec models.BorrowRecord
	err = tx.Get(&rec,
		"SELECT id, user_id, book_id, borrow_date, due_date, return_date, status FROM borrow_records WHERE id = ? FOR UPDATE",
		recordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := tx.Exec(
		"UPDATE borrow_records SET status = ?, return_date = ? WHERE id = ? AND status = ?",
		models.BorrowStatusReturned, now, recordID, models.BorrowStatusActive)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAlreadyReturned
	}

	_, err = tx.Exec(
		"UPDATE books SET available_copies = LEAST(available_copies + 1, total_copies), updated_at = ? WHERE id = ?",
		now, rec.BookID)
	if err != nil {
		return nil, err
	}

	if err := s.promoteReservation(tx, rec.BookID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rec.Status = models.BorrowStatusReturned
	rec.ReturnDate = &now
	return &rec, nil
}

const borrowJoinQuery = `
	SELECT r.id, r.user_id, r.book_id, r.borrow_date, r.due_date, r.return_date, r.status,
	       u.first_name AS user_first_name, u.last_name AS user_last_name, u.email AS user_email,
	       b.title AS book_title, b.author AS book_author, b.isbn AS book_isbn
	FROM borrow_records r
	LEFT JOIN users u ON r.user_id = u.id
	LEFT JOIN books b ON r.book_id = b.id`

// borrowJoinRow carries a record plus joined borrower/book summary fields.
// The joins are LEFT because users and books are hard-deleted without
// cascading to the ledger.
type borrowJoinRow struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	BookID        string         `db:"book_id"`
	BorrowDate    time.Time      `db:"borrow_date"`
	DueDate       time.Time      `db:"due_date"`
	ReturnDate    *time.Time     `db:"return_date"`
	Status        string         `db:"status"`
	UserFirstName sql.NullString `db:"user_first_name"`
	UserLastName  sql.NullString `db:"user_last_name"`
	UserEmail     sql.NullString `db:"user_email"`
	BookTitle     sql.NullString `db:"book_title"`
	BookAuthor    sql.NullString `db:"book_author"`
	BookISBN      sql.NullString `db:"book_isbn"`
}

func (r *borrowJoinRow) toRecord() models.BorrowRecord {
	rec := models.BorrowRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		BorrowDate: r.BorrowDate,
		DueDate:    r.DueDate,
		ReturnDate: r.ReturnDate,
		Status:     r.Status,
	}
	if r.UserEmail.Valid {
		rec.User = &models.UserSummary{
			ID:        r.UserID,
			FirstName: r.UserFirstName.String,
			LastName:  r.UserLastName.String,
			Email:     r.UserEmail.String,
		}
	}
	if r.BookTitle.Valid {
		rec.Book = &models.BookSummary{
			ID:     r.BookID,
			Title:  r.BookTitle.String,
			Author: r.BookAuthor.String,
			ISBN:   r.BookISBN.String,
		}
	}
	return rec
}

func (s *MySQLStore) GetBorrowRecordByID(id string) (*models.BorrowRecord, error) {
	var row borrowJoinRow
	err := s.db.Get(&row, borrowJoinQuery+" WHERE r.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := row.toRecord()
	return &rec, nil
}

func (s *MySQLStore) ListBorrowRecords() ([]models.BorrowRecord, error) {
	var rows []borrowJoinRow
	err := s.db.Select(&rows, borrowJoinQuery+" ORDER BY r.borrow_date DESC")
	if err != nil {
		return nil, err
	}
	records := make([]models.BorrowRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toRecord())
	}
	return records, nil
}

func (s *MySQLStore) ListBorrowRecordsByUser(userID string) ([]models.BorrowRecord, error) {
	var rows []borrowJoinRow
	err := s.db.Select(&rows, borrowJoinQuery+" WHERE r.user_id = ? ORDER BY r.borrow_date DESC", userID)
	if err != nil {
		return nil, err
	}
	records := make([]models.BorrowRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toRecord())
	}
	return records, nil
}

// ListActiveBorrowRecords feeds the overdue notifier.
func (s *MySQLStore) ListActiveBorrowRecords() ([]models.BorrowRecord, error) {
	var rows []borrowJoinRow
	err := s.db.Select(&rows, borrowJoinQuery+" WHERE r.status = ?", models.BorrowStatusActive)
	if err != nil {
		return nil, err
	}
	records := make([]models.BorrowRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toRecord())
	}
	return records, nil
}

// promoteReservation moves the oldest pending reservation on the book to
// ready and writes a pickup notification for its holder.
func (s *MySQLStore) promoteReservation(tx *sqlx.Tx, bookID string, now time.Time) error {
	var next struct {
		ID     string `db:"id"`
		UserID string `db:"user_id"`
	}
	err := tx.Get(&next,
		"SELECT id, user_id FROM reservations WHERE book_id = ? AND status = ? ORDER BY position, created_at LIMIT 1 FOR UPDATE",
		bookID, models.ReservationStatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		"UPDATE reservations SET status = ?, expected_available_date = ?, updated_at = ? WHERE id = ?",
		models.ReservationStatusReady, now, now, next.ID)
	if err != nil {
		return err
	}

	var title string
	if err := tx.Get(&title, "SELECT title FROM books WHERE id = ?", bookID); err != nil {
		return err
	}
	_, err = tx.Exec(
		"INSERT INTO notifications (id, user_id, message, is_read, created_at) VALUES (?, ?, ?, FALSE, ?)",
		uuid.NewString(), next.UserID,
		fmt.Sprintf("Your reserved book '%s' is ready for pickup", title), now)
	return err
}
