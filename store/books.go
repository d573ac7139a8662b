package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"library-api/models"
)

const bookColumns = `id, title, author, isbn, publisher, publication_date, category, description,
	total_copies, available_copies, language, pages, cover_image, added_by, created_at, updated_at`

// CreateBook initializes available_copies equal to total_copies and fills in
// the generated id and timestamps.
func (s *MySQLStore) CreateBook(book *models.Book) error {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM books WHERE isbn = ?", book.ISBN); err != nil {
		return err
	}
	if count > 0 {
		return ErrISBNExists
	}

	book.ID = uuid.NewString()
	book.AvailableCopies = book.TotalCopies
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := s.db.Exec(
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, book.ISBN, book.Publisher, book.PublicationDate,
		book.Category, book.Description, book.TotalCopies, book.AvailableCopies,
		book.Language, book.Pages, book.CoverImage, book.AddedBy, book.CreatedAt, book.UpdatedAt,
	)
	return err
}

func (s *MySQLStore) GetBookByID(id string) (*models.Book, error) {
	var book models.Book
	err := s.db.Get(&book, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	s.attachCreator(&book)
	return &book, nil
}

func (s *MySQLStore) ListBooks() ([]models.Book, error) {
	var books []models.Book
	err := s.db.Select(&books, `SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for i := range books {
		s.attachCreator(&books[i])
	}
	return books, nil
}

// SearchBooks matches the query case-insensitively as a substring of title,
// author or ISBN.
func (s *MySQLStore) SearchBooks(query string) ([]models.Book, error) {
	q := "%" + query + "%"
	var books []models.Book
	err := s.db.Select(&books,
		`SELECT `+bookColumns+` FROM books
		 WHERE title LIKE ? OR author LIKE ? OR isbn LIKE ?
		 ORDER BY created_at DESC`, q, q, q)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateBook applies a partial update inside a transaction. The row is locked
// so a concurrent borrow cannot slip between the read and the write. Changing
// total_copies shifts available_copies by the same amount, clamped to
// [0, total_copies], so copies currently on loan stay accounted for.
func (s *MySQLStore) UpdateBook(id string, req *models.BookUpdateRequest) (*models.Book, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var book models.Book
	err = tx.Get(&book, `SELECT `+bookColumns+` FROM books WHERE id = ? FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.PublicationDate != nil {
		book.PublicationDate = req.PublicationDate
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.Pages != nil {
		book.Pages = *req.Pages
	}
	if req.CoverImage != nil {
		book.CoverImage = *req.CoverImage
	}
	if req.TotalCopies != nil {
		onLoan := book.TotalCopies - book.AvailableCopies
		book.TotalCopies = *req.TotalCopies
		book.AvailableCopies = book.TotalCopies - onLoan
		if book.AvailableCopies < 0 {
			book.AvailableCopies = 0
		}
		if book.AvailableCopies > book.TotalCopies {
			book.AvailableCopies = book.TotalCopies
		}
	}
	book.UpdatedAt = time.Now()

	_, err = tx.Exec(
		`UPDATE books SET title=?, author=?, publisher=?, publication_date=?, category=?, description=?,
			total_copies=?, available_copies=?, language=?, pages=?, cover_image=?, updated_at=?
		 WHERE id=?`,
		book.Title, book.Author, book.Publisher, book.PublicationDate, book.Category, book.Description,
		book.TotalCopies, book.AvailableCopies, book.Language, book.Pages, book.CoverImage, book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook refuses to remove a book that still has active borrow records.
// Open reservations are cancelled.
func (s *MySQLStore) DeleteBook(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var active int
	err = tx.Get(&active,
		"SELECT COUNT(*) FROM borrow_records WHERE book_id = ? AND status = ?",
		id, models.BorrowStatusActive)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrBookHasActiveLoans
	}

	res, err := tx.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookNotFound
	}

	_, err = tx.Exec(
		"UPDATE reservations SET status = ?, updated_at = ? WHERE book_id = ? AND status IN (?, ?)",
		models.ReservationStatusCancelled, time.Now(), id,
		models.ReservationStatusPending, models.ReservationStatusReady)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// attachCreator joins the adding user's summary onto the book for display.
// A missing user (hard-deleted) just leaves the summary empty.
func (s *MySQLStore) attachCreator(book *models.Book) {
	if book.AddedBy == "" {
		return
	}
	var u models.UserSummary
	err := s.db.Get(&u,
		"SELECT id, first_name, last_name, email FROM users WHERE id = ?", book.AddedBy)
	if err != nil {
		return
	}
	book.AddedByUser = &u
}
