package models

import "time"

const (
	BorrowStatusActive   = "active"
	BorrowStatusReturned = "returned"
)

// BorrowRecord links a user to a book for one loan. Status moves from
// "active" to "returned" exactly once and never back.
type BorrowRecord struct {
	ID         string       `json:"id" db:"id"`
	UserID     string       `json:"userId" db:"user_id"`
	BookID     string       `json:"bookId" db:"book_id"`
	User       *UserSummary `json:"user,omitempty"`
	Book       *BookSummary `json:"book,omitempty"`
	BorrowDate time.Time    `json:"borrowDate" db:"borrow_date"`
	DueDate    time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time   `json:"returnDate,omitempty" db:"return_date"`
	Status     string       `json:"status" db:"status"`
}

type BorrowRequest struct {
	BookID  string    `json:"bookId"`
	DueDate time.Time `json:"dueDate"`
}
