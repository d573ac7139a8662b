package store

import (
	"errors"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

var (
	ErrEmailExists          = errors.New("email already registered")
	ErrISBNExists           = errors.New("ISBN already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrBookUnavailable      = errors.New("book is not available")
	ErrBookHasActiveLoans   = errors.New("book has active borrow records")
	ErrRecordNotFound       = errors.New("borrow record not found")
	ErrAlreadyReturned      = errors.New("book already returned")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrReservationClosed    = errors.New("reservation already closed")
	ErrNotificationNotFound = errors.New("notification not found")
)

type MySQLStore struct {
	db *sqlx.DB
}

func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) InitSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			member_id VARCHAR(40) NOT NULL UNIQUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			isbn VARCHAR(32) NOT NULL UNIQUE,
			publisher VARCHAR(255) NOT NULL DEFAULT '',
			publication_date DATETIME,
			category VARCHAR(32) NOT NULL DEFAULT 'Other',
			description TEXT NOT NULL,
			total_copies INT NOT NULL,
			available_copies INT NOT NULL,
			language VARCHAR(50) NOT NULL DEFAULT 'English',
			pages INT NOT NULL DEFAULT 0,
			cover_image VARCHAR(255) NOT NULL DEFAULT '',
			added_by VARCHAR(36) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS borrow_records (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			book_id VARCHAR(36) NOT NULL,
			borrow_date DATETIME NOT NULL,
			due_date DATETIME NOT NULL,
			return_date DATETIME,
			status VARCHAR(20) NOT NULL,
			INDEX idx_borrow_user (user_id),
			INDEX idx_borrow_book (book_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			book_id VARCHAR(36) NOT NULL,
			reservation_date DATETIME NOT NULL,
			expected_available_date DATETIME,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			position INT NOT NULL DEFAULT 1,
			notes TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			INDEX idx_reservation_book (book_id),
			INDEX idx_reservation_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL,
			INDEX idx_notification_user (user_id)
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}
