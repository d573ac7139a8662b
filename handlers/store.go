package handlers

import (
	"errors"
	"net/http"
	"time"

	"library-api/models"
	"library-api/store"
	"library-api/utils"
)

// Store is everything the HTTP surface needs from persistence. The MySQL
// store satisfies it; tests run against an in-memory double.
type Store interface {
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id string, req *models.UserUpdateRequest) (*models.User, error)
	DeleteUser(id string) error

	CreateBook(book *models.Book) error
	GetBookByID(id string) (*models.Book, error)
	ListBooks() ([]models.Book, error)
	SearchBooks(query string) ([]models.Book, error)
	UpdateBook(id string, req *models.BookUpdateRequest) (*models.Book, error)
	DeleteBook(id string) error

	BorrowBook(userID, bookID string, dueDate time.Time) (*models.BorrowRecord, error)
	ReturnBook(recordID string) (*models.BorrowRecord, error)
	GetBorrowRecordByID(id string) (*models.BorrowRecord, error)
	ListBorrowRecords() ([]models.BorrowRecord, error)
	ListBorrowRecordsByUser(userID string) ([]models.BorrowRecord, error)

	CreateReservation(userID, bookID, notes string) (*models.Reservation, error)
	GetReservationByID(id string) (*models.Reservation, error)
	ListReservationsByUser(userID string) ([]models.Reservation, error)
	CancelReservation(id string) (*models.Reservation, error)

	CreateNotification(userID, message string) error
	ListNotifications(userID string) ([]models.Notification, error)
	MarkNotificationRead(id, userID string) error
	DeleteNotification(id, userID string) error
}

// writeStoreError translates store failures into the response taxonomy:
// not-found 404, conflicts and validation 400, anything else a generic 500.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, store.ErrRecordNotFound),
		errors.Is(err, store.ErrReservationNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrISBNExists),
		errors.Is(err, store.ErrBookUnavailable),
		errors.Is(err, store.ErrBookHasActiveLoans),
		errors.Is(err, store.ErrAlreadyReturned),
		errors.Is(err, store.ErrReservationClosed):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
