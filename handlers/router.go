package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-api/middleware"
	"library-api/models"
	"library-api/utils"
)

// NewRouter wires the full route table. main mounts it behind the logging
// middleware; tests mount it directly.
func NewRouter(s Store, hub *utils.Hub) *mux.Router {
	authHandler := NewAuthHandler(s)
	bookHandler := NewBookHandler(s)
	borrowHandler := NewBorrowHandler(s, hub)
	reservationHandler := NewReservationHandler(s)
	notifHandler := NewNotificationHandler(s)

	staff := middleware.RequireRole(models.RoleLibrarian, models.RoleAdmin)
	admin := middleware.RequireRole(models.RoleAdmin)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", middleware.Auth(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	// Users
	api.Handle("/auth/users", middleware.Auth(admin(http.HandlerFunc(authHandler.ListUsers)))).Methods(http.MethodGet)
	api.Handle("/auth/users/{id}", middleware.Auth(http.HandlerFunc(authHandler.GetUser))).Methods(http.MethodGet)
	api.Handle("/auth/users/{id}", middleware.Auth(http.HandlerFunc(authHandler.UpdateUser))).Methods(http.MethodPut)
	api.Handle("/auth/users/{id}", middleware.Auth(admin(http.HandlerFunc(authHandler.DeleteUser)))).Methods(http.MethodDelete)

	// Books
	api.HandleFunc("/books", bookHandler.ListBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/search", bookHandler.SearchBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", bookHandler.GetBook).Methods(http.MethodGet)
	api.Handle("/books", middleware.Auth(staff(http.HandlerFunc(bookHandler.CreateBook)))).Methods(http.MethodPost)
	api.Handle("/books/{id}", middleware.Auth(staff(http.HandlerFunc(bookHandler.UpdateBook)))).Methods(http.MethodPut)
	api.Handle("/books/{id}", middleware.Auth(staff(http.HandlerFunc(bookHandler.DeleteBook)))).Methods(http.MethodDelete)

	// Borrow records
	api.Handle("/borrow", middleware.Auth(http.HandlerFunc(borrowHandler.Borrow))).Methods(http.MethodPost)
	api.Handle("/borrow", middleware.Auth(admin(http.HandlerFunc(borrowHandler.ListRecords)))).Methods(http.MethodGet)
	api.Handle("/borrow/user/{userId}", middleware.Auth(http.HandlerFunc(borrowHandler.ListUserRecords))).Methods(http.MethodGet)
	api.Handle("/borrow/{id}/return", middleware.Auth(http.HandlerFunc(borrowHandler.Return))).Methods(http.MethodPut)
	api.Handle("/borrow/{id}", middleware.Auth(http.HandlerFunc(borrowHandler.GetRecord))).Methods(http.MethodGet)

	// Reservations
	api.Handle("/reservations", middleware.Auth(http.HandlerFunc(reservationHandler.CreateReservation))).Methods(http.MethodPost)
	api.Handle("/reservations/user/{userId}", middleware.Auth(http.HandlerFunc(reservationHandler.ListUserReservations))).Methods(http.MethodGet)
	api.Handle("/reservations/{id}/cancel", middleware.Auth(http.HandlerFunc(reservationHandler.CancelReservation))).Methods(http.MethodPut)

	// Notifications
	api.Handle("/notifications", middleware.Auth(http.HandlerFunc(notifHandler.ListNotifications))).Methods(http.MethodGet)
	api.Handle("/notifications/{id}/read", middleware.Auth(http.HandlerFunc(notifHandler.MarkRead))).Methods(http.MethodPut)
	api.Handle("/notifications/{id}", middleware.Auth(http.HandlerFunc(notifHandler.DeleteNotification))).Methods(http.MethodDelete)

	// Health
	api.HandleFunc("/health", Health).Methods(http.MethodGet)

	// Notification stream
	if hub != nil {
		wsHandler := NewWSHandler(hub)
		r.Handle("/ws", middleware.Auth(http.HandlerFunc(wsHandler.Serve))).Methods(http.MethodGet)
	}

	return r
}
