package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-api/middleware"
	"library-api/models"
	"library-api/utils"
)

type ReservationHandler struct {
	Store Store
}

func NewReservationHandler(store Store) *ReservationHandler {
	return &ReservationHandler{Store: store}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var payload models.ReservationRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.BookID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide book ID")
		return
	}

	reservation, err := h.Store.CreateReservation(claims.UserID, payload.BookID, payload.Notes)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusCreated, "Reservation created successfully", reservation)
}

// ListUserReservations is self-or-admin.
func (h *ReservationHandler) ListUserReservations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	userID := mux.Vars(r)["userId"]
	if claims.UserID != userID && claims.Role != models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, "Not authorized to view these reservations")
		return
	}

	reservations, err := h.Store.ListReservationsByUser(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, reservations, len(reservations))
}

// CancelReservation is restricted to the holder or an admin.
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	id := mux.Vars(r)["id"]
	reservation, err := h.Store.GetReservationByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if reservation.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, "Not authorized to cancel this reservation")
		return
	}

	reservation, err = h.Store.CancelReservation(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "Reservation cancelled", reservation)
}
