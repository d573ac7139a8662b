package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"library-api/middleware"
	"library-api/models"
	"library-api/utils"
)

type BorrowHandler struct {
	Store Store
	Hub   *utils.Hub
}

func NewBorrowHandler(store Store, hub *utils.Hub) *BorrowHandler {
	return &BorrowHandler{Store: store, Hub: hub}
}

// Borrow checks availability and creates the record in a single store call;
// the store keeps the check-and-decrement atomic per book.
func (h *BorrowHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var payload models.BorrowRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.BookID == "" || payload.DueDate.IsZero() {
		utils.WriteError(w, http.StatusBadRequest, "Please provide book ID and due date")
		return
	}

	record, err := h.Store.BorrowBook(claims.UserID, payload.BookID, payload.DueDate)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.notify(claims.UserID, h.borrowMessage(record))

	utils.WriteData(w, http.StatusCreated, "Book borrowed successfully", record)
}

// Return is restricted to the original borrower or an admin.
func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	id := mux.Vars(r)["id"]
	record, err := h.Store.GetBorrowRecordByID(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if record.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, "Not authorized to return this record")
		return
	}

	record, err = h.Store.ReturnBook(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.notify(record.UserID, h.returnMessage(record))

	utils.WriteData(w, http.StatusOK, "Book returned successfully", record)
}

func (h *BorrowHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListBorrowRecords()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, records, len(records))
}

// ListUserRecords is self-or-admin.
func (h *BorrowHandler) ListUserRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	userID := mux.Vars(r)["userId"]
	if claims.UserID != userID && claims.Role != models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, "Not authorized to view these records")
		return
	}

	records, err := h.Store.ListBorrowRecordsByUser(userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, records, len(records))
}

func (h *BorrowHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.Store.GetBorrowRecordByID(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "", record)
}

func (h *BorrowHandler) borrowMessage(record *models.BorrowRecord) string {
	title := h.bookTitle(record.BookID)
	return fmt.Sprintf("Borrowed '%s', due back %s", title, record.DueDate.Format("02 Jan 2006"))
}

func (h *BorrowHandler) returnMessage(record *models.BorrowRecord) string {
	return fmt.Sprintf("Returned '%s'", h.bookTitle(record.BookID))
}

func (h *BorrowHandler) bookTitle(bookID string) string {
	book, err := h.Store.GetBookByID(bookID)
	if err != nil {
		return "book"
	}
	return book.Title
}

// notify writes the durable notification and pushes it to an open socket.
func (h *BorrowHandler) notify(userID, message string) {
	h.Store.CreateNotification(userID, message)
	if h.Hub != nil {
		h.Hub.Notify(userID, message)
	}
}
