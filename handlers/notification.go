package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-api/middleware"
	"library-api/utils"
)

type NotificationHandler struct {
	Store Store
}

func NewNotificationHandler(store Store) *NotificationHandler {
	return &NotificationHandler{Store: store}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	notifs, err := h.Store.ListNotifications(claims.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, notifs, len(notifs))
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	if err := h.Store.MarkNotificationRead(mux.Vars(r)["id"], claims.UserID); err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Notification marked as read")
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	if err := h.Store.DeleteNotification(mux.Vars(r)["id"], claims.UserID); err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Notification deleted")
}
