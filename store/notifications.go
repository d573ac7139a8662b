package store

import (
	"time"

	"github.com/google/uuid"

	"library-api/models"
)

// CreateNotification skips exact duplicates for the user so the periodic
// notifier does not pile up identical reminders.
func (s *MySQLStore) CreateNotification(userID, message string) error {
	var count int
	err := s.db.Get(&count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND message = ?", userID, message)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.db.Exec(
		"INSERT INTO notifications (id, user_id, message, is_read, created_at) VALUES (?, ?, ?, FALSE, ?)",
		uuid.NewString(), userID, message, time.Now())
	return err
}

func (s *MySQLStore) ListNotifications(userID string) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.db.Select(&notifs,
		"SELECT id, user_id, message, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkNotificationRead and DeleteNotification are scoped by owner so one
// user cannot touch another's notifications.

func (s *MySQLStore) MarkNotificationRead(id, userID string) error {
	res, err := s.db.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *MySQLStore) DeleteNotification(id, userID string) error {
	res, err := s.db.Exec(
		"DELETE FROM notifications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
