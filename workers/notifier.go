package workers

import (
	"fmt"
	"log"
	"time"

	"library-api/models"
)

// LedgerStore is the slice of the store the notifier needs.
type LedgerStore interface {
	ListActiveBorrowRecords() ([]models.BorrowRecord, error)
	CreateNotification(userID, message string) error
}

// Notifier periodically reminds borrowers about overdue and soon-due books.
// Duplicate suppression lives in the store, so repeat passes are harmless.
type Notifier struct {
	Store    LedgerStore
	Interval time.Duration
	stop     chan struct{}
}

func NewNotifier(store LedgerStore) *Notifier {
	return &Notifier{
		Store:    store,
		Interval: 24 * time.Hour,
		stop:     make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go func() {
		n.Check()
		ticker := time.NewTicker(n.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n.Check()
			case <-n.stop:
				return
			}
		}
	}()
}

func (n *Notifier) Stop() {
	close(n.stop)
}

func (n *Notifier) Check() {
	records, err := n.Store.ListActiveBorrowRecords()
	if err != nil {
		log.Println("notifier: listing active records:", err)
		return
	}

	now := time.Now()
	for _, rec := range records {
		title := "your borrowed book"
		if rec.Book != nil {
			title = "'" + rec.Book.Title + "'"
		}

		if now.After(rec.DueDate) {
			daysLate := int(now.Sub(rec.DueDate).Hours() / 24)
			if daysLate < 1 {
				daysLate = 1
			}
			msg := fmt.Sprintf("Overdue: %s was due %d day(s) ago. Please return it.", title, daysLate)
			if err := n.Store.CreateNotification(rec.UserID, msg); err != nil {
				log.Println("notifier: creating notification:", err)
			}
			continue
		}

		if until := rec.DueDate.Sub(now); until < 24*time.Hour {
			msg := fmt.Sprintf("Reminder: %s is due back %s.", title, rec.DueDate.Format("02 Jan 2006"))
			if err := n.Store.CreateNotification(rec.UserID, msg); err != nil {
				log.Println("notifier: creating notification:", err)
			}
		}
	}
}
