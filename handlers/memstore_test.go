package handlers_test

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-api/models"
	"library-api/store"
)

// memStore is an in-memory double for handlers.Store. The single mutex gives
// it the same per-book atomicity the SQL store gets from its transactions.
type memStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	books         map[string]*models.Book
	records       map[string]*models.BorrowRecord
	reservations  map[string]*models.Reservation
	notifications map[string]*models.Notification
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[string]*models.User),
		books:         make(map[string]*models.Book),
		records:       make(map[string]*models.BorrowRecord),
		reservations:  make(map[string]*models.Reservation),
		notifications: make(map[string]*models.Notification),
	}
}

func (m *memStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	user.ID = uuid.NewString()
	user.MemberID = "LM" + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memStore) GetUserByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memStore) ListUsers() ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *memStore) UpdateUser(id string, req *models.UserUpdateRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.Address != nil {
		u.Address = *req.Address
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	u.UpdatedAt = time.Now()

	clone := *u
	return &clone, nil
}

func (m *memStore) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) CreateBook(book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.books {
		if b.ISBN == book.ISBN {
			return store.ErrISBNExists
		}
	}

	book.ID = uuid.NewString()
	book.AvailableCopies = book.TotalCopies
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	clone := *book
	m.books[book.ID] = &clone
	return nil
}

func (m *memStore) GetBookByID(id string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memStore) ListBooks() ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	books := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		books = append(books, *b)
	}
	return books, nil
}

func (m *memStore) SearchBooks(query string) ([]models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(query)
	var books []models.Book
	for _, b := range m.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.ISBN), q) {
			books = append(books, *b)
		}
	}
	return books, nil
}

func (m *memStore) UpdateBook(id string, req *models.BookUpdateRequest) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Publisher != nil {
		b.Publisher = *req.Publisher
	}
	if req.PublicationDate != nil {
		b.PublicationDate = req.PublicationDate
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Language != nil {
		b.Language = *req.Language
	}
	if req.Pages != nil {
		b.Pages = *req.Pages
	}
	if req.CoverImage != nil {
		b.CoverImage = *req.CoverImage
	}
	if req.TotalCopies != nil {
		onLoan := b.TotalCopies - b.AvailableCopies
		b.TotalCopies = *req.TotalCopies
		b.AvailableCopies = b.TotalCopies - onLoan
		if b.AvailableCopies < 0 {
			b.AvailableCopies = 0
		}
		if b.AvailableCopies > b.TotalCopies {
			b.AvailableCopies = b.TotalCopies
		}
	}
	b.UpdatedAt = time.Now()

	clone := *b
	return &clone, nil
}

func (m *memStore) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return store.ErrBookNotFound
	}
	for _, rec := range m.records {
		if rec.BookID == id && rec.Status == models.BorrowStatusActive {
			return store.ErrBookHasActiveLoans
		}
	}
	delete(m.books, id)
	for _, resv := range m.reservations {
		if resv.BookID == id &&
			(resv.Status == models.ReservationStatusPending || resv.Status == models.ReservationStatusReady) {
			resv.Status = models.ReservationStatusCancelled
		}
	}
	return nil
}

func (m *memStore) BorrowBook(userID, bookID string, dueDate time.Time) (*models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[bookID]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	if b.AvailableCopies <= 0 {
		return nil, store.ErrBookUnavailable
	}
	b.AvailableCopies--

	rec := &models.BorrowRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: time.Now(),
		DueDate:    dueDate,
		Status:     models.BorrowStatusActive,
	}
	clone := *rec
	m.records[rec.ID] = &clone
	return rec, nil
}

func (m *memStore) ReturnBook(recordID string) (*models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[recordID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	if rec.Status == models.BorrowStatusReturned {
		return nil, store.ErrAlreadyReturned
	}

	now := time.Now()
	rec.Status = models.BorrowStatusReturned
	rec.ReturnDate = &now

	if b, ok := m.books[rec.BookID]; ok {
		b.AvailableCopies++
		if b.AvailableCopies > b.TotalCopies {
			b.AvailableCopies = b.TotalCopies
		}
	}

	m.promoteOldestPending(rec.BookID, now)

	clone := *rec
	return &clone, nil
}

// promoteOldestPending mirrors the SQL store's reservation promotion.
func (m *memStore) promoteOldestPending(bookID string, now time.Time) {
	var pending []*models.Reservation
	for _, resv := range m.reservations {
		if resv.BookID == bookID && resv.Status == models.ReservationStatusPending {
			pending = append(pending, resv)
		}
	}
	if len(pending) == 0 {
		return
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Position != pending[j].Position {
			return pending[i].Position < pending[j].Position
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	next := pending[0]
	next.Status = models.ReservationStatusReady
	next.ExpectedAvailableDate = &now
	next.UpdatedAt = now

	title := "book"
	if b, ok := m.books[bookID]; ok {
		title = b.Title
	}
	m.createNotificationLocked(next.UserID, "Your reserved book '"+title+"' is ready for pickup", now)
}

func (m *memStore) GetBorrowRecordByID(id string) (*models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	clone := m.expandLocked(rec)
	return &clone, nil
}

func (m *memStore) ListBorrowRecords() ([]models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]models.BorrowRecord, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, m.expandLocked(rec))
	}
	return records, nil
}

func (m *memStore) ListBorrowRecordsByUser(userID string) ([]models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []models.BorrowRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			records = append(records, m.expandLocked(rec))
		}
	}
	return records, nil
}

func (m *memStore) ListActiveBorrowRecords() ([]models.BorrowRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []models.BorrowRecord
	for _, rec := range m.records {
		if rec.Status == models.BorrowStatusActive {
			records = append(records, m.expandLocked(rec))
		}
	}
	return records, nil
}

func (m *memStore) expandLocked(rec *models.BorrowRecord) models.BorrowRecord {
	clone := *rec
	if u, ok := m.users[rec.UserID]; ok {
		clone.User = &models.UserSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
	}
	if b, ok := m.books[rec.BookID]; ok {
		clone.Book = &models.BookSummary{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
	}
	return clone
}

func (m *memStore) CreateReservation(userID, bookID, notes string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[bookID]; !ok {
		return nil, store.ErrBookNotFound
	}

	open := 0
	for _, resv := range m.reservations {
		if resv.BookID == bookID &&
			(resv.Status == models.ReservationStatusPending || resv.Status == models.ReservationStatusReady) {
			open++
		}
	}

	now := time.Now()
	resv := &models.Reservation{
		ID:              uuid.NewString(),
		UserID:          userID,
		BookID:          bookID,
		ReservationDate: now,
		Status:          models.ReservationStatusPending,
		Position:        open + 1,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	clone := *resv
	m.reservations[resv.ID] = &clone
	return resv, nil
}

func (m *memStore) GetReservationByID(id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resv, ok := m.reservations[id]
	if !ok {
		return nil, store.ErrReservationNotFound
	}
	clone := *resv
	return &clone, nil
}

func (m *memStore) ListReservationsByUser(userID string) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var reservations []models.Reservation
	for _, resv := range m.reservations {
		if resv.UserID == userID {
			reservations = append(reservations, *resv)
		}
	}
	return reservations, nil
}

func (m *memStore) CancelReservation(id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resv, ok := m.reservations[id]
	if !ok {
		return nil, store.ErrReservationNotFound
	}
	if resv.Status != models.ReservationStatusPending && resv.Status != models.ReservationStatusReady {
		return nil, store.ErrReservationClosed
	}

	resv.Status = models.ReservationStatusCancelled
	resv.UpdatedAt = time.Now()
	clone := *resv
	return &clone, nil
}

func (m *memStore) CreateNotification(userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createNotificationLocked(userID, message, time.Now())
	return nil
}

func (m *memStore) createNotificationLocked(userID, message string, now time.Time) {
	for _, n := range m.notifications {
		if n.UserID == userID && n.Message == message {
			return
		}
	}
	id := uuid.NewString()
	m.notifications[id] = &models.Notification{
		ID: id, UserID: userID, Message: message, CreatedAt: now,
	}
}

func (m *memStore) ListNotifications(userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var notifs []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			notifs = append(notifs, *n)
		}
	}
	return notifs, nil
}

func (m *memStore) MarkNotificationRead(id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return store.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (m *memStore) DeleteNotification(id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return store.ErrNotificationNotFound
	}
	delete(m.notifications, id)
	return nil
}
