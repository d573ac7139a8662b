package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-api/handlers"
	"library-api/models"
	"library-api/utils"
)

// envelope mirrors the response shape for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

func newTestServer(t *testing.T) (*memStore, *httptest.Server) {
	t.Helper()
	ms := newMemStore()
	ts := httptest.NewServer(handlers.NewRouter(ms, nil))
	t.Cleanup(ts.Close)
	return ms, ts
}

func seedUser(t *testing.T, ms *memStore, email, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	require.NoError(t, ms.CreateUser(user))
	return user
}

func seedBook(t *testing.T, ms *memStore, title, isbn string, copies int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:       title,
		Author:      "Some Author",
		ISBN:        isbn,
		Category:    models.CategoryFiction,
		TotalCopies: copies,
		Language:    "English",
	}
	require.NoError(t, ms.CreateBook(book))
	return book
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}
