package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"library-api/middleware"
	"library-api/models"
	"library-api/utils"
)

type BookHandler struct {
	Store Store
}

func NewBookHandler(store Store) *BookHandler {
	return &BookHandler{Store: store}
}

func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var payload models.BookRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Title == "" || payload.Author == "" || payload.ISBN == "" || payload.TotalCopies < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Please provide title, author, ISBN and at least one copy")
		return
	}

	category := payload.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	language := payload.Language
	if language == "" {
		language = "English"
	}

	book := &models.Book{
		Title:           payload.Title,
		Author:          payload.Author,
		ISBN:            payload.ISBN,
		Publisher:       payload.Publisher,
		PublicationDate: payload.PublicationDate,
		Category:        category,
		Description:     payload.Description,
		TotalCopies:     payload.TotalCopies,
		Language:        language,
		Pages:           payload.Pages,
		CoverImage:      payload.CoverImage,
		AddedBy:         claims.UserID,
	}
	if err := h.Store.CreateBook(book); err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusCreated, "Book created successfully", book)
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.Store.ListBooks()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, books, len(books))
}

func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide search query")
		return
	}

	books, err := h.Store.SearchBooks(query)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, books, len(books))
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.Store.GetBookByID(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "", book)
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var payload models.BookUpdateRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Category != nil && !models.ValidCategory(*payload.Category) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if payload.TotalCopies != nil && *payload.TotalCopies < 1 {
		utils.WriteError(w, http.StatusBadRequest, "Total copies must be at least 1")
		return
	}

	book, err := h.Store.UpdateBook(mux.Vars(r)["id"], &payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "Book updated successfully", book)
}

func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteBook(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Book deleted successfully")
}
