package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"library-api/middleware"
	"library-api/models"
	"library-api/utils"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	Store Store
}

func NewAuthHandler(store Store) *AuthHandler {
	return &AuthHandler{Store: store}
}

// Register creates a user with role "user" and answers with a fresh token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.FirstName == "" || payload.LastName == "" || payload.Email == "" || payload.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	user := &models.User{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  string(hashed),
		Phone:     payload.Phone,
		Address:   payload.Address,
		Role:      models.RoleUser,
	}
	if err := h.Store.CreateUser(user); err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Response{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login verifies credentials. A missing account and a wrong password answer
// identically so the endpoint cannot be used to enumerate emails.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload models.LoginRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Email == "" || payload.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.Store.GetUserByEmail(payload.Email)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	user, err := h.Store.GetUserByID(claims.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "", user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteList(w, http.StatusOK, users, len(users))
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUserByID(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "", user)
}

// UpdateUser is self-or-admin; changing the role additionally requires admin.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	id := mux.Vars(r)["id"]
	if claims.UserID != id && claims.Role != models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, "Not authorized to update this user")
		return
	}

	var payload models.UserUpdateRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Role != nil {
		if claims.Role != models.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, "Only an admin can change roles")
			return
		}
		if !models.ValidRole(*payload.Role) {
			utils.WriteError(w, http.StatusBadRequest, "Invalid role")
			return
		}
	}

	user, err := h.Store.UpdateUser(id, &payload)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, "User updated successfully", user)
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteUser(mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err)
		return
	}

	utils.WriteMessage(w, http.StatusOK, "User deleted successfully")
}
