package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthtrack/backend/internal/apperror"
	"github.com/healthtrack/backend/internal/auth"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/service"
)

// AuthHandler exposes signup, login and the "me" identity lookup.
//
// Requests are decoded into explicit per-operation structs here at the
// boundary; the AccountService only ever sees plain values, never HTTP.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body for signup and login. The user never
// includes the password hash (model.User excludes it from JSON).
type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup
// Body: {"name": ..., "email": ..., "password": ...}
// 201 with {token, user} on success; 400 on validation failure; 409 when the
// email is already registered.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	result, err := h.accounts.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login
// Body: {"email": ..., "password": ...}
// 200 with {token, user} on success; 401 with the same body for unknown
// email and wrong password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/auth/me (behind RequireAuth)
// 404 if the account was deleted after the token was issued.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't assume the wiring.
		WriteError(w, apperror.Unauthenticated())
		return
	}

	user, err := h.accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
