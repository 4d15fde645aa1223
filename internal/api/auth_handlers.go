package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
)

// AuthHandlers handles registration and login
type AuthHandlers struct {
	users *user.Service
	codec *auth.TokenCodec
}

func NewAuthHandlers(users *user.Service, codec *auth.TokenCodec) *AuthHandlers {
	return &AuthHandlers{
		users: users,
		codec: codec,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents account data in responses
type UserResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates an account and signs the new user in
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		respondJSONError(w, "username is required", http.StatusBadRequest)
		return
	}

	u, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserExists):
			respondJSONError(w, "username is already taken", http.StatusConflict)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "password must be at least 8 characters", http.StatusBadRequest)
		default:
			respondJSONError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.issueToken(w, r, http.StatusCreated, u)
}

// Login verifies credentials and issues a token
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondJSONError(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.issueToken(w, r, http.StatusOK, u)
}

// Logout clears the token cookie; the token itself stays valid until expiry
// since there is no revocation list.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *AuthHandlers) issueToken(w http.ResponseWriter, r *http.Request, status int, u user.User) {
	token, expiresAt, err := h.codec.Issue(u.Username, []string{u.Role})
	if err != nil {
		respondJSONError(w, "token issuance failed", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, status, AuthResponse{
		Token: token,
		User:  toUserResponse(u),
	})
}
