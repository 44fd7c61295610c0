package accounts

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kolobyte/account-auth/internal/auth"
	"github.com/kolobyte/account-auth/internal/domain"
	"github.com/kolobyte/account-auth/internal/httputil"
)

// Handler handles registration, login and token refresh.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new accounts handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles account registration.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	account, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("registration failed", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "We've sent a verification email to your mail",
		"account": account,
	})
}

// Login handles account login.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("login failed", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"account": account,
		"token":   tokens,
	})
}

// Refresh exchanges a refresh token for a new access token.
// POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	accessToken, err := h.service.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":       "success",
		"access_token": accessToken,
	})
}
