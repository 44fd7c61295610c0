package me

import (
	"log/slog"
	"net/http"

	"github.com/kolobyte/account-auth/internal/auth"
	"github.com/kolobyte/account-auth/internal/http/middleware"
	"github.com/kolobyte/account-auth/internal/httputil"
)

// Handler serves the authenticated account's own record.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// GetMe returns the current account. Pass ?include=verifications to
// eager-load the account's verification records.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	include := r.URL.Query().Get("include") == "verifications"

	account, err := h.service.GetAccount(r.Context(), accountID, include)
	if err != nil {
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, account)
}
