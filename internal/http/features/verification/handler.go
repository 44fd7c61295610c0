package verification

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kolobyte/account-auth/internal/auth"
	"github.com/kolobyte/account-auth/internal/domain"
	"github.com/kolobyte/account-auth/internal/httputil"
)

// Handler handles verification code issuance and consumption.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new verification handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// ResendRequest represents a code reissue request.
type ResendRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// VerifyEmailRequest represents an email verification request.
type VerifyEmailRequest struct {
	OTP string `json:"otp"`
}

// ForgotPasswordRequest represents a password reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a password reset completion request.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResendOTP reissues a verification code for an account.
// POST /v1/auth/resend-otp
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	purpose := domain.VerificationPurpose(req.Purpose)
	if purpose != domain.PurposeEmailVerification && purpose != domain.PurposePasswordReset {
		httputil.Error(w, http.StatusBadRequest, "unknown verification purpose")
		return
	}

	if err := h.service.ReissueVerification(r.Context(), req.Email, purpose); err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("failed to reissue verification code", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// VerifyEmail completes email verification with a one-time code.
// POST /v1/auth/verify-email
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OTP == "" {
		httputil.Error(w, http.StatusBadRequest, "otp is required")
		return
	}

	account, err := h.service.VerifyEmail(r.Context(), req.OTP)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("failed to verify email", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	h.logger.Info("email verified", "account_id", account.ID)

	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Your email: %s has been verified", account.Email),
	})
}

// ForgotPassword issues a password-reset code.
// POST /v1/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("failed to request password reset", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "We've sent a password reset code to your mail",
	})
}

// ResetPassword completes a password reset with a one-time code.
// POST /v1/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "token and password are required")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("failed to reset password", "error", err)
		}
		httputil.DomainError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password reset was successful",
	})
}
