package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kolobyte/account-auth/internal/auth"
	"github.com/kolobyte/account-auth/internal/config"
	"github.com/kolobyte/account-auth/internal/http/features/accounts"
	"github.com/kolobyte/account-auth/internal/http/features/me"
	"github.com/kolobyte/account-auth/internal/http/features/verification"
	"github.com/kolobyte/account-auth/internal/http/middleware"
	"github.com/kolobyte/account-auth/internal/httputil"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	TokenService *auth.TokenService
	RateLimit    config.RateLimitConfig
}

// NewRouter creates an HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimit, cfg.Logger)

	accountsHandler := accounts.NewHandler(cfg.Logger, cfg.AuthService)
	verificationHandler := verification.NewHandler(cfg.Logger, cfg.AuthService)

	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/v1/auth/register", accountsHandler.Register)
		r.Post("/v1/auth/login", accountsHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["refresh"])
		r.Post("/v1/auth/refresh", accountsHandler.Refresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["code"])
		r.Post("/v1/auth/resend-otp", verificationHandler.ResendOTP)
		r.Post("/v1/auth/verify-email", verificationHandler.VerifyEmail)
		r.Post("/v1/auth/forgot-password", verificationHandler.ForgotPassword)
		r.Post("/v1/auth/reset-password", verificationHandler.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenService))

		meHandler := me.NewHandler(cfg.Logger, cfg.AuthService)
		r.Get("/v1/me", meHandler.GetMe)
	})

	return r
}
