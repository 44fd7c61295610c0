package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kolobyte/account-auth/internal/auth"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	return auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("test-secret-key-at-least-32-chars!!"),
	})
}

func protectedHandler(t *testing.T, wantID uuid.UUID) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetAccountID(r.Context())
		if !ok {
			t.Error("account id missing from request context")
		}
		if id != wantID {
			t.Errorf("context account id = %s, want %s", id, wantID)
		}
		if _, ok := GetClaims(r.Context()); !ok {
			t.Error("claims missing from request context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := newTokens(t)
	accountID := uuid.New()

	pair, err := tokens.GeneratePair(accountID, "Ada Lovelace")
	if err != nil {
		t.Fatalf("GeneratePair failed: %v", err)
	}

	handler := Auth(tokens)(protectedHandler(t, accountID))

	req := httptest.NewRequest("GET", "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuth_Rejections(t *testing.T) {
	tokens := newTokens(t)

	expired := auth.NewTokenService(auth.TokenConfig{
		Secret:         []byte("test-secret-key-at-least-32-chars!!"),
		AccessTokenTTL: -time.Minute,
	})
	expiredPair, err := expired.GeneratePair(uuid.New(), "")
	if err != nil {
		t.Fatalf("GeneratePair failed: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not a bearer scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "malformed token", header: "Bearer not-a-jwt"},
		{name: "expired token", header: "Bearer " + expiredPair.AccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			}))

			req := httptest.NewRequest("GET", "/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("got status %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}
