package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kolobyte/account-auth/internal/domain"
)

// Default token lifetimes
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenConfig holds the token codec configuration. The signing secret is
// process-wide and loaded once at startup.
type TokenConfig struct {
	Secret          []byte
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Claims are the JWT claims carried by both access and refresh tokens. The
// subject is the account id.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// AccountID parses the account id carried in the subject claim.
func (c *Claims) AccountID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, domain.E(domain.KindForbidden, "invalid token subject")
	}
	return id, nil
}

// TokenService signs and verifies access/refresh token pairs.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a token service with defaults applied.
func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "account-auth"
	}
	return &TokenService{config: cfg}
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// GeneratePair issues a short-lived access token and a long-lived refresh
// token, both carrying the account id as subject.
func (s *TokenService) GeneratePair(accountID uuid.UUID, name string) (*domain.TokenPair, error) {
	now := time.Now()

	access, err := s.sign(accountID, name, now, s.config.AccessTokenTTL)
	if err != nil {
		return nil, domain.E(domain.KindInternal, "could not sign access token")
	}
	refresh, err := s.sign(accountID, name, now, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, domain.E(domain.KindInternal, "could not sign refresh token")
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(accountID uuid.UUID, name string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Name: name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
}

// Verify parses a token and returns its claims. Bad signatures, unexpected
// signing methods and expired tokens all report the same Forbidden failure.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.config.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Issuer),
	)
	if err != nil {
		return nil, domain.E(domain.KindForbidden, "invalid or expired token")
	}
	return claims, nil
}
