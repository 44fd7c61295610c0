package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationState tracks whether an account has proven control of its
// email address.
type VerificationState string

// AccountStatus tracks whether an account is allowed to authenticate.
type AccountStatus string

const (
	VerificationUnverified VerificationState = "unverified"
	VerificationVerified   VerificationState = "verified"

	AccountActive      AccountStatus = "active"
	AccountDeactivated AccountStatus = "deactivated"
)

// Account is a registered user account. PasswordHash is excluded from JSON
// encoding so it never crosses the transport boundary.
type Account struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	PasswordHash string            `json:"-"`
	FullName     string            `json:"full_name"`
	ReferralCode string            `json:"referral_code"`
	Verification VerificationState `json:"verification"`
	Status       AccountStatus     `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Verifications is populated only by eager-loading lookups.
	Verifications []Verification `json:"verifications,omitempty"`
}

// CanLogin reports whether the account passes both state gates for login.
func (a *Account) CanLogin() bool {
	return a.Verification == VerificationVerified && a.Status == AccountActive
}
