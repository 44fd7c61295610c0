package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationPurpose scopes a verification record to the flow it completes.
type VerificationPurpose string

const (
	PurposeEmailVerification VerificationPurpose = "email_verification"
	PurposePasswordReset     VerificationPurpose = "password_reset"
)

// Verification is a single-use, purpose-scoped, time-bounded
// proof-of-possession record. TokenHash holds a digest of the raw code; the
// raw code itself is never persisted.
type Verification struct {
	ID         uuid.UUID           `json:"id"`
	AccountID  uuid.UUID           `json:"account_id"`
	TokenHash  string              `json:"-"`
	Purpose    VerificationPurpose `json:"purpose"`
	ValidUntil time.Time           `json:"valid_until"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Expired reports whether the record's validity window has passed at now.
func (v *Verification) Expired(now time.Time) bool {
	return now.After(v.ValidUntil)
}
