package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const (
	otpDigits       = "0123456789"
	referralCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// OTPLength is the number of digits in a one-time code.
	OTPLength = 6
	// ReferralCodeLength is the number of characters in a referral code.
	ReferralCodeLength = 6
)

// HashCode returns the SHA-256 digest of a raw code, hex encoded.
// Verification records store and are looked up by this digest, so the raw
// code never persists.
func HashCode(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GenerateOTP returns a random numeric one-time code of n digits.
func GenerateOTP(n int) (string, error) {
	return randomString(n, otpDigits)
}

// GenerateReferralCode returns a random uppercase alphanumeric code of n
// characters.
func GenerateReferralCode(n int) (string, error) {
	return randomString(n, referralCharset)
}

func randomString(n int, charset string) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}
