package domain

import "time"

// Account represents one registered user. Email is the sole lookup key for
// every credential flow; the ID only exists so dependent rows have something
// stable to reference.
//
// The two code hash/expiry pairs are always set and cleared together. A pair
// is either both nil (no pending code) or both present (one pending code,
// usable until its expiry).
type Account struct {
	ID           string
	Email        string
	PasswordHash string // argon2 encoded

	EmailVerified              bool
	EmailVerificationCodeHash  *string
	EmailVerificationExpiresAt *time.Time

	PasswordResetCodeHash  *string
	PasswordResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingVerification reports whether a verification code is stored.
func (a Account) HasPendingVerification() bool {
	return a.EmailVerificationCodeHash != nil && a.EmailVerificationExpiresAt != nil
}

// HasPendingReset reports whether a password-reset code is stored.
func (a Account) HasPendingReset() bool {
	return a.PasswordResetCodeHash != nil && a.PasswordResetExpiresAt != nil
}
