package service

import "errors"

// Failure kinds surfaced by AuthService. The HTTP boundary maps these to
// status codes; some are deliberately collapsed into one user-visible
// message there (e.g. ErrNotFound vs ErrInvalidCredentials on login) while
// staying distinguishable here for logging and tests.
var (
	ErrNotFound           = errors.New("account_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrAlreadyVerified    = errors.New("already_verified")
	ErrCodeMismatch       = errors.New("code_mismatch")
	ErrCodeExpired        = errors.New("code_expired")
)
