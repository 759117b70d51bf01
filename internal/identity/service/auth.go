package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewlink/identity/internal/identity/domain"
	"github.com/crewlink/identity/internal/identity/store"
	"github.com/crewlink/identity/pkg/cryptox"
	"github.com/crewlink/identity/pkg/idx"
	"github.com/crewlink/identity/pkg/jwtx"
	"github.com/crewlink/identity/pkg/slogx"
)

// DefaultVerificationCodeTTL is the validity window for one-time codes,
// both email verification and password reset.
const DefaultVerificationCodeTTL = 5 * time.Minute

// Notifier is the outbound delivery channel for one-time codes. Delivery is
// best-effort: AuthService logs failures and never lets them fail the
// operation that triggered them.
type Notifier interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// Session is the result of a successful register or login.
type Session struct {
	Token   string
	Message string
}

// AuthService owns the credential lifecycle: registration, login, email
// verification, and password reset. It is stateless aside from its injected
// collaborators and safe to share across concurrent requests; the store is
// the only shared mutable resource.
type AuthService struct {
	Store    store.Store
	Signer   jwtx.Signer
	Notifier Notifier

	Issuer     string
	SessionTTL time.Duration // default jwtx.DefaultSessionTTL
	CodeTTL    time.Duration // default DefaultVerificationCodeTTL
}

// Register creates a new account, issues its first verification code, and
// returns a bearer session bound to the email. Duplicate emails are
// rejected with ErrEmailTaken. Code delivery happens after the account is
// durably persisted and its failure never fails registration.
func (s *AuthService) Register(ctx context.Context, email, password string) (Session, error) {
	now := time.Now().UTC()

	passwordHash, err := cryptox.HashSecret(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	acct := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, err
	}

	code, err := s.issueVerificationCode(ctx, acct.ID, now)
	if err != nil {
		return Session{}, err
	}
	s.deliver(ctx, email, "Email Verification", verificationBody(code, s.codeTTL()))

	token, err := s.signSession(email, now)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, Message: "Account registered successfully."}, nil
}

// Login authenticates an email/password pair and returns a bearer session.
// ErrNotFound and ErrInvalidCredentials are distinct here but the boundary
// presents them identically to avoid account enumeration. Login does not
// require a verified email.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	acct, err := s.GetAccount(ctx, email)
	if err != nil {
		return Session{}, err
	}

	if cryptox.VerifySecret(password, acct.PasswordHash) != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.signSession(email, time.Now().UTC())
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, Message: "Authentication succeeded."}, nil
}

// SendEmailVerificationCode issues a fresh verification code for an
// unverified account, overwriting any pending one. At most one code is
// pending per account.
func (s *AuthService) SendEmailVerificationCode(ctx context.Context, email string) error {
	acct, err := s.GetAccount(ctx, email)
	if err != nil {
		return err
	}
	if acct.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := s.issueVerificationCode(ctx, acct.ID, time.Now().UTC())
	if err != nil {
		return err
	}
	s.deliver(ctx, email, "Email Verification", verificationBody(code, s.codeTTL()))

	return nil
}

// ValidateEmailVerificationCode consumes a pending verification code.
// Exactly one of three outcomes, evaluated in this order:
//
//  1. hash matches and is fresh: the account is marked verified and both
//     verification fields are cleared, guarded so only one of two racing
//     validations can win.
//  2. hash matches but the window elapsed: ErrCodeExpired; the fields are
//     left in place so a fresh send is required.
//  3. hash does not match (including no pending code): ErrCodeMismatch.
//
// Expiry is only consulted after a positive hash match so a wrong code can
// never be distinguished from a stale one by probing.
func (s *AuthService) ValidateEmailVerificationCode(ctx context.Context, email, code string) error {
	acct, err := s.GetAccount(ctx, email)
	if err != nil {
		return err
	}

	if acct.EmailVerificationCodeHash == nil ||
		cryptox.VerifySecret(code, *acct.EmailVerificationCodeHash) != nil {
		return ErrCodeMismatch
	}

	if acct.EmailVerificationExpiresAt == nil ||
		time.Now().UTC().After(*acct.EmailVerificationExpiresAt) {
		return ErrCodeExpired
	}

	ok, err := s.Store.Accounts().ConsumeEmailVerificationCode(ctx, acct.ID, *acct.EmailVerificationCodeHash)
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race: a concurrent validation consumed the code (or a
		// fresh send overwrote it) between our read and the update.
		return ErrCodeMismatch
	}

	return nil
}

// SendPasswordResetCode issues a fresh reset code for the account,
// overwriting any pending one. There is no verified-state gate.
func (s *AuthService) SendPasswordResetCode(ctx context.Context, email string) error {
	acct, err := s.GetAccount(ctx, email)
	if err != nil {
		return err
	}

	code, err := cryptox.GenerateVerificationCode()
	if err != nil {
		return err
	}
	codeHash, err := cryptox.HashSecret(code)
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.codeTTL())
	if err := s.Store.Accounts().SetPasswordResetCode(ctx, acct.ID, codeHash, expiresAt); err != nil {
		return err
	}

	s.deliver(ctx, email, "Password Reset", resetBody(code, s.codeTTL()))
	return nil
}

// ResetPassword consumes a pending reset code and replaces the stored
// password hash. The branch order matches ValidateEmailVerificationCode:
// mismatch before expiry, fields untouched unless consumption succeeds.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword, code string) error {
	acct, err := s.GetAccount(ctx, email)
	if err != nil {
		return err
	}

	if acct.PasswordResetCodeHash == nil ||
		cryptox.VerifySecret(code, *acct.PasswordResetCodeHash) != nil {
		return ErrCodeMismatch
	}

	if acct.PasswordResetExpiresAt == nil ||
		time.Now().UTC().After(*acct.PasswordResetExpiresAt) {
		return ErrCodeExpired
	}

	newHash, err := cryptox.HashSecret(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.Store.Accounts().ConsumePasswordResetCode(ctx, acct.ID, *acct.PasswordResetCodeHash, newHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeMismatch
	}

	return nil
}

// GetAccount fetches an account by email.
func (s *AuthService) GetAccount(ctx context.Context, email string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return acct, nil
}

// DeleteAccount removes an account and its dependent records in one
// transaction, so a partially deleted account is never observable.
func (s *AuthService) DeleteAccount(ctx context.Context, accountID string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PostLikes().DeleteAccountPostLikes(ctx, accountID); err != nil {
			return err
		}
		return tx.Accounts().DeleteAccount(ctx, accountID)
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// issueVerificationCode generates a code, persists its hash and expiry, and
// returns the plaintext for delivery.
func (s *AuthService) issueVerificationCode(ctx context.Context, accountID string, now time.Time) (string, error) {
	code, err := cryptox.GenerateVerificationCode()
	if err != nil {
		return "", err
	}
	codeHash, err := cryptox.HashSecret(code)
	if err != nil {
		return "", err
	}

	if err := s.Store.Accounts().SetEmailVerificationCode(ctx, accountID, codeHash, now.Add(s.codeTTL())); err != nil {
		return "", err
	}
	return code, nil
}

// deliver attempts best-effort notification. Failures are logged and
// swallowed; by the time we get here the primary state is already durable.
func (s *AuthService) deliver(ctx context.Context, recipient, subject, body string) {
	if err := s.Notifier.SendEmail(ctx, recipient, subject, body); err != nil {
		slogx.FromContext(ctx).Warn("email delivery failed",
			"recipient", recipient,
			"subject", subject,
			"err", err,
		)
	}
}

func (s *AuthService) signSession(email string, now time.Time) (string, error) {
	claims := jwtx.NewSessionClaims(email, s.Issuer, s.sessionTTL(), now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *AuthService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultVerificationCodeTTL
}

func verificationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Only one step to take full advantage of CrewLink.\n\n"+
			"Enter this code to verify your email: %s. The code will expire in %d minutes.",
		code, int(ttl.Minutes()))
}

func resetBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Enter this code to reset your password: %s. The code will expire in %d minutes.",
		code, int(ttl.Minutes()))
}
