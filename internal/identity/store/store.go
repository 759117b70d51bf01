package store

import (
	"context"
	"errors"
	"time"

	"github.com/crewlink/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts
	PostLikes() PostLikes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back; otherwise
	// it is committed. This is the recommended way to run multi-step
	// operations that must be atomic (e.g. account deletion).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByEmail returns an account by its email, the primary lookup
	// key for every credential flow.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is already registered.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SetEmailVerificationCode stores the hash of a fresh verification code
	// and its expiry, overwriting any pending code. The pair is written
	// together; there is never a hash without an expiry.
	SetEmailVerificationCode(ctx context.Context, accountID, codeHash string, expiresAt time.Time) error

	// ConsumeEmailVerificationCode marks the account verified and clears
	// both verification fields, but only while the stored hash still equals
	// codeHash. Returns false when another caller consumed it first (or it
	// was overwritten), which makes concurrent validation single-winner.
	ConsumeEmailVerificationCode(ctx context.Context, accountID, codeHash string) (bool, error)

	// SetPasswordResetCode stores the hash of a fresh reset code and its
	// expiry, overwriting any pending one.
	SetPasswordResetCode(ctx context.Context, accountID, codeHash string, expiresAt time.Time) error

	// ConsumePasswordResetCode swaps in the new password hash and clears
	// both reset fields, guarded the same way as verification consumption.
	ConsumePasswordResetCode(ctx context.Context, accountID, codeHash, newPasswordHash string) (bool, error)

	// DeleteAccount removes the account row. Dependent rows are the
	// caller's responsibility (delete them first, in the same Tx).
	DeleteAccount(ctx context.Context, accountID string) error
}

type PostLikes interface {
	// CreatePostLike records that an account liked a post.
	CreatePostLike(ctx context.Context, like domain.PostLike) error

	// DeleteAccountPostLikes removes every like belonging to an account,
	// used when the account itself is being deleted.
	DeleteAccountPostLikes(ctx context.Context, accountID string) error

	// CountAccountPostLikes returns the number of likes for an account.
	CountAccountPostLikes(ctx context.Context, accountID string) (int, error)
}
