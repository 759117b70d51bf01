package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/crewlink/identity/internal/identity/domain"
	"github.com/crewlink/identity/internal/identity/store"
	"github.com/crewlink/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "identity.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestAccount(email string) domain.Account {
	return domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	}
}

func TestCreateAndGetAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestAccount("a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	got, err := s.Accounts().GetAccountByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, a.Email, got.Email)
	require.False(t, got.EmailVerified)
	require.Nil(t, got.EmailVerificationCodeHash)
	require.Nil(t, got.EmailVerificationExpiresAt)
	require.Nil(t, got.PasswordResetCodeHash)
	require.Nil(t, got.PasswordResetExpiresAt)
	require.False(t, got.CreatedAt.IsZero())

	byID, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, got.Email, byID.Email)

	_, err = s.Accounts().GetAccountByEmail(ctx, "missing@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Accounts().CreateAccount(ctx, newTestAccount("a@x.com")))

	err := s.Accounts().CreateAccount(ctx, newTestAccount("a@x.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEmailVerificationCodeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestAccount("a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	expires := time.Now().UTC().Add(5 * time.Minute).Truncate(time.Second)
	require.NoError(t, s.Accounts().SetEmailVerificationCode(ctx, a.ID, "code-hash-1", expires))

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.HasPendingVerification())
	require.Equal(t, "code-hash-1", *got.EmailVerificationCodeHash)
	require.WithinDuration(t, expires, *got.EmailVerificationExpiresAt, time.Second)

	// Fresh code overwrites the pending one.
	require.NoError(t, s.Accounts().SetEmailVerificationCode(ctx, a.ID, "code-hash-2", expires))

	// Consuming with the stale hash fails; the guard no longer matches.
	ok, err := s.Accounts().ConsumeEmailVerificationCode(ctx, a.ID, "code-hash-1")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Accounts().ConsumeEmailVerificationCode(ctx, a.ID, "code-hash-2")
	require.NoError(t, err)
	require.True(t, ok)

	got, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)
	require.False(t, got.HasPendingVerification())

	// Second consumption of the same code loses.
	ok, err = s.Accounts().ConsumeEmailVerificationCode(ctx, a.ID, "code-hash-2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordResetCodeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestAccount("a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	expires := time.Now().UTC().Add(5 * time.Minute)
	require.NoError(t, s.Accounts().SetPasswordResetCode(ctx, a.ID, "reset-hash", expires))

	ok, err := s.Accounts().ConsumePasswordResetCode(ctx, a.ID, "wrong-hash", "new-password-hash")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Accounts().ConsumePasswordResetCode(ctx, a.ID, "reset-hash", "new-password-hash")
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.Accounts().GetAccountByID(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "new-password-hash", got.PasswordHash)
	require.False(t, got.HasPendingReset())
}

func TestSetCode_UnknownAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Accounts().SetEmailVerificationCode(ctx, "no-such-id", "h", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Accounts().SetPasswordResetCode(ctx, "no-such-id", "h", time.Now())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAccountWithLikesInTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestAccount("a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))
	require.NoError(t, s.PostLikes().CreatePostLike(ctx, domain.PostLike{AccountID: a.ID, PostID: "post-1"}))
	require.NoError(t, s.PostLikes().CreatePostLike(ctx, domain.PostLike{AccountID: a.ID, PostID: "post-2"}))

	n, err := s.PostLikes().CountAccountPostLikes(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Deleting the account row while likes still reference it violates the FK.
	require.Error(t, s.Accounts().DeleteAccount(ctx, a.ID))

	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PostLikes().DeleteAccountPostLikes(ctx, a.ID); err != nil {
			return err
		}
		return tx.Accounts().DeleteAccount(ctx, a.ID)
	})
	require.NoError(t, err)

	_, err = s.Accounts().GetAccountByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err = s.PostLikes().CountAccountPostLikes(ctx, a.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newTestAccount("a@x.com")
	require.NoError(t, s.Accounts().CreateAccount(ctx, a))

	sentinel := store.ErrAlreadyExists
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PostLikes().CreatePostLike(ctx, domain.PostLike{AccountID: a.ID, PostID: "p"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, err := s.PostLikes().CountAccountPostLikes(ctx, a.ID)
	require.NoError(t, err)
	require.Zero(t, n, "rolled-back like should not persist")
}
