package sqlite

import (
	"context"
	"time"

	"github.com/crewlink/identity/internal/identity/domain"
	"github.com/crewlink/identity/internal/identity/store"
)

const accountColumns = `id, email, password_hash, email_verified,
	email_verification_code_hash, email_verification_expires_at,
	password_reset_code_hash, password_reset_expires_at,
	created_at, updated_at`

type accountsRepo struct {
	db dbtx
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, email_verified)
		 VALUES (?, ?, ?, ?)`,
		a.ID, a.Email, a.PasswordHash, a.EmailVerified)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) SetEmailVerificationCode(
	ctx context.Context,
	accountID, codeHash string,
	expiresAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email_verification_code_hash = ?,
		     email_verification_expires_at = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		codeHash, expiresAt.UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ConsumeEmailVerificationCode is the single-winner step of verification:
// the guard on the stored hash means only one of two racing validations of
// the same code can flip email_verified.
func (r *accountsRepo) ConsumeEmailVerificationCode(
	ctx context.Context,
	accountID, codeHash string,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email_verified = TRUE,
		     email_verification_code_hash = NULL,
		     email_verification_expires_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND email_verification_code_hash = ?`,
		accountID, codeHash)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountsRepo) SetPasswordResetCode(
	ctx context.Context,
	accountID, codeHash string,
	expiresAt time.Time,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET password_reset_code_hash = ?,
		     password_reset_expires_at = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		codeHash, expiresAt.UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ConsumePasswordResetCode(
	ctx context.Context,
	accountID, codeHash, newPasswordHash string,
) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET password_hash = ?,
		     password_reset_code_hash = NULL,
		     password_reset_expires_at = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND password_reset_code_hash = ?`,
		newPasswordHash, accountID, codeHash)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
