package sqlite

import (
	"context"

	"github.com/crewlink/identity/internal/identity/domain"
	"github.com/crewlink/identity/internal/identity/store"
)

type postLikesRepo struct {
	db dbtx
}

func (r *postLikesRepo) CreatePostLike(ctx context.Context, like domain.PostLike) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO post_likes (account_id, post_id) VALUES (?, ?)`,
		like.AccountID, like.PostID)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *postLikesRepo) DeleteAccountPostLikes(ctx context.Context, accountID string) error {
	// No row-count check: an account with zero likes is fine.
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE account_id = ?`, accountID)
	return err
}

func (r *postLikesRepo) CountAccountPostLikes(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}
