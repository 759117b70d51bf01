package domain

import "time"

// PostLike is a dependent record tying an account to a post it liked.
// It exists here so account deletion has dependents to clean up in the same
// transaction; the posts themselves live in another service.
type PostLike struct {
	AccountID string
	PostID    string
	CreatedAt time.Time
}
