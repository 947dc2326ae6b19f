package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// BackendTimeout bounds every round trip to the backing store. Callers see a
// timeout as an ordinary upstream error, never a hang.
const BackendTimeout = 30 * time.Second

// Error taxonomy shared by the review pipeline. Controllers map these to
// HTTP statuses; services return them wrapped with context.
var (
	// ErrNotFound means the referenced recording or account does not exist
	// at operation time.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyResolved means the recording left the pending state before
	// this operation reached it. The loser of a commit race sees this.
	ErrAlreadyResolved = errors.New("recording already resolved")

	// ErrAlreadyReviewed means a review row already exists for the
	// recording.
	ErrAlreadyReviewed = errors.New("recording already reviewed")

	// ErrSelfReview means the reviewer and the recording author share an
	// email address.
	ErrSelfReview = errors.New("reviewers cannot review their own recordings")

	// ErrValidation means the caller supplied malformed input.
	ErrValidation = errors.New("invalid input")
)

func withBackendTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, BackendTimeout)
}

// isDuplicateKeyError reports whether an insert failed on a store-level
// uniqueness constraint. MySQL reports error 1062, SQLite a UNIQUE
// constraint message; gorm normalizes some drivers to ErrDuplicatedKey.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
