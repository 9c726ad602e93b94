package storage

import (
	"context"
	"errors"

	"github.com/moritani/accountd/internal/models"
)

var (
	// ErrNotFound is returned when a user record is not found
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists is returned when attempting to create a user that already exists
	ErrAlreadyExists = errors.New("user already exists")

	// ErrStorageUnavailable is returned when storage operations fail
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store defines the interface for user record storage.
//
// Create refuses duplicate ids under the store's own lock even though
// handlers check uniqueness first; the double check closes the
// check-then-create race on concurrent backends. Update merges only the
// non-nil patch fields and returns the merged record. Delete reports
// whether a record was actually removed; deleting an absent id is not
// an error.
type Store interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, userID string) (bool, error)

	// Count returns the number of stored users (health checks, seed logging)
	Count(ctx context.Context) (int, error)

	// Close closes the storage
	Close() error
}
