package storage

import (
	"context"
	"log/slog"

	"github.com/moritani/accountd/internal/models"
)

// MemoryStorage implements Store entirely in memory. Lookups are O(1)
// by user id. All state is lost on shutdown; intended for tests and
// single-node development deployments.
type MemoryStorage struct {
	*BaseStorage
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage(logger *slog.Logger) *MemoryStorage {
	logger.Info("In-memory storage initialized")
	return &MemoryStorage{
		BaseStorage: NewBaseStorage(logger),
	}
}

// Create adds a new user record (no persistence)
func (m *MemoryStorage) Create(ctx context.Context, u *models.User) error {
	return m.BaseStorage.Create(ctx, u, nil)
}

// Update merges the supplied fields into an existing record
func (m *MemoryStorage) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	return m.BaseStorage.Update(ctx, userID, patch, nil)
}

// Delete removes a user record
func (m *MemoryStorage) Delete(ctx context.Context, userID string) (bool, error) {
	return m.BaseStorage.Delete(ctx, userID, nil)
}

// Close closes the storage (no-op for memory storage)
func (m *MemoryStorage) Close() error {
	return nil
}
