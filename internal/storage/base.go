package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/moritani/accountd/internal/models"
)

// BaseStorage provides shared in-memory CRUD operations for all storage
// backends that hold the user table in memory. It handles locking and data
// manipulation. Concrete backends (MemoryStorage, FileStorage, S3Storage)
// embed this and provide their own persistence mechanisms.
type BaseStorage struct {
	mu     sync.RWMutex
	data   *models.Storage
	logger *slog.Logger
}

// NewBaseStorage creates a new BaseStorage with empty data
func NewBaseStorage(logger *slog.Logger) *BaseStorage {
	return &BaseStorage{
		data:   models.NewStorage(),
		logger: logger,
	}
}

// SetData sets the in-memory data (used by backends after loading)
func (b *BaseStorage) SetData(data *models.Storage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = data
}

// MarshalData serializes the storage data to JSON.
// NOTE: Caller must NOT hold the lock - this method acquires its own lock.
// For use within locked contexts, use marshalDataLocked instead.
func (b *BaseStorage) MarshalData() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return json.MarshalIndent(b.data, "", "  ")
}

// marshalDataLocked serializes data without acquiring lock.
// Caller MUST hold at least a read lock.
func (b *BaseStorage) marshalDataLocked() ([]byte, error) {
	return json.MarshalIndent(b.data, "", "  ")
}

// UnmarshalData deserializes JSON data into storage
func (b *BaseStorage) UnmarshalData(jsonData []byte) error {
	var data models.Storage
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return err
	}
	// Initialize maps if nil
	if data.Users == nil {
		data.Users = make(map[string]*models.User)
	}
	b.mu.Lock()
	b.data = &data
	b.mu.Unlock()
	return nil
}

// PersistFunc is a callback function that backends implement for persistence
type PersistFunc func() error

// Create adds a new user record in memory. Duplicate ids are refused
// under the lock regardless of any earlier caller-side check.
// The persist callback is called after the in-memory operation succeeds.
// If persist fails, the in-memory change is rolled back.
func (b *BaseStorage) Create(ctx context.Context, u *models.User, persist PersistFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.data.Users[u.UserID]; exists {
		return ErrAlreadyExists
	}

	b.data.Users[u.UserID] = u

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback in-memory change
			delete(b.data.Users, u.UserID)
			b.logger.Error("Storage write failed",
				"operation", "create_user",
				"user_id", u.UserID,
				"error", err)
			return ErrStorageUnavailable
		}
	}

	b.logger.Info("User created", "user_id", u.UserID)
	return nil
}

// FindByID retrieves a user record by id
func (b *BaseStorage) FindByID(ctx context.Context, userID string) (*models.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	user, exists := b.data.Users[userID]
	if !exists {
		return nil, ErrNotFound
	}

	return user, nil
}

// Update merges the supplied patch fields into an existing record and
// returns the merged record. The persist callback is called after the
// in-memory operation succeeds; on failure the old record is restored.
func (b *BaseStorage) Update(ctx context.Context, userID string, patch models.UserPatch, persist PersistFunc) (*models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	existing, exists := b.data.Users[userID]
	if !exists {
		return nil, ErrNotFound
	}

	merged := *existing
	if patch.Nickname != nil {
		merged.Nickname = *patch.Nickname
	}
	if patch.Comment != nil {
		merged.Comment = *patch.Comment
	}

	b.data.Users[userID] = &merged

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback
			b.data.Users[userID] = existing
			b.logger.Error("Storage write failed",
				"operation", "update_user",
				"user_id", userID,
				"error", err)
			return nil, ErrStorageUnavailable
		}
	}

	b.logger.Info("User updated", "user_id", userID)
	return &merged, nil
}

// Delete removes a user record and reports whether a record was removed.
// The persist callback is called after the in-memory operation succeeds.
func (b *BaseStorage) Delete(ctx context.Context, userID string, persist PersistFunc) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	user, exists := b.data.Users[userID]
	if !exists {
		return false, nil
	}

	delete(b.data.Users, userID)

	if persist != nil {
		if err := persist(); err != nil {
			// Rollback
			b.data.Users[userID] = user
			b.logger.Error("Storage write failed",
				"operation", "delete_user",
				"user_id", userID,
				"error", err)
			return false, ErrStorageUnavailable
		}
	}

	b.logger.Info("User deleted", "user_id", userID)
	return true, nil
}

// Count returns the number of stored users
func (b *BaseStorage) Count(ctx context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.data.Users), nil
}
