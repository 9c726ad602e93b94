package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moritani/accountd/internal/models"
)

// FileStorage implements Store using a JSON snapshot file as backend.
// It embeds BaseStorage for in-memory CRUD operations and persists the
// full user table on every mutation via an atomic write.
type FileStorage struct {
	*BaseStorage
	filePath string
	logger   *slog.Logger
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(filePath string, logger *slog.Logger) (*FileStorage, error) {
	fs := &FileStorage{
		BaseStorage: NewBaseStorage(logger),
		filePath:    filePath,
		logger:      logger,
	}

	// Load existing data or create new storage
	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}

	return fs, nil
}

// load reads storage from file or creates empty storage
func (fs *FileStorage) load() error {
	if _, err := os.Stat(fs.filePath); os.IsNotExist(err) {
		fs.logger.Info("Storage file not found, creating empty storage",
			"file_path", fs.filePath)

		// Create directory if needed
		dir := filepath.Dir(fs.filePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}

		// Write empty storage to file
		if err := fs.persist(); err != nil {
			return fmt.Errorf("failed to create storage file: %w", err)
		}

		return nil
	}

	fileData, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read storage file: %w", err)
	}

	if err := fs.UnmarshalData(fileData); err != nil {
		return fmt.Errorf("failed to parse storage file (invalid JSON syntax): %w", err)
	}

	count, _ := fs.Count(context.Background())
	fs.logger.Info("Storage file loaded",
		"file_path", fs.filePath,
		"user_count", count)

	return nil
}

// persist writes data to file atomically (temp file + rename).
// NOTE: called while BaseStorage holds the lock, so it marshals via
// marshalDataLocked to avoid deadlock.
func (fs *FileStorage) persist() error {
	jsonData, err := fs.marshalDataLocked()
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	// Create temp file in same directory
	dir := filepath.Dir(fs.filePath)
	tempFile, err := os.CreateTemp(dir, ".accounts-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file cleanup on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Sync to disk
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tempFile = nil // Prevent deferred cleanup

	// Atomic rename
	if err := os.Rename(tempPath, fs.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Create adds a new user record and persists the table
func (fs *FileStorage) Create(ctx context.Context, u *models.User) error {
	return fs.BaseStorage.Create(ctx, u, fs.persist)
}

// Update merges the supplied fields into an existing record and persists
func (fs *FileStorage) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	return fs.BaseStorage.Update(ctx, userID, patch, fs.persist)
}

// Delete removes a user record and persists
func (fs *FileStorage) Delete(ctx context.Context, userID string) (bool, error) {
	return fs.BaseStorage.Delete(ctx, userID, fs.persist)
}

// Close closes the storage (no-op for file storage)
func (fs *FileStorage) Close() error {
	return nil
}
