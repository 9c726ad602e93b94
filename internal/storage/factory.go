package storage

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrTokenRequired is returned when a storage scheme requires a token but none was provided
	ErrTokenRequired = errors.New("storage token required")
)

// NewStorage creates a storage backend based on the URI scheme.
// Returns an appropriate Store implementation based on the URI scheme:
//   - memory:// -> MemoryStorage
//   - file:// -> FileStorage
//   - sqlite:// -> SQLiteStorage
//   - s3:// or s3+http:// -> S3Storage (requires token)
func NewStorage(uri *StorageURI, token string, logger *slog.Logger) (Store, error) {
	switch uri.Scheme {
	case "memory":
		return NewMemoryStorage(logger), nil

	case "file":
		return NewFileStorage(uri.Path, logger)

	case "sqlite":
		return NewSQLiteStorage(uri.Path, logger)

	case "s3", "s3+http":
		// Token is required for S3 storage
		if token == "" {
			return nil, fmt.Errorf("%w: S3 storage requires credentials (--storage-token or ACCOUNTD_STORAGE_TOKEN)", ErrTokenRequired)
		}
		return NewS3Storage(uri, token, logger)

	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", uri.Scheme)
	}
}
