package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/moritani/accountd/internal/models"
)

// S3Storage implements Store using S3-compatible storage as backend.
// It embeds BaseStorage for in-memory CRUD operations and persists the
// full user table as a JSON snapshot object on every mutation.
type S3Storage struct {
	*BaseStorage
	client *S3Client
	bucket string
	key    string
}

// NewS3Storage creates a new S3-backed storage.
// The uri should be a parsed S3 StorageURI (s3://endpoint/bucket/key or s3+http://...).
// The token should be in format ACCESS_KEY:SECRET_KEY.
func NewS3Storage(uri *StorageURI, token string, logger *slog.Logger) (*S3Storage, error) {
	if !uri.IsS3Scheme() {
		return nil, fmt.Errorf("expected S3 URI, got scheme: %s", uri.Scheme)
	}

	endpoint := uri.S3Endpoint()
	bucket := uri.S3Bucket()
	key := uri.S3Key()
	useSSL := uri.S3UseSSL()

	// Get region from URI query param or extract from endpoint
	region := uri.S3Region()
	if region == "" {
		region = ExtractRegionFromEndpoint(endpoint)
	}

	accessKey, secretKey, err := ParseS3Token(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse S3 credentials: %w", err)
	}

	client, err := NewS3Client(endpoint, bucket, key, accessKey, secretKey, useSSL, region, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	// Validate bucket exists
	ctx := context.Background()
	if err := client.ValidateBucket(ctx); err != nil {
		return nil, fmt.Errorf("S3 bucket validation failed: %w", err)
	}

	s := &S3Storage{
		BaseStorage: NewBaseStorage(logger),
		client:      client,
		bucket:      bucket,
		key:         key,
	}

	// Load existing data from S3 or initialize empty storage
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load data from S3: %w", err)
	}

	return s, nil
}

// load retrieves the user table from S3 on startup.
// If the object doesn't exist, initializes empty storage and pushes it.
func (s *S3Storage) load() error {
	ctx := context.Background()

	exists, err := s.client.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check S3 object existence: %w", err)
	}

	if !exists {
		s.logger.Info("S3 object does not exist, initializing empty storage",
			"bucket", s.bucket,
			"key", s.key)

		// Push initial empty storage
		data, err := s.MarshalData()
		if err != nil {
			return fmt.Errorf("failed to marshal empty storage: %w", err)
		}
		if err := s.client.Upload(ctx, data); err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return nil
	}

	data, err := s.client.Download(ctx)
	if err != nil {
		return fmt.Errorf("failed to download from S3: %w", err)
	}

	if err := s.UnmarshalData(data); err != nil {
		return fmt.Errorf("failed to parse user data (corrupted JSON): %w", err)
	}

	count, _ := s.Count(ctx)
	s.logger.Info("S3 storage loaded",
		"bucket", s.bucket,
		"key", s.key,
		"user_count", count)

	return nil
}

// persist uploads the complete user table to S3.
// NOTE: called while BaseStorage holds the lock, so it marshals via
// marshalDataLocked to avoid deadlock.
func (s *S3Storage) persist() error {
	data, err := s.marshalDataLocked()
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}
	return s.client.Upload(context.Background(), data)
}

// Create adds a new user record and persists the table to S3
func (s *S3Storage) Create(ctx context.Context, u *models.User) error {
	return s.BaseStorage.Create(ctx, u, s.persist)
}

// Update merges the supplied fields into an existing record and persists
func (s *S3Storage) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	return s.BaseStorage.Update(ctx, userID, patch, s.persist)
}

// Delete removes a user record and persists
func (s *S3Storage) Delete(ctx context.Context, userID string) (bool, error) {
	return s.BaseStorage.Delete(ctx, userID, s.persist)
}

// Close closes the storage (no-op for S3 storage)
func (s *S3Storage) Close() error {
	return nil
}
