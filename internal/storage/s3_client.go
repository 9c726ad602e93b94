package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 timeout constants
const (
	S3UploadTimeout   = 60 * time.Second
	S3DownloadTimeout = 30 * time.Second
)

// awsEndpointPattern matches AWS regional endpoints like s3.eu-west-1.amazonaws.com
var awsEndpointPattern = regexp.MustCompile(`^s3[.-]([a-z0-9-]+)\.amazonaws\.com$`)

// ExtractRegionFromEndpoint derives the region from an AWS-style endpoint,
// returning empty for non-AWS endpoints (MinIO and friends)
func ExtractRegionFromEndpoint(endpoint string) string {
	if m := awsEndpointPattern.FindStringSubmatch(endpoint); m != nil {
		return m[1]
	}
	return ""
}

// ParseS3Token splits a storage token in ACCESS_KEY:SECRET_KEY format
func ParseS3Token(token string) (accessKey, secretKey string, err error) {
	if token == "" {
		return "", "", fmt.Errorf("S3 storage requires a token in ACCESS_KEY:SECRET_KEY format")
	}
	accessKey, secretKey, ok := strings.Cut(token, ":")
	if !ok || accessKey == "" || secretKey == "" {
		return "", "", fmt.Errorf("invalid S3 token: expected ACCESS_KEY:SECRET_KEY format")
	}
	return accessKey, secretKey, nil
}

// S3Client wraps MinIO SDK for S3 operations
type S3Client struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Client creates a new S3 client for the given endpoint and credentials.
func NewS3Client(endpoint, bucket, key, accessKey, secretKey string, useSSL bool, region string, logger *slog.Logger) (*S3Client, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	}

	if region != "" {
		opts.Region = region
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		logger.Error("Failed to create S3 client",
			"endpoint", endpoint,
			"bucket", bucket,
			"error", err)
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	logger.Info("S3 client created",
		"endpoint", endpoint,
		"bucket", bucket,
		"key", key,
		"ssl", useSSL,
		"region", region)

	return &S3Client{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// ValidateBucket checks if the bucket exists and is accessible
func (c *S3Client) ValidateBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		c.logger.Error("S3 bucket validation failed",
			"bucket", c.bucket,
			"error", err)
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		return fmt.Errorf("bucket %q does not exist", c.bucket)
	}

	c.logger.Info("S3 bucket validated", "bucket", c.bucket)
	return nil
}

// Exists checks if the object exists in the S3 bucket
func (c *S3Client) Exists(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, S3DownloadTimeout)
	defer cancel()

	_, err := c.client.StatObject(ctx, c.bucket, c.key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}

	return true, nil
}

// Download retrieves the object contents from the S3 bucket
func (c *S3Client) Download(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, S3DownloadTimeout)
	defer cancel()

	obj, err := c.client.GetObject(ctx, c.bucket, c.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	c.logger.Debug("S3 object downloaded",
		"bucket", c.bucket,
		"key", c.key,
		"size_bytes", len(data))

	return data, nil
}

// Upload writes the object contents to the S3 bucket
func (c *S3Client) Upload(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, S3UploadTimeout)
	defer cancel()

	_, err := c.client.PutObject(ctx, c.bucket, c.key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	c.logger.Debug("S3 object uploaded",
		"bucket", c.bucket,
		"key", c.key,
		"size_bytes", len(data))

	return nil
}
