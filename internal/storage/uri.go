package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// SupportedSchemes lists all currently supported storage URI schemes
var SupportedSchemes = []string{"memory", "file", "sqlite", "s3", "s3+http"}

// StorageURI represents a parsed storage backend URI
type StorageURI struct {
	Scheme string // Storage backend type (e.g., "memory", "file", "sqlite", "s3")
	Host   string // Host for network backends (S3 endpoint)
	Path   string // Path to storage resource
	Query  url.Values
	Raw    string // Original URI string for logging/debugging
}

// NormalizeStorageURI ensures the URI has a scheme, prepending "file://" if missing
func NormalizeStorageURI(uri string) string {
	if uri == "" {
		return uri
	}
	if !strings.Contains(uri, "://") {
		return "file://" + uri
	}
	return uri
}

// ParseStorageURI parses a storage URI string into its components
func ParseStorageURI(uri string) (*StorageURI, error) {
	if uri == "" {
		return nil, fmt.Errorf("storage URI cannot be empty")
	}

	// Normalize URI (add file:// if no scheme)
	normalized := NormalizeStorageURI(uri)

	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid URI format: %w", err)
	}

	if parsed.Scheme == "" {
		return nil, fmt.Errorf("URI must have a scheme (e.g., file://)")
	}

	if err := validateScheme(parsed.Scheme); err != nil {
		return nil, err
	}

	// memory:// carries no path
	if parsed.Scheme == "memory" {
		return &StorageURI{
			Scheme: parsed.Scheme,
			Raw:    uri,
		}, nil
	}

	// S3-specific handling: s3://<endpoint>/<bucket>/<key>
	if parsed.Scheme == "s3" || parsed.Scheme == "s3+http" {
		if parsed.Host == "" {
			return nil, fmt.Errorf("S3 URI must include endpoint host: %s://<endpoint>/<bucket>/<key>", parsed.Scheme)
		}
		s3Path := strings.TrimPrefix(parsed.Path, "/")
		if !strings.Contains(s3Path, "/") {
			return nil, fmt.Errorf("S3 URI must include bucket and object key: %s://<endpoint>/<bucket>/<key>", parsed.Scheme)
		}
		return &StorageURI{
			Scheme: parsed.Scheme,
			Host:   parsed.Host,
			Path:   s3Path,
			Query:  parsed.Query(),
			Raw:    uri,
		}, nil
	}

	// Extract path - for file:// and sqlite:// URIs, the path may be in different places
	path := parsed.Path
	// Relative paths land in Opaque (sqlite:data/users.db) or behind a "." host
	if path == "" && parsed.Opaque != "" {
		path = parsed.Opaque
	}
	if parsed.Host == "." && strings.HasPrefix(path, "/") {
		path = "./" + strings.TrimPrefix(path, "/")
	} else if parsed.Host != "" && path != "" {
		// Windows drive letter detected: file://C:/path
		if len(parsed.Host) == 1 && strings.ToUpper(parsed.Host) >= "A" && strings.ToUpper(parsed.Host) <= "Z" {
			path = parsed.Host + ":" + path
		}
	}

	if path == "" {
		return nil, fmt.Errorf("storage URI must have a path")
	}

	return &StorageURI{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   path,
		Query:  parsed.Query(),
		Raw:    uri,
	}, nil
}

// validateScheme checks if the scheme is supported
func validateScheme(scheme string) error {
	for _, s := range SupportedSchemes {
		if scheme == s {
			return nil
		}
	}

	return fmt.Errorf("unsupported storage scheme %q; supported schemes: %s",
		scheme, strings.Join(SupportedSchemes, ", "))
}

// IsMemoryScheme returns true if this is a memory:// URI
func (u *StorageURI) IsMemoryScheme() bool {
	return u.Scheme == "memory"
}

// IsFileScheme returns true if this is a file:// URI
func (u *StorageURI) IsFileScheme() bool {
	return u.Scheme == "file"
}

// IsSQLiteScheme returns true if this is a sqlite:// URI
func (u *StorageURI) IsSQLiteScheme() bool {
	return u.Scheme == "sqlite"
}

// IsS3Scheme returns true if this is an s3:// or s3+http:// URI
func (u *StorageURI) IsS3Scheme() bool {
	return u.Scheme == "s3" || u.Scheme == "s3+http"
}

// S3Endpoint returns the S3 endpoint host for s3:// URIs
func (u *StorageURI) S3Endpoint() string {
	return u.Host
}

// S3Bucket returns the bucket name for s3:// URIs
func (u *StorageURI) S3Bucket() string {
	bucket, _, _ := strings.Cut(u.Path, "/")
	return bucket
}

// S3Key returns the object key for s3:// URIs
func (u *StorageURI) S3Key() string {
	_, key, _ := strings.Cut(u.Path, "/")
	return key
}

// S3UseSSL returns whether the S3 endpoint should be accessed over TLS.
// The s3+http scheme disables TLS for local MinIO-style deployments.
func (u *StorageURI) S3UseSSL() bool {
	return u.Scheme != "s3+http"
}

// S3Region returns the optional region query parameter for s3:// URIs
func (u *StorageURI) S3Region() string {
	if u.Query == nil {
		return ""
	}
	return u.Query.Get("region")
}

// String returns the original URI string
func (u *StorageURI) String() string {
	return u.Raw
}
