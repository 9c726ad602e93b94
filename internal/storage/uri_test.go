package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorageURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantScheme string
		wantHost   string
		wantPath   string
		wantError  bool
	}{
		{
			name:       "memory URI",
			uri:        "memory://",
			wantScheme: "memory",
		},
		{
			name:       "file URI with relative path",
			uri:        "file://./data/users.json",
			wantScheme: "file",
			wantPath:   "./data/users.json",
		},
		{
			name:       "bare path gets file scheme",
			uri:        "./data/users.json",
			wantScheme: "file",
			wantPath:   "./data/users.json",
		},
		{
			name:       "file URI with absolute path",
			uri:        "file:///var/lib/accountd/users.json",
			wantScheme: "file",
			wantPath:   "/var/lib/accountd/users.json",
		},
		{
			name:       "sqlite URI",
			uri:        "sqlite://./data/users.db",
			wantScheme: "sqlite",
			wantPath:   "./data/users.db",
		},
		{
			name:       "s3 URI",
			uri:        "s3://s3.eu-west-1.amazonaws.com/my-bucket/accounts/users.json",
			wantScheme: "s3",
			wantHost:   "s3.eu-west-1.amazonaws.com",
			wantPath:   "my-bucket/accounts/users.json",
		},
		{
			name:       "s3+http URI",
			uri:        "s3+http://localhost:9000/my-bucket/users.json",
			wantScheme: "s3+http",
			wantHost:   "localhost:9000",
			wantPath:   "my-bucket/users.json",
		},
		{
			name:      "empty URI",
			uri:       "",
			wantError: true,
		},
		{
			name:      "unsupported scheme",
			uri:       "redis://localhost/0",
			wantError: true,
		},
		{
			name:      "s3 without bucket and key",
			uri:       "s3://s3.amazonaws.com",
			wantError: true,
		},
		{
			name:      "s3 with bucket but no key",
			uri:       "s3://s3.amazonaws.com/my-bucket",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseStorageURI(tt.uri)
			if tt.wantError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, parsed.Scheme)
			assert.Equal(t, tt.wantHost, parsed.Host)
			assert.Equal(t, tt.wantPath, parsed.Path)
			assert.Equal(t, tt.uri, parsed.String())
		})
	}
}

func TestStorageURI_S3Helpers(t *testing.T) {
	parsed, err := ParseStorageURI("s3://s3.eu-west-1.amazonaws.com/my-bucket/accounts/users.json?region=eu-west-1")
	require.NoError(t, err)

	assert.True(t, parsed.IsS3Scheme())
	assert.True(t, parsed.S3UseSSL())
	assert.Equal(t, "s3.eu-west-1.amazonaws.com", parsed.S3Endpoint())
	assert.Equal(t, "my-bucket", parsed.S3Bucket())
	assert.Equal(t, "accounts/users.json", parsed.S3Key())
	assert.Equal(t, "eu-west-1", parsed.S3Region())

	plain, err := ParseStorageURI("s3+http://localhost:9000/my-bucket/users.json")
	require.NoError(t, err)
	assert.True(t, plain.IsS3Scheme())
	assert.False(t, plain.S3UseSSL())
	assert.Equal(t, "", plain.S3Region())
}

func TestStorageURI_SchemeChecks(t *testing.T) {
	mem, err := ParseStorageURI("memory://")
	require.NoError(t, err)
	assert.True(t, mem.IsMemoryScheme())

	file, err := ParseStorageURI("file://./users.json")
	require.NoError(t, err)
	assert.True(t, file.IsFileScheme())

	db, err := ParseStorageURI("sqlite://./users.db")
	require.NoError(t, err)
	assert.True(t, db.IsSQLiteScheme())
}
