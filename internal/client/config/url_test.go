package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no trailing slash",
			input:    "http://localhost:8080",
			expected: "http://localhost:8080",
		},
		{
			name:     "single trailing slash",
			input:    "http://localhost:8080/",
			expected: "http://localhost:8080",
		},
		{
			name:     "multiple trailing slashes",
			input:    "http://localhost:8080///",
			expected: "http://localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestResolveURL_FlagAndEnv(t *testing.T) {
	// Flag wins over everything
	url, err := ResolveURL("http://flag.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", url)

	// Environment variable wins when no flag is given
	t.Setenv(URLEnvVar, "http://env.example.com/")
	url, err = ResolveURL("")
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", url)

	// Flag still beats the environment
	url, err = ResolveURL("http://flag.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", url)
}
