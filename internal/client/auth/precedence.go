package auth

import (
	"errors"
	"fmt"
	"os"
)

// TokenEnvVar is the environment variable for authentication credentials
const TokenEnvVar = "ACCOUNTD_SESSION_TOKEN"

// ResolveToken resolves the credentials token, trying the --token flag,
// then the ACCOUNTD_SESSION_TOKEN environment variable, then the stored
// credentials file. No token anywhere is not an error; the empty string
// lets unauthenticated operations proceed.
func ResolveToken(flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}

	if envToken := os.Getenv(TokenEnvVar); envToken != "" {
		return envToken, nil
	}

	storedToken, err := LoadStoredToken()
	switch {
	case errors.Is(err, ErrNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to load stored token: %w", err)
	}

	return storedToken, nil
}
