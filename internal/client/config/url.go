package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/moritani/accountd/internal/client/auth"
)

// URLEnvVar is the environment variable for the server URL
const URLEnvVar = "ACCOUNTD_URL"

// ResolveURL resolves the server URL, trying the --url flag, then the
// ACCOUNTD_URL environment variable, then the URL stored alongside the
// credentials. Unlike the token, a URL is mandatory.
func ResolveURL(flagURL string) (string, error) {
	for _, candidate := range []string{flagURL, os.Getenv(URLEnvVar)} {
		if candidate != "" {
			return NormalizeURL(candidate), nil
		}
	}

	storedURL, err := auth.LoadStoredURL()
	if err != nil {
		return "", fmt.Errorf("no server URL configured. Use --url flag, %s env var, or run 'login' command", URLEnvVar)
	}

	return NormalizeURL(storedURL), nil
}

// NormalizeURL removes trailing slashes so paths can be appended directly
func NormalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}
