package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/moritani/accountd/internal/client"
	"github.com/moritani/accountd/internal/client/auth"
	"github.com/moritani/accountd/internal/client/config"
	"github.com/moritani/accountd/internal/client/errors"
)

// apiError mirrors the server's JSON error envelope
type apiError struct {
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

func getAuthenticatedClient() *client.Client {
	serverURL, err := config.ResolveURL(flagURL)
	if err != nil {
		errors.ExitWithCode(errors.ExitInvalidArguments, err.Error())
	}

	token, err := auth.ResolveToken(flagToken)
	if err != nil {
		errors.ExitWithError(err, "failed to resolve credentials")
	}

	// Send credentials to server if available; unauthenticated requests
	// still work for endpoints that allow them
	var encodedToken string
	if token != "" {
		encodedToken = base64.StdEncoding.EncodeToString([]byte(token))
	}
	return client.NewClient(serverURL, encodedToken, flagTimeout, flagVerbose)
}

// resolveOwnUserID extracts the user_id half of the resolved credentials
func resolveOwnUserID() string {
	token, err := auth.ResolveToken(flagToken)
	if err != nil {
		errors.ExitWithError(err, "failed to resolve credentials")
	}
	if token == "" {
		errors.ExitWithCode(errors.ExitAuthError, "no credentials configured. Use --token flag, "+auth.TokenEnvVar+" env var, or run 'accountctl login'")
	}
	userID, _, _ := strings.Cut(token, ":")
	if userID == "" {
		errors.ExitWithCode(errors.ExitInvalidArguments, "credentials must be in 'user_id:password' format")
	}
	return userID
}

// readAPIError extracts a human-readable message from an error response
func readAPIError(resp *http.Response, fallback string) string {
	body, _ := io.ReadAll(resp.Body)
	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		if e.Cause != "" {
			return fmt.Sprintf("%s: %s", e.Message, e.Cause)
		}
		return e.Message
	}
	return fallback
}
