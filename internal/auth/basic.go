package auth

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/moritani/accountd/internal/models"
	"github.com/moritani/accountd/internal/storage"
)

// BasicAuth implements HTTP Basic Authentication against the user store.
// Passwords are compared byte-for-byte in the clear; this matches the
// service contract (clients authenticate with the exact credentials they
// signed up with) and is a known weakness - real deployments must hash.
type BasicAuth struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBasicAuth creates a new store-backed Basic authenticator
func NewBasicAuth(store storage.Store, logger *slog.Logger) *BasicAuth {
	return &BasicAuth{
		store:  store,
		logger: logger,
	}
}

// Authenticate validates HTTP Basic Auth credentials against the store
func (a *BasicAuth) Authenticate(r *http.Request) (*models.User, error) {
	userID, password, ok := decodeBasicCredentials(r.Header.Get("Authorization"))
	if !ok {
		a.logger.Debug("Authentication failed: malformed credentials",
			"source_ip", r.RemoteAddr)
		return nil, ErrAuthenticationFailed
	}

	user, err := a.store.FindByID(r.Context(), userID)
	if err != nil {
		a.logger.Debug("Authentication failed: user not found",
			"user_id", userID,
			"source_ip", r.RemoteAddr)
		return nil, ErrAuthenticationFailed
	}

	if user.Password != password {
		a.logger.Debug("Authentication failed: invalid password",
			"user_id", userID,
			"source_ip", r.RemoteAddr)
		return nil, ErrAuthenticationFailed
	}

	return user, nil
}

// decodeBasicCredentials parses an Authorization header value. The
// scheme prefix is matched case-sensitively with a single space, the
// remainder must be standard base64 of UTF-8 text, and the pair is
// split on the first colon. http.Request.BasicAuth is not used because
// it is case-insensitive about the scheme.
func decodeBasicCredentials(header string) (userID, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	if !utf8.Valid(decoded) {
		return "", "", false
	}

	userID, password, ok = strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", false
	}

	return userID, password, true
}
