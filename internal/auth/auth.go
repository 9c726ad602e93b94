package auth

import (
	"errors"
	"net/http"

	"github.com/moritani/accountd/internal/models"
)

// ErrAuthenticationFailed is the uniform failure for every way
// authentication can go wrong: missing header, wrong scheme, malformed
// base64, missing colon, unknown user, or password mismatch. Callers
// must not learn which check failed.
var ErrAuthenticationFailed = errors.New("authentication failed")

// Authenticator resolves the requesting identity from a request
type Authenticator interface {
	// Authenticate validates request credentials and returns the
	// authenticated user record
	Authenticate(r *http.Request) (*models.User, error)
}
