package apierrors

import (
	"encoding/json"
	"net/http"
)

// Response summaries used across handlers. The wording is part of the
// API contract and is matched verbatim by clients.
const (
	MsgSignupFailed  = "Account creation failed"
	MsgAuthFailed    = "Authentication failed"
	MsgNoUser        = "No user found"
	MsgNoPermission  = "No permission for update"
	MsgUpdateFailed  = "User updation failed"
	MsgInternalError = "Internal Server Error"
	MsgNotFound      = "Not Found"
)

// Realm is sent in WWW-Authenticate challenges
const Realm = `Basic realm="Account Service"`

// ErrorResponse represents the standard error response format.
// Cause carries the first violated validation rule and is omitted for
// errors that deliberately leak no detail (401, 403, 404, 500).
type ErrorResponse struct {
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// WriteError writes an error response with no cause detail
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Message: message})
}

// WriteErrorWithCause writes an error response carrying a cause
func WriteErrorWithCause(w http.ResponseWriter, statusCode int, message, cause string) {
	writeJSON(w, statusCode, ErrorResponse{Message: message, Cause: cause})
}

// WriteUnauthorized writes the uniform authentication failure: a Basic
// challenge and a body with no detail about which check failed
func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", Realm)
	WriteError(w, http.StatusUnauthorized, MsgAuthFailed)
}

// WriteInternalError writes a generic 500 with no internal detail leaked
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternalError)
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
