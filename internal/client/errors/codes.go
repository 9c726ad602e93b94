package errors

import (
	"fmt"
	"net/http"
	"os"
)

// Exit codes for different error scenarios
const (
	ExitSuccess          = 0 // Success
	ExitGeneralError     = 1 // General error (network failure, server 500, unknown error)
	ExitInvalidArguments = 2 // Invalid arguments/usage (missing required flags, rejected input)
	ExitNotFound         = 3 // Resource not found (404)
	ExitConflict         = 4 // Conflict - e.g., user_id already taken
	ExitAuthError        = 5 // Authentication error (401)
	ExitPermissionDenied = 6 // Permission denied (403)
)

// statusExitCodes maps HTTP statuses with a dedicated exit code
var statusExitCodes = map[int]int{
	http.StatusBadRequest:   ExitInvalidArguments,
	http.StatusUnauthorized: ExitAuthError,
	http.StatusForbidden:    ExitPermissionDenied,
	http.StatusNotFound:     ExitNotFound,
	http.StatusConflict:     ExitConflict,
}

// ExitWithError prints error message and exits with the general code
func ExitWithError(err error, message string) {
	if message != "" {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitGeneralError)
}

// ExitWithCode prints error message and exits with specific code
func ExitWithCode(code int, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	os.Exit(code)
}

// MapHTTPStatusToExitCode maps HTTP status codes to exit codes.
// Unmapped 4xx statuses count as usage errors, everything else as general.
func MapHTTPStatusToExitCode(statusCode int) int {
	if code, ok := statusExitCodes[statusCode]; ok {
		return code
	}
	if statusCode >= 400 && statusCode < 500 {
		return ExitInvalidArguments
	}
	return ExitGeneralError
}

// HandleHTTPError exits with the code mapped from an HTTP error status
func HandleHTTPError(statusCode int, message string) {
	if statusCode == http.StatusUnauthorized {
		message += ". Try running 'accountctl login' to authenticate"
	}

	ExitWithCode(MapHTTPStatusToExitCode(statusCode), message)
}
