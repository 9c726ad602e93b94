package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/moritani/accountd/internal/apierrors"
	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/storage"
)

// CloseHandler handles account deletion
type CloseHandler struct {
	store         storage.Store
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewCloseHandler creates a new close-account handler
func NewCloseHandler(store storage.Store, authenticator auth.Authenticator, logger *slog.Logger) *CloseHandler {
	return &CloseHandler{
		store:         store,
		authenticator: authenticator,
		logger:        logger,
	}
}

// CloseResponse represents the close-account success response
type CloseResponse struct {
	Message string `json:"message"`
}

// Close handles POST /close.
// The deleted record is always the authenticated caller's own, never an
// arbitrary target.
func (h *CloseHandler) Close(w http.ResponseWriter, r *http.Request) {
	authUser, err := h.authenticator.Authenticate(r)
	if err != nil {
		apierrors.WriteUnauthorized(w)
		return
	}

	deleted, err := h.store.Delete(r.Context(), authUser.UserID)
	if err != nil {
		h.logger.Error("Failed to delete user",
			"user_id", authUser.UserID,
			"error", err)
		apierrors.WriteInternalError(w)
		return
	}

	// The record authenticated a moment ago; a miss here means the
	// store lost it mid-request
	if !deleted {
		h.logger.Error("Account deletion removed no record",
			"user_id", authUser.UserID)
		apierrors.WriteInternalError(w)
		return
	}

	h.logger.Info("Account closed",
		"user_id", authUser.UserID,
		"remote_addr", r.RemoteAddr)

	response := CloseResponse{
		Message: "Account and user successfully removed",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode close response", "error", err)
	}
}
