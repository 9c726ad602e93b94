package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/moritani/accountd/internal/apierrors"
	"github.com/moritani/accountd/internal/models"
	"github.com/moritani/accountd/internal/storage"
)

// SignupHandler handles account creation
type SignupHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(store storage.Store, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{
		store:  store,
		logger: logger,
	}
}

// SignupResponse represents the signup success response
type SignupResponse struct {
	Message string              `json:"message"`
	User    models.UserIdentity `json:"user"`
}

// Signup handles POST /signup
func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest

	// An unparseable body validates like an empty one, so the client
	// sees the required-fields cause rather than a parser error
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = models.SignupRequest{}
	}

	// Validate payload
	if verr := models.ValidateSignup(&req); verr != nil {
		h.logger.Warn("Signup validation failed",
			"field", verr.Field,
			"cause", verr.Message,
			"remote_addr", r.RemoteAddr)
		apierrors.WriteErrorWithCause(w, http.StatusBadRequest, apierrors.MsgSignupFailed, verr.Message)
		return
	}

	// Check user_id uniqueness before creating
	if _, err := h.store.FindByID(r.Context(), req.UserID); err == nil {
		h.logger.Warn("Signup rejected: duplicate user_id",
			"user_id", req.UserID,
			"remote_addr", r.RemoteAddr)
		apierrors.WriteErrorWithCause(w, http.StatusBadRequest, apierrors.MsgSignupFailed, models.CauseDuplicateUserID)
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Error("Failed to check user_id uniqueness",
			"user_id", req.UserID,
			"error", err)
		apierrors.WriteInternalError(w)
		return
	}

	// Create record with nickname defaulted to user_id, comment empty
	user := models.NewUser(req.UserID, req.Password)
	if err := h.store.Create(r.Context(), user); err != nil {
		// The store refuses duplicates under its own lock; a concurrent
		// signup can still lose the race after the check above
		if errors.Is(err, storage.ErrAlreadyExists) {
			apierrors.WriteErrorWithCause(w, http.StatusBadRequest, apierrors.MsgSignupFailed, models.CauseDuplicateUserID)
			return
		}

		h.logger.Error("Failed to create user",
			"user_id", req.UserID,
			"error", err)
		apierrors.WriteInternalError(w)
		return
	}

	h.logger.Info("Account created",
		"user_id", user.UserID,
		"remote_addr", r.RemoteAddr)

	// Return created identity; the password is never echoed
	response := SignupResponse{
		Message: "Account successfully created",
		User: models.UserIdentity{
			UserID:   user.UserID,
			Nickname: user.Nickname,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode signup response", "error", err)
	}
}
