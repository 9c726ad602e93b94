package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moritani/accountd/internal/apierrors"
	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/models"
	"github.com/moritani/accountd/internal/storage"
)

// UserHandler handles profile reads and updates
type UserHandler struct {
	store         storage.Store
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(store storage.Store, authenticator auth.Authenticator, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:         store,
		authenticator: authenticator,
		logger:        logger,
	}
}

// ProfileResponse represents the GET /users/{user_id} success response
type ProfileResponse struct {
	Message string             `json:"message"`
	User    models.UserProfile `json:"user"`
}

// UpdateResponse represents the PATCH /users/{user_id} success response
type UpdateResponse struct {
	Message string            `json:"message"`
	User    models.UserDetail `json:"user"`
}

// GetUser handles GET /users/{user_id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	// Authenticate the request
	authUser, err := h.authenticator.Authenticate(r)
	if err != nil {
		apierrors.WriteUnauthorized(w)
		return
	}

	// Look up the target; any authenticated user may read any profile
	targetID := chi.URLParam(r, "user_id")
	target, err := h.store.FindByID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.MsgNoUser)
			return
		}

		h.logger.Error("Failed to get user",
			"user_id", targetID,
			"error", err)
		apierrors.WriteInternalError(w)
		return
	}

	h.logger.Debug("Profile retrieved",
		"user_id", targetID,
		"requested_by", authUser.UserID)

	// Nickname falls back to the user id; comment is omitted when empty
	response := ProfileResponse{
		Message: "User details by user_id",
		User: models.UserProfile{
			UserID:   target.UserID,
			Nickname: target.DisplayNickname(),
			Comment:  target.Comment,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode profile response", "error", err)
	}
}

// UpdateUser handles PATCH /users/{user_id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	// Authenticate the request
	authUser, err := h.authenticator.Authenticate(r)
	if err != nil {
		apierrors.WriteUnauthorized(w)
		return
	}

	// Ownership is checked before body validation: a wrong-owner
	// request is rejected even with a malformed body
	targetID := chi.URLParam(r, "user_id")
	if authUser.UserID != targetID {
		h.logger.Warn("Update rejected: not the owner",
			"user_id", targetID,
			"requested_by", authUser.UserID,
			"remote_addr", r.RemoteAddr)
		apierrors.WriteError(w, http.StatusForbidden, apierrors.MsgNoPermission)
		return
	}

	// Parse and validate payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apierrors.WriteInternalError(w)
		return
	}
	req := models.ParseUpdateRequest(body)

	if verr := models.ValidateUpdate(req); verr != nil {
		h.logger.Warn("Update validation failed",
			"user_id", targetID,
			"field", verr.Field,
			"cause", verr.Message)
		apierrors.WriteErrorWithCause(w, http.StatusBadRequest, apierrors.MsgUpdateFailed, verr.Message)
		return
	}

	// Defined-field semantics: an empty string clears to the default
	// (nickname -> user_id, comment -> ""), a non-empty string is stored
	// verbatim, an absent field is left untouched
	var patch models.UserPatch
	if req.NicknameSet {
		nickname := *req.Nickname
		if nickname == "" {
			nickname = targetID
		}
		patch.Nickname = &nickname
	}
	if req.CommentSet {
		comment := *req.Comment
		patch.Comment = &comment
	}

	updated, err := h.store.Update(r.Context(), targetID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			apierrors.WriteError(w, http.StatusNotFound, apierrors.MsgNoUser)
			return
		}

		h.logger.Error("Failed to update user",
			"user_id", targetID,
			"error", err)
		apierrors.WriteInternalError(w)
		return
	}

	h.logger.Info("Profile updated",
		"user_id", targetID,
		"remote_addr", r.RemoteAddr)

	response := UpdateResponse{
		Message: "User successfully updated",
		User: models.UserDetail{
			UserID:   updated.UserID,
			Nickname: updated.Nickname,
			Comment:  updated.Comment,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode update response", "error", err)
	}
}
