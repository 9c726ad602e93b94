package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritani/accountd/internal/apierrors"
	"github.com/moritani/accountd/internal/models"
)

func TestSignupHandler_Signup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCause  string
	}{
		{
			name:       "valid signup",
			body:       `{"user_id":"JiroKobaya","password":"JiroJiro22"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing user_id",
			body:       `{"password":"JiroJiro22"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseRequiredCredentials,
		},
		{
			name:       "missing password",
			body:       `{"user_id":"JiroKobaya"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseRequiredCredentials,
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseRequiredCredentials,
		},
		{
			name:       "malformed JSON",
			body:       `{user_id: nope`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseRequiredCredentials,
		},
		{
			name:       "user_id too short",
			body:       `{"user_id":"jiro","password":"JiroJiro22"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseIncorrectLength,
		},
		{
			name:       "user_id with invalid characters",
			body:       `{"user_id":"jiro@kobaya","password":"JiroJiro22"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseIncorrectPattern,
		},
		{
			name:       "password with space",
			body:       `{"user_id":"JiroKobaya","password":"Jiro Jiro22"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseIncorrectPattern,
		},
		{
			name:       "duplicate user_id",
			body:       `{"user_id":"TaroYamada","password":"OtherPass9"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseDuplicateUserID,
		},
		{
			name:       "invalid password reported before duplicate user_id",
			body:       `{"user_id":"TaroYamada","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantCause:  models.CauseIncorrectLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			handler := NewSignupHandler(store, slog.Default())

			req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.Signup(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)

			if tt.wantStatus == http.StatusOK {
				var response SignupResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
				assert.Equal(t, "Account successfully created", response.Message)
				assert.Equal(t, "JiroKobaya", response.User.UserID)
				assert.Equal(t, "JiroKobaya", response.User.Nickname)
			} else {
				var response apierrors.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
				assert.Equal(t, apierrors.MsgSignupFailed, response.Message)
				assert.Equal(t, tt.wantCause, response.Cause)
			}
		})
	}
}

func TestSignupHandler_PasswordNeverEchoed(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewSignupHandler(store, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"user_id":"JiroKobaya","password":"JiroJiro22"}`))
	rr := httptest.NewRecorder()
	handler.Signup(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "JiroJiro22")
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestSignupHandler_CreatedUserCanAuthenticate(t *testing.T) {
	store, authenticator := newTestStore(t)
	handler := NewSignupHandler(store, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"user_id":"JiroKobaya","password":"JiroJiro22"}`))
	rr := httptest.NewRecorder()
	handler.Signup(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	user, err := store.FindByID(context.Background(), "JiroKobaya")
	require.NoError(t, err)
	assert.Equal(t, "JiroJiro22", user.Password)

	authReq := httptest.NewRequest(http.MethodGet, "/users/JiroKobaya", nil)
	setBasicAuth(authReq, "JiroKobaya", "JiroJiro22")
	authed, err := authenticator.Authenticate(authReq)
	require.NoError(t, err)
	assert.Equal(t, "JiroKobaya", authed.UserID)
}
