package auth

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritani/accountd/internal/models"
	"github.com/moritani/accountd/internal/storage"
)

func newTestAuthenticator(t *testing.T) *BasicAuth {
	t.Helper()
	logger := slog.Default()
	store := storage.NewMemoryStorage(logger)
	require.NoError(t, store.Create(context.Background(), models.NewUser("TaroYamada", "PaSSwd4TY")))
	require.NoError(t, store.Create(context.Background(), &models.User{
		UserID:   "HanakoSuzu",
		Password: "pa:ss:wd1",
		Nickname: "Hanako",
	}))
	return NewBasicAuth(store, logger)
}

func basicHeader(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func TestBasicAuth_Authenticate(t *testing.T) {
	a := newTestAuthenticator(t)

	tests := []struct {
		name       string
		header     string
		wantUserID string
	}{
		{
			name:       "valid credentials",
			header:     basicHeader("TaroYamada:PaSSwd4TY"),
			wantUserID: "TaroYamada",
		},
		{
			name:       "password containing colons splits on first colon",
			header:     basicHeader("HanakoSuzu:pa:ss:wd1"),
			wantUserID: "HanakoSuzu",
		},
		{
			name:   "no header",
			header: "",
		},
		{
			name:   "lowercase scheme rejected",
			header: "basic " + base64.StdEncoding.EncodeToString([]byte("TaroYamada:PaSSwd4TY")),
		},
		{
			name:   "wrong scheme",
			header: "Bearer abcdef",
		},
		{
			name:   "invalid base64",
			header: "Basic not-base64!!!",
		},
		{
			name:   "no colon in decoded pair",
			header: basicHeader("TaroYamada"),
		},
		{
			name:   "unknown user",
			header: basicHeader("NoSuchUser1:PaSSwd4TY"),
		},
		{
			name:   "wrong password",
			header: basicHeader("TaroYamada:wrongpass"),
		},
		{
			name:   "password is case sensitive",
			header: basicHeader("TaroYamada:passwd4ty"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/TaroYamada", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			user, err := a.Authenticate(req)
			if tt.wantUserID == "" {
				assert.ErrorIs(t, err, ErrAuthenticationFailed)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUserID, user.UserID)
			}
		})
	}
}

func TestDecodeBasicCredentials(t *testing.T) {
	userID, password, ok := decodeBasicCredentials(basicHeader("TaroYamada:PaSSwd4TY"))
	require.True(t, ok)
	assert.Equal(t, "TaroYamada", userID)
	assert.Equal(t, "PaSSwd4TY", password)

	// Empty password after the colon is structurally valid; it fails the
	// comparison later, not the parse
	userID, password, ok = decodeBasicCredentials(basicHeader("TaroYamada:"))
	require.True(t, ok)
	assert.Equal(t, "TaroYamada", userID)
	assert.Equal(t, "", password)

	_, _, ok = decodeBasicCredentials("Basic " + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 'x'}))
	assert.False(t, ok)
}
