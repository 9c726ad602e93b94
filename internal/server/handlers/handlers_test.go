package handlers

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/models"
	"github.com/moritani/accountd/internal/storage"
)

// newTestStore builds a memory store preloaded with two accounts
func newTestStore(t *testing.T) (*storage.MemoryStorage, *auth.BasicAuth) {
	t.Helper()
	logger := slog.Default()
	store := storage.NewMemoryStorage(logger)

	require.NoError(t, store.Create(context.Background(), models.NewUser("TaroYamada", "PaSSwd4TY")))
	require.NoError(t, store.Create(context.Background(), &models.User{
		UserID:   "HanakoSuzu",
		Password: "HanaHana88",
		Nickname: "Hanako",
		Comment:  "Hello!",
	}))

	return store, auth.NewBasicAuth(store, logger)
}

// setBasicAuth sets a Basic Authorization header from plain credentials
func setBasicAuth(r *http.Request, userID, password string) {
	token := base64.StdEncoding.EncodeToString([]byte(userID + ":" + password))
	r.Header.Set("Authorization", "Basic "+token)
}

// withURLParam attaches a chi route parameter to the request context
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
