package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritani/accountd/internal/auth"
	"github.com/moritani/accountd/internal/config"
	"github.com/moritani/accountd/internal/server/handlers"
	"github.com/moritani/accountd/internal/storage"
)

// newTestServer wires the full router against a memory store, the same
// way the server command does
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.Default()
	store := storage.NewMemoryStorage(logger)
	authenticator := auth.NewBasicAuth(store, logger)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, Host: "127.0.0.1"},
		Storage: config.StorageConfig{URI: "memory://"},
	}

	srv := NewServer(cfg, logger, store, authenticator)

	signupHandler := handlers.NewSignupHandler(store, logger)
	userHandler := handlers.NewUserHandler(store, authenticator, logger)
	closeHandler := handlers.NewCloseHandler(store, authenticator, logger)
	healthHandler := handlers.NewHealthHandler(store, logger)

	srv.SetHandlers(HandlerSet{
		Signup:     signupHandler.Signup,
		GetUser:    userHandler.GetUser,
		UpdateUser: userHandler.UpdateUser,
		Close:      closeHandler.Close,
		Health:     healthHandler.GetHealth,
		NotFound:   handlers.NotFound,
	})

	ts := httptest.NewServer(srv.setupRouter())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, body, basicAuth string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if basicAuth != "" {
		userID, password, _ := strings.Cut(basicAuth, ":")
		req.SetBasicAuth(userID, password)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func TestAccountLifecycle(t *testing.T) {
	ts := newTestServer(t)
	creds := "TaroYamada:PaSSwd4TY"

	// Signup
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/signup", `{"user_id":"TaroYamada","password":"PaSSwd4TY"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account successfully created", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "TaroYamada", user["user_id"])
	assert.Equal(t, "TaroYamada", user["nickname"])

	// Duplicate signup is rejected
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/signup", `{"user_id":"TaroYamada","password":"OtherPass9"}`, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Account creation failed", body["message"])
	assert.Equal(t, "Already same user_id is used", body["cause"])

	// Fresh profile: nickname defaults to user_id, comment key absent
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/users/TaroYamada", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User details by user_id", body["message"])
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "TaroYamada", user["nickname"])
	_, hasComment := user["comment"]
	assert.False(t, hasComment)

	// Update profile
	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/users/TaroYamada", `{"nickname":"Taro","comment":"I'm happy."}`, creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User successfully updated", body["message"])
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "Taro", user["nickname"])
	assert.Equal(t, "I'm happy.", user["comment"])

	// The update is visible on the next read
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/users/TaroYamada", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "Taro", user["nickname"])
	assert.Equal(t, "I'm happy.", user["comment"])

	// Empty strings reset nickname to user_id and drop the comment
	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/users/TaroYamada", `{"nickname":"","comment":""}`, creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "TaroYamada", user["nickname"])
	assert.Equal(t, "", user["comment"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/users/TaroYamada", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "TaroYamada", user["nickname"])
	_, hasComment = user["comment"]
	assert.False(t, hasComment)

	// Close the account
	resp, body = doJSON(t, http.MethodPost, ts.URL+"/close", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account and user successfully removed", body["message"])

	// Old credentials are dead
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/users/TaroYamada", "", creds)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication failed", body["message"])

	// The user_id is free for a new signup
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/signup", `{"user_id":"TaroYamada","password":"NewPass123"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_OwnershipAndPermissions(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/signup", `{"user_id":"TaroYamada","password":"PaSSwd4TY"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/signup", `{"user_id":"HanakoSuzu","password":"HanaHana88"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Any authenticated user can read any profile
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/users/HanakoSuzu", "", "TaroYamada:PaSSwd4TY")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "HanakoSuzu", user["user_id"])

	// But only the owner can update
	resp, body = doJSON(t, http.MethodPatch, ts.URL+"/users/HanakoSuzu", `{"nickname":"Intruder"}`, "TaroYamada:PaSSwd4TY")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "No permission for update", body["message"])

	// The target record is untouched
	resp, body = doJSON(t, http.MethodGet, ts.URL+"/users/HanakoSuzu", "", "HanakoSuzu:HanaHana88")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "HanakoSuzu", user["nickname"])
}

func TestRouter_UnknownRoutes(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/", "/nope", "/users"} {
		resp, body := doJSON(t, http.MethodGet, ts.URL+path, "", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "path %s", path)
		assert.Equal(t, "Not Found", body["message"], "path %s", path)
	}
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}
