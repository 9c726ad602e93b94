package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritani/accountd/internal/models"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSeedUsers(t *testing.T) {
	path := writeSeedFile(t, `users:
  - user_id: TaroYamada
    password: PaSSwd4TY
    nickname: Taro
    comment: I'm happy.
  - user_id: HanakoSuzu
    password: HanaHana88
`)

	users, err := LoadSeedUsers(path)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "TaroYamada", users[0].UserID)
	assert.Equal(t, "Taro", users[0].Nickname)
	assert.Equal(t, "I'm happy.", users[0].Comment)

	// Nickname defaults to the user id when omitted
	assert.Equal(t, "HanakoSuzu", users[1].Nickname)
	assert.Equal(t, "", users[1].Comment)
}

func TestLoadSeedUsers_InvalidEntry(t *testing.T) {
	path := writeSeedFile(t, `users:
  - user_id: short
    password: PaSSwd4TY
`)

	_, err := LoadSeedUsers(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.CauseIncorrectLength)
}

func TestLoadSeedUsers_InvalidProfileFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "nickname with control character",
			content: "users:\n" +
				"  - user_id: TaroYamada\n" +
				"    password: PaSSwd4TY\n" +
				"    nickname: \"bad\\x01name\"\n",
		},
		{
			name: "nickname too long",
			content: "users:\n" +
				"  - user_id: TaroYamada\n" +
				"    password: PaSSwd4TY\n" +
				"    nickname: " + strings.Repeat("a", 31) + "\n",
		},
		{
			name: "comment too long",
			content: "users:\n" +
				"  - user_id: TaroYamada\n" +
				"    password: PaSSwd4TY\n" +
				"    comment: " + strings.Repeat("a", 150) + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSeedFile(t, tt.content)
			_, err := LoadSeedUsers(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), models.CauseProfileFieldInvalid)
		})
	}
}

func TestLoadSeedUsers_InvalidYAML(t *testing.T) {
	path := writeSeedFile(t, "users: [broken")
	_, err := LoadSeedUsers(path)
	assert.Error(t, err)
}

func TestLoadSeedUsers_MissingFile(t *testing.T) {
	_, err := LoadSeedUsers(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplySeed_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	store := NewMemoryStorage(logger)
	require.NoError(t, store.Create(ctx, models.NewUser("TaroYamada", "old-pass-1")))

	users := []*models.User{
		models.NewUser("TaroYamada", "PaSSwd4TY"),
		models.NewUser("HanakoSuzu", "HanaHana88"),
	}
	require.NoError(t, ApplySeed(ctx, store, users, logger))

	// Existing record is untouched
	existing, err := store.FindByID(ctx, "TaroYamada")
	require.NoError(t, err)
	assert.Equal(t, "old-pass-1", existing.Password)

	_, err = store.FindByID(ctx, "HanakoSuzu")
	assert.NoError(t, err)
}
