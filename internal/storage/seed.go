package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moritani/accountd/internal/models"
)

// SeedUser represents one account in the seed file.
// Passwords are stored in the clear, matching the service's plaintext
// credential comparison.
type SeedUser struct {
	UserID   string `yaml:"user_id"`
	Password string `yaml:"password"`
	Nickname string `yaml:"nickname"`
	Comment  string `yaml:"comment"`
}

// SeedFile represents the structure of the seed accounts YAML file
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedUsers reads and validates a YAML seed file. Credentials must
// satisfy the same constraints as a signup payload, nickname and comment
// the same limits as a profile update; both default like a fresh signup
// when omitted.
func LoadSeedUsers(path string) ([]*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seedFile SeedFile
	if err := yaml.Unmarshal(data, &seedFile); err != nil {
		return nil, fmt.Errorf("failed to parse seed file (invalid YAML syntax): %w", err)
	}

	users := make([]*models.User, 0, len(seedFile.Users))
	for i, su := range seedFile.Users {
		if verr := models.ValidateSignup(&models.SignupRequest{UserID: su.UserID, Password: su.Password}); verr != nil {
			return nil, fmt.Errorf("seed user %d (%q): %s", i, su.UserID, verr.Message)
		}
		if !models.ValidNickname(su.Nickname) {
			return nil, fmt.Errorf("seed user %d (%q): nickname: %s", i, su.UserID, models.CauseProfileFieldInvalid)
		}
		if !models.ValidComment(su.Comment) {
			return nil, fmt.Errorf("seed user %d (%q): comment: %s", i, su.UserID, models.CauseProfileFieldInvalid)
		}

		u := models.NewUser(su.UserID, su.Password)
		if su.Nickname != "" {
			u.Nickname = su.Nickname
		}
		u.Comment = su.Comment
		users = append(users, u)
	}

	return users, nil
}

// ApplySeed inserts seed users into the store. Ids that already exist
// are left untouched.
func ApplySeed(ctx context.Context, store Store, users []*models.User, logger *slog.Logger) error {
	created := 0
	for _, u := range users {
		err := store.Create(ctx, u)
		if errors.Is(err, ErrAlreadyExists) {
			logger.Debug("Seed user already exists, skipping", "user_id", u.UserID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.UserID, err)
		}
		created++
	}

	logger.Info("Seed accounts applied",
		"seeded", created,
		"skipped", len(users)-created)
	return nil
}
