package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/moritani/accountd/internal/models"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id  TEXT PRIMARY KEY,
    password TEXT NOT NULL,
    nickname TEXT NOT NULL DEFAULT '',
    comment  TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStorage implements Store on a SQLite database. Unlike the
// snapshot backends it does not hold the table in memory; every
// operation goes to the database, and update runs its read-modify-write
// inside a transaction.
type SQLiteStorage struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) a SQLite user store and applies the schema
func NewSQLiteStorage(path string, logger *slog.Logger) (*SQLiteStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("SQLite storage opened", "db_path", cleanPath)

	return &SQLiteStorage{db: db, logger: logger}, nil
}

// isConstraintErr reports whether err is a SQLite constraint violation
// (duplicate primary key on insert)
func isConstraintErr(err error) bool {
	var serr *msqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT
}

// FindByID retrieves a user record by id
func (s *SQLiteStorage) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, password, nickname, comment FROM users WHERE user_id = ?`,
		userID,
	).Scan(&u.UserID, &u.Password, &u.Nickname, &u.Comment)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Storage read failed",
			"operation", "find_user",
			"user_id", userID,
			"error", err)
		return nil, ErrStorageUnavailable
	}
	return &u, nil
}

// Create inserts a new user record. The primary key rejects duplicates
// atomically, closing the check-then-create race for concurrent callers.
func (s *SQLiteStorage) Create(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, password, nickname, comment) VALUES (?, ?, ?, ?)`,
		u.UserID, u.Password, u.Nickname, u.Comment,
	)
	if err != nil {
		if isConstraintErr(err) {
			return ErrAlreadyExists
		}
		s.logger.Error("Storage write failed",
			"operation", "create_user",
			"user_id", u.UserID,
			"error", err)
		return ErrStorageUnavailable
	}

	s.logger.Info("User created", "user_id", u.UserID)
	return nil
}

// Update merges the supplied fields into an existing record inside a
// transaction and returns the merged record
func (s *SQLiteStorage) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("Storage write failed",
			"operation", "update_user",
			"user_id", userID,
			"error", err)
		return nil, ErrStorageUnavailable
	}
	defer tx.Rollback()

	var u models.User
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, password, nickname, comment FROM users WHERE user_id = ?`,
		userID,
	).Scan(&u.UserID, &u.Password, &u.Nickname, &u.Comment)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("Storage read failed",
			"operation", "update_user",
			"user_id", userID,
			"error", err)
		return nil, ErrStorageUnavailable
	}

	if patch.Nickname != nil {
		u.Nickname = *patch.Nickname
	}
	if patch.Comment != nil {
		u.Comment = *patch.Comment
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET nickname = ?, comment = ? WHERE user_id = ?`,
		u.Nickname, u.Comment, userID,
	); err != nil {
		s.logger.Error("Storage write failed",
			"operation", "update_user",
			"user_id", userID,
			"error", err)
		return nil, ErrStorageUnavailable
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("Storage write failed",
			"operation", "update_user",
			"user_id", userID,
			"error", err)
		return nil, ErrStorageUnavailable
	}

	s.logger.Info("User updated", "user_id", userID)
	return &u, nil
}

// Delete removes a user record and reports whether a record was removed
func (s *SQLiteStorage) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.Error("Storage write failed",
			"operation", "delete_user",
			"user_id", userID,
			"error", err)
		return false, ErrStorageUnavailable
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, ErrStorageUnavailable
	}

	if affected > 0 {
		s.logger.Info("User deleted", "user_id", userID)
	}
	return affected > 0, nil
}

// Count returns the number of stored users
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, ErrStorageUnavailable
	}
	return count, nil
}

// Close closes the SQLite handle
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
