// Package localstore persists per-user client state in a local SQLite
// database: session credentials for both backends, the active backend
// selection, and UI preferences. All values live in a single key/value
// table so new settings never need a migration.
package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Setting keys. Credentials are grouped by backend so a logout can clear
// one session without touching the other's preferences.
const (
	KeyBackend = "backend"

	KeyAPIBaseURL      = "api.base_url"
	KeyAPIUsername     = "api.username"
	KeyAPIAccessToken  = "api.access_token"
	KeyAPIRefreshToken = "api.refresh_token"

	KeyDriveAccessToken  = "drive.access_token"
	KeyDriveRefreshToken = "drive.refresh_token"
	KeyDriveTokenExpiry  = "drive.token_expiry"

	KeyAutoRefreshOnFocus = "prefs.auto_refresh_on_focus"
)

// Backend selection values stored under KeyBackend.
const (
	BackendAPI   = "api"
	BackendDrive = "drive"
)

// Store is a key/value settings store backed by SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the settings database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("os.MkdirAll() > %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open() > %w", err)
	}
	// The sqlite driver serializes access through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Exec() > %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key, or "" if unset.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("db.Get() > %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("db.Exec() > %w", err)
	}
	return nil
}

// Delete removes keys from the store. Missing keys are not an error.
func (s *Store) Delete(keys ...string) error {
	query, args, err := sqlx.In("DELETE FROM settings WHERE key IN (?)", keys)
	if err != nil {
		return fmt.Errorf("sqlx.In() > %w", err)
	}
	if _, err := s.db.Exec(s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.Exec() > %w", err)
	}
	return nil
}

// Backend returns the persisted backend selection, defaulting to the
// REST API backend.
func (s *Store) Backend() (string, error) {
	backend, err := s.Get(KeyBackend)
	if err != nil {
		return "", err
	}
	if backend == "" {
		return BackendAPI, nil
	}
	return backend, nil
}

func (s *Store) SetBackend(backend string) error {
	return s.Set(KeyBackend, backend)
}

// AccessToken returns the REST API session's access token.
func (s *Store) AccessToken() (string, error) {
	return s.Get(KeyAPIAccessToken)
}

func (s *Store) SetAccessToken(token string) error {
	return s.Set(KeyAPIAccessToken, token)
}

// RefreshTokenValue returns the REST API session's refresh token.
func (s *Store) RefreshTokenValue() (string, error) {
	return s.Get(KeyAPIRefreshToken)
}

// SetAPISession stores a freshly issued API token pair and username.
func (s *Store) SetAPISession(username, accessToken, refreshToken string) error {
	if err := s.Set(KeyAPIUsername, username); err != nil {
		return err
	}
	if err := s.Set(KeyAPIAccessToken, accessToken); err != nil {
		return err
	}
	return s.Set(KeyAPIRefreshToken, refreshToken)
}

// Username returns the REST API session's username.
func (s *Store) Username() (string, error) {
	return s.Get(KeyAPIUsername)
}

// APIBaseURL returns a persisted API base URL override, or "".
func (s *Store) APIBaseURL() (string, error) {
	return s.Get(KeyAPIBaseURL)
}

func (s *Store) SetAPIBaseURL(baseURL string) error {
	return s.Set(KeyAPIBaseURL, baseURL)
}

// DriveAccessToken returns the Drive session's access token.
func (s *Store) DriveAccessToken() (string, error) {
	return s.Get(KeyDriveAccessToken)
}

// DriveRefreshToken returns the Drive session's refresh token.
func (s *Store) DriveRefreshToken() (string, error) {
	return s.Get(KeyDriveRefreshToken)
}

// DriveTokenExpiry returns the Drive access token's absolute expiry, or
// a zero time if none is stored.
func (s *Store) DriveTokenExpiry() (time.Time, error) {
	raw, err := s.Get(KeyDriveTokenExpiry)
	if err != nil {
		return time.Time{}, err
	}
	if raw == "" {
		return time.Time{}, nil
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored expiry: %w", err)
	}
	return time.Unix(unix, 0), nil
}

// SetDriveAccessToken replaces the access token and its expiry, keeping
// the refresh token.
func (s *Store) SetDriveAccessToken(token string, expiry time.Time) error {
	if err := s.Set(KeyDriveAccessToken, token); err != nil {
		return err
	}
	return s.Set(KeyDriveTokenExpiry, strconv.FormatInt(expiry.Unix(), 10))
}

// SetDriveSession stores a full Drive token grant.
func (s *Store) SetDriveSession(accessToken, refreshToken string, expiry time.Time) error {
	if err := s.Set(KeyDriveRefreshToken, refreshToken); err != nil {
		return err
	}
	return s.SetDriveAccessToken(accessToken, expiry)
}

// ClearCredentials wipes the credentials of both backends. Preferences
// and the backend selection survive.
func (s *Store) ClearCredentials() error {
	return s.Delete(
		KeyAPIUsername,
		KeyAPIAccessToken,
		KeyAPIRefreshToken,
		KeyDriveAccessToken,
		KeyDriveRefreshToken,
		KeyDriveTokenExpiry,
	)
}

// AutoRefreshOnFocus reports whether the client should reload notes when
// it regains focus. Defaults to true.
func (s *Store) AutoRefreshOnFocus() (bool, error) {
	raw, err := s.Get(KeyAutoRefreshOnFocus)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return true, nil
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse stored preference: %w", err)
	}
	return enabled, nil
}

func (s *Store) SetAutoRefreshOnFocus(enabled bool) error {
	return s.Set(KeyAutoRefreshOnFocus, strconv.FormatBool(enabled))
}
