// Package testutil provides shared test helpers for config files and
// note fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/kuromaru/simplynote/internal/note"
)

// SetupTestConfig creates a minimal config file pointing every path at
// the given temp directory. Returns the path to the generated config
// file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`api:
  base_url: https://api.example.com
drive:
  root_folder: SimplyNote
state:
  path: %s
autosave:
  debounce_ms: 50
`,
		filepath.Join(tmpDir, "state.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// NoteOption configures optional fields when creating a note fixture.
type NoteOption func(*noteConfig)

type noteConfig struct {
	important bool
	tags      []string
	updatedAt time.Time
}

// WithImportant marks the fixture note as starred.
func WithImportant() NoteOption {
	return func(cfg *noteConfig) {
		cfg.important = true
	}
}

// WithTags sets the fixture note's tags.
func WithTags(tags ...string) NoteOption {
	return func(cfg *noteConfig) {
		cfg.tags = tags
	}
}

// WithUpdatedAt sets the fixture note's update time.
func WithUpdatedAt(updatedAt time.Time) NoteOption {
	return func(cfg *noteConfig) {
		cfg.updatedAt = updatedAt
	}
}

// MakeNote builds a note fixture with sensible defaults. The update
// time defaults to a fixed instant so ordering tests stay deterministic.
func MakeNote(id int64, title string, opts ...NoteOption) note.Note {
	cfg := noteConfig{
		updatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := note.Note{
		ID:        id,
		Title:     title,
		Content:   "content of " + title,
		Tags:      cfg.tags,
		CreatedAt: note.Timestamp(cfg.updatedAt.Add(-time.Hour)),
		UpdatedAt: note.Timestamp(cfg.updatedAt),
	}
	if cfg.important {
		n.IsImportant = 1
	}
	return n
}

// SignedJWT returns an HS256 token carrying the given expiry claim, for
// exercising token expiry parsing without a real auth server.
func SignedJWT(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test-user",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}
