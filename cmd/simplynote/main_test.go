package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuromaru/simplynote/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(nil, slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	assert.Equal(t, "simplynote", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("backend"))

	wantSubcommands := []string{
		"login", "logout",
		"list", "show", "new", "edit", "delete", "star",
		"tag", "tags",
		"attach", "detach",
		"import", "export",
		"trash", "prefs", "watch",
	}
	for _, name := range wantSubcommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %q", name)
	}
}

func TestNewLoginCommand(t *testing.T) {
	cmd := newLoginCommand()

	assert.Equal(t, "login", cmd.Use)
	assert.Equal(t, "Sign in to a backend", cmd.Short)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewListCommand(t *testing.T) {
	cmd := newListCommand()

	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("query"))
	assert.NotNil(t, cmd.Flags().Lookup("trash"))
}

func TestNewTrashCommand(t *testing.T) {
	cmd := newTrashCommand()

	assert.Equal(t, "trash", cmd.Use)
	assert.Equal(t, "Manage trashed notes", cmd.Short)
	assert.True(t, cmd.HasSubCommands())
}

func TestLoadConfig(t *testing.T) {
	configFile = testutil.SetupTestConfig(t, t.TempDir())
	t.Cleanup(func() {
		configFile = ""
	})

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 50, cfg.Autosave.DebounceMilliseconds)
}

func TestBackendFlag(t *testing.T) {
	var b Backend
	require.NoError(t, b.Set("drive"))
	assert.Equal(t, BackendDrive, b)

	err := b.Set("floppy")
	require.Error(t, err)
	assert.Equal(t, BackendDrive, b, "invalid value must not overwrite the flag")
}

func TestParseNoteID(t *testing.T) {
	id, err := parseNoteID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseNoteID("not-a-number")
	assert.Error(t, err)
}
