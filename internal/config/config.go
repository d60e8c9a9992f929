package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Drive    DriveConfig    `mapstructure:"drive"`
	State    StateConfig    `mapstructure:"state"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type DriveConfig struct {
	ClientID   string `mapstructure:"client_id"`
	RelayURL   string `mapstructure:"relay_url" validate:"omitempty,url"`
	RootFolder string `mapstructure:"root_folder" validate:"required"`
}

type StateConfig struct {
	Path string `mapstructure:"path" validate:"required,statefile"`
}

type AutosaveConfig struct {
	DebounceMilliseconds int `mapstructure:"debounce_ms" validate:"gte=0"`
}

// RootFolderPath splits the configured Drive folder into path segments.
func (c DriveConfig) RootFolderPath() []string {
	var parts []string
	for _, part := range strings.Split(c.RootFolder, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/simplynote")
	}

	v.SetDefault("api.base_url", "https://api.simplynote.app")
	v.SetDefault("drive.root_folder", "SimplyNote")
	v.SetDefault("state.path", filepath.Join("$HOME", ".local", "share", "simplynote", "state.db"))
	v.SetDefault("autosave.debounce_ms", 1000)

	// Bind OAuth client settings to environment variables only (not from config file)
	if err := v.BindEnv("drive.client_id", "SIMPLYNOTE_DRIVE_CLIENT_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind SIMPLYNOTE_DRIVE_CLIENT_ID environment variable: %w", err)
	}
	if err := v.BindEnv("drive.relay_url", "SIMPLYNOTE_DRIVE_RELAY_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind SIMPLYNOTE_DRIVE_RELAY_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	cfg.State.Path = expandHome(cfg.State.Path)

	return &cfg, nil
}

func expandHome(path string) string {
	if !strings.Contains(path, "$HOME") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return strings.ReplaceAll(path, "$HOME", home)
}
