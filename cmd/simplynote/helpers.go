package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/kuromaru/simplynote/internal/auth"
	"github.com/kuromaru/simplynote/internal/config"
	"github.com/kuromaru/simplynote/internal/driveapi"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
	"github.com/kuromaru/simplynote/internal/note/api"
	"github.com/kuromaru/simplynote/internal/note/drive"
)

// Backend is a validated --backend flag value.
type Backend string

func (b *Backend) Set(val string) error {
	for _, backend := range allBackends {
		if val == string(backend) {
			*b = backend
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", allBackends)
}

func (b *Backend) String() string {
	return string(*b)
}

func (b *Backend) Type() string {
	return "backend"
}

const (
	BackendAPI   Backend = localstore.BackendAPI
	BackendDrive Backend = localstore.BackendDrive
)

var (
	_           pflag.Value = (*Backend)(nil)
	allBackends             = []Backend{BackendAPI, BackendDrive}

	// backendOverride holds the --backend flag: a one-off override of the
	// persisted backend selection.
	backendOverride Backend
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*localstore.Store, error) {
	store, err := localstore.Open(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("localstore.Open() > %w", err)
	}
	return store, nil
}

// buildRepository assembles the repository for the persisted backend
// selection, wrapped with the refresh-and-retry-once policy. The caller
// must invoke cleanup when done.
func buildRepository(cfg *config.Config, store *localstore.Store) (note.Repository, func(), error) {
	backend, err := store.Backend()
	if err != nil {
		return nil, nil, fmt.Errorf("store.Backend() > %w", err)
	}
	if backendOverride != "" {
		backend = string(backendOverride)
	}

	onAuthFailure := func() {
		if err := store.ClearCredentials(); err != nil {
			fmt.Println("failed to clear stored credentials:", err)
		}
		color.Red("Session expired. Run `simplynote login %s` to sign in again.", backend)
	}

	switch backend {
	case localstore.BackendAPI:
		baseURL, err := store.APIBaseURL()
		if err != nil {
			return nil, nil, err
		}
		if baseURL == "" {
			baseURL = cfg.API.BaseURL
		}
		client := api.NewClient(baseURL, store)
		repo := auth.WithRetry(api.NewRepository(client), onAuthFailure)
		cleanup := func() {
			_ = client.Close()
		}
		return repo, cleanup, nil

	case localstore.BackendDrive:
		manager := auth.NewOAuthManager(store, cfg.Drive.ClientID, cfg.Drive.RelayURL)
		client := driveapi.NewClient(store)
		repo := auth.WithRetry(
			drive.NewRepository(client, manager, drive.WithRootFolder(cfg.Drive.RootFolderPath())),
			onAuthFailure,
		)
		cleanup := func() {
			_ = client.Close()
			_ = manager.Close()
		}
		return repo, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// withRepository loads config, opens the state store, builds the
// repository and guarantees teardown around the command body.
func withRepository(run func(repo note.Repository, store *localstore.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	repo, cleanup, err := buildRepository(cfg, store)
	if err != nil {
		return err
	}
	defer cleanup()

	return run(repo, store)
}
