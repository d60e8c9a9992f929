package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/auth"
	"github.com/kuromaru/simplynote/internal/cli"
	"github.com/kuromaru/simplynote/internal/config"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
	"github.com/kuromaru/simplynote/internal/workspace"
)

// buildCredentialManager returns the proactive-refresh manager for the
// active backend. repo supplies the bearer refresh exchange.
func buildCredentialManager(cfg *config.Config, store *localstore.Store, repo note.Repository) (auth.CredentialManager, error) {
	backend, err := store.Backend()
	if err != nil {
		return nil, fmt.Errorf("store.Backend() > %w", err)
	}
	if backendOverride != "" {
		backend = string(backendOverride)
	}

	switch backend {
	case localstore.BackendAPI:
		return auth.NewBearerManager(store, repo.RefreshToken), nil
	case localstore.BackendDrive:
		return auth.NewOAuthManager(store, cfg.Drive.ClientID, cfg.Drive.RelayURL), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func newWatchCommand() *cobra.Command {
	var interval time.Duration
	var query string
	command := &cobra.Command{
		Use:   "watch",
		Short: "Keep a live note list, renewing credentials ahead of expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			manager, err := buildCredentialManager(cfg, store, repo)
			if err != nil {
				return err
			}
			if closer, ok := manager.(io.Closer); ok {
				defer func() {
					_ = closer.Close()
				}()
			}
			scheduler := auth.NewScheduler(manager, func() {
				color.Red("Session expired. Run `simplynote login` to sign in again.")
			}, slog.Default())
			scheduler.Start(cmd.Context())
			defer scheduler.Stop()

			sync := workspace.NewSynchronizer(repo,
				workspace.WithDebounce(time.Duration(cfg.Autosave.DebounceMilliseconds)*time.Millisecond))
			sync.SetQuery(query)
			console := cli.NewConsole()

			reload := func() error {
				if err := sync.Load(cmd.Context()); err != nil {
					return err
				}
				console.PrintNoteList(sync.VisibleNotes())
				return nil
			}
			if err := reload(); err != nil {
				return err
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					// Flush on a fresh context: the command context is
					// already cancelled.
					return sync.Flush(context.Background())
				case <-ticker.C:
					autoRefresh, err := store.AutoRefreshOnFocus()
					if err != nil {
						return err
					}
					if !autoRefresh {
						continue
					}
					if err := reload(); err != nil {
						slog.Warn("reload failed", "error", err)
					}
				}
			}
		},
	}
	command.Flags().DurationVar(&interval, "interval", 30*time.Second, "How often to reload the note list")
	command.Flags().StringVar(&query, "query", "", "Filter notes: #tag tokens and free text")
	return command
}
