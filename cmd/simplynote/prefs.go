package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/localstore"
)

func newPrefsCommand() *cobra.Command {
	prefsCommand := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change client preferences",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
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

			backend, err := store.Backend()
			if err != nil {
				return err
			}
			autoRefresh, err := store.AutoRefreshOnFocus()
			if err != nil {
				return err
			}
			username, err := store.Username()
			if err != nil {
				return err
			}

			fmt.Printf("backend: %s\n", backend)
			if username != "" {
				fmt.Printf("username: %s\n", username)
			}
			fmt.Printf("auto-refresh on focus: %t\n", autoRefresh)
			return nil
		},
	}

	backendCmd := &cobra.Command{
		Use:       "backend <api|drive>",
		Short:     "Select the active backend",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{localstore.BackendAPI, localstore.BackendDrive},
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := args[0]
			if backend != localstore.BackendAPI && backend != localstore.BackendDrive {
				return fmt.Errorf("unknown backend %q, valid values are %q and %q", backend, localstore.BackendAPI, localstore.BackendDrive)
			}
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

			if err := store.SetBackend(backend); err != nil {
				return err
			}
			fmt.Printf("backend set to %s\n", backend)
			return nil
		},
	}

	autoRefreshCmd := &cobra.Command{
		Use:   "auto-refresh <true|false>",
		Short: "Toggle reloading notes when the client regains focus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid value %q, expected true or false", args[0])
			}
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

			if err := store.SetAutoRefreshOnFocus(enabled); err != nil {
				return err
			}
			fmt.Printf("auto-refresh on focus set to %t\n", enabled)
			return nil
		},
	}

	baseURLCmd := &cobra.Command{
		Use:   "base-url <url>",
		Short: "Override the configured API base URL",
		Args:  cobra.ExactArgs(1),
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

			if err := store.SetAPIBaseURL(args[0]); err != nil {
				return err
			}
			fmt.Printf("API base URL set to %s\n", args[0])
			return nil
		},
	}

	prefsCommand.AddCommand(showCmd, backendCmd, autoRefreshCmd, baseURLCmd)
	return prefsCommand
}
