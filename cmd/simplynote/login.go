package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/auth"
	"github.com/kuromaru/simplynote/internal/cli"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note/api"
)

// The OAuth redirect target shown to the user. The relay completes the
// code exchange, so a local listener is not needed.
const oauthRedirectURI = "urn:ietf:wg:oauth:2.0:oob"

func newLoginCommand() *cobra.Command {
	loginCommand := &cobra.Command{
		Use:   "login",
		Short: "Sign in to a backend",
	}

	var baseURL string
	var username string
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Sign in to the REST API backend with a username and password",
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

			console := cli.NewConsole()
			if username == "" {
				if username, err = console.Prompt("Username"); err != nil {
					return err
				}
			}
			password, err := console.Prompt("Password")
			if err != nil {
				return err
			}

			if baseURL == "" {
				baseURL = cfg.API.BaseURL
			}
			tokens, err := api.Login(cmd.Context(), baseURL, username, password)
			if err != nil {
				return fmt.Errorf("api.Login() > %w", err)
			}

			if err := store.SetAPIBaseURL(baseURL); err != nil {
				return err
			}
			if err := store.SetAPISession(username, tokens.AccessToken, tokens.RefreshToken); err != nil {
				return err
			}
			if err := store.SetBackend(localstore.BackendAPI); err != nil {
				return err
			}
			color.Green("Signed in as %s", username)
			return nil
		},
	}
	apiCmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL (defaults to the configured one)")
	apiCmd.Flags().StringVar(&username, "username", "", "Username to sign in with")

	driveCmd := &cobra.Command{
		Use:   "drive",
		Short: "Sign in to the Google Drive backend via OAuth",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Drive.ClientID == "" || cfg.Drive.RelayURL == "" {
				return fmt.Errorf("SIMPLYNOTE_DRIVE_CLIENT_ID and SIMPLYNOTE_DRIVE_RELAY_URL are required for Drive sign-in")
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			manager := auth.NewOAuthManager(store, cfg.Drive.ClientID, cfg.Drive.RelayURL)
			defer func() {
				_ = manager.Close()
			}()

			authURL, _ := manager.AuthURL(oauthRedirectURI)
			fmt.Println("Open the following URL in a browser and approve access:")
			fmt.Println()
			fmt.Println("  " + authURL)
			fmt.Println()

			console := cli.NewConsole()
			code, err := console.Prompt("Authorization code")
			if err != nil {
				return err
			}
			if err := manager.Exchange(cmd.Context(), code, oauthRedirectURI); err != nil {
				return fmt.Errorf("manager.Exchange() > %w", err)
			}
			if err := store.SetBackend(localstore.BackendDrive); err != nil {
				return err
			}
			color.Green("Signed in to Google Drive")
			return nil
		},
	}

	loginCommand.AddCommand(apiCmd, driveCmd)
	return loginCommand
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear stored credentials",
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

			if err := store.ClearCredentials(); err != nil {
				return fmt.Errorf("store.ClearCredentials() > %w", err)
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
