package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func setupLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "simplynote",
		Short:         "Note taking client for the SimplyNote API and Google Drive",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to the configuration file")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.Var(&backendOverride, "backend", "Override the active backend for this invocation (api or drive)")

	rootCommand.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newListCommand(),
		newShowCommand(),
		newNewCommand(),
		newEditCommand(),
		newDeleteCommand(),
		newStarCommand(),
		newTagCommand(),
		newTagsCommand(),
		newAttachCommand(),
		newDetachCommand(),
		newImportCommand(),
		newExportCommand(),
		newTrashCommand(),
		newPrefsCommand(),
		newWatchCommand(),
	)
	return rootCommand
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
