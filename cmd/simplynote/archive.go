package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import notes and attachments from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open() > %w", err)
			}
			defer func() {
				_ = file.Close()
			}()

			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				result, err := repo.ImportArchive(cmd.Context(), file)
				if err != nil {
					return fmt.Errorf("repo.ImportArchive() > %w", err)
				}
				fmt.Println(result.Message)
				return nil
			})
		},
	}
}

func newExportCommand() *cobra.Command {
	var output string
	command := &cobra.Command{
		Use:   "export",
		Short: "Export every note and attachment to an archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				data, err := repo.ExportArchive(cmd.Context())
				if err != nil {
					return fmt.Errorf("repo.ExportArchive() > %w", err)
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("os.WriteFile() > %w", err)
				}
				fmt.Printf("Wrote %s (%d bytes)\n", output, len(data))
				return nil
			})
		},
	}
	command.Flags().StringVar(&output, "output", "notes-export.zip", "Path of the archive to write")
	return command
}
