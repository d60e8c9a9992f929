package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
)

func newAttachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <note id> <file>",
		Short: "Upload a file as a note attachment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			path := args[1]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("os.Open() > %w", err)
			}
			defer func() {
				_ = file.Close()
			}()

			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				attachment, err := repo.UploadAttachment(cmd.Context(), id, filepath.Base(path), file)
				if err != nil {
					return fmt.Errorf("repo.UploadAttachment() > %w", err)
				}
				fmt.Printf("Attached %s to note %d (attachment %d)\n", attachment.Filename, id, attachment.ID)
				return nil
			})
		},
	}
}

func newDetachCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <attachment id>",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attachmentID, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				if err := repo.DeleteAttachment(cmd.Context(), attachmentID); err != nil {
					return fmt.Errorf("repo.DeleteAttachment() > %w", err)
				}
				fmt.Printf("Deleted attachment %d\n", attachmentID)
				return nil
			})
		},
	}
}
