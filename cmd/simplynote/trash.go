package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/cli"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
)

func newTrashCommand() *cobra.Command {
	trashCommand := &cobra.Command{
		Use:   "trash",
		Short: "Manage trashed notes",
	}

	moveCmd := &cobra.Command{
		Use:   "move <note id>",
		Short: "Move a note to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				if _, err := repo.AddTag(cmd.Context(), id, note.TrashTag); err != nil {
					return fmt.Errorf("repo.AddTag() > %w", err)
				}
				fmt.Printf("Moved note %d to trash\n", id)
				return nil
			})
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <note id>",
		Short: "Restore a note from the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				if _, err := repo.RemoveTag(cmd.Context(), id, note.TrashTag); err != nil {
					return fmt.Errorf("repo.RemoveTag() > %w", err)
				}
				fmt.Printf("Restored note %d\n", id)
				return nil
			})
		},
	}

	var yes bool
	emptyCmd := &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete every trashed note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				confirmed, err := cli.NewConsole().Confirm("Permanently delete every trashed note?")
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				deleted, err := repo.EmptyTrash(cmd.Context())
				if err != nil {
					return fmt.Errorf("repo.EmptyTrash() > %w", err)
				}
				fmt.Printf("Deleted %d notes\n", deleted)
				return nil
			})
		},
	}
	emptyCmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	trashCommand.AddCommand(moveCmd, restoreCmd, emptyCmd)
	return trashCommand
}
