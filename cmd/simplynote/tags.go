package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/cli"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
)

func newTagCommand() *cobra.Command {
	tagCommand := &cobra.Command{
		Use:   "tag",
		Short: "Attach or detach tags",
	}

	addCmd := &cobra.Command{
		Use:   "add <note id> <tag>",
		Short: "Attach a tag to a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			name := args[1]
			if err := note.ValidateTagName(name); err != nil {
				return fmt.Errorf("invalid tag name %q: %w", name, err)
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				tags, err := repo.AddTag(cmd.Context(), id, name)
				if err != nil {
					return fmt.Errorf("repo.AddTag() > %w", err)
				}
				fmt.Printf("Tags on note %d: %v\n", id, tags)
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <note id> <tag>",
		Short: "Detach a tag from a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				tags, err := repo.RemoveTag(cmd.Context(), id, args[1])
				if err != nil {
					return fmt.Errorf("repo.RemoveTag() > %w", err)
				}
				fmt.Printf("Tags on note %d: %v\n", id, tags)
				return nil
			})
		},
	}

	tagCommand.AddCommand(addCmd, removeCmd)
	return tagCommand
}

func newTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag with its note count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				tags, err := repo.ListAllTags(cmd.Context())
				if err != nil {
					return fmt.Errorf("repo.ListAllTags() > %w", err)
				}
				cli.NewConsole().PrintTags(tags)
				return nil
			})
		},
	}
}
