package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kuromaru/simplynote/internal/cli"
	"github.com/kuromaru/simplynote/internal/localstore"
	"github.com/kuromaru/simplynote/internal/note"
	"github.com/kuromaru/simplynote/internal/workspace"
)

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

func newListCommand() *cobra.Command {
	var query string
	var showTrash bool
	command := &cobra.Command{
		Use:   "list",
		Short: "List notes, starred first, most recently updated next",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				sync := workspace.NewSynchronizer(repo)
				if err := sync.Load(cmd.Context()); err != nil {
					return err
				}
				sync.SetQuery(query)
				sync.SetShowTrash(showTrash)

				cli.NewConsole().PrintNoteList(sync.VisibleNotes())
				return nil
			})
		},
	}
	command.Flags().StringVar(&query, "query", "", "Filter notes: #tag tokens and free text")
	command.Flags().BoolVar(&showTrash, "trash", false, "List trashed notes instead")
	return command
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note id>",
		Short: "Print a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				n, err := repo.GetNote(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("repo.GetNote() > %w", err)
				}
				cli.NewConsole().PrintNote(n, repo.ResolveAttachmentURL)
				return nil
			})
		},
	}
}

func newNewCommand() *cobra.Command {
	var title string
	var content string
	command := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				created, err := repo.CreateNote(cmd.Context(), title, content)
				if err != nil {
					return fmt.Errorf("repo.CreateNote() > %w", err)
				}
				fmt.Printf("Created note %d\n", created.ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&title, "title", "", "Note title")
	command.Flags().StringVar(&content, "content", "", "Note content")
	return command
}

// readContentFile returns the contents of path, or stdin when path is "-".
func readContentFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile() > %w", err)
	}
	return string(data), nil
}

func newEditCommand() *cobra.Command {
	var title string
	var content string
	var contentFile string
	command := &cobra.Command{
		Use:   "edit <note id>",
		Short: "Update a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			var patch note.NotePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if cmd.Flags().Changed("content-file") {
				fileContent, err := readContentFile(cmd, contentFile)
				if err != nil {
					return err
				}
				patch.Content = &fileContent
			}
			if patch.Title == nil && patch.Content == nil {
				return fmt.Errorf("nothing to update: pass --title, --content or --content-file")
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				if _, err := repo.UpdateNote(cmd.Context(), id, patch); err != nil {
					return fmt.Errorf("repo.UpdateNote() > %w", err)
				}
				fmt.Printf("Updated note %d\n", id)
				return nil
			})
		},
	}
	command.Flags().StringVar(&title, "title", "", "New title")
	command.Flags().StringVar(&content, "content", "", "New content")
	command.Flags().StringVar(&contentFile, "content-file", "", "Read the new content from a file, or - for stdin")
	return command
}

func newDeleteCommand() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "delete <note id>",
		Short: "Permanently delete a note and its attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				confirmed, err := cli.NewConsole().Confirm(fmt.Sprintf("Permanently delete note %d?", id))
				if err != nil {
					return err
				}
				if !confirmed {
					return nil
				}
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				if err := repo.DeleteNote(cmd.Context(), id); err != nil {
					return fmt.Errorf("repo.DeleteNote() > %w", err)
				}
				fmt.Printf("Deleted note %d\n", id)
				return nil
			})
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return command
}

func newStarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "star <note id>",
		Short: "Toggle a note's star",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return withRepository(func(repo note.Repository, store *localstore.Store) error {
				isImportant, err := repo.ToggleStar(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("repo.ToggleStar() > %w", err)
				}
				if isImportant != 0 {
					fmt.Printf("Starred note %d\n", id)
				} else {
					fmt.Printf("Unstarred note %d\n", id)
				}
				return nil
			})
		},
	}
}
