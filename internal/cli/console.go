// Package cli renders notes for the terminal and prompts for user input.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kuromaru/simplynote/internal/note"
)

// Console contains shared presentation logic for the note commands.
type Console struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	faint        *color.Color
	yellow       *color.Color
}

func NewConsole() *Console {
	return &Console{
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		yellow:       color.New(color.FgYellow),
	}
}

// NewConsoleWithIO builds a console over explicit streams for tests.
func NewConsoleWithIO(stdin io.Reader, stdout io.Writer) *Console {
	return &Console{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
		yellow:       color.New(color.FgYellow),
	}
}

// PrintNoteList renders one line per note: id, star marker, title, tags.
func (c *Console) PrintNoteList(notes []note.Note) {
	for _, n := range notes {
		marker := " "
		if n.IsImportant != 0 {
			marker = c.yellow.Sprint("*")
		}
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		line := fmt.Sprintf("%8d %s %s", n.ID, marker, c.bold.Sprint(title))
		if len(n.Tags) > 0 {
			line += " " + c.faint.Sprintf("#%s", strings.Join(n.Tags, " #"))
		}
		fmt.Fprintln(c.stdoutWriter, line)
	}
	fmt.Fprintln(c.stdoutWriter)
	fmt.Fprintf(c.stdoutWriter, "%d notes\n", len(notes))
}

// PrintNote renders a full note with its attachments.
func (c *Console) PrintNote(n note.Note, resolveURL func(string) string) {
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	c.bold.Fprintln(c.stdoutWriter, title)
	if len(n.Tags) > 0 {
		c.faint.Fprintf(c.stdoutWriter, "#%s\n", strings.Join(n.Tags, " #"))
	}
	c.faint.Fprintf(c.stdoutWriter, "id: %d  updated: %s\n", n.ID, n.UpdatedAt)
	fmt.Fprintln(c.stdoutWriter)
	fmt.Fprintln(c.stdoutWriter, n.Content)
	if len(n.Files) > 0 {
		fmt.Fprintln(c.stdoutWriter)
		c.bold.Fprintln(c.stdoutWriter, "Attachments")
		for _, file := range n.Files {
			fmt.Fprintf(c.stdoutWriter, "%8d  %s  %s\n", file.ID, file.Filename, resolveURL(file.URL))
		}
	}
}

// PrintTags renders the tag inventory with usage counts.
func (c *Console) PrintTags(tags []note.Tag) {
	for _, tag := range tags {
		fmt.Fprintf(c.stdoutWriter, "%4d  %s\n", tag.NoteCount, tag.Name)
	}
}

// Prompt prints a label and reads one line of input.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprintf(c.stdoutWriter, "%s: ", label)
	line, err := c.stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question and returns true only for an explicit
// yes.
func (c *Console) Confirm(question string) (bool, error) {
	answer, err := c.Prompt(question + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
