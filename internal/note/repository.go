package note

import (
	"context"
	"io"
	"strings"
)

//go:generate mockgen -source=repository.go -destination=../mocks/note/mock_repository.go -package=mock_note

// Repository is the backend-agnostic contract over a note store.
// Both the REST API backend and the Google Drive backend implement it
// with identical semantics and error vocabulary.
type Repository interface {
	ListNotes(ctx context.Context) ([]Note, error)
	GetNote(ctx context.Context, id int64) (Note, error)
	CreateNote(ctx context.Context, title, content string) (Note, error)
	UpdateNote(ctx context.Context, id int64, patch NotePatch) (Note, error)
	DeleteNote(ctx context.Context, id int64) error

	ToggleStar(ctx context.Context, id int64) (int, error)

	AddTag(ctx context.Context, id int64, name string) ([]string, error)
	RemoveTag(ctx context.Context, id int64, name string) ([]string, error)
	ListAllTags(ctx context.Context) ([]Tag, error)

	UploadAttachment(ctx context.Context, noteID int64, filename string, contents io.Reader) (Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID int64) error

	ImportArchive(ctx context.Context, contents io.Reader) (ImportResult, error)
	ExportArchive(ctx context.Context) ([]byte, error)

	EmptyTrash(ctx context.Context) (int, error)

	// ResolveAttachmentURL turns a stored attachment locator into a
	// display URL. Locators only resolve through their own backend.
	ResolveAttachmentURL(storedURL string) string

	// RefreshToken renews the backend's access credential and returns
	// the new access token.
	RefreshToken(ctx context.Context) (string, error)
}

// ValidateTagName rejects empty or blank tag names before any network call.
func ValidateTagName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrValidation
	}
	return nil
}
