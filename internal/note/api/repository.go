package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/kuromaru/simplynote/internal/note"
)

// Repository implements note.Repository against the REST API backend.
// The server's representation is canonical: mutations return whatever the
// server responded with, and tag mutations return the server's tag list
// without any client-side merging.
type Repository struct {
	client *Client
}

var _ note.Repository = (*Repository)(nil)

// NewRepository creates an API-backed repository.
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

func (r *Repository) ListNotes(ctx context.Context) ([]note.Note, error) {
	var notes []note.Note
	if err := r.client.getJSON(ctx, "/notes", &notes); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *Repository) GetNote(ctx context.Context, id int64) (note.Note, error) {
	var n note.Note
	if err := r.client.getJSON(ctx, fmt.Sprintf("/notes/%d", id), &n); err != nil {
		return note.Note{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return n, nil
}

func (r *Repository) CreateNote(ctx context.Context, title, content string) (note.Note, error) {
	var n note.Note
	body := map[string]string{"title": title, "content": content}
	if err := r.client.sendJSON(ctx, "POST", "/notes", body, &n); err != nil {
		return note.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (r *Repository) UpdateNote(ctx context.Context, id int64, patch note.NotePatch) (note.Note, error) {
	var n note.Note
	if err := r.client.sendJSON(ctx, "PUT", fmt.Sprintf("/notes/%d", id), patch, &n); err != nil {
		return note.Note{}, fmt.Errorf("update note %d: %w", id, err)
	}
	return n, nil
}

func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	if err := r.client.delete(ctx, fmt.Sprintf("/notes/%d", id), nil); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

func (r *Repository) ToggleStar(ctx context.Context, id int64) (int, error) {
	var out struct {
		IsImportant int `json:"is_important"`
	}
	if err := r.client.sendJSON(ctx, "PUT", fmt.Sprintf("/notes/%d/important", id), nil, &out); err != nil {
		return 0, fmt.Errorf("toggle star %d: %w", id, err)
	}
	return out.IsImportant, nil
}

func (r *Repository) AddTag(ctx context.Context, id int64, name string) ([]string, error) {
	if err := note.ValidateTagName(name); err != nil {
		return nil, err
	}
	var out struct {
		Tags []string `json:"tags"`
	}
	body := map[string]string{"name": name}
	if err := r.client.sendJSON(ctx, "POST", fmt.Sprintf("/notes/%d/tags", id), body, &out); err != nil {
		return nil, fmt.Errorf("add tag: %w", err)
	}
	return out.Tags, nil
}

func (r *Repository) RemoveTag(ctx context.Context, id int64, name string) ([]string, error) {
	if err := note.ValidateTagName(name); err != nil {
		return nil, err
	}
	var out struct {
		Tags []string `json:"tags"`
	}
	path := fmt.Sprintf("/notes/%d/tags/%s", id, url.PathEscape(name))
	if err := r.client.delete(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("remove tag: %w", err)
	}
	return out.Tags, nil
}

func (r *Repository) ListAllTags(ctx context.Context) ([]note.Tag, error) {
	var tags []note.Tag
	if err := r.client.getJSON(ctx, "/tags", &tags); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *Repository) UploadAttachment(ctx context.Context, noteID int64, filename string, contents io.Reader) (note.Attachment, error) {
	var att note.Attachment
	path := fmt.Sprintf("/notes/%d/attachments", noteID)
	if err := r.client.postMultipart(ctx, path, "file", filename, contents, &att); err != nil {
		return note.Attachment{}, fmt.Errorf("upload attachment: %w", err)
	}
	return att, nil
}

func (r *Repository) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	if err := r.client.delete(ctx, fmt.Sprintf("/attachments/%d", attachmentID), nil); err != nil {
		return fmt.Errorf("delete attachment %d: %w", attachmentID, err)
	}
	return nil
}

// ImportArchive forwards the ZIP to the server untouched.
func (r *Repository) ImportArchive(ctx context.Context, contents io.Reader) (note.ImportResult, error) {
	var result note.ImportResult
	if err := r.client.postMultipart(ctx, "/import", "file", "import.zip", contents, &result); err != nil {
		return note.ImportResult{}, fmt.Errorf("import archive: %w", err)
	}
	return result, nil
}

// ExportArchive returns the server-built ZIP bit-for-bit.
func (r *Repository) ExportArchive(ctx context.Context) ([]byte, error) {
	blob, err := r.client.getBytes(ctx, "/export")
	if err != nil {
		return nil, fmt.Errorf("export archive: %w", err)
	}
	return blob, nil
}

func (r *Repository) EmptyTrash(ctx context.Context) (int, error) {
	var out struct {
		Deleted int `json:"deleted"`
	}
	if err := r.client.delete(ctx, "/trash", &out); err != nil {
		return 0, fmt.Errorf("empty trash: %w", err)
	}
	return out.Deleted, nil
}

// ResolveAttachmentURL joins a stored relative path onto the API base URL.
func (r *Repository) ResolveAttachmentURL(storedURL string) string {
	return r.client.BaseURL() + "/" + strings.TrimLeft(storedURL, "/")
}

func (r *Repository) RefreshToken(ctx context.Context) (string, error) {
	token, err := r.client.refreshExchange(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return token, nil
}
