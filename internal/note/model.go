// Package note provides the note domain model, the backend-neutral
// repository contract and the shared error vocabulary.
package note

import (
	"strings"
	"time"
)

// TrashTag is the reserved tag marking a note as soft-deleted.
// Matching is case-insensitive.
const TrashTag = "Trash"

// Note is a single note as exposed by every backend.
// IsImportant is stored as 0/1 to stay wire-compatible with both backends.
type Note struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	IsImportant int          `json:"is_important"`
	Tags        []string     `json:"tags"`
	Files       []Attachment `json:"files"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// Attachment is a file owned by exactly one note. URL is a
// backend-specific locator: a relative API path or a Drive file ID,
// resolvable only through the originating backend.
type Attachment struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Tag is an aggregate projection of a tag name and how many notes carry it.
type Tag struct {
	Name      string `json:"name"`
	NoteCount int    `json:"note_count"`
}

// ImportResult summarizes an archive import.
type ImportResult struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Message  string `json:"message"`
}

// NotePatch carries a partial note update. Nil fields are left unchanged.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// HasTag reports whether the note carries the tag, case-sensitively.
func (n Note) HasTag(name string) bool {
	for _, t := range n.Tags {
		if t == name {
			return true
		}
	}
	return false
}

// IsTrashed reports whether the note carries the reserved trash tag.
func (n Note) IsTrashed() bool {
	for _, t := range n.Tags {
		if strings.EqualFold(t, TrashTag) {
			return true
		}
	}
	return false
}

// SortTime returns the note's ordering timestamp: UpdatedAt with a
// fallback to CreatedAt. Unparseable timestamps sort to the zero time.
func (n Note) SortTime() time.Time {
	for _, s := range []string{n.UpdatedAt, n.CreatedAt} {
		if s == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Timestamp formats t as the ISO-8601 representation both backends store.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
