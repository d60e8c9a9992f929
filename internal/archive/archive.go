// Package archive reads and writes the portability ZIP shared by both
// backends: a notes.json manifest plus an attachments/ directory whose
// entries are referenced by filename.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	manifestName   = "notes.json"
	attachmentsDir = "attachments"
)

// ManifestNote is one note entry in notes.json. Internal IDs are omitted
// on purpose so archives move cleanly between backends.
type ManifestNote struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	IsImportant int            `json:"is_important"`
	Tags        []string       `json:"tags"`
	Files       []ManifestFile `json:"files"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

// ManifestFile references an attachment by filename only.
type ManifestFile struct {
	Filename string `json:"filename"`
}

// Build assembles an archive from manifest entries and attachment bytes
// keyed by filename. Attachment bytes are stored untouched.
func Build(notes []ManifestNote, attachments map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	manifest, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent > %w", err)
	}
	entry, err := w.Create(manifestName)
	if err != nil {
		return nil, fmt.Errorf("zip create %s: %w", manifestName, err)
	}
	if _, err := entry.Write(manifest); err != nil {
		return nil, fmt.Errorf("zip write %s: %w", manifestName, err)
	}

	for _, n := range notes {
		for _, f := range n.Files {
			contents, ok := attachments[f.Filename]
			if !ok {
				continue
			}
			entry, err := w.Create(path.Join(attachmentsDir, f.Filename))
			if err != nil {
				return nil, fmt.Errorf("zip create attachment %s: %w", f.Filename, err)
			}
			if _, err := entry.Write(contents); err != nil {
				return nil, fmt.Errorf("zip write attachment %s: %w", f.Filename, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}
	return buf.Bytes(), nil
}

// Read parses an archive into manifest entries and attachment bytes keyed
// by filename. A manifest entry referencing a file absent from the archive
// is kept; the caller decides how to treat the missing bytes.
func Read(r io.Reader) ([]ManifestNote, map[string][]byte, error) {
	blob, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("io.ReadAll > %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, nil, fmt.Errorf("zip.NewReader > %w", err)
	}

	var notes []ManifestNote
	attachments := make(map[string][]byte)
	foundManifest := false

	for _, f := range zr.File {
		switch {
		case f.Name == manifestName:
			contents, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			if err := json.Unmarshal(contents, &notes); err != nil {
				return nil, nil, fmt.Errorf("json.Unmarshal %s > %w", manifestName, err)
			}
			foundManifest = true
		case strings.HasPrefix(f.Name, attachmentsDir+"/") && !f.FileInfo().IsDir():
			contents, err := readEntry(f)
			if err != nil {
				return nil, nil, err
			}
			attachments[path.Base(f.Name)] = contents
		}
	}

	if !foundManifest {
		return nil, nil, fmt.Errorf("%s missing from archive", manifestName)
	}
	return notes, attachments, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("zip open %s: %w", f.Name, err)
	}
	defer func() {
		_ = rc.Close()
	}()
	contents, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("zip read %s: %w", f.Name, err)
	}
	return contents, nil
}
