package archive

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReadRoundTrip(t *testing.T) {
	notes := []ManifestNote{
		{
			Title:       "starred",
			Content:     "body",
			IsImportant: 1,
			Tags:        []string{"work"},
			Files:       []ManifestFile{{Filename: "photo.png"}},
			CreatedAt:   "2025-06-01T12:00:00Z",
		},
		{
			Title: "plain",
		},
	}
	attachments := map[string][]byte{
		"photo.png": []byte("png bytes"),
		"orphan":    []byte("not referenced by any note"),
	}

	blob, err := Build(notes, attachments)
	require.NoError(t, err)

	gotNotes, gotAttachments, err := Read(bytes.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, notes, gotNotes)
	// Only referenced attachments make it into the archive.
	assert.Equal(t, map[string][]byte{"photo.png": []byte("png bytes")}, gotAttachments)
}

func TestBuildSkipsMissingAttachmentBytes(t *testing.T) {
	notes := []ManifestNote{
		{Title: "dangling", Files: []ManifestFile{{Filename: "lost.pdf"}}},
	}

	blob, err := Build(notes, nil)
	require.NoError(t, err)

	gotNotes, gotAttachments, err := Read(bytes.NewReader(blob))
	require.NoError(t, err)
	require.Len(t, gotNotes, 1)
	// The manifest keeps the reference even though the bytes are absent.
	assert.Equal(t, "lost.pdf", gotNotes[0].Files[0].Filename)
	assert.Empty(t, gotAttachments)
}

func TestReadRejectsArchiveWithoutManifest(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create("attachments/stray.txt")
	require.NoError(t, err)
	_, err = entry.Write([]byte("stray"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, _, err = Read(&buf)
	assert.ErrorContains(t, err, "notes.json missing")
}

func TestReadRejectsNonZipInput(t *testing.T) {
	_, _, err := Read(bytes.NewReader([]byte("not a zip file")))
	assert.Error(t, err)
}
