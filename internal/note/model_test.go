package note

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoteIsTrashed(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want bool
	}{
		{
			name: "no tags",
			tags: nil,
			want: false,
		},
		{
			name: "canonical trash tag",
			tags: []string{"work", "Trash"},
			want: true,
		},
		{
			name: "lowercase trash tag",
			tags: []string{"trash"},
			want: true,
		},
		{
			name: "uppercase trash tag",
			tags: []string{"TRASH"},
			want: true,
		},
		{
			name: "substring is not trash",
			tags: []string{"trashcan"},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Note{Tags: tt.tags}
			assert.Equal(t, tt.want, n.IsTrashed())
		})
	}
}

func TestNoteHasTagIsCaseSensitive(t *testing.T) {
	n := Note{Tags: []string{"Work"}}
	assert.True(t, n.HasTag("Work"))
	assert.False(t, n.HasTag("work"))
}

func TestNoteSortTime(t *testing.T) {
	updated := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		note Note
		want time.Time
	}{
		{
			name: "prefers updated_at",
			note: Note{CreatedAt: Timestamp(created), UpdatedAt: Timestamp(updated)},
			want: updated,
		},
		{
			name: "falls back to created_at",
			note: Note{CreatedAt: Timestamp(created)},
			want: created,
		},
		{
			name: "unparseable updated_at falls back",
			note: Note{CreatedAt: Timestamp(created), UpdatedAt: "yesterday"},
			want: created,
		},
		{
			name: "no timestamps sorts to zero",
			note: Note{},
			want: time.Time{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(tt.note.SortTime()))
		})
	}
}

func TestValidateTagName(t *testing.T) {
	assert.NoError(t, ValidateTagName("work"))
	assert.ErrorIs(t, ValidateTagName(""), ErrValidation)
	assert.ErrorIs(t, ValidateTagName("   "), ErrValidation)
}
