package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_note "github.com/kuromaru/simplynote/internal/mocks/note"
	"github.com/kuromaru/simplynote/internal/note"
	"github.com/kuromaru/simplynote/internal/testutil"
)

func loadedSynchronizer(t *testing.T, repo *mock_note.MockRepository, notes []note.Note, options ...Option) *Synchronizer {
	t.Helper()
	repo.EXPECT().ListNotes(gomock.Any()).Return(notes, nil)
	sync := NewSynchronizer(repo, options...)
	require.NoError(t, sync.Load(context.Background()))
	return sync
}

func TestSynchronizerVisibleNotesOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	notes := []note.Note{
		testutil.MakeNote(1, "old plain", testutil.WithUpdatedAt(base)),
		testutil.MakeNote(2, "new plain", testutil.WithUpdatedAt(base.Add(time.Hour))),
		testutil.MakeNote(3, "old starred", testutil.WithImportant(), testutil.WithUpdatedAt(base.Add(-time.Hour))),
		testutil.MakeNote(4, "trashed", testutil.WithTags("Trash"), testutil.WithUpdatedAt(base.Add(2*time.Hour))),
	}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)

	visible := sync.VisibleNotes()
	require.Len(t, visible, 3)
	// Starred first, then most recently updated; trashed hidden.
	assert.Equal(t, int64(3), visible[0].ID)
	assert.Equal(t, int64(2), visible[1].ID)
	assert.Equal(t, int64(1), visible[2].ID)

	sync.SetShowTrash(true)
	visible = sync.VisibleNotes()
	require.Len(t, visible, 1)
	assert.Equal(t, int64(4), visible[0].ID)
}

func TestSynchronizerQueryFilter(t *testing.T) {
	notes := []note.Note{
		testutil.MakeNote(1, "Quarterly Report", testutil.WithTags("work")),
		testutil.MakeNote(2, "Groceries", testutil.WithTags("home")),
		testutil.MakeNote(3, "Report drafts", testutil.WithTags("work", "home")),
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{
			name:    "empty query matches everything",
			query:   "",
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "tag token filters by tag",
			query:   "#work",
			wantIDs: []int64{1, 3},
		},
		{
			name:    "multiple tag tokens are ANDed",
			query:   "#work #home",
			wantIDs: []int64{3},
		},
		{
			name:    "free text matches title case-insensitively",
			query:   "report",
			wantIDs: []int64{1, 3},
		},
		{
			name:    "free text matches content",
			query:   "content of groceries",
			wantIDs: []int64{2},
		},
		{
			name:    "tag and text combine",
			query:   "#work quarterly",
			wantIDs: []int64{1},
		},
		{
			name:    "tag match is case-insensitive",
			query:   "#WORK",
			wantIDs: []int64{1, 3},
		},
		{
			name:    "no match",
			query:   "#work missing words",
			wantIDs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_note.NewMockRepository(ctrl)
			sync := loadedSynchronizer(t, repo, notes)
			sync.SetQuery(tt.query)

			var gotIDs []int64
			for _, n := range sync.VisibleNotes() {
				gotIDs = append(gotIDs, n.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestSynchronizerSelectionSnapping(t *testing.T) {
	notes := []note.Note{
		testutil.MakeNote(1, "work note", testutil.WithTags("work")),
		testutil.MakeNote(2, "home note", testutil.WithTags("home")),
	}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)

	sync.Select(2)

	// Filtering the selection out of view snaps to the first visible note.
	sync.SetQuery("#work")
	selected, ok := sync.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), selected.ID)
}

func TestSynchronizerSelectionSnappingSuspendedWhileComposing(t *testing.T) {
	notes := []note.Note{
		testutil.MakeNote(1, "work note", testutil.WithTags("work")),
		testutil.MakeNote(2, "home note", testutil.WithTags("home")),
	}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)

	sync.Select(2)
	sync.SetComposing(true)
	sync.SetQuery("#work")

	// The composing editor keeps its note even though it is filtered out.
	selected, ok := sync.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), selected.ID)

	// Snapping resumes once composition ends.
	sync.SetComposing(false)
	selected, ok = sync.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), selected.ID)
}

func TestSynchronizerToggleStarRollsBackOnFailure(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)
	repo.EXPECT().ToggleStar(gomock.Any(), int64(1)).Return(0, note.ErrTransport)

	err := sync.ToggleStar(context.Background(), 1)
	assert.ErrorIs(t, err, note.ErrTransport)

	visible := sync.VisibleNotes()
	require.Len(t, visible, 1)
	assert.Zero(t, visible[0].IsImportant, "failed toggle must roll back")
}

func TestSynchronizerToggleStarReconcilesWithServer(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)
	repo.EXPECT().ToggleStar(gomock.Any(), int64(1)).Return(1, nil)

	require.NoError(t, sync.ToggleStar(context.Background(), 1))

	visible := sync.VisibleNotes()
	require.Len(t, visible, 1)
	assert.Equal(t, 1, visible[0].IsImportant)
}

func TestSynchronizerAddTagRollsBackOnFailure(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)
	repo.EXPECT().AddTag(gomock.Any(), int64(1), "work").Return(nil, note.ErrTransport)

	err := sync.AddTag(context.Background(), 1, "work")
	assert.ErrorIs(t, err, note.ErrTransport)

	visible := sync.VisibleNotes()
	require.Len(t, visible, 1)
	assert.Empty(t, visible[0].Tags)
}

func TestSynchronizerAutosaveDebounce(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes, WithDebounce(10*time.Millisecond))

	saved := make(chan note.NotePatch, 1)
	repo.EXPECT().UpdateNote(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, patch note.NotePatch) (note.Note, error) {
			saved <- patch
			return note.Note{ID: 1}, nil
		})

	// Rapid edits collapse into a single save of the final state.
	sync.Edit(1, "note", "draft 1")
	sync.Edit(1, "note", "draft 2")
	sync.Edit(1, "note", "final draft")
	assert.True(t, sync.Unsaved(1))

	select {
	case patch := <-saved:
		require.NotNil(t, patch.Content)
		assert.Equal(t, "final draft", *patch.Content)
	case <-time.After(time.Second):
		t.Fatal("autosave did not fire")
	}

	require.Eventually(t, func() bool {
		return !sync.Unsaved(1)
	}, time.Second, time.Millisecond)
}

func TestSynchronizerAutosaveSkipsUnchangedContent(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes, WithDebounce(5*time.Millisecond))

	// Editing back to the last persisted state must not call the backend:
	// no UpdateNote expectation is registered.
	sync.Edit(1, "note", "content of note")

	require.Eventually(t, func() bool {
		return !sync.Unsaved(1)
	}, time.Second, time.Millisecond)
}

func TestSynchronizerFlush(t *testing.T) {
	notes := []note.Note{testutil.MakeNote(1, "note")}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	// A long debounce: only Flush can trigger the save.
	sync := loadedSynchronizer(t, repo, notes, WithDebounce(time.Hour))

	repo.EXPECT().UpdateNote(gomock.Any(), int64(1), gomock.Any()).Return(note.Note{ID: 1}, nil)

	sync.Edit(1, "note", "pending")
	require.NoError(t, sync.Flush(context.Background()))
	assert.False(t, sync.Unsaved(1))
}

func TestSynchronizerDeleteNoteOptimistic(t *testing.T) {
	notes := []note.Note{
		testutil.MakeNote(1, "stays"),
		testutil.MakeNote(2, "goes"),
	}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)
	repo.EXPECT().DeleteNote(gomock.Any(), int64(2)).Return(nil)

	require.NoError(t, sync.DeleteNote(context.Background(), 2))
	visible := sync.VisibleNotes()
	require.Len(t, visible, 1)
	assert.Equal(t, int64(1), visible[0].ID)
}

func TestSynchronizerEmptyTrash(t *testing.T) {
	notes := []note.Note{
		testutil.MakeNote(1, "kept"),
		testutil.MakeNote(2, "trashed", testutil.WithTags("trash")),
	}

	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, notes)
	repo.EXPECT().EmptyTrash(gomock.Any()).Return(1, nil)

	deleted, err := sync.EmptyTrash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	sync.SetShowTrash(true)
	assert.Empty(t, sync.VisibleNotes())
}

func TestSynchronizerCreateNoteSelectsIt(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_note.NewMockRepository(ctrl)
	sync := loadedSynchronizer(t, repo, nil)
	repo.EXPECT().CreateNote(gomock.Any(), "fresh", "").Return(note.Note{ID: 9, Title: "fresh"}, nil)

	created, err := sync.CreateNote(context.Background(), "fresh", "")
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)

	selected, ok := sync.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(9), selected.ID)
}
