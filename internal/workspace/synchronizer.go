// Package workspace keeps an in-memory view of the note collection in
// sync with a backend repository. It owns the loaded notes, the search
// query and trash toggle, the current selection, and the autosave
// pipeline, applying mutations optimistically and rolling back when the
// backend rejects them.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kuromaru/simplynote/internal/note"
)

const defaultAutosaveDebounce = time.Second

type savedState struct {
	title   string
	content string
}

// Synchronizer mediates between the UI's note list and a repository.
// All methods are safe for concurrent use.
type Synchronizer struct {
	repo     note.Repository
	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time

	mu        sync.Mutex
	notes     []note.Note
	loaded    bool
	query     string
	showTrash bool

	selectedID int64
	composing  bool

	unsaved   map[int64]struct{}
	lastSaved map[int64]savedState
	timers    map[int64]*time.Timer
}

type Option func(*Synchronizer)

// WithDebounce overrides the autosave debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.debounce = d
	}
}

// WithClock overrides the time source for local timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

func NewSynchronizer(repo note.Repository, options ...Option) *Synchronizer {
	s := &Synchronizer{
		repo:      repo,
		logger:    slog.Default(),
		debounce:  defaultAutosaveDebounce,
		now:       time.Now,
		unsaved:   map[int64]struct{}{},
		lastSaved: map[int64]savedState{},
		timers:    map[int64]*time.Timer{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load replaces the whole collection with the backend's current state.
// Local edits pending autosave are flushed first so a reload cannot
// silently drop them.
func (s *Synchronizer) Load(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("flush pending edits: %w", err)
	}

	notes, err := s.repo.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("repo.ListNotes() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.loaded = true
	s.lastSaved = make(map[int64]savedState, len(notes))
	for _, n := range notes {
		s.lastSaved[n.ID] = savedState{title: n.Title, content: n.Content}
	}
	s.unsaved = map[int64]struct{}{}
	s.snapSelectionLocked()
	return nil
}

// Loaded reports whether an initial Load has completed.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// SetQuery updates the search query and re-snaps the selection.
func (s *Synchronizer) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.snapSelectionLocked()
}

// SetShowTrash switches between the normal and trash views.
func (s *Synchronizer) SetShowTrash(showTrash bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showTrash = showTrash
	s.snapSelectionLocked()
}

// VisibleNotes returns the notes of the active view matching the query,
// starred notes first, then most recently updated.
func (s *Synchronizer) VisibleNotes() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *Synchronizer) visibleLocked() []note.Note {
	filter := parseQuery(s.query)
	visible := make([]note.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if n.IsTrashed() != s.showTrash {
			continue
		}
		if !filter.matches(n) {
			continue
		}
		visible = append(visible, n)
	}
	slices.SortStableFunc(visible, func(a, b note.Note) int {
		if a.IsImportant != b.IsImportant {
			return b.IsImportant - a.IsImportant
		}
		return b.SortTime().Compare(a.SortTime())
	})
	return visible
}

// Select marks the note with id as selected.
func (s *Synchronizer) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// Selected returns the currently selected note.
func (s *Synchronizer) Selected() (note.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(s.selectedID)
}

// SetComposing suspends selection snapping while true. A text editor in
// the middle of input must not have its note switched underneath it.
func (s *Synchronizer) SetComposing(composing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composing = composing
	if !composing {
		s.snapSelectionLocked()
	}
}

// snapSelectionLocked moves the selection to the first visible note when
// the current selection is filtered out of view. Suspended while the
// user is composing text.
func (s *Synchronizer) snapSelectionLocked() {
	if s.composing {
		return
	}
	visible := s.visibleLocked()
	for _, n := range visible {
		if n.ID == s.selectedID {
			return
		}
	}
	if len(visible) > 0 {
		s.selectedID = visible[0].ID
		return
	}
	s.selectedID = 0
}

func (s *Synchronizer) findLocked(id int64) (note.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return note.Note{}, false
}

// mutate applies a local change, runs the backend operation, and rolls
// the collection back to its prior state when the operation fails.
func (s *Synchronizer) mutate(ctx context.Context, apply func([]note.Note) []note.Note, run func(context.Context) error) error {
	s.mu.Lock()
	snapshot := slices.Clone(s.notes)
	s.notes = apply(slices.Clone(s.notes))
	s.snapSelectionLocked()
	s.mu.Unlock()

	if err := run(ctx); err != nil {
		s.mu.Lock()
		s.notes = snapshot
		s.snapSelectionLocked()
		s.mu.Unlock()
		return err
	}
	return nil
}

// replaceNote swaps the stored copy of n.ID for n.
func (s *Synchronizer) replaceNote(n note.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			break
		}
	}
	s.snapSelectionLocked()
}

// CreateNote creates a note on the backend and prepends it locally.
func (s *Synchronizer) CreateNote(ctx context.Context, title, content string) (note.Note, error) {
	created, err := s.repo.CreateNote(ctx, title, content)
	if err != nil {
		return note.Note{}, fmt.Errorf("repo.CreateNote() > %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]note.Note{created}, s.notes...)
	s.lastSaved[created.ID] = savedState{title: created.Title, content: created.Content}
	s.selectedID = created.ID
	return created, nil
}

// ToggleStar flips the importance flag optimistically and reconciles
// with the backend's answer.
func (s *Synchronizer) ToggleStar(ctx context.Context, id int64) error {
	return s.mutate(ctx, func(notes []note.Note) []note.Note {
		for i := range notes {
			if notes[i].ID == id {
				notes[i].IsImportant = 1 - notes[i].IsImportant
			}
		}
		return notes
	}, func(ctx context.Context) error {
		isImportant, err := s.repo.ToggleStar(ctx, id)
		if err != nil {
			return fmt.Errorf("repo.ToggleStar() > %w", err)
		}
		s.mu.Lock()
		for i := range s.notes {
			if s.notes[i].ID == id {
				s.notes[i].IsImportant = isImportant
			}
		}
		s.mu.Unlock()
		return nil
	})
}

// AddTag attaches a tag optimistically and reconciles with the tag list
// the backend returns.
func (s *Synchronizer) AddTag(ctx context.Context, id int64, name string) error {
	if err := note.ValidateTagName(name); err != nil {
		return err
	}
	return s.mutate(ctx, func(notes []note.Note) []note.Note {
		for i := range notes {
			if notes[i].ID == id && !notes[i].HasTag(name) {
				notes[i].Tags = append(slices.Clone(notes[i].Tags), name)
			}
		}
		return notes
	}, func(ctx context.Context) error {
		tags, err := s.repo.AddTag(ctx, id, name)
		if err != nil {
			return fmt.Errorf("repo.AddTag() > %w", err)
		}
		s.setTags(id, tags)
		return nil
	})
}

// RemoveTag detaches a tag optimistically.
func (s *Synchronizer) RemoveTag(ctx context.Context, id int64, name string) error {
	return s.mutate(ctx, func(notes []note.Note) []note.Note {
		for i := range notes {
			if notes[i].ID == id {
				notes[i].Tags = slices.DeleteFunc(slices.Clone(notes[i].Tags), func(tag string) bool {
					return tag == name
				})
			}
		}
		return notes
	}, func(ctx context.Context) error {
		tags, err := s.repo.RemoveTag(ctx, id, name)
		if err != nil {
			return fmt.Errorf("repo.RemoveTag() > %w", err)
		}
		s.setTags(id, tags)
		return nil
	})
}

func (s *Synchronizer) setTags(id int64, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Tags = tags
		}
	}
	s.snapSelectionLocked()
}

// MoveToTrash tags the note with the trash tag.
func (s *Synchronizer) MoveToTrash(ctx context.Context, id int64) error {
	return s.AddTag(ctx, id, note.TrashTag)
}

// Restore removes the trash tag from a trashed note.
func (s *Synchronizer) Restore(ctx context.Context, id int64) error {
	s.mu.Lock()
	n, ok := s.findLocked(id)
	s.mu.Unlock()
	if !ok {
		return note.ErrNotFound
	}
	for _, tag := range n.Tags {
		if strings.EqualFold(tag, note.TrashTag) {
			return s.RemoveTag(ctx, id, tag)
		}
	}
	return nil
}

// DeleteNote removes the note permanently, optimistically dropping it
// from the collection.
func (s *Synchronizer) DeleteNote(ctx context.Context, id int64) error {
	s.cancelTimer(id)
	return s.mutate(ctx, func(notes []note.Note) []note.Note {
		return slices.DeleteFunc(notes, func(n note.Note) bool {
			return n.ID == id
		})
	}, func(ctx context.Context) error {
		if err := s.repo.DeleteNote(ctx, id); err != nil {
			return fmt.Errorf("repo.DeleteNote() > %w", err)
		}
		s.mu.Lock()
		delete(s.lastSaved, id)
		delete(s.unsaved, id)
		s.mu.Unlock()
		return nil
	})
}

// EmptyTrash permanently deletes every trashed note.
func (s *Synchronizer) EmptyTrash(ctx context.Context) (int, error) {
	deleted, err := s.repo.EmptyTrash(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.EmptyTrash() > %w", err)
	}

	s.mu.Lock()
	s.notes = slices.DeleteFunc(s.notes, func(n note.Note) bool {
		if n.IsTrashed() {
			delete(s.lastSaved, n.ID)
			delete(s.unsaved, n.ID)
			return true
		}
		return false
	})
	s.snapSelectionLocked()
	s.mu.Unlock()
	return deleted, nil
}

// Edit applies a local title/content change and schedules a debounced
// autosave. The backend is not called until the debounce elapses or
// Flush runs.
func (s *Synchronizer) Edit(id int64, title, content string) {
	s.mu.Lock()
	found := false
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].Title = title
			s.notes[i].Content = content
			s.notes[i].UpdatedAt = note.Timestamp(s.now())
			found = true
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.unsaved[id] = struct{}{}
	s.scheduleSaveLocked(id)
	s.mu.Unlock()
}

// Unsaved reports whether the note has local edits not yet persisted.
func (s *Synchronizer) Unsaved(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.unsaved[id]
	return ok
}

func (s *Synchronizer) scheduleSaveLocked(id int64) {
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
	}
	s.timers[id] = time.AfterFunc(s.debounce, func() {
		if err := s.saveNote(context.Background(), id); err != nil {
			s.logger.Warn("autosave failed", "note_id", id, "error", err)
		}
	})
}

func (s *Synchronizer) cancelTimer(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// saveNote persists one note's pending edit. A note whose title and
// content already match the last persisted state is skipped.
func (s *Synchronizer) saveNote(ctx context.Context, id int64) error {
	s.mu.Lock()
	n, ok := s.findLocked(id)
	if !ok {
		delete(s.unsaved, id)
		s.mu.Unlock()
		return nil
	}
	last, hasLast := s.lastSaved[id]
	if hasLast && last.title == n.Title && last.content == n.Content {
		delete(s.unsaved, id)
		s.mu.Unlock()
		return nil
	}
	title, content := n.Title, n.Content
	s.mu.Unlock()

	if _, err := s.repo.UpdateNote(ctx, id, note.NotePatch{Title: &title, Content: &content}); err != nil {
		return fmt.Errorf("repo.UpdateNote() > %w", err)
	}

	s.mu.Lock()
	s.lastSaved[id] = savedState{title: title, content: content}
	// Keep the edit dirty if the user typed more while the save was in
	// flight.
	if current, ok := s.findLocked(id); ok && current.Title == title && current.Content == content {
		delete(s.unsaved, id)
	}
	s.mu.Unlock()
	return nil
}

// Flush persists every pending edit immediately, bypassing the debounce.
func (s *Synchronizer) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := make([]int64, 0, len(s.unsaved))
	for id := range s.unsaved {
		pending = append(pending, id)
	}
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	slices.Sort(pending)
	for _, id := range pending {
		if err := s.saveNote(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
