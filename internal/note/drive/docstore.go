// Package drive implements the note repository on top of Google Drive,
// treating the drive as a small single-writer document database:
// month-sharded JSON documents of notes plus an advisory index document.
package drive

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/kuromaru/simplynote/internal/driveapi"
	"github.com/kuromaru/simplynote/internal/note"
)

const (
	indexFileName      = "index.json"
	attachmentsFolder  = "Attachments"
	indexFormatVersion = 2
)

// DefaultRootFolder is the app folder created under the Drive root.
var DefaultRootFolder = []string{"SimplyNote"}

// shardDoc is one month-keyed JSON document holding a batch of notes.
// The sharding key is the month of creation, fixed for the note's lifetime.
type shardDoc struct {
	Notes []note.Note `json:"notes"`
}

// indexDoc is the singleton advisory lookup document. It accelerates
// locating notes and attachments but is never authoritative: every reader
// must be able to reconstruct correct state by full shard enumeration.
// LastID persists the monotonic ID counter across sessions.
type indexDoc struct {
	Version     int               `json:"version"`
	LastID      int64             `json:"last_id,omitempty"`
	Notes       map[string]string `json:"notes"`
	Attachments map[string]string `json:"attachments"`
	Trashed     map[string]string `json:"trashed"`
}

func newIndexDoc() indexDoc {
	return indexDoc{
		Version:     indexFormatVersion,
		Notes:       map[string]string{},
		Attachments: map[string]string{},
		Trashed:     map[string]string{},
	}
}

// docStore owns shard and index mechanics over the Drive wire client.
type docStore struct {
	ops      driveapi.Operations
	rootPath []string
	now      func() time.Time

	mu            sync.Mutex
	rootID        string
	attachmentsID string
	lastID        int64
	seeded        bool
}

func newDocStore(ops driveapi.Operations, rootPath []string, now func() time.Time) *docStore {
	if len(rootPath) == 0 {
		rootPath = DefaultRootFolder
	}
	if now == nil {
		now = time.Now
	}
	return &docStore{ops: ops, rootPath: rootPath, now: now}
}

func (s *docStore) rootFolderID(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.rootID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	id, err := driveapi.GetOrCreateFolderByPath(ctx, s.ops, s.rootPath)
	if err != nil {
		return "", fmt.Errorf("resolve root folder: %w", err)
	}
	s.mu.Lock()
	s.rootID = id
	s.mu.Unlock()
	return id, nil
}

func (s *docStore) attachmentsFolderID(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.attachmentsID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	rootID, err := s.rootFolderID(ctx)
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf("mimeType='application/vnd.google-apps.folder' and name='%s' and '%s' in parents and trashed=false",
		attachmentsFolder, rootID)
	files, err := s.ops.ListFiles(ctx, query, 1)
	if err != nil {
		return "", fmt.Errorf("find attachments folder: %w", err)
	}

	var id string
	if len(files) > 0 {
		id = files[0].ID
	} else {
		created, err := s.ops.CreateFolder(ctx, attachmentsFolder, rootID)
		if err != nil {
			return "", fmt.Errorf("create attachments folder: %w", err)
		}
		id = created.ID
	}
	s.mu.Lock()
	s.attachmentsID = id
	s.mu.Unlock()
	return id, nil
}

// monthFileName formats the shard document name for a creation time.
func monthFileName(t time.Time) string {
	return t.UTC().Format("2006.01") + ".json"
}

// listMonthShards enumerates shard documents under the root, excluding the
// index document, sorted by name descending (reverse chronological).
func (s *docStore) listMonthShards(ctx context.Context, rootID string) ([]driveapi.File, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='application/json' and name contains '.json' and name != '%s' and trashed=false",
		rootID, indexFileName)
	files, err := s.ops.ListFiles(ctx, query, 1000)
	if err != nil {
		return nil, fmt.Errorf("list month shards: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// getOrCreateMonthShard returns the shard for t's month, creating it
// lazily on the first note of that month.
func (s *docStore) getOrCreateMonthShard(ctx context.Context, rootID string, t time.Time) (string, shardDoc, error) {
	name := monthFileName(t)
	query := fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", rootID, name)
	files, err := s.ops.ListFiles(ctx, query, 1)
	if err != nil {
		return "", shardDoc{}, fmt.Errorf("find month shard %s: %w", name, err)
	}

	if len(files) > 0 {
		var doc shardDoc
		if err := s.ops.ReadJSON(ctx, files[0].ID, &doc); err != nil {
			return "", shardDoc{}, fmt.Errorf("read month shard %s: %w", name, err)
		}
		return files[0].ID, doc, nil
	}

	doc := shardDoc{Notes: []note.Note{}}
	created, err := s.ops.CreateJSON(ctx, name, rootID, doc)
	if err != nil {
		return "", shardDoc{}, fmt.Errorf("create month shard %s: %w", name, err)
	}
	return created.ID, doc, nil
}

// getOrCreateIndex loads the advisory index document, creating an empty
// one if absent, and seeds the persisted ID counter.
func (s *docStore) getOrCreateIndex(ctx context.Context, rootID string) (string, indexDoc, error) {
	query := fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", rootID, indexFileName)
	files, err := s.ops.ListFiles(ctx, query, 1)
	if err != nil {
		return "", indexDoc{}, fmt.Errorf("find index: %w", err)
	}

	if len(files) > 0 {
		var doc indexDoc
		if err := s.ops.ReadJSON(ctx, files[0].ID, &doc); err != nil {
			return "", indexDoc{}, fmt.Errorf("read index: %w", err)
		}
		if doc.Notes == nil {
			doc.Notes = map[string]string{}
		}
		if doc.Attachments == nil {
			doc.Attachments = map[string]string{}
		}
		if doc.Trashed == nil {
			doc.Trashed = map[string]string{}
		}
		s.seedLastID(doc.LastID)
		return files[0].ID, doc, nil
	}

	doc := newIndexDoc()
	created, err := s.ops.CreateJSON(ctx, indexFileName, rootID, doc)
	if err != nil {
		return "", indexDoc{}, fmt.Errorf("create index: %w", err)
	}
	return created.ID, doc, nil
}

func (s *docStore) seedLastID(persisted int64) {
	s.mu.Lock()
	if persisted > s.lastID {
		s.lastID = persisted
	}
	s.mu.Unlock()
}

// ensureSeeded primes the ID counter once per session, before the first
// allocation: the persisted last_id from the index, plus every note and
// attachment ID visible in the shards. A fresh session therefore never
// re-issues an ID from a previous one, even with a lagging clock and even
// when the index document is lost.
func (s *docStore) ensureSeeded(ctx context.Context, rootID string) error {
	s.mu.Lock()
	seeded := s.seeded
	s.mu.Unlock()
	if seeded {
		return nil
	}

	if _, idx, err := s.getOrCreateIndex(ctx, rootID); err == nil {
		s.seedLastID(idx.LastID)
	} else {
		slog.Default().Warn("index unavailable while seeding ID counter", "error", err)
	}

	shards, err := s.listMonthShards(ctx, rootID)
	if err != nil {
		return err
	}
	for _, f := range shards {
		var doc shardDoc
		if err := s.ops.ReadJSON(ctx, f.ID, &doc); err != nil {
			slog.Default().Warn("skipping unreadable shard while seeding ID counter", "shard", f.Name, "error", err)
			continue
		}
		for _, n := range doc.Notes {
			s.seedLastID(n.ID)
			for _, att := range n.Files {
				s.seedLastID(att.ID)
			}
		}
	}

	s.mu.Lock()
	s.seeded = true
	s.mu.Unlock()
	return nil
}

// allocateID seeds the counter on first use, then issues the next
// monotonic entity ID.
func (s *docStore) allocateID(ctx context.Context, rootID string) (int64, error) {
	if err := s.ensureSeeded(ctx, rootID); err != nil {
		return 0, err
	}
	return s.nextID(), nil
}

// nextID generates a monotonic entity ID: epoch microseconds, bumped past
// the last issued ID so rapid creation within the same microsecond cannot
// collide. The counter is persisted into the index document (best effort)
// and re-derived by ensureSeeded from the shards themselves, so it
// survives sessions even without the index.
func (s *docStore) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMicro()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// findNote scans shards in reverse-chronological order for a note ID.
// It intentionally ignores the index: the index is an optimization and may
// be stale, missing or wrong, while the scan is always correct.
func (s *docStore) findNote(ctx context.Context, rootID string, id int64) (shardID string, doc shardDoc, pos int, err error) {
	shards, err := s.listMonthShards(ctx, rootID)
	if err != nil {
		return "", shardDoc{}, 0, err
	}
	for _, f := range shards {
		var d shardDoc
		if err := s.ops.ReadJSON(ctx, f.ID, &d); err != nil {
			return "", shardDoc{}, 0, fmt.Errorf("read shard %s: %w", f.Name, err)
		}
		for i := range d.Notes {
			if d.Notes[i].ID == id {
				return f.ID, d, i, nil
			}
		}
	}
	return "", shardDoc{}, 0, note.ErrNotFound
}

func idKey(id int64) string {
	return fmt.Sprintf("%d", id)
}
