package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kuromaru/simplynote/internal/archive"
	"github.com/kuromaru/simplynote/internal/driveapi"
	"github.com/kuromaru/simplynote/internal/note"
)

// deleteConcurrency bounds parallel attachment deletes during EmptyTrash.
const deleteConcurrency = 10

// TokenRefresher renews the Drive access token. A backend configured
// without a refresh token has none; renewal then requires re-auth.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context) (string, error)
}

// Repository implements note.Repository over the Drive document store.
//
// Shard writes are the durability boundary. Index writes are advisory:
// failures are logged, never rolled back, and never fail the operation,
// because every read path recovers by full shard enumeration.
type Repository struct {
	store     *docStore
	refresher TokenRefresher
}

var _ note.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithRootFolder overrides the app folder path under the Drive root.
func WithRootFolder(path []string) Option {
	return func(r *Repository) {
		r.store.rootPath = path
	}
}

// WithClock overrides the time source. Tests use it to pin shard months
// and entity IDs.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.store.now = now
	}
}

// NewRepository creates a Drive-backed repository. refresher may be nil
// when no refresh token is stored.
func NewRepository(ops driveapi.Operations, refresher TokenRefresher, opts ...Option) *Repository {
	r := &Repository{
		store:     newDocStore(ops, nil, nil),
		refresher: refresher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListNotes enumerates every shard, flattens the note arrays and sorts by
// update time descending. No pagination: shard count is bounded by account
// age in months. Unreadable shards are skipped so one corrupt document
// cannot hide the rest.
func (r *Repository) ListNotes(ctx context.Context) ([]note.Note, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return nil, err
	}
	shards, err := r.store.listMonthShards(ctx, rootID)
	if err != nil {
		return nil, err
	}

	var all []note.Note
	for _, f := range shards {
		var doc shardDoc
		if err := r.store.ops.ReadJSON(ctx, f.ID, &doc); err != nil {
			slog.Default().Warn("skipping unreadable shard", "shard", f.Name, "error", err)
			continue
		}
		for _, n := range doc.Notes {
			if n.Tags == nil {
				n.Tags = []string{}
			}
			if n.Files == nil {
				n.Files = []note.Attachment{}
			}
			all = append(all, n)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SortTime().After(all[j].SortTime())
	})
	return all, nil
}

func (r *Repository) GetNote(ctx context.Context, id int64) (note.Note, error) {
	notes, err := r.ListNotes(ctx)
	if err != nil {
		return note.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return note.Note{}, note.ErrNotFound
}

// CreateNote writes the note into the current month's shard, then updates
// the index mapping best-effort.
func (r *Repository) CreateNote(ctx context.Context, title, content string) (note.Note, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return note.Note{}, err
	}

	id, err := r.store.allocateID(ctx, rootID)
	if err != nil {
		return note.Note{}, err
	}

	now := r.store.now()
	shardID, doc, err := r.store.getOrCreateMonthShard(ctx, rootID, now)
	if err != nil {
		return note.Note{}, err
	}

	n := note.Note{
		ID:          id,
		Title:       title,
		Content:     content,
		IsImportant: 0,
		Tags:        []string{},
		Files:       []note.Attachment{},
		CreatedAt:   note.Timestamp(now),
		UpdatedAt:   note.Timestamp(now),
	}

	doc.Notes = append([]note.Note{n}, doc.Notes...)
	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return note.Note{}, fmt.Errorf("write shard: %w", err)
	}

	r.updateIndex(ctx, rootID, func(idx *indexDoc) {
		idx.Notes[idKey(n.ID)] = shardID
	})
	return n, nil
}

func (r *Repository) UpdateNote(ctx context.Context, id int64, patch note.NotePatch) (note.Note, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return note.Note{}, err
	}
	shardID, doc, pos, err := r.store.findNote(ctx, rootID, id)
	if err != nil {
		return note.Note{}, err
	}

	if patch.Title != nil {
		doc.Notes[pos].Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Notes[pos].Content = *patch.Content
	}
	doc.Notes[pos].UpdatedAt = note.Timestamp(r.store.now())

	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return note.Note{}, fmt.Errorf("write shard: %w", err)
	}
	return doc.Notes[pos], nil
}

// DeleteNote removes the note from its shard, deleting its attachment
// files first, then prunes the index entries.
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return err
	}
	shardID, doc, pos, err := r.store.findNote(ctx, rootID, id)
	if err != nil {
		return err
	}

	removed := doc.Notes[pos]
	for _, att := range removed.Files {
		if att.URL == "" {
			continue
		}
		if err := r.store.ops.Delete(ctx, att.URL); err != nil {
			slog.Default().Warn("failed to delete attachment file", "attachment", att.Filename, "error", err)
		}
	}

	doc.Notes = append(doc.Notes[:pos], doc.Notes[pos+1:]...)
	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return fmt.Errorf("write shard: %w", err)
	}

	r.updateIndex(ctx, rootID, func(idx *indexDoc) {
		delete(idx.Notes, idKey(id))
		delete(idx.Trashed, idKey(id))
		for _, att := range removed.Files {
			delete(idx.Attachments, idKey(att.ID))
		}
	})
	return nil
}

func (r *Repository) ToggleStar(ctx context.Context, id int64) (int, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return 0, err
	}
	shardID, doc, pos, err := r.store.findNote(ctx, rootID, id)
	if err != nil {
		return 0, err
	}

	next := 1
	if doc.Notes[pos].IsImportant == 1 {
		next = 0
	}
	doc.Notes[pos].IsImportant = next
	doc.Notes[pos].UpdatedAt = note.Timestamp(r.store.now())

	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return 0, fmt.Errorf("write shard: %w", err)
	}
	return next, nil
}

func (r *Repository) AddTag(ctx context.Context, id int64, name string) ([]string, error) {
	if err := note.ValidateTagName(name); err != nil {
		return nil, err
	}
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return nil, err
	}
	shardID, doc, pos, err := r.store.findNote(ctx, rootID, id)
	if err != nil {
		return nil, err
	}

	if !doc.Notes[pos].HasTag(name) {
		doc.Notes[pos].Tags = append(doc.Notes[pos].Tags, name)
		doc.Notes[pos].UpdatedAt = note.Timestamp(r.store.now())
		if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
			return nil, fmt.Errorf("write shard: %w", err)
		}
	}
	return doc.Notes[pos].Tags, nil
}

func (r *Repository) RemoveTag(ctx context.Context, id int64, name string) ([]string, error) {
	if err := note.ValidateTagName(name); err != nil {
		return nil, err
	}
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return nil, err
	}
	shardID, doc, pos, err := r.store.findNote(ctx, rootID, id)
	if err != nil {
		return nil, err
	}

	kept := doc.Notes[pos].Tags[:0:0]
	for _, t := range doc.Notes[pos].Tags {
		if t != name {
			kept = append(kept, t)
		}
	}
	if kept == nil {
		kept = []string{}
	}
	doc.Notes[pos].Tags = kept
	doc.Notes[pos].UpdatedAt = note.Timestamp(r.store.now())

	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return nil, fmt.Errorf("write shard: %w", err)
	}
	return kept, nil
}

// ListAllTags is computed by scanning all notes: the Drive backend stores
// tags only as per-note string lists.
func (r *Repository) ListAllTags(ctx context.Context) ([]note.Tag, error) {
	notes, err := r.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, n := range notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}

	tags := make([]note.Tag, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, note.Tag{Name: name, NoteCount: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags, nil
}

// UploadAttachment stores the bytes in the Attachments folder first, then
// appends the record to the owning note via the shard scan. An upload whose
// note turns out to be missing leaves an orphan file; the index never
// learns about it, so it is invisible to the application.
func (r *Repository) UploadAttachment(ctx context.Context, noteID int64, filename string, contents io.Reader) (note.Attachment, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return note.Attachment{}, err
	}
	folderID, err := r.store.attachmentsFolderID(ctx)
	if err != nil {
		return note.Attachment{}, err
	}

	attachmentID, err := r.store.allocateID(ctx, rootID)
	if err != nil {
		return note.Attachment{}, err
	}

	uploaded, err := r.store.ops.Upload(ctx, filename, folderID, contents)
	if err != nil {
		return note.Attachment{}, fmt.Errorf("upload attachment bytes: %w", err)
	}

	att := note.Attachment{
		ID:       attachmentID,
		Filename: filename,
		URL:      uploaded.ID,
	}

	shardID, doc, pos, err := r.store.findNote(ctx, rootID, noteID)
	if err != nil {
		return note.Attachment{}, err
	}
	doc.Notes[pos].Files = append(doc.Notes[pos].Files, att)
	doc.Notes[pos].UpdatedAt = note.Timestamp(r.store.now())
	if err := r.store.ops.UpdateJSON(ctx, shardID, doc); err != nil {
		return note.Attachment{}, fmt.Errorf("write shard: %w", err)
	}

	r.updateIndex(ctx, rootID, func(idx *indexDoc) {
		idx.Attachments[idKey(att.ID)] = idKey(noteID)
	})
	return att, nil
}

func (r *Repository) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return err
	}
	shards, err := r.store.listMonthShards(ctx, rootID)
	if err != nil {
		return err
	}

	for _, f := range shards {
		var doc shardDoc
		if err := r.store.ops.ReadJSON(ctx, f.ID, &doc); err != nil {
			return fmt.Errorf("read shard %s: %w", f.Name, err)
		}
		for i := range doc.Notes {
			for j, att := range doc.Notes[i].Files {
				if att.ID != attachmentID {
					continue
				}
				if att.URL != "" {
					if err := r.store.ops.Delete(ctx, att.URL); err != nil {
						slog.Default().Warn("failed to delete attachment file", "attachment", att.Filename, "error", err)
					}
				}
				doc.Notes[i].Files = append(doc.Notes[i].Files[:j], doc.Notes[i].Files[j+1:]...)
				doc.Notes[i].UpdatedAt = note.Timestamp(r.store.now())
				if err := r.store.ops.UpdateJSON(ctx, f.ID, doc); err != nil {
					return fmt.Errorf("write shard: %w", err)
				}
				r.updateIndex(ctx, rootID, func(idx *indexDoc) {
					delete(idx.Attachments, idKey(attachmentID))
				})
				return nil
			}
		}
	}
	return note.ErrNotFound
}

// ImportArchive recreates each manifest note through the normal mutation
// path. A failure inside one note counts it as skipped without aborting
// the batch.
func (r *Repository) ImportArchive(ctx context.Context, contents io.Reader) (note.ImportResult, error) {
	manifest, attachments, err := archive.Read(contents)
	if err != nil {
		return note.ImportResult{}, fmt.Errorf("archive.Read > %w", err)
	}

	var imported, skipped int
	for _, m := range manifest {
		if err := r.importOne(ctx, m, attachments); err != nil {
			slog.Default().Warn("failed to import note", "title", m.Title, "error", err)
			skipped++
			continue
		}
		imported++
	}

	return note.ImportResult{
		Imported: imported,
		Skipped:  skipped,
		Message:  fmt.Sprintf("Imported %d notes, skipped %d", imported, skipped),
	}, nil
}

func (r *Repository) importOne(ctx context.Context, m archive.ManifestNote, attachments map[string][]byte) error {
	title := m.Title
	if title == "" {
		title = "Untitled"
	}
	created, err := r.CreateNote(ctx, title, m.Content)
	if err != nil {
		return fmt.Errorf("CreateNote > %w", err)
	}

	if m.IsImportant != 0 {
		if _, err := r.ToggleStar(ctx, created.ID); err != nil {
			return fmt.Errorf("ToggleStar > %w", err)
		}
	}
	for _, tag := range m.Tags {
		if _, err := r.AddTag(ctx, created.ID, tag); err != nil {
			return fmt.Errorf("AddTag(%s) > %w", tag, err)
		}
	}
	for _, f := range m.Files {
		blob, ok := attachments[f.Filename]
		if !ok {
			continue
		}
		if _, err := r.UploadAttachment(ctx, created.ID, f.Filename, bytes.NewReader(blob)); err != nil {
			return fmt.Errorf("UploadAttachment(%s) > %w", f.Filename, err)
		}
	}
	return nil
}

// ExportArchive serializes all notes into the portability ZIP, downloading
// every attachment's bytes. A failed download is logged and the entry
// skipped; the manifest still references it by filename.
func (r *Repository) ExportArchive(ctx context.Context) ([]byte, error) {
	notes, err := r.ListNotes(ctx)
	if err != nil {
		return nil, err
	}

	manifest := make([]archive.ManifestNote, 0, len(notes))
	attachments := make(map[string][]byte)
	for _, n := range notes {
		m := archive.ManifestNote{
			Title:       n.Title,
			Content:     n.Content,
			IsImportant: n.IsImportant,
			Tags:        n.Tags,
			Files:       make([]archive.ManifestFile, 0, len(n.Files)),
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		}
		for _, att := range n.Files {
			m.Files = append(m.Files, archive.ManifestFile{Filename: att.Filename})
			blob, err := r.store.ops.Download(ctx, att.URL)
			if err != nil {
				slog.Default().Warn("failed to download attachment", "attachment", att.Filename, "error", err)
				continue
			}
			attachments[att.Filename] = blob
		}
		manifest = append(manifest, m)
	}

	blob, err := archive.Build(manifest, attachments)
	if err != nil {
		return nil, fmt.Errorf("archive.Build > %w", err)
	}
	return blob, nil
}

// EmptyTrash scans every shard once, rewrites the affected shards with
// only the kept notes, deletes the removed notes' attachment files with
// bounded parallelism and prunes the index in one write.
func (r *Repository) EmptyTrash(ctx context.Context) (int, error) {
	rootID, err := r.store.rootFolderID(ctx)
	if err != nil {
		return 0, err
	}
	shards, err := r.store.listMonthShards(ctx, rootID)
	if err != nil {
		return 0, err
	}

	var deleted int
	var removedIDs []int64
	var removedAttachments []note.Attachment

	for _, f := range shards {
		var doc shardDoc
		if err := r.store.ops.ReadJSON(ctx, f.ID, &doc); err != nil {
			return deleted, fmt.Errorf("read shard %s: %w", f.Name, err)
		}

		kept := doc.Notes[:0:0]
		var trashed []note.Note
		for _, n := range doc.Notes {
			if n.IsTrashed() {
				trashed = append(trashed, n)
			} else {
				kept = append(kept, n)
			}
		}
		if len(trashed) == 0 {
			continue
		}

		for _, n := range trashed {
			removedIDs = append(removedIDs, n.ID)
			removedAttachments = append(removedAttachments, n.Files...)
		}
		if kept == nil {
			kept = []note.Note{}
		}
		doc.Notes = kept
		if err := r.store.ops.UpdateJSON(ctx, f.ID, doc); err != nil {
			return deleted, fmt.Errorf("write shard %s: %w", f.Name, err)
		}
		deleted += len(trashed)
	}

	// Attachment file deletes fan out with bounded concurrency; failures
	// only orphan files the index no longer references.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, att := range removedAttachments {
		if att.URL == "" {
			continue
		}
		g.Go(func() error {
			if err := r.store.ops.Delete(gctx, att.URL); err != nil {
				slog.Default().Warn("failed to delete attachment file", "attachment", att.Filename, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(removedIDs) > 0 {
		r.updateIndex(ctx, rootID, func(idx *indexDoc) {
			for _, id := range removedIDs {
				delete(idx.Notes, idKey(id))
				delete(idx.Trashed, idKey(id))
			}
			for _, att := range removedAttachments {
				delete(idx.Attachments, idKey(att.ID))
			}
		})
	}
	return deleted, nil
}

// ResolveAttachmentURL turns a stored Drive file ID into a view URL.
func (r *Repository) ResolveAttachmentURL(storedURL string) string {
	return "https://drive.google.com/file/d/" + storedURL + "/view?usp=drivesdk"
}

// RefreshToken renews the Drive access token through the OAuth relay.
// Without a stored refresh token the session cannot be renewed.
func (r *Repository) RefreshToken(ctx context.Context) (string, error) {
	if r.refresher == nil {
		return "", fmt.Errorf("drive token expired: %w", note.ErrUnauthorized)
	}
	token, err := r.refresher.RefreshAccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh drive token: %w", err)
	}
	return token, nil
}

// updateIndex applies a mutation to the advisory index. Failures are
// logged and swallowed: the shard write already made the change durable,
// and every reader can recover by full scan.
func (r *Repository) updateIndex(ctx context.Context, rootID string, mutate func(*indexDoc)) {
	indexID, doc, err := r.store.getOrCreateIndex(ctx, rootID)
	if err != nil {
		slog.Default().Warn("failed to load index", "error", err)
		return
	}
	mutate(&doc)
	r.store.mu.Lock()
	doc.LastID = r.store.lastID
	r.store.mu.Unlock()
	if err := r.store.ops.UpdateJSON(ctx, indexID, doc); err != nil {
		slog.Default().Warn("failed to update index", "error", err)
	}
}
