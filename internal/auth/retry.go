package auth

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kuromaru/simplynote/internal/note"
)

// WithRetry decorates every repository call with the reactive auth retry
// policy: a call failing with ErrUnauthorized triggers exactly one refresh
// through the repository's own refresh routine, then exactly one retry.
// A refresh failure, or a second ErrUnauthorized after a successful
// refresh, invokes onAuthFailure (credential wipe plus forced logout) and
// surfaces the error. At most one retry ever happens, so a revoked or
// misconfigured credential cannot loop.
func WithRetry(repo note.Repository, onAuthFailure func()) note.Repository {
	if onAuthFailure == nil {
		onAuthFailure = func() {}
	}
	return &retryRepository{repo: repo, onAuthFailure: onAuthFailure}
}

type retryRepository struct {
	repo          note.Repository
	onAuthFailure func()
}

var _ note.Repository = (*retryRepository)(nil)

func retryCall[T any](ctx context.Context, r *retryRepository, op func(context.Context) (T, error)) (T, error) {
	result, err := op(ctx)
	if !errors.Is(err, note.ErrUnauthorized) {
		return result, err
	}

	if _, refreshErr := r.repo.RefreshToken(ctx); refreshErr != nil {
		r.onAuthFailure()
		return result, fmt.Errorf("refresh after unauthorized: %w", refreshErr)
	}

	result, err = op(ctx)
	if errors.Is(err, note.ErrUnauthorized) {
		r.onAuthFailure()
	}
	return result, err
}

func (r *retryRepository) ListNotes(ctx context.Context) ([]note.Note, error) {
	return retryCall(ctx, r, r.repo.ListNotes)
}

func (r *retryRepository) GetNote(ctx context.Context, id int64) (note.Note, error) {
	return retryCall(ctx, r, func(ctx context.Context) (note.Note, error) {
		return r.repo.GetNote(ctx, id)
	})
}

func (r *retryRepository) CreateNote(ctx context.Context, title, content string) (note.Note, error) {
	return retryCall(ctx, r, func(ctx context.Context) (note.Note, error) {
		return r.repo.CreateNote(ctx, title, content)
	})
}

func (r *retryRepository) UpdateNote(ctx context.Context, id int64, patch note.NotePatch) (note.Note, error) {
	return retryCall(ctx, r, func(ctx context.Context) (note.Note, error) {
		return r.repo.UpdateNote(ctx, id, patch)
	})
}

func (r *retryRepository) DeleteNote(ctx context.Context, id int64) error {
	_, err := retryCall(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.repo.DeleteNote(ctx, id)
	})
	return err
}

func (r *retryRepository) ToggleStar(ctx context.Context, id int64) (int, error) {
	return retryCall(ctx, r, func(ctx context.Context) (int, error) {
		return r.repo.ToggleStar(ctx, id)
	})
}

func (r *retryRepository) AddTag(ctx context.Context, id int64, name string) ([]string, error) {
	return retryCall(ctx, r, func(ctx context.Context) ([]string, error) {
		return r.repo.AddTag(ctx, id, name)
	})
}

func (r *retryRepository) RemoveTag(ctx context.Context, id int64, name string) ([]string, error) {
	return retryCall(ctx, r, func(ctx context.Context) ([]string, error) {
		return r.repo.RemoveTag(ctx, id, name)
	})
}

func (r *retryRepository) ListAllTags(ctx context.Context) ([]note.Tag, error) {
	return retryCall(ctx, r, r.repo.ListAllTags)
}

// UploadAttachment is not retried: the reader may already be partially
// consumed by the failed attempt. The caller re-issues the upload.
func (r *retryRepository) UploadAttachment(ctx context.Context, noteID int64, filename string, contents io.Reader) (note.Attachment, error) {
	att, err := r.repo.UploadAttachment(ctx, noteID, filename, contents)
	if errors.Is(err, note.ErrUnauthorized) {
		if _, refreshErr := r.repo.RefreshToken(ctx); refreshErr != nil {
			r.onAuthFailure()
			return att, fmt.Errorf("refresh after unauthorized: %w", refreshErr)
		}
	}
	return att, err
}

func (r *retryRepository) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	_, err := retryCall(ctx, r, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.repo.DeleteAttachment(ctx, attachmentID)
	})
	return err
}

// ImportArchive shares UploadAttachment's constraint on consumed readers.
func (r *retryRepository) ImportArchive(ctx context.Context, contents io.Reader) (note.ImportResult, error) {
	result, err := r.repo.ImportArchive(ctx, contents)
	if errors.Is(err, note.ErrUnauthorized) {
		if _, refreshErr := r.repo.RefreshToken(ctx); refreshErr != nil {
			r.onAuthFailure()
			return result, fmt.Errorf("refresh after unauthorized: %w", refreshErr)
		}
	}
	return result, err
}

func (r *retryRepository) ExportArchive(ctx context.Context) ([]byte, error) {
	return retryCall(ctx, r, r.repo.ExportArchive)
}

func (r *retryRepository) EmptyTrash(ctx context.Context) (int, error) {
	return retryCall(ctx, r, r.repo.EmptyTrash)
}

func (r *retryRepository) ResolveAttachmentURL(storedURL string) string {
	return r.repo.ResolveAttachmentURL(storedURL)
}

func (r *retryRepository) RefreshToken(ctx context.Context) (string, error) {
	return r.repo.RefreshToken(ctx)
}
