package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuromaru/simplynote/internal/note"
)

// memoryTokenStore is an in-memory TokenStore for tests.
type memoryTokenStore struct {
	accessToken  string
	refreshToken string
}

func (s *memoryTokenStore) AccessToken() (string, error) {
	return s.accessToken, nil
}

func (s *memoryTokenStore) RefreshTokenValue() (string, error) {
	return s.refreshToken, nil
}

func (s *memoryTokenStore) SetAccessToken(token string) error {
	s.accessToken = token
	return nil
}

func newTestRepository(t *testing.T, handler http.Handler) (*Repository, *memoryTokenStore, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := &memoryTokenStore{accessToken: "token-1", refreshToken: "refresh-1"}
	client := NewClient(server.URL, store)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewRepository(client), store, server
}

func TestRepositoryListNotes(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]note.Note{
			{ID: 1, Title: "first"},
			{ID: 2, Title: "second"},
		})
	}))

	notes, err := repo.ListNotes(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Title)
}

func TestRepositoryErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{
			name:       "401 maps to unauthorized",
			statusCode: http.StatusUnauthorized,
			wantErr:    note.ErrUnauthorized,
		},
		{
			name:       "404 maps to not found",
			statusCode: http.StatusNotFound,
			wantErr:    note.ErrNotFound,
		},
		{
			name:       "500 maps to transport",
			statusCode: http.StatusInternalServerError,
			wantErr:    note.ErrTransport,
		},
		{
			name:       "503 maps to transport",
			statusCode: http.StatusServiceUnavailable,
			wantErr:    note.ErrTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			_, err := repo.GetNote(context.Background(), 7)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepositoryMissingTokenFailsBeforeRequest(t *testing.T) {
	called := false
	repo, store, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	store.accessToken = ""

	_, err := repo.ListNotes(context.Background())
	assert.ErrorIs(t, err, note.ErrUnauthorized)
	assert.False(t, called, "no request should be sent without a token")
}

func TestRepositoryCreateNote(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["title"])
		assert.Equal(t, "world", body["content"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(note.Note{ID: 10, Title: "hello", Content: "world"})
	}))

	created, err := repo.CreateNote(context.Background(), "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
}

func TestRepositoryUpdateNoteOmitsNilFields(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/5", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"content": "only content"}, body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(note.Note{ID: 5, Content: "only content"})
	}))

	content := "only content"
	updated, err := repo.UpdateNote(context.Background(), 5, note.NotePatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "only content", updated.Content)
}

func TestRepositoryToggleStar(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/5/important", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"is_important": 1})
	}))

	isImportant, err := repo.ToggleStar(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, isImportant)
}

func TestRepositoryTags(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/notes/5/tags":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "work", body["name"])
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string][]string{"tags": {"work"}})
		case r.Method == http.MethodDelete && r.URL.Path == "/notes/5/tags/with space":
			assert.Equal(t, "/notes/5/tags/with%20space", r.URL.EscapedPath())
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string][]string{"tags": {}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	tags, err := repo.AddTag(context.Background(), 5, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, tags)

	// The tag name must be path-escaped on removal.
	tags, err = repo.RemoveTag(context.Background(), 5, "with space")
	require.NoError(t, err)
	assert.Empty(t, tags)

	_, err = repo.AddTag(context.Background(), 5, "   ")
	assert.ErrorIs(t, err, note.ErrValidation)
}

func TestRepositoryUploadAttachment(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes/5/attachments", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() {
			_ = file.Close()
		}()
		assert.Equal(t, "photo.png", header.Filename)
		blob, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), blob)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(note.Attachment{ID: 77, Filename: "photo.png", URL: "/files/77"})
	}))

	att, err := repo.UploadAttachment(context.Background(), 5, "photo.png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, int64(77), att.ID)
}

func TestRepositoryImportArchive(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/import", r.URL.Path)
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "import.zip", header.Filename)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(note.ImportResult{Imported: 3, Skipped: 1, Message: "Imported 3 notes, skipped 1"})
	}))

	result, err := repo.ImportArchive(context.Background(), bytes.NewReader([]byte("zip-bytes")))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestRepositoryExportArchivePassesBytesThrough(t *testing.T) {
	blob := []byte{'P', 'K', 3, 4, 0xff, 0x00, 0x7f}
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/export", r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(blob)
	}))

	got, err := repo.ExportArchive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestRepositoryEmptyTrash(t *testing.T) {
	repo, _, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/trash", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{"deleted": 4})
	}))

	deleted, err := repo.EmptyTrash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
}

func TestRepositoryRefreshToken(t *testing.T) {
	repo, store, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "token-2"})
	}))

	token, err := repo.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, "token-2", store.accessToken)
}

func TestRepositoryRefreshTokenWithoutRefreshToken(t *testing.T) {
	repo, store, _ := newTestRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	store.refreshToken = ""

	_, err := repo.RefreshToken(context.Background())
	assert.ErrorIs(t, err, note.ErrUnauthorized)
}

func TestResolveAttachmentURL(t *testing.T) {
	repo, _, server := newTestRepository(t, http.NewServeMux())
	assert.Equal(t, server.URL+"/files/7", repo.ResolveAttachmentURL("/files/7"))
	assert.Equal(t, server.URL+"/files/7", repo.ResolveAttachmentURL("files/7"))
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostFormValue("username"))
		assert.Equal(t, "secret", r.PostFormValue("password"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "a", RefreshToken: "r"})
	}))
	t.Cleanup(server.Close)

	tokens, err := Login(context.Background(), server.URL, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", tokens.AccessToken)
	assert.Equal(t, "r", tokens.RefreshToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	_, err := Login(context.Background(), server.URL, "alice", "wrong")
	assert.ErrorIs(t, err, note.ErrUnauthorized)
}
