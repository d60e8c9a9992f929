// Package driveapi is a thin wire client for the Google Drive v3 REST
// API, scoped to app-created files. It exposes file CRUD primitives only;
// the document-store semantics live in the note/drive package.
package driveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"resty.dev/v3"

	"github.com/kuromaru/simplynote/internal/note"
)

const (
	apiBase    = "https://www.googleapis.com/drive/v3"
	uploadBase = "https://www.googleapis.com/upload/drive/v3"

	folderMimeType = "application/vnd.google-apps.folder"
	jsonMimeType   = "application/json"
)

// File is the subset of Drive file metadata this client requests.
type File struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType,omitempty"`
	ModifiedTime string   `json:"modifiedTime,omitempty"`
	Parents      []string `json:"parents,omitempty"`
}

// Operations is the set of Drive primitives the document store depends on.
type Operations interface {
	ListFiles(ctx context.Context, query string, pageSize int) ([]File, error)
	CreateFolder(ctx context.Context, name, parentID string) (File, error)
	CreateJSON(ctx context.Context, name, parentID string, content any) (File, error)
	ReadJSON(ctx context.Context, fileID string, out any) error
	UpdateJSON(ctx context.Context, fileID string, content any) error
	Upload(ctx context.Context, name, parentID string, contents io.Reader) (File, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	Delete(ctx context.Context, fileID string) error
}

// TokenSource supplies the current Drive access token.
type TokenSource interface {
	DriveAccessToken() (string, error)
}

// Client implements Operations over HTTP.
type Client struct {
	http       *resty.Client
	tokens     TokenSource
	apiBase    string
	uploadBase string
}

var _ Operations = (*Client)(nil)

// NewClient creates a Drive wire client.
func NewClient(tokens TokenSource) *Client {
	return &Client{
		http:       resty.New(),
		tokens:     tokens,
		apiBase:    apiBase,
		uploadBase: uploadBase,
	}
}

// NewClientWithBase creates a client against alternate endpoints. Tests
// point it at a local server.
func NewClientWithBase(tokens TokenSource, api, upload string) *Client {
	c := NewClient(tokens)
	c.apiBase = strings.TrimRight(api, "/")
	c.uploadBase = strings.TrimRight(upload, "/")
	return c
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.tokens.DriveAccessToken()
	if err != nil || token == "" {
		return nil, note.ErrUnauthorized
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

func classify(res *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", note.ErrTransport, err)
	}
	switch {
	case res.StatusCode() == http.StatusUnauthorized:
		return note.ErrUnauthorized
	case res.StatusCode() == http.StatusNotFound:
		return note.ErrNotFound
	case res.IsError():
		return fmt.Errorf("%w: drive status %d: %s", note.ErrTransport, res.StatusCode(), res.String())
	}
	return nil
}

// ListFiles runs a files.list query and returns the matching files.
func (c *Client) ListFiles(ctx context.Context, query string, pageSize int) ([]File, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	var out struct {
		Files []File `json:"files"`
	}
	res, err := req.
		SetQueryParams(map[string]string{
			"q":        query,
			"spaces":   "drive",
			"pageSize": strconv.Itoa(pageSize),
			"fields":   "files(id,name,mimeType,modifiedTime,parents)",
		}).
		SetResult(&out).
		Get(c.apiBase + "/files")
	if err := classify(res, err); err != nil {
		return nil, fmt.Errorf("files.list: %w", err)
	}
	return out.Files, nil
}

// CreateFolder creates a folder under the given parent.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (File, error) {
	req, err := c.request(ctx)
	if err != nil {
		return File{}, err
	}
	var created File
	res, err := req.
		SetBody(map[string]any{
			"name":     name,
			"mimeType": folderMimeType,
			"parents":  []string{parentID},
		}).
		SetResult(&created).
		Post(c.apiBase + "/files")
	if err := classify(res, err); err != nil {
		return File{}, fmt.Errorf("files.create folder: %w", err)
	}
	return created, nil
}

// CreateJSON creates a JSON document with the marshaled content as its media.
func (c *Client) CreateJSON(ctx context.Context, name, parentID string, content any) (File, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return File{}, fmt.Errorf("json.Marshal > %w", err)
	}
	return c.createMultipart(ctx, name, parentID, jsonMimeType, bytes.NewReader(body))
}

// Upload stores raw bytes as a new Drive file under the given parent.
func (c *Client) Upload(ctx context.Context, name, parentID string, contents io.Reader) (File, error) {
	return c.createMultipart(ctx, name, parentID, "", contents)
}

func (c *Client) createMultipart(ctx context.Context, name, parentID, mimeType string, contents io.Reader) (File, error) {
	metadata := map[string]any{
		"name":    name,
		"parents": []string{parentID},
	}
	if mimeType != "" {
		metadata["mimeType"] = mimeType
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return File{}, fmt.Errorf("json.Marshal > %w", err)
	}

	req, err := c.request(ctx)
	if err != nil {
		return File{}, err
	}
	var created File
	res, err := req.
		SetQueryParam("uploadType", "multipart").
		SetMultipartFields(
			&resty.MultipartField{
				Name:        "metadata",
				ContentType: jsonMimeType,
				Reader:      bytes.NewReader(metadataJSON),
			},
			&resty.MultipartField{
				Name:     "file",
				FileName: name,
				Reader:   contents,
			},
		).
		SetResult(&created).
		Post(c.uploadBase + "/files")
	if err := classify(res, err); err != nil {
		return File{}, fmt.Errorf("files.create multipart: %w", err)
	}
	return created, nil
}

// ReadJSON downloads a file's media and decodes it as JSON.
func (c *Client) ReadJSON(ctx context.Context, fileID string, out any) error {
	blob, err := c.Download(ctx, fileID)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("json.Unmarshal > %w", err)
	}
	return nil
}

// UpdateJSON replaces a file's media with the marshaled content.
func (c *Client) UpdateJSON(ctx context.Context, fileID string, content any) error {
	body, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	res, err := req.
		SetQueryParam("uploadType", "media").
		SetHeader("Content-Type", jsonMimeType).
		SetBody(body).
		Patch(c.uploadBase + "/files/" + fileID)
	if err := classify(res, err); err != nil {
		return fmt.Errorf("files.update media: %w", err)
	}
	return nil
}

// Download fetches a file's media bytes.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	res, err := req.
		SetQueryParam("alt", "media").
		Get(c.apiBase + "/files/" + fileID)
	if err := classify(res, err); err != nil {
		return nil, fmt.Errorf("files.get media: %w", err)
	}
	return res.Bytes(), nil
}

// Delete removes a file. An already-deleted file is not an error.
func (c *Client) Delete(ctx context.Context, fileID string) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	res, err := req.Delete(c.apiBase + "/files/" + fileID)
	if err := classify(res, err); err != nil {
		if res != nil && res.StatusCode() == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("files.delete: %w", err)
	}
	return nil
}

// escapeQueryValue escapes single quotes for a Drive query literal.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(v, `'`, `\'`)
}

// GetOrCreateFolderByPath walks pathParts from the Drive root, creating
// missing folders, and returns the final folder's ID.
func GetOrCreateFolderByPath(ctx context.Context, ops Operations, pathParts []string) (string, error) {
	parentID := "root"
	for _, name := range pathParts {
		if strings.TrimSpace(name) == "" {
			continue
		}
		query := fmt.Sprintf("mimeType='%s' and name='%s' and '%s' in parents and trashed=false",
			folderMimeType, escapeQueryValue(name), parentID)
		files, err := ops.ListFiles(ctx, query, 1)
		if err != nil {
			return "", fmt.Errorf("ops.ListFiles > %w", err)
		}
		if len(files) > 0 {
			parentID = files[0].ID
			continue
		}
		created, err := ops.CreateFolder(ctx, name, parentID)
		if err != nil {
			return "", fmt.Errorf("ops.CreateFolder > %w", err)
		}
		parentID = created.ID
	}
	return parentID, nil
}
