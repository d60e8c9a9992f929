// Package api implements the note repository over the SimplyNote REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resty.dev/v3"

	"github.com/kuromaru/simplynote/internal/note"
)

// TokenStore supplies and persists the bearer credentials for the API
// backend. The localstore package provides the durable implementation.
type TokenStore interface {
	AccessToken() (string, error)
	RefreshTokenValue() (string, error)
	SetAccessToken(token string) error
}

// Client is a generic HTTP+JSON transport for the API backend. It knows
// request shapes, status codes and the error taxonomy, nothing about notes.
type Client struct {
	http  *resty.Client
	store TokenStore
}

// NewClient creates a Client against the given base URL.
func NewClient(baseURL string, store TokenStore) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimRight(baseURL, "/"))
	return &Client{http: httpClient, store: store}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close()
}

// BaseURL returns the configured API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	token, err := c.store.AccessToken()
	if err != nil || token == "" {
		// A missing credential takes the same path as an expired one.
		return nil, note.ErrUnauthorized
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token), nil
}

// classify maps a completed exchange onto the backend-neutral taxonomy.
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
		return fmt.Errorf("%w: status %d: %s", note.ErrTransport, res.StatusCode(), res.String())
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	res, err := req.SetResult(out).Get(path)
	if err := classify(res, err); err != nil {
		return err
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	res, err := req.Execute(method, path)
	if err := classify(res, err); err != nil {
		return err
	}
	return nil
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) postMultipart(ctx context.Context, path, field, filename string, contents io.Reader, out any) error {
	req, err := c.request(ctx)
	if err != nil {
		return err
	}
	res, err := req.
		SetFileReader(field, filename, contents).
		SetResult(out).
		Post(path)
	if err := classify(res, err); err != nil {
		return err
	}
	return nil
}

func (c *Client) getBytes(ctx context.Context, path string) ([]byte, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	res, err := req.Get(path)
	if err := classify(res, err); err != nil {
		return nil, err
	}
	return res.Bytes(), nil
}

// TokenResponse is the payload of a successful password login.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges a username and password for a token pair. The endpoint
// takes form-encoded credentials.
func Login(ctx context.Context, baseURL, username, password string) (TokenResponse, error) {
	httpClient := resty.New()
	defer func() {
		_ = httpClient.Close()
	}()

	var tokens TokenResponse
	res, err := httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		SetResult(&tokens).
		Post(strings.TrimRight(baseURL, "/") + "/auth/token")
	if err := classify(res, err); err != nil {
		if errors.Is(err, note.ErrUnauthorized) {
			return TokenResponse{}, fmt.Errorf("invalid credentials: %w", err)
		}
		return TokenResponse{}, fmt.Errorf("login: %w", err)
	}
	return tokens, nil
}

// refreshExchange calls the refresh endpoint with the stored refresh token
// and persists the renewed access token.
func (c *Client) refreshExchange(ctx context.Context) (string, error) {
	refreshToken, err := c.store.RefreshTokenValue()
	if err != nil || refreshToken == "" {
		return "", note.ErrUnauthorized
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&out).
		Post("/auth/refresh")
	if err := classify(res, err); err != nil {
		return "", err
	}
	if err := c.store.SetAccessToken(out.AccessToken); err != nil {
		return "", fmt.Errorf("store.SetAccessToken > %w", err)
	}
	return out.AccessToken, nil
}
