// Package api implements the HTTP client for the DEADSIDE hub backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request so a hung backend never leaves the
// caller pending indefinitely.
const DefaultTimeout = 15 * time.Second

// Attachment is a file payload for a multipart request (avatar image,
// recorded voice message).
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Client talks to the hub's REST API. A bearer token is attached to every
// request while the token function returns a non-empty value.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokenFn    func() string
}

// NewClient creates a client for the given base URL (e.g.
// "https://hub.deadside.ru"). The "/api" prefix is appended per request.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTokenFunc installs the credential source. Pass nil to stop attaching
// Authorization headers.
func (c *Client) SetTokenFunc(fn func() string) {
	c.tokenFn = fn
}

func (c *Client) url(path string) string {
	return c.baseURL + "/api" + path
}

// do executes a request and decodes a 2xx JSON body into out (when out is
// non-nil). Non-2xx responses are returned as *Error.
func (c *Client) do(req *http.Request, out any) error {
	if c.tokenFn != nil {
		if tok := c.tokenFn(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// multipartBody builds a multipart form from string fields plus optional
// file attachments keyed by form field name.
func multipartBody(fields map[string]string, files map[string]*Attachment) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("api: write field %q: %w", name, err)
		}
	}
	for name, att := range files {
		if att == nil {
			continue
		}
		part, err := w.CreateFormFile(name, att.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("api: create file part %q: %w", name, err)
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", fmt.Errorf("api: write file part %q: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("api: close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) submitMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]*Attachment, out any) error {
	body, contentType, err := multipartBody(fields, files)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, out)
}
