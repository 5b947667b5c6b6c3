// file: internal/client/client.go
// version: 2.0.0
// guid: 9d0e1f2a-3b4c-5d6e-7f8a-9b0c1d2e3f40

// Package client is a typed HTTP client for the catalog API. The admin
// commands and the interactive browse/import flows all talk to the server
// through it, so transport and HTTP failures surface as a single
// StatusError type.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/obodeflix/obodeflix/internal/models"
)

const defaultTimeout = 30 * time.Second

// StatusError carries the HTTP status and the server's reason strings.
// Code is 0 when the request never reached the server.
type StatusError struct {
	Code    int
	Reasons []string
}

func (e *StatusError) Error() string {
	if e.Code == 0 {
		return "request failed: " + strings.Join(e.Reasons, "; ")
	}
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, strings.Join(e.Reasons, "; "))
}

// IsNotFound reports whether err is a StatusError for a 404.
func IsNotFound(err error) bool {
	statusErr, ok := err.(*StatusError)
	return ok && statusErr.Code == http.StatusNotFound
}

// IsUnauthorized reports whether err is a StatusError for a 401.
func IsUnauthorized(err error) bool {
	statusErr, ok := err.(*StatusError)
	return ok && statusErr.Code == http.StatusUnauthorized
}

type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// Client talks to one catalog server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after Login.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token.
func (c *Client) Token() string { return c.token }

// BaseURL returns the server address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ListOptions mirror the shared listing query parameters. Zero values are
// omitted so the server applies its own defaults.
type ListOptions struct {
	Page        int
	Quantity    int
	OrderColumn string
	OrderBy     models.OrderBy
	Search      string

	SeriesID  int64
	SeasonID  int64
	EpisodeID int64
	UserID    int64
}

func (o ListOptions) values() url.Values {
	values := url.Values{}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.Quantity > 0 {
		values.Set("quantity", strconv.Itoa(o.Quantity))
	}
	if o.OrderColumn != "" {
		values.Set("orderColumn", o.OrderColumn)
	}
	if o.OrderBy != "" {
		values.Set("orderBy", string(o.OrderBy))
	}
	if o.Search != "" {
		values.Set("search", o.Search)
	}
	if o.SeriesID > 0 {
		values.Set("seriesId", strconv.FormatInt(o.SeriesID, 10))
	}
	if o.SeasonID > 0 {
		values.Set("seasonId", strconv.FormatInt(o.SeasonID, 10))
	}
	if o.EpisodeID > 0 {
		values.Set("episodeId", strconv.FormatInt(o.EpisodeID, 10))
	}
	if o.UserID > 0 {
		values.Set("userId", strconv.FormatInt(o.UserID, 10))
	}
	return values
}

// do runs one request and decodes the JSON answer into out (when out is
// non-nil). Non-2xx answers are turned into a StatusError with the reasons
// the server sent.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &StatusError{Reasons: []string{"encode request: " + err.Error()}}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &StatusError{Reasons: []string{err.Error()}}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &StatusError{Reasons: []string{err.Error()}}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{Code: resp.StatusCode, Reasons: []string{"read response: " + err.Error()}}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Reasons: parseReasons(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &StatusError{Code: resp.StatusCode, Reasons: []string{"decode response: " + err.Error()}}
	}
	return nil
}

// parseReasons reads the {"reason": string | [string]} error body. Anything
// unparseable is kept raw so the caller still sees what the server said.
func parseReasons(data []byte) []string {
	var single struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(data, &single); err == nil && single.Reason != "" {
		return []string{single.Reason}
	}
	var multi struct {
		Reason []string `json:"reason"`
	}
	if err := json.Unmarshal(data, &multi); err == nil && len(multi.Reason) > 0 {
		return multi.Reason
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil
	}
	return []string{text}
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}
