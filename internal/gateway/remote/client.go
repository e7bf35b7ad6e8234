package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/siswa/internal/api"
	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/siswa"
)

// Ensure Client implements gateway.Gateway at compile time.
var _ gateway.Gateway = (*Client)(nil)

const (
	defaultAPIBind   = "127.0.0.1:7490"
	defaultUserAgent = "siswa/0.1"
	requestTimeout   = 5 * time.Second
	defaultLongPoll  = 25 * time.Second
	defaultRetryBase = 2 * time.Second
)

// Options tune a Client. Zero values use defaults.
type Options struct {
	LongPoll  time.Duration // how long the server may hold a subscription poll
	RetryBase time.Duration // first backoff after a failed poll
	Logger    logging.Logger
}

// Client talks to the siswad HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	longPoll  time.Duration
	retryBase time.Duration
	log       logging.Logger
}

// APIError reports a non-2xx response.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   api.ErrorBody
}

func (e *APIError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Body.Message)
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.Status)
}

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string, opts Options) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		// Requests carry their own deadlines; long polls outlive requestTimeout.
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		longPoll:  opts.LongPoll,
		retryBase: opts.RetryBase,
		log:       opts.Logger,
	}
	if c.longPoll <= 0 {
		c.longPoll = defaultLongPoll
	}
	if c.retryBase <= 0 {
		c.retryBase = defaultRetryBase
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.log = c.log.With("component", "gateway.remote", "api", base.Host)
	return c, nil
}

// GetByID fetches one record; a 404 means absent.
func (c *Client) GetByID(ctx context.Context, id string) (siswa.Record, bool, error) {
	if c == nil {
		return siswa.Record{}, false, fmt.Errorf("client is nil")
	}
	var rec siswa.Record
	err := c.do(ctx, http.MethodGet, api.RecordPath(url.PathEscape(id)), nil, &rec)
	if isStatus(err, http.StatusNotFound) {
		return siswa.Record{}, false, nil
	}
	if err != nil {
		return siswa.Record{}, false, err
	}
	return rec, true, nil
}

// Insert creates a record and returns the id the server assigned.
func (c *Client) Insert(ctx context.Context, rec siswa.Record) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload api.CreateResponse
	if err := c.do(ctx, http.MethodPost, api.CollectionPath, api.InputFrom(rec), &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return "", fmt.Errorf("api %s returned no id", api.CollectionPath)
	}
	return payload.ID, nil
}

// Update replaces the record at id.
func (c *Client) Update(ctx context.Context, id string, rec siswa.Record) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	err := c.do(ctx, http.MethodPut, api.RecordPath(url.PathEscape(id)), api.InputFrom(rec), nil)
	if isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("%w: %w", gateway.ErrNotFound, err)
	}
	return err
}

// DeleteByID removes the record at id.
func (c *Client) DeleteByID(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, api.RecordPath(url.PathEscape(id)), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	return c.doURL(ctx, method, &url.URL{Path: path}, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Method: method, Path: rel.Path, Status: resp.StatusCode}
		var envelope api.ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			apiErr.Body = envelope.Error
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
