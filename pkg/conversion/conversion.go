// Package conversion submits sealed documents to the external flipbook
// conversion service and returns the interactive viewer URL.
package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/httputil"
)

// DefaultEndpoint is the conversion service REST endpoint.
const DefaultEndpoint = "https://heyzine.com/api1/rest"

// Config holds service credentials and call policy.
type Config struct {
	Endpoint string
	ClientID string
	APIKey   string
	Timeout  time.Duration
	// Attempts bounds calls per Submit. Values below 2 disable retries.
	Attempts int
}

// StyleOptions are viewer presentation settings sent with a document.
type StyleOptions struct {
	Style      string `json:"style,omitempty"`
	Background string `json:"background,omitempty"`
	Download   bool   `json:"download"`
	Share      bool   `json:"share"`
	Fullscreen bool   `json:"full_screen"`
}

// Request is one conversion submission.
type Request struct {
	DocumentURL string
	Title       string
	Subtitle    string
	Options     StyleOptions
}

type payload struct {
	PDF      string `json:"pdf"`
	ClientID string `json:"client_id"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	StyleOptions
}

// Result is the service response. Either URL or Link names the viewer.
type Result struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url,omitempty"`
	Link      string `json:"link,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ViewerURL returns URL, or Link when URL is empty.
func (r Result) ViewerURL() string {
	if r.URL != "" {
		return r.URL
	}
	return r.Link
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client talks to the conversion service.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httputil.NewClient(cfg.Timeout)
	}
	return c
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.APIKey != ""
}

// Submit sends req and returns the viewer location. A non-200 status, an
// undecodable body, or a body without url and link is a CONVERSION error.
func (c *Client) Submit(ctx context.Context, req Request) (Result, error) {
	if !c.Configured() {
		return Result{}, apperr.New(apperr.ErrCodeConfiguration, "conversion service credentials not configured")
	}
	body, err := json.Marshal(payload{
		PDF:          req.DocumentURL,
		ClientID:     c.cfg.ClientID,
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		StyleOptions: req.Options,
	})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrCodeInternal, err, "encode conversion request")
	}

	var result Result
	err = httputil.Retry(ctx, c.cfg.Attempts, time.Second, func() error {
		var err error
		result, err = c.post(ctx, body)
		return err
	})
	if err != nil {
		if apperr.GetCode(err) != "" {
			return Result{}, err
		}
		return Result{}, apperr.Wrap(apperr.ErrCodeConversion, err, "conversion request failed")
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, body []byte) (Result, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, apperr.Wrap(apperr.ErrCodeConversion, err, "build conversion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, &httputil.RetryableError{Err: apperr.Wrap(apperr.ErrCodeConversion, err, "conversion service unreachable")}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, &httputil.RetryableError{Err: apperr.Wrap(apperr.ErrCodeConversion, err, "read conversion response")}
	}
	if resp.StatusCode != http.StatusOK {
		convErr := apperr.New(apperr.ErrCodeConversion, "conversion service returned %d: %s", resp.StatusCode, snippet(data))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return Result{}, &httputil.RetryableError{Err: convErr}
		}
		return Result{}, convErr
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, apperr.Wrap(apperr.ErrCodeConversion, err, "decode conversion response")
	}
	if result.ViewerURL() == "" {
		return Result{}, apperr.New(apperr.ErrCodeConversion, "conversion response has neither url nor link")
	}
	return result, nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return fmt.Sprintf("%s...", b[:limit])
	}
	return string(b)
}
