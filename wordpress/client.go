// Package wordpress is the content gateway over the headless WordPress CMS.
// It fetches lessons, posts, pages and lesson categories from the REST API and
// normalizes them into stable records with every field defaulted.
//
// Two error policies apply. Slug lookups return nil for "not found" and an
// error for transport or HTTP failures, so callers can tell the two apart.
// Listings never fail: errors are logged and an empty result is returned.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

const (
	// PageSize is the per_page value used when walking a collection.
	PageSize = 100
	// All asks a listing accessor to walk every page instead of one bounded request.
	All = -1

	DefaultCategoryPostLimit = 100
	DefaultRelatedLimit      = 30
	DefaultSearchLimit       = 20
	DefaultContactFormID     = "18"

	defaultTimeout = 15 * time.Second
	defaultFanOut  = 8
	maxPages       = 500
	apiPrefix      = "/wp-json/wp/v2"
	cf7Version     = "5.7.7"
)

// Logger is the subset of echo.Logger the gateway writes to.
type Logger interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// StatusError is returned when the CMS answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wordpress: %s returned status %d", e.URL, e.StatusCode)
}

// Client talks to one WordPress installation.
type Client struct {
	siteURL    string
	apiURL     string
	httpClient *http.Client
	logger     Logger
	pageSize   int
	fanOut     int
	formID     string
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets where failures are logged.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithFanOut bounds how many per-category requests run at once.
func WithFanOut(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.fanOut = n
		}
	}
}

// WithContactFormID sets the Contact Form 7 form that receives contact messages.
func WithContactFormID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.formID = id
		}
	}
}

func withPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient returns a Client for the WordPress site rooted at siteURL
// (for example "https://cms.example.com"); the REST base is derived from it.
func NewClient(siteURL string, opts ...Option) *Client {
	siteURL = strings.TrimRight(siteURL, "/")
	c := &Client{
		siteURL:    siteURL,
		apiURL:     siteURL + apiPrefix,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.New("wordpress"),
		pageSize:   PageSize,
		fanOut:     defaultFanOut,
		formID:     DefaultContactFormID,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON requests path below the REST base and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.apiURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("wordpress: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress: get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("wordpress: decode %s: %w", path, err)
	}
	return nil
}

func cloneQuery(q url.Values) url.Values {
	out := make(url.Values, len(q)+2)
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
