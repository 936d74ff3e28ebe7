// Package newsletter subscribes visitors to the site's Mailchimp audience.
package newsletter

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SubscriptionTag is attached to every member added from the site.
const SubscriptionTag = "website-subscription"

const memberExistsTitle = "Member Exists"

var (
	// ErrAlreadySubscribed is returned when Mailchimp reports the member exists.
	ErrAlreadySubscribed = errors.New("newsletter: already subscribed")
	// ErrNotConfigured is returned when the API key, audience or server is missing.
	ErrNotConfigured = errors.New("newsletter: mailchimp is not configured")
)

// APIError is a non-2xx Mailchimp answer.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("newsletter: mailchimp %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("newsletter: mailchimp %d %s", e.Status, e.Title)
}

// Config holds the Mailchimp credentials.
type Config struct {
	APIKey     string
	AudienceID string
	// Server is the data-center prefix, e.g. "us21".
	Server string
}

// Client upserts list members.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (https://{server}.api.mailchimp.com).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		baseURL:    "https://" + cfg.Server + ".api.mailchimp.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether every credential is present.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != "" && c.cfg.AudienceID != "" && c.cfg.Server != ""
}

// MemberHash is the Mailchimp subscriber id: the MD5 of the lower-cased email.
func MemberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

type memberRequest struct {
	EmailAddress string   `json:"email_address"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags"`
}

// Subscribe adds or updates email as a subscribed member of the audience.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(memberRequest{
		EmailAddress: email,
		Status:       "subscribed",
		Tags:         []string{SubscriptionTag},
	})
	if err != nil {
		return fmt.Errorf("newsletter: encode member: %w", err)
	}
	u := fmt.Sprintf("%s/3.0/lists/%s/members/%s", c.baseURL, c.cfg.AudienceID, MemberHash(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("newsletter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("apikey", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("newsletter: put member: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	apiErr.Status = resp.StatusCode
	if apiErr.Title == memberExistsTitle {
		return fmt.Errorf("%w: %w", ErrAlreadySubscribed, apiErr)
	}
	return apiErr
}
