// Package recaptcha verifies reCAPTCHA v3 tokens against Google's siteverify API.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// VerifyURL is Google's token verification endpoint.
	VerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	// MinScore is the lowest v3 score accepted as human.
	MinScore = 0.5
)

// ErrMissingToken is returned when no token was submitted.
var ErrMissingToken = errors.New("recaptcha: missing token")

// Response is the siteverify answer.
type Response struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks tokens with one secret key.
type Verifier struct {
	secret     string
	endpoint   string
	minScore   float64
	httpClient *http.Client
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEndpoint overrides the siteverify URL.
func WithEndpoint(u string) Option {
	return func(v *Verifier) { v.endpoint = u }
}

// WithMinScore overrides MinScore.
func WithMinScore(s float64) Option {
	return func(v *Verifier) { v.minScore = s }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(v *Verifier) { v.httpClient = hc }
}

// New returns a Verifier for secret. An empty secret yields a Verifier that
// reports itself disabled.
func New(secret string, opts ...Option) *Verifier {
	v := &Verifier{
		secret:     secret,
		endpoint:   VerifyURL,
		minScore:   MinScore,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Enabled reports whether a secret key is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && v.secret != ""
}

// Verify reports whether token passed verification with at least the minimum
// score. A false result with a nil error means Google rejected the token.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if strings.TrimSpace(token) == "" {
		return false, ErrMissingToken
	}
	res, err := v.check(ctx, token, remoteIP)
	if err != nil {
		return false, err
	}
	return res.Success && res.Score >= v.minScore, nil
}

func (v *Verifier) check(ctx context.Context, token, remoteIP string) (*Response, error) {
	form := url.Values{"secret": {v.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("recaptcha: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recaptcha: verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recaptcha: verify: status %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("recaptcha: decode: %w", err)
	}
	return &out, nil
}
