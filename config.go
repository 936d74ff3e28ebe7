package codorbits

import (
	"fmt"
	"time"

	"github.com/eringen/codorbits/wordpress"
)

// SiteConfig holds all configuration for a CodOrbits site.
type SiteConfig struct {
	Name        string // Site name (default "CodOrbits")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path for the submission log (default "data/codorbits.db")

	CMSURL        string        // Required: WordPress site root, e.g. "https://cms.codorbits.com"
	CMSTimeout    time.Duration // Per-request CMS timeout (default 15s)
	CMSFanOut     int           // Concurrent per-category requests (default 8)
	ContactFormID string        // Contact Form 7 form id (default "18")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	RecaptchaSiteKey   string // Public key rendered into forms
	RecaptchaSecretKey string // Empty disables verification

	MailchimpAPIKey     string
	MailchimpAudienceID string
	MailchimpServer     string // Data-center prefix, e.g. "us21"

	// ContentCacheTTL bounds how long sitemap and feed data are reused.
	// Zero disables the cache.
	ContentCacheTTL time.Duration
	// CacheWarmSpec is the cron spec that refreshes the content cache.
	// Empty disables the job.
	CacheWarmSpec string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "CodOrbits"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/codorbits.db"
	}
	if c.CMSTimeout <= 0 {
		c.CMSTimeout = 15 * time.Second
	}
	if c.CMSFanOut <= 0 {
		c.CMSFanOut = 8
	}
	if c.ContactFormID == "" {
		c.ContactFormID = wordpress.DefaultContactFormID
	}
}

func (c SiteConfig) validate() error {
	if c.CMSURL == "" {
		return fmt.Errorf("codorbits: CMSURL is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("codorbits: SessionSecret is required")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithGateway replaces the WordPress client built from CMSURL.
func WithGateway(g Gateway) Option {
	return func(a *App) {
		a.Content = g
	}
}

// WithVerifier replaces the reCAPTCHA verifier built from RecaptchaSecretKey.
func WithVerifier(v Verifier) Option {
	return func(a *App) {
		a.captcha = v
	}
}

// WithSubscriber replaces the Mailchimp client built from the Mailchimp settings.
func WithSubscriber(s Subscriber) Option {
	return func(a *App) {
		a.newsletter = s
	}
}
