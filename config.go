package campaignkit

import (
	"time"

	"github.com/campaignkit/campaignkit/mailer"
)

// SiteConfig holds all configuration for a campaignkit site.
type SiteConfig struct {
	Name string // Site name for outbound mail and feeds (default "Campaign")
	URL  string // Canonical URL (default "http://localhost:3000")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/site.db")

	AdminEmail    string // Backoffice login email
	AdminPassword string // Backoffice login password
	SessionSecret string // HMAC key for session tokens

	ContentAdminToken string // Shared secret for the content write endpoints

	// SMTPPasswordOverride, when non-empty, takes precedence over the
	// password stored in email settings. It is resolved at read time on
	// every request, never cached.
	SMTPPasswordOverride string

	ContentCacheTTL time.Duration // Content document cache TTL (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Campaign"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ContentCacheTTL == 0 {
		c.ContentCacheTTL = time.Minute
	}
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

// WithStaticDir sets the directory holding the built front-end bundle and
// other static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithMailer replaces the SMTP sender, mainly for tests.
func WithMailer(s mailer.Sender) Option {
	return func(a *App) {
		a.mailer = s
	}
}
