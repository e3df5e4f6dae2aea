// Package campaignkit is the backend for a campaign website: a public
// content API consumed by the static front end, a token-authenticated
// backoffice for editing site content, calendar events and media, and a
// contact form delivered over SMTP.
//
// All state lives in one SQLite database; media bytes and the site content
// document are stored as opaque blobs, uploaded files are cataloged in a
// single JSON index document.
package campaignkit

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campaignkit/campaignkit/mailer"
)

// App is the central campaignkit application. It wires together the store,
// content cache, media index, mailer, middleware and routes.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store

	content *contentCache
	media   mediaIndex
	mailer  mailer.Sender

	loginLimiter   *AttemptLimiter
	contactLimiter *AttemptLimiter
	customRoutes   []func(*App)
	staticDir      string
}

// New creates a new campaignkit App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
		mailer:    &mailer.SMTP{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init initializes the database, cache, limiters, middleware, and routes
// without starting the listener. Start calls it; tests call it directly.
func (a *App) Init() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("campaignkit: init store: %w", err)
	}
	a.Store = store

	a.content = newContentCache(store, a.Config.ContentCacheTTL)
	a.media = mediaIndex{store: store}
	a.loginLimiter = NewAttemptLimiter(5, time.Minute)
	a.contactLimiter = NewAttemptLimiter(5, time.Minute)

	// Missing backoffice secrets are surfaced per-request as configuration
	// errors; warn at startup so the operator notices early.
	if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" || a.Config.SessionSecret == "" {
		log.Println("campaignkit: backoffice credentials are not fully configured; admin login will fail")
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and runs the server until it is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static front-end bundle.
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleEventsFeed)

	// Backoffice session.
	e.POST("/backoffice-auth", a.handleLogin)
	e.GET("/backoffice-auth", a.handleSessionCheck)

	// Site content document.
	e.GET("/content", a.handleContentGet)
	e.PUT("/content", a.requireContentGate(a.handleContentPut))
	e.DELETE("/content", a.requireContentGate(a.handleContentDelete))

	// Email settings.
	e.GET("/email-settings", a.requireSession(a.handleEmailSettingsGet))
	e.PUT("/email-settings", a.requireSession(a.handleEmailSettingsPut))

	// Media. GET serves both the public fetch-by-key path and the
	// session-gated listing, so the auth check lives in the handler.
	e.GET("/media", a.handleMediaGet)
	e.POST("/media", a.requireSession(a.handleMediaUpload))
	e.DELETE("/media", a.requireSession(a.handleMediaDelete))

	// Contact form.
	e.GET("/contact-form", a.handleContactStatus)
	e.POST("/contact-form", a.handleContactSubmit)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// handleRobots keeps crawlers away from the API while pointing them at the
// sitemap.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /backoffice-auth\nDisallow: /email-settings\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("campaignkit: required environment variable %s is not set", key)
	}
	return v
}
