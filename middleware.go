package campaignkit

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/campaignkit/campaignkit/auth"
)

// sessionEmailKey is the context key carrying the verified session email.
const sessionEmailKey = "sessionEmail"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Media bytes and static assets are already compressed formats.
			return strings.HasPrefix(c.Request().URL.Path, "/public/") ||
				(c.Request().URL.Path == "/media" && c.QueryParam("key") != "")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	// The backoffice SPA may be hosted on another origin; the session and
	// content-gate headers must survive preflight.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, headerContentAdminToken},
	}))

	// Uploads are capped at 4 MiB by the validation pipeline; the body limit
	// only guards against grossly oversized requests reaching the handler.
	e.Use(middleware.BodyLimit("8M"))

	e.Use(cacheControlMiddleware)
}

// cacheControlMiddleware sets Cache-Control headers. Media fetches by key
// are immutable (keys are never reused); everything else the API serves is
// dynamic and must not be cached.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/media" && c.Request().Method == http.MethodGet && c.QueryParam("key") != "":
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		default:
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

// sessionEmail verifies the bearer token on the request and returns the
// embedded email.
func (a *App) sessionEmail(c echo.Context) (string, bool) {
	if a.Config.SessionSecret == "" {
		return "", false
	}
	token := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if token == "" {
		return "", false
	}
	return auth.Verify(token, a.Config.SessionSecret)
}

// requireSession gates a handler behind a valid session token and stores
// the verified email in the context for audit fields.
func (a *App) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, ok := a.sessionEmail(c)
		if !ok {
			return jsonMessage(c, http.StatusUnauthorized, "Unauthorized")
		}
		c.Set(sessionEmailKey, email)
		return next(c)
	}
}

// headerContentAdminToken is the dedicated header for the content gate.
const headerContentAdminToken = "X-Content-Admin-Token"

// requireContentGate gates a handler behind the static content-admin
// secret. A missing credential yields 401 and a wrong one 403 so the
// editor UI can distinguish "log in" from "wrong token".
func (a *App) requireContentGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		result := auth.CheckContentGate(
			a.Config.ContentAdminToken,
			c.Request().Header.Get(headerContentAdminToken),
			c.Request().Header.Get(echo.HeaderAuthorization),
		)
		switch result {
		case auth.GateOK:
			return next(c)
		case auth.GateUnconfigured:
			return jsonMessage(c, http.StatusInternalServerError, "Content admin token is not configured")
		case auth.GateMissing:
			return jsonMessage(c, http.StatusUnauthorized, "Missing content admin token")
		default:
			return jsonMessage(c, http.StatusForbidden, "Invalid content admin token")
		}
	}
}
