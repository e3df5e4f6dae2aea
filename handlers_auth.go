package campaignkit

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campaignkit/campaignkit/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin issues a session token for the configured backoffice admin.
// Email matching is case-insensitive, password is verbatim; a failure of
// either yields the same generic 401 so the response does not reveal which
// check failed.
func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return jsonMessage(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}

	if a.Config.AdminEmail == "" || a.Config.AdminPassword == "" || a.Config.SessionSecret == "" {
		return jsonMessage(c, http.StatusInternalServerError, "Backoffice authentication is not configured")
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		return jsonMessage(c, http.StatusBadRequest, "Email and password are required")
	}

	emailOK := auth.SecureCompare(strings.ToLower(req.Email), strings.ToLower(a.Config.AdminEmail))
	passwordOK := auth.SecureCompare(req.Password, a.Config.AdminPassword)
	if !emailOK || !passwordOK {
		a.loginLimiter.Record(c.RealIP())
		return jsonMessage(c, http.StatusUnauthorized, "Invalid email or password")
	}

	user := AdminUser{Email: strings.ToLower(a.Config.AdminEmail), Role: "admin"}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"token":   auth.Issue(user.Email, a.Config.SessionSecret),
		"user":    user,
	})
}

// handleSessionCheck validates the bearer token and returns the session's
// user record.
func (a *App) handleSessionCheck(c echo.Context) error {
	email, ok := a.sessionEmail(c)
	if !ok {
		return jsonMessage(c, http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    AdminUser{Email: email, Role: "admin"},
	})
}
