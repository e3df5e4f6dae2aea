package campaignkit

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// resolvePassword picks the effective SMTP password: an environment
// override always wins over the stored value. Called at read time on every
// request; the result is never cached.
func resolvePassword(stored, env string) string {
	if env != "" {
		return env
	}
	return stored
}

// handleEmailSettingsGet returns the singleton settings. When the password
// is environment-sourced the stored value is blanked in the response and
// password_from_env tells the client why.
func (a *App) handleEmailSettingsGet(c echo.Context) error {
	settings, _, err := a.Store.GetEmailSettings()
	if err != nil {
		return err
	}
	fromEnv := a.Config.SMTPPasswordOverride != ""
	if fromEnv {
		settings.Password = ""
	}
	return c.JSON(http.StatusOK, map[string]any{
		"settings":          settings,
		"password_from_env": fromEnv,
	})
}

type emailSettingsRequest struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Secure    bool   `json:"secure"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	ToEmail   string `json:"to_email"`
	Enabled   bool   `json:"enabled"`
}

func (r emailSettingsRequest) validate() string {
	if r.Port < 0 || r.Port > 65535 {
		return "port must be between 0 and 65535"
	}
	if r.Enabled {
		if r.Host == "" {
			return "host is required when sending is enabled"
		}
		if r.Port == 0 {
			return "port is required when sending is enabled"
		}
		if r.FromEmail == "" {
			return "from_email is required when sending is enabled"
		}
		if r.ToEmail == "" {
			return "to_email is required when sending is enabled"
		}
	}
	return ""
}

// handleEmailSettingsPut saves the settings, stamping the audit fields from
// the verified session. An empty incoming password keeps the stored one so
// clients never have to echo the secret back.
func (a *App) handleEmailSettingsPut(c echo.Context) error {
	var req emailSettingsRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Request body must be a JSON settings object")
	}
	if msg := req.validate(); msg != "" {
		return jsonMessage(c, http.StatusBadRequest, msg)
	}

	current, _, err := a.Store.GetEmailSettings()
	if err != nil {
		return err
	}
	password := req.Password
	if password == "" {
		password = current.Password
	}

	email, _ := c.Get(sessionEmailKey).(string)
	settings := EmailSettings{
		Host:           req.Host,
		Port:           req.Port,
		Secure:         req.Secure,
		Username:       req.Username,
		Password:       password,
		FromName:       req.FromName,
		FromEmail:      req.FromEmail,
		ToEmail:        req.ToEmail,
		Enabled:        req.Enabled,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
		UpdatedByEmail: email,
	}
	if err := a.Store.SaveEmailSettings(settings); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
