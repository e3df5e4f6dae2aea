package campaignkit

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campaignkit/campaignkit/mailer"
)

const (
	contactNameMax    = 80
	contactEmailMax   = 100
	contactMessageMax = 500
	contactLinesMax   = 40
)

// handleContactStatus reports whether the contact form accepts submissions.
// It never fails: any error reads as disabled.
func (a *App) handleContactStatus(c echo.Context) error {
	enabled := false
	if settings, ok, err := a.Store.GetEmailSettings(); err == nil && ok {
		enabled = settings.Enabled && settings.Host != "" && settings.ToEmail != ""
	}
	return c.JSON(http.StatusOK, map[string]any{"enabled": enabled})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r contactRequest) validate() string {
	if len(r.Name) > contactNameMax {
		return fmt.Sprintf("name must be at most %d characters", contactNameMax)
	}
	if r.Email == "" {
		return "email is required"
	}
	if len(r.Email) > contactEmailMax {
		return fmt.Sprintf("email must be at most %d characters", contactEmailMax)
	}
	if r.Message == "" {
		return "message is required"
	}
	if len(r.Message) > contactMessageMax {
		return fmt.Sprintf("message must be at most %d characters", contactMessageMax)
	}
	if strings.Count(r.Message, "\n")+1 > contactLinesMax {
		return fmt.Sprintf("message must be at most %d lines", contactLinesMax)
	}
	return ""
}

// handleContactSubmit validates a submission and delivers it through the
// configured SMTP settings. No retries: the first failure surfaces as 500.
func (a *App) handleContactSubmit(c echo.Context) error {
	if !a.contactLimiter.Check(c.RealIP()) {
		return jsonMessage(c, http.StatusTooManyRequests, "Too many messages. Try again later.")
	}

	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Request body must be a JSON object")
	}
	if msg := req.validate(); msg != "" {
		return jsonMessage(c, http.StatusBadRequest, msg)
	}

	settings, ok, err := a.Store.GetEmailSettings()
	if err != nil {
		return err
	}
	if !ok || !settings.Enabled {
		return jsonMessage(c, http.StatusServiceUnavailable, "The contact form is currently disabled")
	}
	if settings.Host == "" || settings.Port == 0 || settings.FromEmail == "" || settings.ToEmail == "" {
		return jsonMessage(c, http.StatusInternalServerError, "Outbound email is not fully configured")
	}

	a.contactLimiter.Record(c.RealIP())

	cfg := mailer.SMTPConfig{
		Host:     settings.Host,
		Port:     settings.Port,
		Secure:   settings.Secure,
		Username: settings.Username,
		Password: resolvePassword(settings.Password, a.Config.SMTPPasswordOverride),
	}
	msg := mailer.Message{
		FromName: settings.FromName,
		From:     settings.FromEmail,
		To:       settings.ToEmail,
		ReplyTo:  req.Email,
		Subject:  fmt.Sprintf("[%s] New contact form message", a.Config.Name),
		Body:     contactBody(req),
	}
	if err := a.mailer.Send(c.Request().Context(), cfg, msg); err != nil {
		c.Logger().Errorf("contact form send: %v", err)
		return jsonMessage(c, http.StatusInternalServerError, "The message could not be sent")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func contactBody(req contactRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	b.WriteString("\n")
	b.WriteString(req.Message)
	b.WriteString("\n")
	return b.String()
}
