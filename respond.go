package campaignkit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campaignkit/campaignkit/media"
)

// jsonMessage writes the standard `{success, message}` envelope used by all
// non-media error paths.
func jsonMessage(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]any{
		"success": code < 400,
		"message": message,
	})
}

// httpErrorHandler converts uncaught errors into JSON responses. Server
// errors are logged with detail and returned as a generic message so
// internals never leak to the client.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	// The body-limit middleware trips before the upload pipeline can
	// measure the file; give those rejections the pipeline's structured
	// shape instead of a bare message.
	if code == http.StatusRequestEntityTooLarge &&
		c.Request().Method == http.MethodPost && c.Request().URL.Path == "/media" {
		_ = uploadError(c, media.ErrTooLarge)
		return
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		message = "Internal server error"
	}
	_ = jsonMessage(c, code, message)
}
