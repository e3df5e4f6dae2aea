package campaignkit

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleContentGet serves the site content document, seeding the store from
// the bundled default on first read. Public: the content is what the site
// renders anyway.
func (a *App) handleContentGet(c echo.Context) error {
	raw, err := a.content.Get()
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// handleContentPut replaces the whole content document after a top-level
// shape check, echoing the stored document back.
func (a *App) handleContentPut(c echo.Context) error {
	var doc ContentDocument
	if err := c.Bind(&doc); err != nil {
		return jsonMessage(c, http.StatusBadRequest, "Request body must be a JSON content document")
	}
	if err := doc.Validate(); err != nil {
		return jsonMessage(c, http.StatusBadRequest, err.Error())
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := a.Store.PutBlob(contentKey, raw); err != nil {
		return err
	}
	a.content.Invalidate()
	return c.JSONBlob(http.StatusOK, raw)
}

// handleContentDelete removes the stored document; the next read re-seeds
// from the bundled default.
func (a *App) handleContentDelete(c echo.Context) error {
	if err := a.Store.DeleteBlob(contentKey); err != nil {
		return err
	}
	a.content.Invalidate()
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
