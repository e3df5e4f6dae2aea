package campaignkit

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campaignkit/campaignkit/media"
)

// handleMediaGet serves two paths: with ?key= it is the public fetch of
// stored bytes (the quasi-unguessable key acts as the capability, no
// session needed); without it, the session-gated catalog listing.
func (a *App) handleMediaGet(c echo.Context) error {
	key := c.QueryParam("key")
	if key != "" {
		return a.handleMediaFetch(c, key)
	}

	if _, ok := a.sessionEmail(c); !ok {
		return jsonMessage(c, http.StatusUnauthorized, "Unauthorized")
	}

	files, err := a.media.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"files": files})
}

func (a *App) handleMediaFetch(c echo.Context, key string) error {
	file, data, err := a.media.Get(key)
	if err == ErrNotFound {
		return jsonMessage(c, http.StatusNotFound, "File not found")
	}
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, file.MIMEType, data)
}

// handleMediaUpload validates a multipart image upload, stores the bytes
// under a fresh key, and catalogs the record in the media index.
func (a *App) handleMediaUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return uploadError(c, media.ErrMissingFile)
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	result, uerr := media.Validate(fh.Header.Get(echo.HeaderContentType), data)
	if uerr != nil {
		return uploadError(c, uerr)
	}

	key := media.NewKey(fh.Filename, result.Extension)
	if err := a.Store.PutBlob(key, data); err != nil {
		return err
	}

	file := MediaFile{
		Key:        key,
		URL:        "/media?key=" + url.QueryEscape(key),
		Name:       strings.TrimPrefix(key, media.KeyPrefix),
		Size:       int64(len(data)),
		MIMEType:   result.MIMEType,
		Width:      result.Width,
		Height:     result.Height,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.media.Insert(file); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "file": file})
}

// handleMediaDelete removes the stored bytes and the catalog entry.
func (a *App) handleMediaDelete(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return jsonMessage(c, http.StatusBadRequest, "key query parameter is required")
	}
	if err := a.media.Remove(key); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// uploadError serializes a structured media rejection.
func uploadError(c echo.Context, uerr *media.UploadError) error {
	return c.JSON(uerr.Status, map[string]any{
		"success": false,
		"error":   uerr,
	})
}
