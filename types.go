package campaignkit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MediaFile is one catalog entry in the media index. Records are created on
// successful upload validation and deleted on explicit admin delete, never
// mutated in place.
type MediaFile struct {
	Key        string `json:"key"`
	URL        string `json:"url"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MIMEType   string `json:"mimeType"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	UploadedAt string `json:"uploadedAt"`
}

// EmailSettings is the singleton outbound-mail configuration edited from
// the backoffice. The stored password may be overridden by the environment
// at read time; see resolvePassword.
type EmailSettings struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Secure         bool   `json:"secure"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	FromName       string `json:"from_name"`
	FromEmail      string `json:"from_email"`
	ToEmail        string `json:"to_email"`
	Enabled        bool   `json:"enabled"`
	UpdatedAt      string `json:"updated_at"`
	UpdatedByEmail string `json:"updated_by_email"`
}

// AdminUser is the synthetic user record returned by the auth endpoints.
type AdminUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ContentDocument is the whole-site content blob edited from the
// backoffice: hero/about/goals/contact configuration, the page list, and
// the calendar events. The front end owns the deep structure; the server
// only enforces the top-level shape.
type ContentDocument struct {
	SiteConfig json.RawMessage `json:"siteConfig"`
	Pages      json.RawMessage `json:"pages"`
	Events     json.RawMessage `json:"events"`
}

// Validate checks the top-level shape: siteConfig must be a JSON object,
// pages and events must be JSON arrays.
func (d ContentDocument) Validate() error {
	if !jsonStartsWith(d.SiteConfig, '{') {
		return fmt.Errorf("siteConfig must be an object")
	}
	if !jsonStartsWith(d.Pages, '[') {
		return fmt.Errorf("pages must be an array")
	}
	if !jsonStartsWith(d.Events, '[') {
		return fmt.Errorf("events must be an array")
	}
	return nil
}

func jsonStartsWith(raw json.RawMessage, delim byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == delim
}
