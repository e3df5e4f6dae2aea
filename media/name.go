package media

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// KeyPrefix namespaces uploaded blobs inside the store.
const KeyPrefix = "uploads/"

var (
	unsafeChars = regexp.MustCompile(`[^\w.-]`)
	underscores = regexp.MustCompile(`_+`)
)

// knownExts are the image extensions uploads arrive with. Only these are
// stripped from incoming filenames; stripping arbitrary dotted suffixes
// would eat interior segments of names like "rally-2026.final" on
// re-application.
var knownExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// SanitizeBaseName turns a user-supplied filename into a safe key fragment:
// the name is NFKC-normalized, anything outside word characters, "." and
// "-" becomes an underscore, runs of underscores collapse, then any image
// extension and surrounding "_"/"." padding are stripped until stable. An
// empty result falls back to "file". The function is idempotent: a
// sanitized name passes through unchanged.
func SanitizeBaseName(originalName string) string {
	base := norm.NFKC.String(originalName)
	base = unsafeChars.ReplaceAllString(base, "_")
	base = underscores.ReplaceAllString(base, "_")
	for {
		next := base
		if ext := strings.ToLower(filepath.Ext(next)); knownExts[ext] {
			next = next[:len(next)-len(ext)]
		}
		next = strings.Trim(next, "_.")
		if next == base {
			break
		}
		base = next
	}
	if base == "" {
		base = "file"
	}
	return base
}

// NewKey builds a storage key for a validated upload:
// KeyPrefix + sanitizedBase + "-" + epochMs + "-" + 12 hex chars + "." + ext.
// Timestamp plus random suffix makes keys unique under concurrent uploads
// without any shared counter, and hard enough to guess that the key itself
// acts as the fetch capability.
func NewKey(originalName, extension string) string {
	return NewKeyAt(originalName, extension, time.Now())
}

// NewKeyAt is NewKey with an explicit clock.
func NewKeyAt(originalName, extension string, now time.Time) string {
	suffix := make([]byte, 6)
	rand.Read(suffix)
	var b strings.Builder
	b.WriteString(KeyPrefix)
	b.WriteString(SanitizeBaseName(originalName))
	b.WriteByte('-')
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('-')
	b.WriteString(hex.EncodeToString(suffix))
	b.WriteByte('.')
	b.WriteString(extension)
	return b.String()
}
