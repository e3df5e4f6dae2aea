package media

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// Minimal valid signatures for each accepted format.
var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gif89      = []byte("GIF89a")
	gif87      = []byte("GIF87a")
	webpHeader = []byte{'R', 'I', 'F', 'F', 0x24, 0x00, 0x00, 0x00, 'W', 'E', 'B', 'P'}
)

func TestNormalizeMIME(t *testing.T) {
	cases := []struct {
		declared string
		want     string
		ok       bool
	}{
		{"image/jpeg", "image/jpeg", true},
		{"IMAGE/JPEG", "image/jpeg", true},
		{"image/jpg", "image/jpeg", true},
		{"image/png", "image/png", true},
		{"image/webp", "image/webp", true},
		{"image/gif", "image/gif", true},
		{" image/png ", "image/png", true},
		{"image/svg+xml", "image/svg+xml", false},
		{"text/html", "text/html", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeMIME(tc.declared)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("NormalizeMIME(%q) = (%q, %v), want (%q, %v)", tc.declared, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDetectMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", jpegHeader, "image/jpeg"},
		{"png", pngHeader, "image/png"},
		{"gif89a", gif89, "image/gif"},
		{"gif87a", gif87, "image/gif"},
		{"webp", webpHeader, "image/webp"},
		{"gif88a", []byte("GIF88a"), ""},
		{"truncated jpeg", []byte{0xFF, 0xD8}, ""},
		{"riff without webp", []byte("RIFF\x24\x00\x00\x00WAVE"), ""},
		{"webp zero size", []byte("RIFF\x00\x00\x00\x00WEBP"), ""},
		{"empty", nil, ""},
		{"text", []byte("hello world, not an image"), ""},
	}
	for _, tc := range cases {
		if got := DetectMIME(tc.data); got != tc.want {
			t.Errorf("%s: DetectMIME = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func padTo(header []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, header)
	return out
}

func TestValidateAccepts(t *testing.T) {
	res, uerr := Validate("image/jpeg", padTo(jpegHeader, 1000))
	if uerr != nil {
		t.Fatalf("Validate failed: %v", uerr)
	}
	if res.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", res.MIMEType)
	}
	if res.Extension != "jpg" {
		t.Errorf("Extension = %q, want jpg", res.Extension)
	}
}

func TestValidateJpgAlias(t *testing.T) {
	res, uerr := Validate("image/jpg", padTo(jpegHeader, 100))
	if uerr != nil {
		t.Fatalf("Validate failed: %v", uerr)
	}
	if res.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", res.MIMEType)
	}
}

func TestValidateUnsupportedType(t *testing.T) {
	_, uerr := Validate("application/pdf", padTo(jpegHeader, 100))
	if uerr == nil || uerr.Code != CodeUnsupportedType {
		t.Fatalf("expected UNSUPPORTED_TYPE, got %v", uerr)
	}
	if uerr.Status != 400 {
		t.Errorf("Status = %d, want 400", uerr.Status)
	}
}

func TestValidateSizeBoundary(t *testing.T) {
	// Exactly 4 MiB passes.
	if _, uerr := Validate("image/png", padTo(pngHeader, 4<<20)); uerr != nil {
		t.Fatalf("4 MiB upload should pass, got %v", uerr)
	}
	// One byte over fails with the size interpolated.
	_, uerr := Validate("image/png", padTo(pngHeader, 4<<20+1))
	if uerr == nil || uerr.Code != CodeFileTooLarge {
		t.Fatalf("expected FILE_TOO_LARGE, got %v", uerr)
	}
	if !strings.Contains(uerr.Detail, "4.0 MB") {
		t.Errorf("detail should name the actual size, got %q", uerr.Detail)
	}
}

func TestValidateInvalidContent(t *testing.T) {
	_, uerr := Validate("image/png", []byte("definitely not an image"))
	if uerr == nil || uerr.Code != CodeInvalidImageContent {
		t.Fatalf("expected INVALID_IMAGE_CONTENT, got %v", uerr)
	}
}

func TestValidateMismatch(t *testing.T) {
	// PNG content declared as JPEG.
	_, uerr := Validate("image/jpeg", padTo(pngHeader, 100))
	if uerr == nil || uerr.Code != CodeMIMEMismatch {
		t.Fatalf("expected MIME_MISMATCH, got %v", uerr)
	}
	if !strings.Contains(uerr.Detail, "image/jpeg") || !strings.Contains(uerr.Detail, "image/png") {
		t.Errorf("detail should name both types, got %q", uerr.Detail)
	}
}

func TestValidateOrder(t *testing.T) {
	// An oversized file with an unsupported declared type must fail on the
	// type first since the checks short-circuit in order.
	_, uerr := Validate("text/plain", padTo(pngHeader, 4<<20+1))
	if uerr == nil || uerr.Code != CodeUnsupportedType {
		t.Fatalf("expected UNSUPPORTED_TYPE first, got %v", uerr)
	}
}

func TestSanitizeBaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo"},
		{"my photo.jpg", "my_photo"},
		{"__weird  name__.png", "weird_name"},
		{"rally-2026.final.webp", "rally-2026.final"},
		{"a.b.c.png", "a.b.c"},
		{"v1.2.jpg", "v1.2"},
		{"photo.png.png", "photo"},
		{"document.pdf", "document.pdf"},
		{"événement.png", "v_nement"},
		{"...", "file"},
		{"", "file"},
		{"???.gif", "file"},
		{"a b c", "a_b_c"},
	}
	for _, tc := range cases {
		if got := SanitizeBaseName(tc.in); got != tc.want {
			t.Errorf("SanitizeBaseName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeBaseNameIdempotent(t *testing.T) {
	inputs := []string{
		"photo.jpg",
		"my photo!!.png",
		"événement de campagne.gif",
		"___",
		"plain",
		"rally-2026.final.webp",
		"a.b.c.png",
		"v1.2.jpg",
		"photo.png.png",
		"x.png_.png",
	}
	for _, in := range inputs {
		once := SanitizeBaseName(in)
		twice := SanitizeBaseName(once)
		if once != twice {
			t.Errorf("SanitizeBaseName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNewKeyShape(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	key := NewKeyAt("town hall.jpg", "jpg", now)

	if !strings.HasPrefix(key, KeyPrefix+"town_hall-") {
		t.Errorf("key prefix wrong: %q", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key extension wrong: %q", key)
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(key, KeyPrefix+"town_hall-"), ".jpg")
	parts := strings.Split(rest, "-")
	if len(parts) != 2 {
		t.Fatalf("key should carry timestamp and suffix, got %q", key)
	}
	if got := strconv.FormatInt(now.UnixMilli(), 10); parts[0] != got {
		t.Errorf("timestamp segment = %q, want %q", parts[0], got)
	}
	if len(parts[1]) != 12 {
		t.Errorf("random suffix should be 12 hex chars, got %q", parts[1])
	}
}

func TestNewKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		k := NewKey("same.png", "png")
		if seen[k] {
			t.Fatalf("duplicate key generated: %q", k)
		}
		seen[k] = true
	}
}

func TestProbeDimensionsNonFatal(t *testing.T) {
	// A sniffable but undecodable header yields zero dimensions, not an error.
	res, uerr := Validate("image/jpeg", padTo(jpegHeader, 64))
	if uerr != nil {
		t.Fatalf("Validate failed: %v", uerr)
	}
	if res.Width != 0 || res.Height != 0 {
		t.Errorf("expected unknown dimensions, got %dx%d", res.Width, res.Height)
	}
}
