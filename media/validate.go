// Package media validates image uploads before they reach storage: the
// declared content type is normalized against an allow-list, the actual
// bytes are sniffed by magic numbers, and the two must agree. Filenames are
// sanitized and storage keys generated here as well.
package media

import (
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"
)

// MaxUploadSize is the largest accepted upload, inclusive.
const MaxUploadSize = 4 << 20 // 4 MiB

// Canonical MIME types accepted for upload.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
	MIMEGIF  = "image/gif"
)

// extensions maps a canonical MIME type to the file extension used in
// generated storage keys.
var extensions = map[string]string{
	MIMEJPEG: "jpg",
	MIMEPNG:  "png",
	MIMEWebP: "webp",
	MIMEGIF:  "gif",
}

// ErrorCode tags an UploadError with a stable machine-readable identifier.
type ErrorCode string

const (
	CodeMissingFile         ErrorCode = "MISSING_FILE"
	CodeUnsupportedType     ErrorCode = "UNSUPPORTED_TYPE"
	CodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidImageContent ErrorCode = "INVALID_IMAGE_CONTENT"
	CodeMIMEMismatch        ErrorCode = "MIME_MISMATCH"
)

// UploadError is a structured rejection: a stable code, an HTTP status, and
// user-facing title/detail/action strings. Handlers serialize it verbatim.
type UploadError struct {
	Code   ErrorCode `json:"code"`
	Status int       `json:"-"`
	Title  string    `json:"title"`
	Detail string    `json:"detail"`
	Action string    `json:"action"`
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// ErrMissingFile is returned by handlers when the multipart body carries no
// file part. It lives here so the whole closed code set is in one place.
var ErrMissingFile = &UploadError{
	Code:   CodeMissingFile,
	Status: http.StatusBadRequest,
	Title:  "No file received",
	Detail: "The upload request did not include a file.",
	Action: "Choose an image and try again.",
}

func errUnsupportedType(declared string) *UploadError {
	return &UploadError{
		Code:   CodeUnsupportedType,
		Status: http.StatusBadRequest,
		Title:  "Unsupported file type",
		Detail: fmt.Sprintf("Files of type %q are not accepted.", declared),
		Action: "Upload a JPEG, PNG, WebP or GIF image.",
	}
}

// ErrTooLarge is the structured form of an upload stopped by the transport
// body cap before the pipeline could measure it. Same code and shape as the
// pipeline's own size rejection so clients handle one kind of oversize
// error.
var ErrTooLarge = &UploadError{
	Code:   CodeFileTooLarge,
	Status: http.StatusRequestEntityTooLarge,
	Title:  "File too large",
	Detail: fmt.Sprintf("The file exceeds the %d MB limit.", MaxUploadSize/(1024*1024)),
	Action: "Resize or compress the image and try again.",
}

func errFileTooLarge(size int64) *UploadError {
	return &UploadError{
		Code:   CodeFileTooLarge,
		Status: http.StatusBadRequest,
		Title:  "File too large",
		Detail: fmt.Sprintf("The file is %.1f MB; the limit is %d MB.", float64(size)/(1024*1024), MaxUploadSize/(1024*1024)),
		Action: "Resize or compress the image and try again.",
	}
}

var errInvalidContent = &UploadError{
	Code:   CodeInvalidImageContent,
	Status: http.StatusBadRequest,
	Title:  "Not a valid image",
	Detail: "The file content is not a recognizable image format.",
	Action: "Upload a real JPEG, PNG, WebP or GIF image.",
}

func errMIMEMismatch(declared, sniffed string) *UploadError {
	return &UploadError{
		Code:   CodeMIMEMismatch,
		Status: http.StatusBadRequest,
		Title:  "File content does not match its type",
		Detail: fmt.Sprintf("The file was declared as %s but its content is %s.", declared, sniffed),
		Action: "Re-export the image and upload it again.",
	}
}

// NormalizeMIME lower-cases a declared content type, maps the non-standard
// image/jpg alias to image/jpeg, and returns the canonical type. The second
// result is false when the type is outside the allow-list.
func NormalizeMIME(declared string) (string, bool) {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if mt == "image/jpg" {
		mt = MIMEJPEG
	}
	_, ok := extensions[mt]
	return mt, ok
}

// DetectMIME determines the true image format from the leading bytes,
// independent of any declared metadata. Returns "" when no known signature
// matches.
func DetectMIME(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return MIMEJPEG
	case len(data) >= 8 &&
		data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 &&
		data[4] == 0x0D && data[5] == 0x0A && data[6] == 0x1A && data[7] == 0x0A:
		return MIMEPNG
	case len(data) >= 6 &&
		data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8' &&
		(data[4] == '7' || data[4] == '9') && data[5] == 'a':
		return MIMEGIF
	case len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' &&
		binary.LittleEndian.Uint32(data[4:8]) > 0:
		return MIMEWebP
	}
	return ""
}

// Result describes a validated upload.
type Result struct {
	MIMEType  string
	Extension string
	Width     int
	Height    int
}

// Validate runs the full acceptance sequence over an upload, failing closed
// at the first violation:
//
//  1. declared type normalizes against the allow-list
//  2. size is within MaxUploadSize
//  3. magic-byte sniff recognizes the content
//  4. sniffed type equals the declared type
//
// The extension in the result comes from the sniffed type, never the
// declared one. Dimensions are probed best-effort and may be zero.
func Validate(declared string, data []byte) (Result, *UploadError) {
	normalized, ok := NormalizeMIME(declared)
	if !ok {
		return Result{}, errUnsupportedType(declared)
	}
	if int64(len(data)) > MaxUploadSize {
		return Result{}, errFileTooLarge(int64(len(data)))
	}
	sniffed := DetectMIME(data)
	if sniffed == "" {
		return Result{}, errInvalidContent
	}
	if sniffed != normalized {
		return Result{}, errMIMEMismatch(normalized, sniffed)
	}
	w, h := probeDimensions(data)
	return Result{
		MIMEType:  sniffed,
		Extension: extensions[sniffed],
		Width:     w,
		Height:    h,
	}, nil
}
