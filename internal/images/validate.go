package images

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"portfolio-backend/internal/errs"
)

const (
	MaxFileSize = 5 * 1024 * 1024

	// Presentation hints only; the server never decodes pixels.
	RecommendedWidth  = 1200
	RecommendedHeight = 630
	MinWidth          = 600
	MinHeight         = 300
)

var (
	ErrUnsupportedType = errors.New("invalid file type: only JPEG, PNG, and WebP images are allowed")
	ErrTooLarge        = fmt.Errorf("file size must be less than %dMB", MaxFileSize/1024/1024)
)

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// Meta is what validation looks at.
type Meta struct {
	MimeType  string
	SizeBytes int64
}

// File is an uploaded cover image held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f *File) Meta() Meta {
	return Meta{MimeType: f.ContentType, SizeBytes: int64(len(f.Data))}
}

// Empty reports whether there is nothing to upload. A browser submitting a
// form without choosing a file sends an empty part.
func (f *File) Empty() bool {
	return f == nil || len(f.Data) == 0
}

// Validate accepts JPEG, PNG and WebP images up to MaxFileSize.
func Validate(m Meta) error {
	mimeType := strings.ToLower(strings.TrimSpace(m.MimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if _, ok := allowedTypes[mimeType]; !ok {
		return errs.E(errs.Validation, "images.Validate", "", ErrUnsupportedType)
	}
	if m.SizeBytes > MaxFileSize {
		return errs.E(errs.Validation, "images.Validate", "", ErrTooLarge)
	}
	return nil
}

// Extension returns the text after the last dot of name. Names without one
// fall back to the canonical extension of the MIME type.
func Extension(name, mimeType string) string {
	if ext := path.Ext(name); len(ext) > 1 {
		return ext[1:]
	}
	if ext, ok := allowedTypes[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return "bin"
}
