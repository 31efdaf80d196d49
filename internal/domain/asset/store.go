package asset

import (
	"context"
	"io"
	"path"
	"strings"
)

// TeamPhotoBaseName is the fixed base name of the stored team photo.
const TeamPhotoBaseName = "team"

// AllowedExtensions are the lower-cased image extensions accepted for the team photo.
var AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// Photo describes the stored team photo.
type Photo struct {
	Name string
	URL  string
}

// Store persists the team photo. Replace is not atomic: concurrent replacements race and the last
// writer wins, and a reader may briefly observe no photo between the delete and the save.
type Store interface {
	// Current returns the first stored image or nil when none exists.
	Current(ctx context.Context) (*Photo, error)
	// Replace removes every stored image and saves the reader under name.
	Replace(ctx context.Context, name string, r io.Reader, contentType string) (*Photo, error)
}

// IsImageName reports whether the name ends with an allowed image extension, ignoring case.
func IsImageName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ContentType returns the MIME type for an allowed extension.
func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
