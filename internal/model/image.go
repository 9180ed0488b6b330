package model

import "strings"

// ImageAsset is one downloaded image held in session memory.
// It is never written to disk; a new fetch replaces the previous asset.
type ImageAsset struct {
	ID       string
	Name     string
	MimeType string
	Data     []byte
}

// IsImage reports whether a MIME type belongs to an image file.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
