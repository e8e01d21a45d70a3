package photo

import (
	"mime"
	"path/filepath"
	"strings"
)

// DetectContentType determines the MIME type of a photo.
//
// Detection priority:
// 1. If providedType is non-empty and not generic binary, use it directly
// 2. Try to detect from file extension using mime.TypeByExtension
// 3. Fall back to "application/octet-stream"
//
// Content sniffing is left to the image decoder.
func DetectContentType(providedType, key string) string {
	if providedType != "" && baseType(providedType) != "application/octet-stream" {
		return providedType
	}

	ext := strings.ToLower(filepath.Ext(key))
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	return "application/octet-stream"
}

// ScorableImageTypes are the formats the scorer can decode.
var ScorableImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true, // Some systems use this instead of image/jpeg
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

// IsScorableImageType checks if a content type can be scored. Generic binary
// types pass so that the decoder can sniff them.
func IsScorableImageType(contentType string) bool {
	t := baseType(contentType)
	return t == "application/octet-stream" || ScorableImageTypes[t]
}

// baseType normalizes a content type (removes parameters like charset).
func baseType(contentType string) string {
	t := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(t))
}
