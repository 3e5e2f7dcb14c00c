package validation

import (
	"mime"
	"path/filepath"
	"strings"
)

// AllowedVideoContentTypes is the scope granted to direct client uploads.
var AllowedVideoContentTypes = []string{
	"video/mp4",
	"video/webm",
	"video/quicktime",
	"video/x-msvideo",
	"video/x-flv",
	"video/*",
}

const defaultContentType = "application/octet-stream"

// NormalizeContentType нормализует Content-Type: нижний регистр, без параметров
func NormalizeContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	mainType, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mainType)
}

// IsVideoContentType проверяет, является ли Content-Type видео
func IsVideoContentType(contentType string) bool {
	return strings.HasPrefix(NormalizeContentType(contentType), "video/")
}

// IsAllowedContentType matches contentType against a list that may contain
// wildcards such as "video/*".
func IsAllowedContentType(contentType string, allowed []string) bool {
	contentType = NormalizeContentType(contentType)
	if contentType == "" {
		return false
	}
	for _, a := range allowed {
		a = NormalizeContentType(a)
		if a == contentType {
			return true
		}
		if prefix, ok := strings.CutSuffix(a, "/*"); ok && strings.HasPrefix(contentType, prefix+"/") {
			return true
		}
	}
	return false
}

// GetContentTypeFromExtension определяет Content-Type по расширению файла
func GetContentTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}

	// Дополнительные расширения, которых может не быть в системной таблице
	extensionMap := map[string]string{
		".mp4":  "video/mp4",
		".m4v":  "video/mp4",
		".webm": "video/webm",
		".mov":  "video/quicktime",
		".avi":  "video/x-msvideo",
		".flv":  "video/x-flv",
		".mkv":  "video/x-matroska",
	}
	if contentType, exists := extensionMap[ext]; exists {
		return contentType
	}

	return NormalizeContentType(mime.TypeByExtension(ext))
}

// ResolveContentType returns the declared type when usable, otherwise guesses
// from the filename and finally falls back to application/octet-stream.
func ResolveContentType(declared, filename string) string {
	if ct := NormalizeContentType(declared); ct != "" && ct != defaultContentType {
		return ct
	}
	if ct := GetContentTypeFromExtension(filename); ct != "" {
		return ct
	}
	return defaultContentType
}
