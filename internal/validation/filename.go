package validation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// UnsafeFilenameChars matches everything outside the staging whitelist.
var UnsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

const maxFilenameLength = 200

// SanitizeFilename очищает имя файла: всё вне [A-Za-z0-9.-] заменяется на "_"
func SanitizeFilename(filename string) string {
	filename = strings.TrimSpace(filename)

	// Браузеры иногда присылают полный путь
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}

	filename = UnsafeFilenameChars.ReplaceAllString(filename, "_")

	// Замена ".." на "_"
	for strings.Contains(filename, "..") {
		filename = strings.ReplaceAll(filename, "..", "_")
	}

	// Ограничение длины с сохранением расширения
	if len(filename) > maxFilenameLength {
		ext := filepath.Ext(filename)
		if len(ext) > 16 {
			ext = ""
		}
		filename = filename[:maxFilenameLength-len(ext)] + ext
	}

	if filename == "" || filename == "." {
		return "file"
	}
	return filename
}

// FileExtension returns the extension of the sanitized name, so it is always
// safe to embed into a storage key.
func FileExtension(filename string) string {
	ext := filepath.Ext(SanitizeFilename(filename))
	if ext == "." {
		return ""
	}
	return ext
}

// ValidateFileSize проверяет размер файла
func ValidateFileSize(size int64, maxSize int64, fieldName string) error {
	if size < 0 {
		return ValidationError{
			Field:   fieldName,
			Message: "has invalid size",
		}
	}
	if maxSize > 0 && size > maxSize {
		return ValidationError{
			Field:   fieldName,
			Message: "exceeds maximum allowed size",
		}
	}
	return nil
}
