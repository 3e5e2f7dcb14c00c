package storage

import (
	"context"
	"io"
	"time"
)

// Blob is the result of a completed upload. It is forwarded downstream and
// never retained by the bridge.
type Blob struct {
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType,omitempty"`
}

// Progress describes how much of an upload has been transferred.
type Progress struct {
	Loaded     int64
	Total      int64
	Percentage float64
}

// PutOptions configures a single upload.
type PutOptions struct {
	ContentType string
	// Multipart forces a multipart transfer even for small bodies.
	Multipart  bool
	OnProgress func(Progress)
}

// BlobStore определяет интерфейс для работы с blob-хранилищем
type BlobStore interface {
	// Методы загрузки
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (*Blob, error)
	PresignPut(ctx context.Context, key, contentType string, lifetime time.Duration) (string, error)

	// Методы управления объектами
	Delete(ctx context.Context, key string) error

	// Служебные методы
	PublicURL(key string) string
}
