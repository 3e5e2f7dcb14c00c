package storage

import (
	"context"
	"io"
	"time"

	app_errors "github.com/lumiforge/video-bridge/internal/errors"
)

// Unconfigured stands in for the blob store when credentials are missing so
// the bridge still starts and answers health checks. Every operation fails.
type Unconfigured struct{}

func (Unconfigured) Put(context.Context, string, io.Reader, int64, PutOptions) (*Blob, error) {
	return nil, app_errors.ErrBlobNotConfigured
}

func (Unconfigured) PresignPut(context.Context, string, string, time.Duration) (string, error) {
	return "", app_errors.ErrBlobNotConfigured
}

func (Unconfigured) Delete(context.Context, string) error {
	return app_errors.ErrBlobNotConfigured
}

func (Unconfigured) PublicURL(string) string {
	return ""
}
