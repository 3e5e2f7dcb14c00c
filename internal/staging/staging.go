// Package staging keeps uploaded files on local disk between receipt and
// relay to blob storage.
package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/validation"
)

// StagedFile is a temporary on-disk copy of one uploaded file.
type StagedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// Stager creates and removes staged files under a single directory.
type Stager struct {
	dir string
	now func() time.Time
}

func NewStager(dir string) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir %s: %w", dir, err)
	}
	return &Stager{dir: dir, now: time.Now}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Name builds the on-disk name: unix millis, a random segment and the
// whitelisted original name. The random segment keeps names unique when two
// uploads land in the same millisecond with names that sanitize identically.
func (s *Stager) Name(originalName string) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + random + "-" + validation.SanitizeFilename(originalName)
}

// Stage copies src into a new staged file. On any error nothing is left on
// disk.
func (s *Stager) Stage(ctx context.Context, src io.Reader, originalName, contentType string) (*StagedFile, error) {
	path := filepath.Join(s.dir, s.Name(originalName))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrFailedToStageFile, err)
	}

	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.FromContext(ctx).Error("Error deleting temporary file", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("%w: %w", app_errors.ErrFailedToStageFile, err)
	}

	return &StagedFile{
		Path:         path,
		OriginalName: originalName,
		ContentType:  validation.ResolveContentType(contentType, originalName),
		SizeBytes:    n,
	}, nil
}

// Remove deletes a staged file. A file that is already gone is not an error.
func (s *Stager) Remove(ctx context.Context, f *StagedFile) error {
	if f == nil || f.Path == "" {
		return nil
	}
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Error("Error deleting temporary file", "path", f.Path, "error", err)
		return err
	}
	logger.FromContext(ctx).Info("Temporary file deleted", "path", f.Path)
	return nil
}

// Open opens the staged file for reading.
func (f *StagedFile) Open() (*os.File, error) {
	if f == nil || f.Path == "" {
		return nil, app_errors.ErrInvalidStagedFile
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrInvalidStagedFile, err)
	}
	return file, nil
}

// Cleanup removes leftovers from a previous run. Files are only ever kept for
// the lifetime of one request, so anything older than maxAge is an orphan.
func (s *Stager) Cleanup(ctx context.Context, maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Warn("Failed to list temp dir", "dir", s.dir, "error", err)
		return 0
	}
	removed := 0
	cutoff := s.now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := s.Remove(ctx, &StagedFile{Path: filepath.Join(s.dir, e.Name())}); err == nil {
			removed++
		}
	}
	return removed
}
