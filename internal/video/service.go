package video

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/jwt"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/metrics"
	"github.com/lumiforge/video-bridge/internal/staging"
	"github.com/lumiforge/video-bridge/internal/storage"
	"github.com/lumiforge/video-bridge/internal/validation"
)

// DefaultTitle is used when an upload arrives without a usable title.
const DefaultTitle = "Untitled"

const keyPrefix = "videos/"

// Service relays staged uploads to blob storage and runs the direct-upload
// token handshake.
type Service struct {
	store     storage.BlobStore
	stager    *staging.Stager
	notifier  backend.Notifier
	tokens    jwt.TokenManager
	callbacks jwt.CallbackVerifier
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService builds the service. A nil tokens manager disables the
// direct-upload handshake.
func NewService(store storage.BlobStore, stager *staging.Stager, notifier backend.Notifier, tokens *jwt.JWTManager, m *metrics.Metrics) *Service {
	s := &Service{
		store:    store,
		stager:   stager,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
	if tokens != nil {
		s.tokens = tokens
		s.callbacks = tokens
	}
	return s
}

// UploadInput is one received upload, already staged on disk.
type UploadInput struct {
	Title string
	File  *staging.StagedFile
}

// UploadResult is what the caller gets back for a relayed upload.
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Pathname string `json:"pathname"`
	Title    string `json:"title"`
	ID       string `json:"id"`

	Notification backend.Outcome `json:"-"`
}

// ObjectKey builds videos/{unixMillis}-{random}{ext}.
func (s *Service) ObjectKey(originalName string) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return keyPrefix + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + random + validation.FileExtension(originalName)
}

// Upload streams the staged file to blob storage and registers it with the
// backend. The staged file is removed on every path before Upload returns.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	defer s.stager.Remove(ctx, in.File)

	log := logger.FromContext(ctx)
	if in.File == nil {
		return nil, app_errors.ErrNoFileProvided
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = DefaultTitle
	}

	f, err := in.File.Open()
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultFailed, 0, 0)
		return nil, err
	}
	defer f.Close()

	key := s.ObjectKey(in.File.OriginalName)
	log.Info("Uploading to blob storage",
		"original_name", in.File.OriginalName,
		"pathname", key,
		"size_bytes", in.File.SizeBytes,
		"content_type", in.File.ContentType,
	)

	start := s.now()
	lastLogged := -1
	blob, err := s.store.Put(ctx, key, f, in.File.SizeBytes, storage.PutOptions{
		ContentType: in.File.ContentType,
		Multipart:   true,
		OnProgress: func(p storage.Progress) {
			// раз в 10%, чтобы не засорять лог на больших файлах
			if step := int(p.Percentage) / 10; step > lastLogged {
				lastLogged = step
				log.Debug("Upload progress", "loaded", p.Loaded, "total", p.Total, "percentage", p.Percentage)
			}
		},
	})
	if err != nil {
		s.metrics.ObserveUpload(metrics.ResultFailed, in.File.SizeBytes, s.now().Sub(start))
		log.Error("Error uploading to blob storage", "pathname", key, "error", err)
		return nil, fmt.Errorf("%w: %w", app_errors.ErrFailedToUploadBlob, err)
	}
	s.metrics.ObserveUpload(metrics.ResultSuccess, blob.Size, s.now().Sub(start))
	log.Info("File uploaded to blob storage", "url", blob.URL, "size_bytes", blob.Size)

	outcome := s.notifier.RegisterVideo(ctx, backend.RegisterRequest{
		BlobURL:      blob.URL,
		BlobSize:     blob.Size,
		BlobPathname: blob.Pathname,
		Title:        title,
	})
	s.metrics.ObserveNotification(backend.EndpointRegister, string(outcome.Status))

	return &UploadResult{
		Success:      true,
		URL:          blob.URL,
		Size:         blob.Size,
		Pathname:     blob.Pathname,
		Title:        title,
		ID:           strconv.FormatInt(s.now().UnixMilli(), 10),
		Notification: outcome,
	}, nil
}
