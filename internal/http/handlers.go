package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumiforge/video-bridge/internal/config"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/jwt"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/staging"
	"github.com/lumiforge/video-bridge/internal/video"
	"golang.org/x/sync/semaphore"
)

const (
	healthMessage = "Vercel Blob Bridge is running"

	maxEventBytes = 1 << 20
	maxTitleBytes = 4096
)

// Server represents HTTP server
type Server struct {
	videoService   *video.Service
	stager         *staging.Stager
	cfg            *config.Config
	limiter        *semaphore.Weighted
	maxUploadBytes int64
	queueTimeout   time.Duration
}

// NewServer creates a new HTTP server
func NewServer(videoService *video.Service, stager *staging.Stager, cfg *config.Config) *Server {
	var limiter *semaphore.Weighted
	if cfg.MaxConcurrentUploads > 0 {
		limiter = semaphore.NewWeighted(int64(cfg.MaxConcurrentUploads))
	}
	return &Server{
		videoService:   videoService,
		stager:         stager,
		cfg:            cfg,
		limiter:        limiter,
		maxUploadBytes: cfg.MaxUploadBytes,
		queueTimeout:   cfg.UploadQueueTimeout,
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

// Upload принимает multipart-форму (file + title), сохраняет файл во временный
// каталог и передаёт его в blob-хранилище
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	mr, err := r.MultipartReader()
	if err != nil {
		log.Warn("Upload rejected: not a multipart request", "error", err)
		s.writeError(w, http.StatusBadRequest, app_errors.ErrNoFileProvided.Error())
		return
	}

	var (
		title  string
		staged *staging.StagedFile
	)
	discard := func() {
		if staged != nil {
			_ = s.stager.Remove(ctx, staged)
			staged = nil
		}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			discard()
			s.writeReadError(w, r, err)
			return
		}

		switch part.FormName() {
		case "title":
			data, err := io.ReadAll(io.LimitReader(part, maxTitleBytes))
			if err != nil {
				part.Close()
				discard()
				s.writeReadError(w, r, err)
				return
			}
			title = string(data)

		case "file":
			if part.FileName() == "" {
				break
			}
			if staged != nil {
				part.Close()
				discard()
				s.writeError(w, http.StatusBadRequest, app_errors.ErrMultipleFiles.Error())
				return
			}
			staged, err = s.stager.Stage(ctx, part, part.FileName(), part.Header.Get("Content-Type"))
			if err != nil {
				part.Close()
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					s.writeReadError(w, r, err)
					return
				}
				log.Error("Error staging upload", "error", err)
				s.writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			log.Info("File received", "original_name", staged.OriginalName, "size_bytes", staged.SizeBytes, "path", staged.Path)
		}
		part.Close()
	}

	if staged == nil {
		s.writeError(w, http.StatusBadRequest, app_errors.ErrNoFileProvided.Error())
		return
	}

	res, err := s.videoService.Upload(ctx, video.UploadInput{Title: title, File: staged})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, UploadResponse{
		Success:  res.Success,
		URL:      res.URL,
		Size:     res.Size,
		Pathname: res.Pathname,
		Title:    res.Title,
		ID:       res.ID,
	})
}

func (s *Server) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		logger.FromContext(r.Context()).Warn("Upload rejected: body too large", "limit", maxErr.Limit)
		s.writeError(w, http.StatusRequestEntityTooLarge, app_errors.ErrUploadTooLarge.Error())
		return
	}
	logger.FromContext(r.Context()).Warn("Malformed multipart body", "error", err)
	s.writeError(w, http.StatusBadRequest, err.Error())
}

// BlobUpload handles the direct-upload handshake events
func (s *Server) BlobUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	res, err := s.videoService.HandleBlobEvent(r.Context(), body, r.Header.Get(jwt.SignatureHeader))
	if err != nil {
		logger.FromContext(r.Context()).Warn("Blob upload event rejected", "error", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

// Health handles health check requests
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:              "ok",
		Message:             healthMessage,
		FastAPIURL:          s.cfg.FastAPIURL,
		BlobTokenConfigured: s.cfg.BlobConfigured(),
	})
}
