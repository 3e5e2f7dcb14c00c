package video

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lumiforge/video-bridge/internal/backend"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/storage"
	"github.com/lumiforge/video-bridge/internal/validation"
)

// Blob upload event types.
const (
	EventGenerateClientToken = "blob.generate-client-token"
	EventUploadCompleted     = "blob.upload-completed"
)

// BlobEvent is the envelope posted to the direct-upload endpoint.
type BlobEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type GenerateClientTokenPayload struct {
	Pathname      string  `json:"pathname"`
	CallbackURL   string  `json:"callbackUrl"`
	ClientPayload *string `json:"clientPayload"`
	Multipart     bool    `json:"multipart"`
}

type UploadCompletedPayload struct {
	Blob         storage.Blob `json:"blob"`
	TokenPayload string       `json:"tokenPayload"`
}

// BlobEventResult answers either event type.
type BlobEventResult struct {
	Type        string `json:"type"`
	ClientToken string `json:"clientToken,omitempty"`
	UploadURL   string `json:"uploadUrl,omitempty"`
	Response    string `json:"response,omitempty"`
}

type tokenPayload struct {
	Pathname  string `json:"pathname"`
	Timestamp int64  `json:"timestamp"`
}

// HandleBlobEvent dispatches a raw event body. signature is only checked for
// completion callbacks.
func (s *Service) HandleBlobEvent(ctx context.Context, body []byte, signature string) (*BlobEventResult, error) {
	var ev BlobEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", app_errors.ErrInvalidBlobEvent, err)
	}
	if s.tokens == nil {
		return nil, app_errors.ErrBlobNotConfigured
	}

	switch ev.Type {
	case EventGenerateClientToken:
		var p GenerateClientTokenPayload
		if err := decodePayload(ev.Payload, &p); err != nil {
			return nil, err
		}
		return s.GenerateClientToken(ctx, p)

	case EventUploadCompleted:
		if err := s.callbacks.VerifyCallback(body, signature); err != nil {
			return nil, err
		}
		var p UploadCompletedPayload
		if err := decodePayload(ev.Payload, &p); err != nil {
			return nil, err
		}
		return s.CompleteUpload(ctx, p)

	default:
		return nil, fmt.Errorf("%w: %q", app_errors.ErrUnknownBlobEvent, ev.Type)
	}
}

// GenerateClientToken grants a token scoped to one pathname and the allowed
// video content types, together with a presigned PUT URL for it.
func (s *Service) GenerateClientToken(ctx context.Context, p GenerateClientTokenPayload) (*BlobEventResult, error) {
	if s.tokens == nil {
		return nil, app_errors.ErrBlobNotConfigured
	}
	pathname := strings.TrimPrefix(strings.TrimSpace(p.Pathname), "/")
	if pathname == "" {
		return nil, app_errors.ErrPathnameRequired
	}
	if strings.Contains(pathname, "..") {
		return nil, fmt.Errorf("%w: pathname must not contain '..'", app_errors.ErrInvalidBlobEvent)
	}

	payload, err := json.Marshal(tokenPayload{Pathname: pathname, Timestamp: s.now().UnixMilli()})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateClientToken(pathname, string(payload))
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.store.PresignPut(ctx, pathname, "", s.tokens.GetTokenExpiry())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrFailedToGenerateClientToken, err)
	}

	logger.FromContext(ctx).Info("Client upload token generated", "pathname", pathname, "multipart", p.Multipart)
	return &BlobEventResult{
		Type:        EventGenerateClientToken,
		ClientToken: token,
		UploadURL:   uploadURL,
	}, nil
}

// CompleteUpload forwards a finished direct upload to the backend. A failed
// notification is logged and does not fail the callback. Blobs outside the
// token scope are deleted and rejected.
func (s *Service) CompleteUpload(ctx context.Context, p UploadCompletedPayload) (*BlobEventResult, error) {
	if p.Blob.URL == "" {
		return nil, fmt.Errorf("%w: blob url is required", app_errors.ErrInvalidBlobEvent)
	}
	log := logger.FromContext(ctx)
	log.Info("Blob upload completed", "url", p.Blob.URL, "pathname", p.Blob.Pathname)

	if err := s.checkBlobScope(p.Blob); err != nil {
		log.Warn("Rejecting blob outside the token scope", "pathname", p.Blob.Pathname, "error", err)
		if p.Blob.Pathname != "" {
			if derr := s.store.Delete(ctx, p.Blob.Pathname); derr != nil {
				log.Error("Failed to delete rejected blob", "pathname", p.Blob.Pathname, "error", derr)
			}
		}
		return nil, fmt.Errorf("%w: %w", app_errors.ErrBlobRejected, err)
	}

	outcome := s.notifier.NotifyUploaded(ctx, backend.UploadedNotification{
		BlobURL:      p.Blob.URL,
		BlobSize:     p.Blob.Size,
		BlobPathname: p.Blob.Pathname,
		TokenPayload: p.TokenPayload,
	})
	s.metrics.ObserveNotification(backend.EndpointVideoUploaded, string(outcome.Status))

	return &BlobEventResult{Type: EventUploadCompleted, Response: "ok"}, nil
}

// checkBlobScope enforces the content types and size limit the client token
// was issued for. A missing content type is guessed from the pathname.
func (s *Service) checkBlobScope(b storage.Blob) error {
	contentType := validation.ResolveContentType(b.ContentType, b.Pathname)
	if !validation.IsAllowedContentType(contentType, validation.AllowedVideoContentTypes) {
		return validation.ValidationError{Field: "blob.contentType", Message: contentType + " is not allowed"}
	}
	return validation.ValidateFileSize(b.Size, s.tokens.MaxUploadBytes(), "blob.size")
}

func decodePayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", app_errors.ErrInvalidBlobEvent)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrInvalidBlobEvent, err)
	}
	return nil
}
