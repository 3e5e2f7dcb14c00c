package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	app_errors "github.com/lumiforge/video-bridge/internal/errors"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/metrics"
	"golang.org/x/sync/semaphore"
)

// Context keys for storing values in request context
type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware logs requests and responses with structured logging
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		requestID, _ := r.Context().Value(RequestIDKey).(string)

		l := slog.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)
		ctx := logger.WithContext(r.Context(), l)

		l.Info("Request started", "remote_addr", r.RemoteAddr, "user_agent", r.UserAgent(), "content_length", r.ContentLength)

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		duration := time.Since(start)
		attrs := []any{
			"status_code", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
			"response_size_bytes", wrapped.size,
		}
		if wrapped.statusCode >= http.StatusInternalServerError {
			l.Warn("Request completed", attrs...)
			return
		}
		l.Info("Request completed", attrs...)
	})
}

// CORSMiddleware adds CORS headers
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, X-Blob-Signature")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ContentTypeMiddleware ensures JSON content type for API endpoints
func ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" || r.Method == "PUT" || r.Method == "PATCH" {
			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				writeJSONError(w, http.StatusBadRequest, "Content-Type must be application/json")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// MaxBodyMiddleware caps the request body. Declared lengths over the limit are
// rejected up front; chunked bodies fail on read with *http.MaxBytesError.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				logger.FromContext(r.Context()).Warn("Upload rejected: body too large", "content_length", r.ContentLength, "limit", limit)
				writeJSONError(w, http.StatusRequestEntityTooLarge, app_errors.ErrUploadTooLarge.Error())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// UploadLimiterMiddleware bounds concurrent uploads. A request that cannot get
// a slot within queueTimeout is answered with 503.
func UploadLimiterMiddleware(sem *semaphore.Weighted, queueTimeout time.Duration, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sem == nil {
				next.ServeHTTP(w, r)
				return
			}

			var acquired bool
			if queueTimeout <= 0 {
				acquired = sem.TryAcquire(1)
			} else {
				ctx, cancel := context.WithTimeout(r.Context(), queueTimeout)
				acquired = sem.Acquire(ctx, 1) == nil
				cancel()
			}
			if !acquired {
				m.ObserveRejected()
				logger.FromContext(r.Context()).Warn("Upload rejected: concurrency limit reached", "queue_timeout", queueTimeout.String())
				w.Header().Set("Retry-After", "5")
				writeJSONError(w, http.StatusServiceUnavailable, app_errors.ErrUploadQueueFull.Error())
				return
			}
			defer sem.Release(1)

			m.UploadStarted()
			defer m.UploadFinished()

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware counts requests per route and status code.
func MetricsMiddleware(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)
			m.ObserveRequest(route, wrapped.statusCode)
		})
	}
}

// responseWriter is a wrapper around http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
