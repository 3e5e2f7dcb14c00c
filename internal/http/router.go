package http

import (
	"net/http"

	"github.com/lumiforge/video-bridge/internal/metrics"
)

// SetupRouter creates and configures HTTP router
func SetupRouter(server *Server, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", chainMiddleware(server.Health, CORSMiddleware, RequestIDMiddleware, LoggingMiddleware, MetricsMiddleware(m, "/health"), methodMiddleware("GET")))

	mux.HandleFunc("/upload", chainMiddleware(server.Upload,
		CORSMiddleware,
		RequestIDMiddleware,
		LoggingMiddleware,
		MetricsMiddleware(m, "/upload"),
		methodMiddleware("POST"),
		MaxBodyMiddleware(server.maxUploadBytes),
		UploadLimiterMiddleware(server.limiter, server.queueTimeout, m),
	))

	mux.HandleFunc("/api/blob-upload", chainMiddleware(server.BlobUpload,
		CORSMiddleware,
		RequestIDMiddleware,
		LoggingMiddleware,
		MetricsMiddleware(m, "/api/blob-upload"),
		methodMiddleware("POST"),
		MaxBodyMiddleware(maxEventBytes),
		ContentTypeMiddleware,
	))

	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}

	return mux
}

// chainMiddleware applies multiple middleware to a handler function
func chainMiddleware(handler http.HandlerFunc, middleware ...func(http.Handler) http.Handler) http.HandlerFunc {
	h := http.Handler(handler)
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

// methodMiddleware creates middleware that checks for specific HTTP method
func methodMiddleware(method string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
