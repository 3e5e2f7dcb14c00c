package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Alerter delivers a short message to an operator channel.
type Alerter interface {
	SendAlert(msg string) error
}

// AlertHandler forwards error records to every configured alert channel.
type AlertHandler struct {
	slog.Handler
	alerters []Alerter
}

func (h *AlertHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		msg := r.Message
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				msg += ": " + a.Value.String()
				return false
			}
			return true
		})
		for _, a := range h.alerters {
			if err := a.SendAlert(msg); err != nil {
				// Пишем напрямую в stderr, чтобы избежать рекурсии через логгер
				os.Stderr.WriteString("Failed to send alert: " + err.Error() + "\n")
			}
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *AlertHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AlertHandler{
		Handler:  h.Handler.WithAttrs(attrs),
		alerters: h.alerters,
	}
}

func (h *AlertHandler) WithGroup(name string) slog.Handler {
	return &AlertHandler{
		Handler:  h.Handler.WithGroup(name),
		alerters: h.alerters,
	}
}

// fanoutHandler sends every record to all of its handlers.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// timestampWriter prefixes every write with an ISO-8601 UTC timestamp. Writes
// are serialized so concurrent requests never interleave within a line.
type timestampWriter struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := "[" + t.now().UTC().Format("2006-01-02T15:04:05.000Z07:00") + "] "
	if _, err := io.WriteString(t.w, prefix); err != nil {
		return 0, err
	}
	return t.w.Write(p)
}

// NewFileHandler returns a text handler whose lines read
// "[2024-01-02T03:04:05.000Z] level=INFO msg=... key=value".
func NewFileHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(&timestampWriter{w: w, now: time.Now}, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}

// OpenLogFile opens dir/name for appending, creating the directory if needed.
func OpenLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// New builds the process logger: JSON on stdout, the append-only log file
// when given, and alert delivery for error records.
func New(logFile io.Writer, alerters ...Alerter) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	handlers := fanoutHandler{slog.NewJSONHandler(os.Stdout, opts)}
	if logFile != nil {
		handlers = append(handlers, NewFileHandler(logFile))
	}

	var active []Alerter
	for _, a := range alerters {
		if a != nil {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return slog.New(handlers)
	}
	return slog.New(&AlertHandler{
		Handler:  handlers,
		alerters: active,
	})
}

type ctxKey struct{}

func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}
