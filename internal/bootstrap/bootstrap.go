package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lumiforge/video-bridge/internal/backend"
	"github.com/lumiforge/video-bridge/internal/config"
	"github.com/lumiforge/video-bridge/internal/email"
	httpserver "github.com/lumiforge/video-bridge/internal/http"
	"github.com/lumiforge/video-bridge/internal/jwt"
	"github.com/lumiforge/video-bridge/internal/logger"
	"github.com/lumiforge/video-bridge/internal/metrics"
	"github.com/lumiforge/video-bridge/internal/staging"
	"github.com/lumiforge/video-bridge/internal/storage"
	"github.com/lumiforge/video-bridge/internal/telegram"
	"github.com/lumiforge/video-bridge/internal/video"
)

const (
	logFileName = "bridge.log"
	orphanAge   = time.Hour
)

// App is the wired bridge.
type App struct {
	Config  *config.Config
	Handler http.Handler
	close   func()
}

// Close releases the log file.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Initialize настраивает все зависимости и возвращает готовый HTTP роутер
func Initialize(ctx context.Context) (*App, error) {
	// Загрузка конфигурации
	cfg := config.Load()

	// Оповещения об ошибках: Telegram и e-mail, если настроены
	var alerters []logger.Alerter
	if tg := telegram.NewClient(cfg); tg != nil {
		alerters = append(alerters, tg)
	}
	if mail := email.NewClient(cfg); mail != nil {
		alerters = append(alerters, mail)
	}

	// Инициализация логгера
	logFile, err := logger.OpenLogFile(cfg.LogDir, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(logger.New(logFile, alerters...))

	// Инициализация blob-хранилища
	var store storage.BlobStore = storage.Unconfigured{}
	if cfg.BlobConfigured() {
		client, err := storage.NewClient(ctx, cfg)
		if err != nil {
			slog.Warn("Blob storage client not initialized, uploads will fail", "error", err)
		} else {
			store = client
		}
	} else {
		slog.Warn("BLOB_READ_WRITE_TOKEN is not set, uploads will fail")
	}

	// Временный каталог для входящих файлов
	stager, err := staging.NewStager(cfg.TempDir)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	if n := stager.Cleanup(ctx, orphanAge); n > 0 {
		slog.Warn("Removed orphaned temporary files", "count", n, "dir", stager.Dir())
	}

	backendClient := backend.NewClient(cfg.FastAPIURL, cfg.BackendTimeout)
	jwtManager := jwt.NewJWTManager(cfg)
	m := metrics.New()

	videoService := video.NewService(store, stager, backendClient, jwtManager, m)
	server := httpserver.NewServer(videoService, stager, cfg)
	router := httpserver.SetupRouter(server, m)

	slog.Info("Application initialized successfully",
		"fastapi_url", cfg.FastAPIURL,
		"temp_dir", stager.Dir(),
		"blob_token_configured", cfg.BlobConfigured(),
	)

	return &App{
		Config:  cfg,
		Handler: router,
		close: func() {
			if err := logFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
			}
		},
	}, nil
}
