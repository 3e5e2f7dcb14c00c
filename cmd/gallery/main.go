package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumiforge/video-bridge/internal/backend"
	"github.com/lumiforge/video-bridge/internal/config"
	"github.com/lumiforge/video-bridge/internal/gallery"
	"github.com/lumiforge/video-bridge/internal/gallery/terminal"
	"github.com/lumiforge/video-bridge/internal/logger"
)

func main() {
	cfg := config.LoadGallery()

	flag.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "backend API base URL")
	flag.StringVar(&cfg.BridgeURL, "bridge", cfg.BridgeURL, "upload bridge URL")
	flag.IntVar(&cfg.ViewportWidth, "width", cfg.ViewportWidth, "carousel viewport width in pixels")
	flag.Parse()

	// stdout занят интерфейсом, поэтому логи пишутся только в файл
	logFile, err := logger.OpenLogFile(cfg.LogDir, "gallery.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(logger.NewFileHandler(logFile)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := terminal.NewSession(os.Stdin, os.Stdout)
	controller := gallery.NewController(gallery.Deps{
		API:           backend.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout),
		Uploader:      gallery.NewUploader(cfg.BridgeURL, cfg.HTTPTimeout),
		View:          terminal.NewView(os.Stdout),
		Player:        &terminal.Player{},
		Confirmer:     session,
		ViewportWidth: cfg.ViewportWidth,
	})

	slog.Info("Gallery started", "api", cfg.APIBaseURL, "bridge", cfg.BridgeURL)
	fmt.Fprintln(os.Stdout, "Video gallery. Type help for commands.")
	if err := session.Run(ctx, controller); err != nil && ctx.Err() == nil {
		slog.Error("Gallery session failed", "error", err)
		os.Exit(1)
	}
}
