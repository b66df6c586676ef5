package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vodkeeper/vodkeeper/internal/adapters/httpapi"
	"github.com/vodkeeper/vodkeeper/internal/adapters/sqlite"
	"github.com/vodkeeper/vodkeeper/internal/adapters/statefile"
	"github.com/vodkeeper/vodkeeper/internal/adapters/twitch"
	"github.com/vodkeeper/vodkeeper/internal/adapters/ytdlp"
	"github.com/vodkeeper/vodkeeper/internal/app"
	"github.com/vodkeeper/vodkeeper/internal/buildinfo"
	"github.com/vodkeeper/vodkeeper/internal/config"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	if cfg == nil {
		// help was shown
		return
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("app", "vodkeeper").Logger()
	log.Logger = logger

	logger.Info().
		Interface("build", buildinfo.Current()).
		Int("channels", len(cfg.Channels)).
		Msg("starting")

	naming, err := app.ParseNamingStrategy(cfg.Naming)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	client := twitch.New(cfg.ClientID)
	client.UseToken(cfg.UserToken)
	if err := client.Authenticate(ctx, cfg.ClientSecret); err != nil {
		logger.Fatal().Err(err).Msg("authentication failed")
	}

	downloader := ytdlp.New(cfg.DownloaderPath, cfg.ExtraArgs)
	if !downloader.Available() {
		logger.Warn().Str("path", cfg.DownloaderPath).Msg("downloader binary not found, downloads will fail")
	}

	states := statefile.New()
	proc := app.NewProcessor(logger, client, downloader, states, app.ProcessorOptions{
		OutputRoot:  cfg.OutputRoot,
		CookiesPath: cfg.CookiesPath,
		Naming:      naming,
		Location:    cfg.Location,
	})

	var history ports.ArchiveHistory
	if cfg.HistoryDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.HistoryDB), 0o755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create output root")
		}
		db, err := sqlite.Open(ctx, cfg.HistoryDB)
		if err != nil {
			// L'index est best-effort: on continue sans lui.
			logger.Warn().Err(err).Str("db", cfg.HistoryDB).Msg("archive history disabled")
		} else {
			defer func() { _ = db.Close() }()
			repo := sqlite.NewHistoryRepository(db.SQL)
			history = repo
			proc.WithHistory(repo)
		}
	}

	if cfg.WatchInterval > 0 {
		runWatch(cfg, logger, proc, states, history)
		return
	}

	if err := proc.RunAll(ctx, cfg.Channels); err != nil {
		logger.Error().Err(err).Msg("run finished with errors")
		var dlErr *ports.DownloadError
		if len(cfg.Channels) == 1 && errors.As(err, &dlErr) {
			os.Exit(dlErr.ExitCode)
		}
		os.Exit(1)
	}
}

func runWatch(cfg *config.Config, logger zerolog.Logger, proc *app.Processor, states ports.StateStore, history ports.ArchiveHistory) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := app.NewWatcher(logger.With().Str("component", "watcher").Logger(), proc, cfg.Channels)
	watcher.TickInterval = cfg.WatchInterval

	srv := httpapi.NewServer(logger, states, history, cfg.Channels)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("status api listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("status api crashed")
			stop()
		}
	}()

	watchErr := watcher.Run(shutdownCtx)

	shutdownTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownTimeout)

	if watchErr != nil {
		os.Exit(1)
	}
	logger.Info().Msg("bye")
}
