package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/pkgshelf/internal/dashboard"
	"github.com/HerbHall/pkgshelf/internal/event"
	"github.com/HerbHall/pkgshelf/internal/feed"
	"github.com/HerbHall/pkgshelf/internal/server"
	"github.com/HerbHall/pkgshelf/internal/session"
	"github.com/HerbHall/pkgshelf/internal/version"
	"github.com/HerbHall/pkgshelf/internal/ws"
	"github.com/HerbHall/pkgshelf/pkg/catalog"
)

var errNoCatalog = errors.New("no feed loaded")

func runServe(args []string) error {
	fs, configPath := newFlagSet("serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(*configPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("pkgshelf server starting", zap.String("version", version.Short()))

	bus := event.NewBus(logger.Named("event"))
	wsHandler := ws.NewHandler(bus, logger.Named("ws"))
	defer wsHandler.Close()

	sess := session.New(catalog.NewDateFormatter(cfg.Display.Locale), bus, logger.Named("session"))
	fetcher := feed.NewFetcher(cfg.Feed.Config, logger.Named("feed"))
	loader := session.NewLoader(fetcher, sess, logger.Named("session"))
	sessionHandler := session.NewHandler(loader, logger.Named("session"))

	ready := server.ReadinessChecker(func(context.Context) error {
		if !sess.CurrentPage().Loaded {
			return errNoCatalog
		}
		return nil
	})
	srv := server.New(cfg.Server, logger.Named("server"), ready, dashboard.Handler(), sessionHandler, wsHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if cfg.Feed.URL != "" {
		go func() {
			if _, err := loader.LoadURL(ctx, cfg.Feed.URL); err != nil {
				logger.Warn("startup feed not loaded", zap.String("url", cfg.Feed.URL), zap.Error(err))
			}
		}()
	}

	fmt.Fprintf(os.Stderr, "\n  pkgshelf %s is ready!\n  Open http://%s in your browser.\n\n", version.Short(), cfg.Server.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("pkgshelf server stopped")
	return nil
}
