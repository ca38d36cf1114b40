package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"metrobowling/internal/config"
	"metrobowling/internal/handlers"
	"metrobowling/internal/logging"
	"metrobowling/internal/metrics"
	"metrobowling/internal/site"
	"metrobowling/internal/venue"
	"metrobowling/pkg/realtime"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	if err := mimeTypes(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	content, err := venue.Load(cfg.VenueFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := realtime.SystemClock{}
	store := site.NewStore(site.StoreOptions{Clock: clock, Logger: logger})
	go store.RunSweeper(ctx, cfg.SweepInterval, cfg.SessionTTL)

	m := metrics.New(store.Len)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:   []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	static, err := staticHandler()
	if err != nil {
		return err
	}

	deps := handlers.Deps{
		Store:    store,
		Venue:    content,
		Clock:    clock,
		Metrics:  m,
		Logger:   logger,
		Locale:   cfg.LocaleTag(),
		SoundURL: cfg.StrikeSoundURL,
	}
	siteHandler := handlers.NewSiteHandler(deps)
	gameHandler := handlers.NewGameHandler(deps)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Mount("/static", static)
		r.Get("/healthz", handlers.Health)
		r.Handle("/metrics", m.Handler())
		siteHandler.RegisterRoutes(r)
		gameHandler.RegisterRoutes(r)
	})
	gameHandler.RegisterStream(r)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", "http://localhost"+cfg.Addr()), slog.String("venue", content.Name))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mimeTypes() error {
	for ext, typ := range map[string]string{
		".js":  "application/javascript",
		".css": "text/css",
		".wav": "audio/wav",
	} {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			return err
		}
	}
	return nil
}

func staticHandler() (http.Handler, error) {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, err
	}
	return http.StripPrefix("/static", http.FileServer(http.FS(staticFS))), nil
}

//go:embed static/*
var embeddedStatic embed.FS
