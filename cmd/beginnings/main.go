package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beginnings/internal/admins"
	"beginnings/internal/app"
	"beginnings/internal/auth"
	"beginnings/internal/config"
	apphttp "beginnings/internal/http"
	"beginnings/internal/http/middleware"
	"beginnings/internal/inquiry"
	"beginnings/internal/logging"
	"beginnings/internal/notify"
	"beginnings/internal/telegram"
	"beginnings/internal/watch"
)

func main() {
	path := os.Getenv("BEGINNINGS_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil && cfg == nil {
		panic(err)
	}

	l := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(l)

	if err != nil {
		slog.Warn("config.missing", "path", path, "err", err)
		slog.Warn("The JWT secret will be defined to a default value. This is a security risk in production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := app.NewStore(cfg, l)
	if err != nil {
		slog.Error("loader.config", "err", err)
		os.Exit(1)
	}
	// Pages render without widgets until the first successful load.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Data.Timeout+5*time.Second)
	_ = store.Reload(loadCtx)
	cancelLoad()

	builder, err := app.NewBuilder(cfg, l)
	if err != nil {
		slog.Error("templates", "err", err)
		os.Exit(1)
	}

	signer := auth.NewSigner(cfg.Security.JWTSecret)
	deps := apphttp.Deps{
		Site:           store,
		Pages:          builder,
		Widgets:        builder.Widgets,
		Signer:         signer,
		Notifier:       notify.Noop{},
		InquiryLimiter: middleware.NewRateLimiter(cfg.Inquiries.Limit, cfg.Inquiries.Window),
		LoginLimiter:   middleware.NewRateLimiter(10, time.Minute),
		TrustProxy:     cfg.HTTP.TrustProxy,
		SecureCookies:  cfg.HTTP.SecureCookies,
	}

	if cfg.Database.Disabled {
		slog.Warn("db.disabled", "effect", "inquiries and admin sign-in unavailable")
	} else {
		dbCtx, cancelDB := context.WithTimeout(ctx, 3*time.Minute)
		pool, err := app.OpenDB(dbCtx, cfg)
		cancelDB()
		if err != nil {
			slog.Error("db.open", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("db.ready")

		adminStore := &admins.PGStore{DB: pool}
		deps.Admins = adminStore
		deps.Inquiries = &inquiry.PGStore{DB: pool}
		deps.Notifier = telegram.New(adminStore, cfg.Telegram.BotToken, cfg.Telegram.GroupChatID)
		go telegram.NewPoller(adminStore, cfg.Telegram.BotToken).Run(ctx)
	}

	if cfg.Data.Watch {
		w := &watch.Watcher{Files: app.LocalFiles(cfg), Reloader: store, Logger: l}
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Error("watch.run", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Address, // e.g. ":8080"
		Handler:      apphttp.WithStandardMiddleware(apphttp.NewMux(deps), signer),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("http.starting", "addr", cfg.HTTP.Address, "ready", store.Ready())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http.listen", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http.shutting_down")
	_ = srv.Shutdown(shutdownCtx)
	slog.Info("http.stopped")
}
