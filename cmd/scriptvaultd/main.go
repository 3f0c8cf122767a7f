package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/scadakit/scriptvault/internal/api"
	"github.com/scadakit/scriptvault/internal/config"
	"github.com/scadakit/scriptvault/internal/notify"
	"github.com/scadakit/scriptvault/internal/shellcache"
	"github.com/scadakit/scriptvault/internal/store"
	"github.com/scadakit/scriptvault/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("create data dir")
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()

	scripts := store.NewStore(db)
	ctx := context.Background()

	if cfg.SeedDefaults {
		seeded, err := scripts.SeedDefaults(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("seed default scripts")
		}
		if seeded > 0 {
			log.Info().Int("scripts", seeded).Msg("seeded default script library")
		}
	}

	manifest, err := shellcache.LoadManifest(cfg.ShellManifest)
	if err != nil {
		log.Fatal().Err(err).Msg("load shell manifest")
	}

	shell := &web.Server{Dir: cfg.WebDir}
	mediator := shellcache.New(db, shell.Handler(), manifest, cfg.ShellVersion, log)

	// A failed install is logged, not fatal: the mediator keeps serving
	// through to the upstream and whatever generation already exists.
	if err := mediator.Install(ctx); err != nil {
		log.Error().Err(err).Msg("shell cache install failed")
	}
	if err := mediator.Activate(ctx); err != nil {
		log.Error().Err(err).Msg("shell cache activate failed")
	}

	hub := notify.NewHub()
	apiServer := &api.Server{Store: scripts, Hub: hub, Log: log, StartedAt: time.Now().UTC()}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer.Handler())
	mux.Handle("/", mediator.Handler())

	listener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("listen")
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	httpServer := &http.Server{
		Handler:           loggingMiddleware(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
	}

	go func() {
		log.Info().Stringer("addr", listener.Addr()).Msg("scriptvaultd listening")
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	serverCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	_ = httpServer.Close()
}

func loggingMiddleware(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := ulid.Make().String()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
