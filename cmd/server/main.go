package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playback-orchestrator/internal/platform/config"
	"playback-orchestrator/internal/platform/logger"
	"playback-orchestrator/internal/platform/metrics"
	"playback-orchestrator/internal/playback"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	vodBase := config.GetEnv("VOD_BASE_URL", "http://localhost:5000/")
	playlistFormat := config.GetEnv("PLAYLIST_FORMAT", playback.DefaultPlaylistFormat)
	apiBase := config.GetEnv("API_BASE_URL", "")
	queueSize := config.GetEnvInt("COMMAND_QUEUE_SIZE", playback.DefaultCommandQueueSize)
	metricsEnabled := config.GetEnvBool("METRICS_ENABLED", true)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	// Without an API base the service runs standalone: sessions start with
	// no camera config until one is supplied, which only defers controller
	// construction.
	var configs playback.ConfigProvider
	var recordings playback.RecordingProvider
	if apiBase != "" {
		api := playback.NewAPIProvider(apiBase, nil)
		configs = api
		recordings = api
	}

	reg := playback.NewInMemoryRegistry()
	resolver := playback.NewSourceResolver(vodBase, playlistFormat)
	var met *metrics.Metrics
	if metricsEnabled {
		met = metrics.New()
	}
	svc := playback.NewService(reg, resolver, configs, recordings, queueSize, log, met)
	h := playback.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	if met != nil {
		r.Use(metrics.RequestMiddleware(met))
		r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
			met.Handler(func() { met.SetActivePlayers(reg.ActivePlayerCount()) }).ServeHTTP(w, req)
		})
	}
	h.Routes(r)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"vod_base_url", vodBase,
		"api_base_url", apiBase,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
