// recorder holds one venue stream open and persists every event it
// carries to the venue_events table, optionally fanning events out to a
// per-venue Redis channel.
// Usage: go run ./cmd/recorder --config configs/recorder.local.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/restosuite/venuestream/internal/bridge"
	"github.com/restosuite/venuestream/internal/config"
	"github.com/restosuite/venuestream/internal/database"
	"github.com/restosuite/venuestream/internal/events"
	"github.com/restosuite/venuestream/internal/metrics"
	"github.com/restosuite/venuestream/internal/realtime"
	"github.com/restosuite/venuestream/internal/recorder"
	"github.com/restosuite/venuestream/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/recorder.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"venue_id", cfg.Realtime.VenueID,
		"channels", cfg.Realtime.Channels,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create the event writer
	writer := recorder.NewWriter(recorder.Config{
		BatchSize:     cfg.Recorder.BatchSize,
		FlushInterval: cfg.Recorder.FlushInterval,
		BufferSize:    cfg.Recorder.BufferSize,
	}, cfg.Realtime.VenueID, pool, logger)

	// Optional Redis fanout
	var pub *bridge.Publisher
	if cfg.Redis.Enabled {
		pub = bridge.NewPublisher(bridge.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			Prefix:     cfg.Redis.Prefix,
			BufferSize: cfg.Redis.BufferSize,
		}, cfg.Realtime.VenueID, logger)
	}

	// Metrics
	m := metrics.New()
	m.ObserveWriter(writer)
	if pub != nil {
		m.ObservePublisher(pub)
	}

	// Create the stream client. Callbacks run on the read goroutine, so
	// they only enqueue and count.
	clientCfg := cfg.Realtime.ClientConfig()
	clientCfg.OnMessage = func(msg realtime.Message) {
		m.Messages.WithLabelValues(string(events.Classify(msg.Event))).Inc()
		writer.Enqueue(msg)
		if pub != nil && pub.Available() {
			pub.Enqueue(msg)
		}
	}
	clientCfg.OnConnect = func() {
		logger.Info("venue stream connected")
	}
	clientCfg.OnDisconnect = func() {
		logger.Warn("venue stream disconnected")
	}

	client, err := realtime.NewClient(clientCfg, logger)
	if err != nil {
		logger.Error("failed to create stream client", "error", err)
		os.Exit(1)
	}
	m.ObserveClient(client)

	// Start the writer
	if err := writer.Start(ctx); err != nil {
		logger.Error("failed to start event writer", "error", err)
		os.Exit(1)
	}

	// Start the fanout if configured; the recorder keeps running without it
	if pub != nil {
		if err := pub.Start(ctx); err != nil {
			logger.Warn("redis fanout unavailable, continuing without it", "error", err)
		}
	}

	// Start health server
	healthPort := 8080
	if cfg.Metrics.Port > 0 {
		healthPort = cfg.Metrics.Port
	}

	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", healthPort),
		Handler: createHealthHandler(pool, client, writer, pub, m, cfg.Metrics.Path),
	}

	go func() {
		logger.Info("starting health server", "port", healthPort)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Open the venue stream. A failed first dial is not fatal; the client
	// keeps retrying on its backoff schedule.
	if err := client.Connect(ctx); err != nil {
		logger.Warn("initial connect failed", "error", err)
	}

	logger.Info("recorder running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", healthPort),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	client.Disconnect()
	writer.Stop(shutdownCtx)
	if pub != nil {
		pub.Stop()
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("recorder stopped")
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(pool *pgxpool.Pool, client *realtime.Client, writer *recorder.Writer, pub *bridge.Publisher, m *metrics.Metrics, metricsPath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		// Check stream
		stats := client.Stats()
		health.Components["stream"] = map[string]interface{}{
			"state":        stats.State.String(),
			"messages":     stats.MessagesReceived,
			"parse_errors": stats.ParseErrors,
			"reconnects":   stats.Reconnects,
		}
		if stats.State != realtime.StateConnected {
			health.Status = "degraded"
		}

		// Check writer
		ws := writer.Stats()
		health.Components["recorder"] = map[string]interface{}{
			"inserts": ws.Inserts,
			"errors":  ws.Errors,
			"dropped": ws.Dropped,
		}

		if pub != nil {
			ps := pub.Stats()
			health.Components["redis_fanout"] = map[string]interface{}{
				"available": pub.Available(),
				"published": ps.Published,
				"failed":    ps.Failed,
			}
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/history", func(w http.ResponseWriter, r *http.Request) {
		msgs := client.History()
		count := len(msgs)

		// Limit to the most recent 100 for debugging
		limit := 100
		if len(msgs) > limit {
			msgs = msgs[len(msgs)-limit:]
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":   count,
			"showing": len(msgs),
			"events":  msgs,
		})
	})

	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	mux.Handle(metricsPath, m.Handler())

	return mux
}
