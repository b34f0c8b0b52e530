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

	"github.com/sedsgs/groundstation-data/internal/command"
	"github.com/sedsgs/groundstation-data/internal/config"
	"github.com/sedsgs/groundstation-data/internal/database"
	"github.com/sedsgs/groundstation-data/internal/layout"
	"github.com/sedsgs/groundstation-data/internal/link"
	"github.com/sedsgs/groundstation-data/internal/metrics"
	"github.com/sedsgs/groundstation-data/internal/router"
	"github.com/sedsgs/groundstation-data/internal/sim"
	"github.com/sedsgs/groundstation-data/internal/store"
	"github.com/sedsgs/groundstation-data/internal/telemetry"
	"github.com/sedsgs/groundstation-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/groundstation.local.yaml", "path to config file")
	simulate := flag.Bool("sim", false, "generate synthetic telemetry instead of connecting to the radio bridge")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting groundstation",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"sim", *simulate,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"site", cfg.Instance.Site,
		"bridge_url", cfg.Link.URL,
	)

	// Validate the dashboard layout up front so a broken document fails fast.
	if _, err := layout.Load(cfg.Layout.Path); err != nil {
		logger.Error("failed to load dashboard layout", "path", cfg.Layout.Path, "error", err)
		os.Exit(1)
	}

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
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	nowMS := func() int64 { return time.Now().UnixMilli() }

	// Telemetry store writer
	writer := store.NewWriter(store.Config{
		BatchSize:     cfg.Store.BatchSize,
		FlushInterval: cfg.Store.FlushInterval,
		RecentSize:    cfg.Store.RecentSize,
	}, pool, nowMS, logger)

	// Radio link. The manager is created before the router so its Sink can
	// serve as the transmit collaborator; in sim mode transmits are logged
	// and dropped.
	var tx router.ByteSink
	var radio *link.Manager
	if *simulate {
		tx = func(buf []byte) error {
			logger.Debug("sim transmit", "len", len(buf))
			return nil
		}
	} else {
		radio = link.NewManager(cfg.Link, deferredRouter{}, logger)
		tx = radio.Sink()
	}

	// Dispatch core. Every packet, regardless of endpoint, lands in the store.
	regs := make([]router.Registration, 0, len(telemetry.Endpoints()))
	for _, ep := range telemetry.Endpoints() {
		regs = append(regs, router.Registration{
			Endpoint: ep,
			Handler:  writer.Handler(),
		})
	}

	core, err := router.NewSingleton(router.Config{
		QueueInitial: cfg.Router.QueueInitial,
		QueueMax:     cfg.QueueMaxValue(),
	}, tx, nowMS, regs, logger)
	if err != nil {
		logger.Error("failed to initialize dispatch core", "error", err)
		os.Exit(1)
	}

	if err := writer.Start(ctx); err != nil {
		logger.Error("failed to start store writer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		writer.Stop(shutdownCtx)
	}()

	// Drain worker: dispatch queued packets until shutdown.
	go func() {
		r, err := router.WaitInstance(ctx)
		if err != nil {
			return
		}
		for ctx.Err() == nil {
			r.ProcessAllQueuesWithTimeout(cfg.Router.DrainTimeoutMS)
		}
	}()

	// Packet source: radio bridge or simulator.
	var source interface {
		Stop(context.Context) error
	}
	if *simulate {
		gen := sim.New(sim.DefaultConfig(), core, logger)
		if err := gen.Start(ctx); err != nil {
			logger.Error("failed to start simulator", "error", err)
			os.Exit(1)
		}
		source = gen
	} else {
		if err := radio.Start(ctx); err != nil {
			logger.Error("failed to start radio link", "error", err)
			os.Exit(1)
		}
		source = radio
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		source.Stop(shutdownCtx)
	}()

	// Prometheus metrics endpoint
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Health and operator API
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port+1),
		Handler: createHTTPHandler(cfg, core, writer, radio, logger),
	}
	go func() {
		logger.Info("starting health server", "addr", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("groundstation running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port+1),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	core.Close()

	logger.Info("groundstation stopped")
}

// deferredRouter forwards inbound packets to the singleton once it exists.
// The link manager is built before the router so the router can borrow its
// Sink; frames that arrive in that window are rejected.
type deferredRouter struct{}

func (deferredRouter) Submit(pkt *telemetry.Packet) error {
	r, err := router.Instance()
	if err != nil {
		return err
	}
	return r.Submit(pkt)
}

// createHTTPHandler serves health checks, recent telemetry, the dashboard
// layout and the operator command endpoint.
func createHTTPHandler(cfg *config.GroundstationConfig, core *router.Router, writer *store.Writer, radio *link.Manager, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	sender := command.NewSender(core, logger)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		stats := core.Stats()
		health.Components["router"] = map[string]interface{}{
			"submitted":        stats.Submitted,
			"dispatched":       stats.Dispatched,
			"rejected":         stats.Rejected,
			"handler_failures": stats.HandlerFailures,
		}
		health.Components["store"] = writer.Stats()

		if radio != nil {
			ls := radio.Stats()
			health.Components["link"] = ls
			if !ls.Connected {
				health.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/api/recent", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(writer.Recent(100))
	})

	mux.HandleFunc("/api/layout", func(w http.ResponseWriter, r *http.Request) {
		doc, err := layout.Load(cfg.Layout.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	})

	mux.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Command string `json:"command"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		cmd, err := command.ParseCommandName(req.Command)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := sender.Send(cmd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"command":        cmd.String(),
			"correlation_id": id,
		})
	})

	return mux
}
