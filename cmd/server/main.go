package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ugaemi/wantedsim-server/internal/config"
	"github.com/ugaemi/wantedsim-server/internal/handler"
	"github.com/ugaemi/wantedsim-server/internal/journal"
	"github.com/ugaemi/wantedsim-server/internal/session"
	"github.com/ugaemi/wantedsim-server/internal/store"
	"github.com/ugaemi/wantedsim-server/internal/ws"
)

const shutdownTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := config.LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return err
	}
	slog.Info("scenario loaded", "path", cfg.ScenarioPath, "actors", len(sc.Actors),
		"day_length_minutes", sc.DayLengthMinutes)

	var deps session.Deps

	episodes, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open episode store: %w", err)
	}
	defer episodes.Close()
	deps.Episodes = episodes

	if cfg.JournalDir != "" {
		jw := journal.NewWriter(cfg.JournalDir, "events")
		defer func() {
			if err := jw.Close(); err != nil {
				slog.Warn("journal close failed", "error", err)
			}
		}()
		deps.Journal = jw
		slog.Info("event journal enabled", "dir", cfg.JournalDir)
	}

	sm := session.NewManager(sc, deps)
	defer sm.Shutdown()
	router := handler.NewRouter(sm)

	hub := ws.NewHub()
	hub.OnMessage = router.HandleMessage
	hub.OnDisconnect = router.HandleDisconnect

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/episodes", handler.EpisodesHandler(episodes))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(hub, w, r)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	// Sessions stop before the hub closes client channels.
	sm.Shutdown()
	stopHub()
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleWebSocket(hub *ws.Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(hub, conn)
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

func setupLogger(cfg *config.Config) {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch cfg.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h))
}
