package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"mckitchen/internal/api"
	"mckitchen/internal/config"
	"mckitchen/internal/kitchen"
	"mckitchen/internal/logger"
)

// Main entry point: wires config, kitchen engine, and HTTP server
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	k := kitchen.New(kitchen.Config{
		CookDuration: cfg.Kitchen.CookDuration,
		PollInterval: cfg.Kitchen.PollInterval,
	}, log)
	defer k.Close()

	handler := api.NewHandler(k, log)
	hub := api.NewHub(k, log)

	r := chi.NewRouter()

	// Enable CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WebSocket endpoint for display clients
	r.Get("/ws", hub.HandleWebSocket)

	r.Group(handler.Routes)

	// Periodic snapshot broadcast at the configured poll interval
	done := make(chan struct{})
	go hub.Run(done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		close(done)
		os.Exit(0)
	}()

	log.WithComponent("server").WithField("addr", cfg.Server.Addr).Info("starting server")
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
