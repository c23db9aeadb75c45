package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"washline_ledger/internal/worker"
)

// HttpHandlerRegister defines a function that registers HTTP handlers on the mux.
type HttpHandlerRegister func(mux *http.ServeMux)

// App manages the HTTP server and background workers.
type App struct {
	httpServer *http.Server
	workers    []worker.Worker
	port       int
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewApp creates and configures a new application server.
func NewApp(port int, logger *zap.Logger, register HttpHandlerRegister, workers []worker.Worker) (*App, func(), error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if register != nil {
		register(mux)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		httpServer: httpServer,
		workers:    workers,
		port:       port,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}

	// The cleanup function will be called by main to gracefully shut down.
	cleanup := func() {
		app.logger.Info("Cleanup: stopping server and workers...")
		app.cancel() // Signal all background goroutines to stop

		// Create a context with a timeout for the final shutdown.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
		app.logger.Info("Cleanup finished.")
	}

	return app, cleanup, nil
}

// Run starts the application server and all background workers.
func (a *App) Run() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.port, err)
	}

	// Start background workers in goroutines
	for _, w := range a.workers {
		a.logger.Info("starting worker", zap.String("worker", w.Name()))
		go w.Start(a.ctx)
	}

	// Start HTTP server in a goroutine
	go func() {
		a.logger.Info("server started", zap.Int("port", a.port))
		if err := a.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server Serve error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("Shutting down server...")
	a.cancel()

	return nil
}
