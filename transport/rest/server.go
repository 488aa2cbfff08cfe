package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewRouter wires the session API, /ping and /metrics.
func NewRouter(logger *slog.Logger, sessions sessionService, presentation config.Presentation, registry prometheus.Gatherer) http.Handler {
	handlers := NewHandlers(logger, sessions, presentation)

	router := mux.NewRouter()
	router.Use(recoveryMiddleware(logger), loggingMiddleware(logger))

	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/settings", handlers.Settings).Methods(http.MethodGet)
	api.HandleFunc("/sessions", handlers.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", handlers.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", handlers.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/moves", handlers.Move).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/restart", handlers.Restart).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/new-game", handlers.NewGame).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/players/{mark}", handlers.UpdatePlayer).Methods(http.MethodPatch)

	return router
}

func New(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start - serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)
		if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := that.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}
