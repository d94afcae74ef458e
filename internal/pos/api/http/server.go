// Package http wires the chi router and runs the API server with graceful
// shutdown.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/TechWithMary/restaurant-pos/internal/pos/api/http/handle"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
)

type Handlers struct {
	Ledger     *handle.LedgerHandler
	Tables     *handle.TableHandler
	Settlement *handle.SettlementHandler
	Dispatch   *handle.DispatchHandler
	Catalog    *handle.CatalogHandler
	Health     *handle.HealthHandler
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/tables", h.Tables.List)
	r.Get("/tables/{tableID}", h.Tables.Get)
	r.Put("/tables/{tableID}/status", h.Tables.SetStatus)

	r.Get("/tables/{tableID}/orders", h.Ledger.List)
	r.Post("/tables/{tableID}/orders", h.Ledger.Add)
	r.Put("/tables/{tableID}/orders/{lineID}", h.Ledger.SetQuantity)
	r.Delete("/tables/{tableID}/orders/{lineID}", h.Ledger.Remove)
	r.Delete("/tables/{tableID}/orders", h.Ledger.Clear)

	r.Post("/tables/{tableID}/kitchen", h.Dispatch.Send)

	r.Post("/settlements", h.Settlement.Settle)
	r.Get("/payments", h.Settlement.ListPayments)

	r.Get("/catalog", h.Catalog.Get)
	r.Get("/health", h.Health.Get)

	return r
}

type Server struct {
	srv *http.Server
	log *slog.Logger
}

func NewServer(port int, handler http.Handler, log *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: handler,
		},
		log: log,
	}
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server_started", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.log.Info("graceful_shutdown_started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), core.ShutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		s.log.Info("graceful_shutdown_completed")
		return nil
	})

	return g.Wait()
}
