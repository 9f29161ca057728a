package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/auto-dns/cloudflare-ddns-sync/internal/state"
)

type statusSource interface {
	All() []state.DomainStatus
	Get(nickname string) (state.DomainStatus, bool)
	Healthy() bool
}

// NewRouter serves /metrics (Prometheus), /healthz and the per-domain /status.
func NewRouter(gatherer prometheus.Gatherer, status statusSource) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !status.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("degraded"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, status.All())
	})
	r.Get("/status/{nickname}", func(w http.ResponseWriter, r *http.Request) {
		st, ok := status.Get(chi.URLParam(r, "nickname"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown domain"})
			return
		}
		writeJSON(w, http.StatusOK, st)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewServer creates the HTTP server for the status router.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve runs srv until ctx is done, then shuts it down.
func Serve(ctx context.Context, srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Status server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error shutting down status server")
		return err
	}
	logger.Info().Msg("Status server stopped")
	return nil
}
