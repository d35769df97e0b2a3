// Package http implementa la superficie HTTP del motor CRUD: el
// contrato uniforme sobre adapters registrados, health y métricas.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/crudkit/internal/adapter"
	"github.com/dropDatabas3/crudkit/internal/config"
	"github.com/dropDatabas3/crudkit/internal/realtime"
)

// ServerDeps contiene las dependencias para armar el router.
type ServerDeps struct {
	Config    *config.Config
	Registry  *adapter.Registry
	Publisher realtime.Publisher // opcional
}

// NewRouter arma el router completo con middlewares y rutas.
func NewRouter(deps ServerDeps) http.Handler {
	r := chi.NewRouter()

	crud := &CRUDHandler{
		Registry:        deps.Registry,
		DefaultPageSize: deps.Config.CRUD.DefaultPageSize,
		MaxPageSize:     deps.Config.CRUD.MaxPageSize,
		Publisher:       deps.Publisher,
	}
	crud.Register(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"entities": deps.Registry.EntityTypes(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	var h http.Handler = r
	h = WithLogging(h)
	h = WithRequestID(h)
	if len(deps.Config.Server.CORSAllowedOrigins) > 0 {
		h = WithCORS(h, deps.Config.Server.CORSAllowedOrigins)
	}
	return h
}

// Start corre el servidor hasta que el contexto se cancele; después
// hace shutdown graceful.
func Start(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}
