package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	customerhandlers "github.com/famago/crm-ventas/pkg/handlers/customers"
	producthandlers "github.com/famago/crm-ventas/pkg/handlers/products"
	crmmiddleware "github.com/famago/crm-ventas/pkg/server/middleware"
	"github.com/famago/crm-ventas/pkg/services/catalog"
	"github.com/famago/crm-ventas/pkg/services/customers"
)

type WebAPI struct {
	router          chi.Router
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Customers customers.Service
	Catalog   catalog.Service
	Logger    zerolog.Logger
}

type Config struct {
	Addr            string
	Prefix          string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	Dependencies    Dependencies
}

// ConfigureRouter builds the API router. The API lives under
// <prefix>/api; an empty or "/" prefix mounts it at the root.
func ConfigureRouter(config Config) chi.Router {
	customerHandler := customerhandlers.NewHandler(config.Dependencies.Customers, config.MaxUploadBytes)
	productHandler := producthandlers.NewHandler(config.Dependencies.Catalog, config.MaxUploadBytes)

	api := chi.NewRouter()
	api.Route("/api", func(r chi.Router) {
		customerHandler.Routes(r)
		productHandler.Routes(r)
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(crmmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	prefix := NormalizePrefix(config.Prefix)
	if prefix == "" {
		router.Mount("/", api)
	} else {
		router.Mount(prefix, api)
	}
	return router
}

// NormalizePrefix returns "" for the root or "/name" without a trailing slash.
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		w.logger.Info().Str("signal", sig.String()).Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
