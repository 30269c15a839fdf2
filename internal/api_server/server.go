package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
	handlers "github.com/socovidiu/loc-solutions-backend/internal/handlers/v1alpha1"
	"github.com/socovidiu/loc-solutions-backend/internal/service"
	"github.com/socovidiu/loc-solutions-backend/internal/store"
	"github.com/socovidiu/loc-solutions-backend/internal/tms"
	"github.com/socovidiu/loc-solutions-backend/pkg/metrics"
	"github.com/socovidiu/loc-solutions-backend/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the locportal API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	tmsClient, err := tms.New(s.cfg)
	if err != nil {
		return err
	}

	jobService := service.NewJobService(s.store, tmsClient, service.NewQCService(), s.cfg)

	jobHandler := handlers.NewJobHandler(jobService)
	webhookHandler := handlers.NewWebhookHandler(jobService, s.cfg)
	healthHandler := handlers.NewHealthHandler(s.cfg)

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router := chi.NewRouter()
	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", healthHandler.Health)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/jobs", jobHandler.Routes)
		r.Post("/webhooks/tms", webhookHandler.HandleTmsWebhook)
	})

	srv := &http.Server{Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
