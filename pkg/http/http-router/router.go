package http_router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lintang-b-s/geo-analysis/pkg/http/http-router/controllers"
	router_helper "github.com/lintang-b-s/geo-analysis/pkg/http/http-router/router-helper"
	http_server "github.com/lintang-b-s/geo-analysis/pkg/http/server"
	"github.com/lintang-b-s/geo-analysis/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type API struct {
	log *zap.Logger
}

func NewAPI(log *zap.Logger) *API {
	return &API{log: log}
}

// Handler builds the router with the full middleware chain.
func (api *API) Handler(analysisService controllers.AnalysisService) http.Handler {
	router := httprouter.New()

	corsHandler := cors.New(cors.Options{ //nolint:gocritic // ignore
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300, //nolint:mnd // ignore
	})

	group := router_helper.NewRouteGroup(router, "/api")

	analysisRoutes := controllers.New(analysisService, api.log)

	analysisRoutes.Routes(group)

	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	// Logger sits outside recoverPanic so a recovered panic is still logged and counted as a 500.
	return alice.New(corsHandler.Handler, RequestID, RealIP, Logger(api.log), api.recoverPanic,
		EnforceJSONHandler, Heartbeat("healthz"), Labels).Then(router)
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (api *API) Run(
	ctx context.Context,
	config http_server.Config,
	analysisService controllers.AnalysisService,
) error {
	api.log.Info("Run httprouter API")

	srv := http_server.New(ctx, api.Handler(analysisService), config)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		api.log.Info(fmt.Sprintf("API run on port %d", config.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		api.log.Info("shutting down API")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
