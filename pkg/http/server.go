package http

import (
	"context"

	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	http_router "github.com/lintang-b-s/geo-analysis/pkg/http/http-router"
	"github.com/lintang-b-s/geo-analysis/pkg/http/http-router/controllers"
	http_server "github.com/lintang-b-s/geo-analysis/pkg/http/server"

	"go.uber.org/zap"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use runs the API until ctx is cancelled.
func (s *Server) Use(
	ctx context.Context,
	cfg config.APIConfig,

	analysisService controllers.AnalysisService,

) error {
	serverConfig := http_server.Config{
		Port:    cfg.Port,
		Timeout: cfg.Timeout,
	}

	api := http_router.NewAPI(s.Log)

	return api.Run(ctx, serverConfig, analysisService)
}
