package di

import (
	"context"

	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	analysisHttp "github.com/lintang-b-s/geo-analysis/pkg/http"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// App is the wired analysis server.
type App struct {
	Log     *zap.Logger
	Config  *config.Config
	Service *usecases.AnalysisService
	Server  *analysisHttp.Server
}

func NewApp(log *zap.Logger, cfg *config.Config, service *usecases.AnalysisService,
	server *analysisHttp.Server) *App {
	return &App{
		Log:     log,
		Config:  cfg,
		Service: service,
		Server:  server,
	}
}

// Run serves the API until ctx is cancelled. edits to config.yaml update the analysis defaults live.
func (a *App) Run(ctx context.Context) error {
	watching := config.Watch(func(cfg config.AnalysisConfig, e fsnotify.Event) {
		a.Service.SetConfig(cfg)
		a.Log.Info("analysis config reloaded", zap.String("file", e.Name),
			zap.Float64("grid_size_km", cfg.GridSizeKm),
			zap.Float64("proximity_km", cfg.ProximityKm),
			zap.Int("time_threshold_days", cfg.TimeThresholdDays))
	}, func(err error) {
		a.Log.Warn("config reload rejected", zap.Error(err))
	})
	if watching {
		a.Log.Info("watching config file for changes")
	}

	return a.Server.Use(ctx, a.Config.API, a.Service)
}
