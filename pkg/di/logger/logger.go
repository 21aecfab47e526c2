package logger_di

import (
	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	myZap "github.com/lintang-b-s/geo-analysis/pkg/logger/zap"

	"go.uber.org/zap"
)

func New(cfg *config.Config) (*zap.Logger, func(), error) {
	err := cfg.Log.Validate()
	if err != nil {
		return nil, nil, err
	}

	log, err := myZap.New(cfg.Log)

	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = log.Sync()
	}

	return log, cleanup, nil
}
