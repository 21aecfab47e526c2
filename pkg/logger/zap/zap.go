package zap

import (
	"os"

	"github.com/lintang-b-s/geo-analysis/pkg/logger/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a json logger writing to stderr.
func New(cfg config.Configuration) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(zapcore.Level(cfg.Level)),
	)

	return zap.New(core, zap.AddCaller()), nil
}
