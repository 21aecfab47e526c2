//go:build wireinject

//go:generate wire
package di

import (
	"github.com/lintang-b-s/geo-analysis/pkg/di/config"
	logger_di "github.com/lintang-b-s/geo-analysis/pkg/di/logger"
	analysisHttp "github.com/lintang-b-s/geo-analysis/pkg/http"
	"github.com/lintang-b-s/geo-analysis/pkg/http/usecases"

	"github.com/google/wire"
)

var defaultSet = wire.NewSet(
	config.New,
	logger_di.New,
	wire.FieldsOf(new(*config.Config), "Analysis"),
)

var analysisSet = wire.NewSet(
	defaultSet,
	usecases.New,
	analysisHttp.NewServer,
	NewApp,
)

func InitializeApp() (*App, func(), error) {

	panic(wire.Build(analysisSet))
}
