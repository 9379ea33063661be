//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"search-analysis/app"
	"search-analysis/config"
)

func InitApp(cfg *config.Config) (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
