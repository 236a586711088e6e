//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/opening-hours/internal/bootstrap"
	"github.com/yanqian/opening-hours/internal/domain/hours"
	"github.com/yanqian/opening-hours/internal/infra/config"
	httpiface "github.com/yanqian/opening-hours/internal/interface/http"
	"github.com/yanqian/opening-hours/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideHoursConfig,
		provideLocationRepository,
		provideStatusCache,
		hours.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
