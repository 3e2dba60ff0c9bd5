//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cropwise/fieldadvisor/internal/bootstrap"
	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
	"github.com/cropwise/fieldadvisor/internal/infra/config"
	"github.com/cropwise/fieldadvisor/internal/infra/llm/chatgpt"
	"github.com/cropwise/fieldadvisor/internal/infra/weather/openweather"
	httpiface "github.com/cropwise/fieldadvisor/internal/interface/http"
	"github.com/cropwise/fieldadvisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAdvisorConfig,
		provideDiagnosisConfig,
		provideAuthConfig,
		provideChatGPTClient,
		provideWeatherClient,
		provideExtender,
		providePostgresPool,
		provideFarmRepository,
		provideUserRepository,
		provideStaging,
		provideQuotaStore,
		advisor.NewService,
		diagnosis.NewService,
		auth.NewService,
		farm.NewService,
		wire.Bind(new(advisor.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(advisor.WeatherClient), new(*openweather.Client)),
		wire.Bind(new(diagnosis.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
