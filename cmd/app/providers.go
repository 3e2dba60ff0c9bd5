package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/diagnosis"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
	"github.com/cropwise/fieldadvisor/internal/infra/config"
	"github.com/cropwise/fieldadvisor/internal/infra/farmrepo"
	"github.com/cropwise/fieldadvisor/internal/infra/llm/chatgpt"
	"github.com/cropwise/fieldadvisor/internal/infra/quota"
	"github.com/cropwise/fieldadvisor/internal/infra/staging"
	"github.com/cropwise/fieldadvisor/internal/infra/userrepo"
	"github.com/cropwise/fieldadvisor/internal/infra/weather/openweather"
)

func provideAdvisorConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		HorizonDays:    cfg.Advisor.HorizonDays,
		RequestTimeout: cfg.Advisor.RequestTimeout,
		SystemPrompt:   cfg.Advisor.SystemPrompt,
	}
}

func provideDiagnosisConfig(cfg *config.Config) diagnosis.Config {
	model := cfg.LLM.VisionModel
	if model == "" {
		model = cfg.LLM.Model
	}
	return diagnosis.Config{
		Model:          model,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		RequestTimeout: cfg.Diagnosis.RequestTimeout,
		Prompt:         cfg.Diagnosis.Prompt,
		MaxImageBytes:  cfg.Diagnosis.MaxImageBytes,
		DemoMode:       cfg.Diagnosis.DemoMode,
		DemoMaxBytes:   cfg.Diagnosis.DemoMaxBytes,
		DemoScanLimit:  cfg.Diagnosis.DemoScanLimit,
	}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:          cfg.Auth.Secret,
		TokenTTL:        cfg.Auth.TokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideWeatherClient(cfg *config.Config) (*openweather.Client, error) {
	return openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.SampleCount)
}

func provideExtender() *forecast.Extender {
	return forecast.NewExtender(nil)
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideFarmRepository(pool *pgxpool.Pool) farm.Repository {
	if pool == nil {
		return farmrepo.NewMemoryRepository()
	}
	return farmrepo.NewPostgresRepository(pool)
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideStaging(cfg *config.Config, logger *slog.Logger) (diagnosis.ObjectStorage, error) {
	if strings.TrimSpace(cfg.Staging.Endpoint) == "" {
		logger.Info("staging endpoint not set, using memory staging")
		return staging.NewMemoryStorage(), nil
	}
	return staging.NewMinioStorage(
		cfg.Staging.Endpoint,
		cfg.Staging.AccessKey,
		cfg.Staging.SecretKey,
		cfg.Staging.Bucket,
		cfg.Staging.Region,
		logger,
	)
}

func provideQuotaStore(cfg *config.Config, logger *slog.Logger) diagnosis.QuotaStore {
	if cfg.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory quota store", "error", err)
			return quota.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory quota store", "error", err)
			return quota.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory quota store", "error", err)
		} else {
			logger.Info("valkey quota store enabled", "addr", cfg.Valkey.Addr)
			return quota.NewValkeyStore(client, "diagquota")
		}
	}
	return quota.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
