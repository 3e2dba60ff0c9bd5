package advisor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
	"github.com/cropwise/fieldadvisor/internal/infra/llm/chatgpt"
	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

const (
	defaultHorizonDays    = 40
	defaultRequestTimeout = 30 * time.Second
	defaultSystemPrompt   = "You are an expert agronomist advising small farms on planting decisions. Base every statement only on the provided care instructions and forecast."
)

// Service produces planting recommendations.
type Service interface {
	Recommend(ctx context.Context, req Request) (Recommendation, error)
}

// ChatClient abstracts the text-generation provider.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// WeatherClient abstracts the forecast provider.
type WeatherClient interface {
	FetchForecast(ctx context.Context, lat, lon float64) ([]forecast.RawSample, error)
}

type service struct {
	cfg      Config
	weather  WeatherClient
	chat     ChatClient
	extender *forecast.Extender
	logger   *slog.Logger
	timezone *time.Location
	now      func() time.Time
}

// NewService wires up the advisor domain.
func NewService(cfg Config, weather WeatherClient, chat ChatClient, extender *forecast.Extender, logger *slog.Logger) Service {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = defaultHorizonDays
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	return &service{
		cfg:      cfg,
		weather:  weather,
		chat:     chat,
		extender: extender,
		logger:   logger.With("component", "advisor.service"),
		timezone: time.UTC,
		now:      time.Now,
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	if strings.TrimSpace(req.Farm.Name) == "" {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "farm name cannot be empty", nil)
	}
	if strings.TrimSpace(req.Plant.Name) == "" {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "plant name cannot be empty", nil)
	}
	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.HorizonDays
	}

	samples, err := s.weather.FetchForecast(ctx, req.Farm.Latitude, req.Farm.Longitude)
	if err != nil {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeWeatherData, "weather data is unavailable right now", err)
	}
	window := forecast.Aggregate(samples, s.timezone)
	if len(window) == 0 {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeWeatherData, "no forecast samples for this location", nil)
	}
	window = s.extender.Extend(window, horizon)
	s.logger.Info("forecast window prepared", "observed", len(samples), "days", len(window))

	prompt := BuildPrompt(req.Farm, req.Plant, window)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	completion, err := s.chat.CreateChatCompletion(callCtx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []chatgpt.Message{chatgpt.TextMessage("system", s.cfg.SystemPrompt), chatgpt.TextMessage("user", prompt)},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeLLM, "recommendation is unavailable right now", err)
	}
	if len(completion.Choices) == 0 {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeLLM, "recommendation is unavailable right now", nil)
	}
	advisory := completion.Choices[0].Message.Content
	if strings.TrimSpace(advisory) == "" {
		return Recommendation{}, apperrors.Wrap(apperrors.CodeLLM, "recommendation is unavailable right now", nil)
	}

	status, fromModel := ParseStatus(advisory)
	s.logger.Info("advisory generated", "status", string(status), "status_from_model", fromModel)

	return Recommendation{
		Advisory:        advisory,
		Status:          status,
		StatusFromModel: fromModel,
		Window:          window,
		GeneratedAt:     s.now().UTC(),
	}, nil
}
