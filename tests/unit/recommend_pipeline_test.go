package unit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
	"github.com/cropwise/fieldadvisor/internal/infra/farmrepo"
	"github.com/cropwise/fieldadvisor/internal/infra/llm/chatgpt"
)

// Exercises the full attach flow: real farm and advisor services over the
// memory repository, with only the provider edges stubbed.
func TestRecommendationPipelinePersistsStatus(t *testing.T) {
	weather := &stubWeather{samples: sampleForecast(5)}
	chat := &stubChat{reply: "Soil is warm and rain is light.\nOPTIMAL"}

	advisorSvc := advisor.NewService(advisor.Config{HorizonDays: 12}, weather, chat, forecast.NewExtender(nil), testLogger())
	repo := farmrepo.NewMemoryRepository()
	farmSvc := farm.NewService(repo, advisorSvc, testLogger())

	owner := auth.NewPrincipal(1, []string{auth.RoleManager})
	ctx := context.Background()

	f, err := farmSvc.CreateFarm(ctx, owner, farm.FarmInput{Name: "North Field", Latitude: 46.1, Longitude: 14.8, AreaHectares: 2.5})
	require.NoError(t, err)
	plant, err := farmSvc.CreatePlant(ctx, owner, f.ID, farm.PlantInput{Name: "Tomato", Species: "Solanum lycopersicum", CareText: "Needs warm soil."})
	require.NoError(t, err)
	record, err := farmSvc.CreateWeatherRecord(ctx, owner, f.ID, farm.WeatherInput{RecordedAt: time.Now().UTC(), Temperature: 19, Humidity: 60, Pressure: 1012, WindSpeed: 1.2, Precipitation: 10})
	require.NoError(t, err)

	result, err := farmSvc.RecommendPlanting(ctx, owner, f.ID, record.ID, farm.RecommendInput{PlantID: plant.ID})
	require.NoError(t, err)
	require.Equal(t, advisor.StatusOptimal, result.Record.Status)
	require.Contains(t, result.Record.Advisory, "Soil is warm")
	require.True(t, result.Recommendation.StatusFromModel)

	stored, err := farmSvc.ListWeatherRecords(ctx, owner, f.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, advisor.StatusOptimal, stored[0].Status)
}

func TestRecommendationPipelineViewerForbidden(t *testing.T) {
	weather := &stubWeather{samples: sampleForecast(5)}
	chat := &stubChat{reply: "ACCEPTABLE"}

	advisorSvc := advisor.NewService(advisor.Config{}, weather, chat, forecast.NewExtender(nil), testLogger())
	repo := farmrepo.NewMemoryRepository()
	farmSvc := farm.NewService(repo, advisorSvc, testLogger())

	owner := auth.NewPrincipal(1, []string{auth.RoleManager})
	viewer := auth.NewPrincipal(2, []string{auth.RoleViewer})
	ctx := context.Background()

	f, err := farmSvc.CreateFarm(ctx, owner, farm.FarmInput{Name: "South Field", Latitude: 45.0, Longitude: 15.0, AreaHectares: 1})
	require.NoError(t, err)
	plant, err := farmSvc.CreatePlant(ctx, owner, f.ID, farm.PlantInput{Name: "Basil", Species: "Ocimum basilicum", CareText: "Pinch flower buds early."})
	require.NoError(t, err)
	record, err := farmSvc.CreateWeatherRecord(ctx, owner, f.ID, farm.WeatherInput{RecordedAt: time.Now().UTC(), Temperature: 20, Humidity: 55, Pressure: 1010, WindSpeed: 1, Precipitation: 5})
	require.NoError(t, err)

	_, err = farmSvc.RecommendPlanting(ctx, viewer, f.ID, record.ID, farm.RecommendInput{PlantID: plant.ID})
	require.Error(t, err)
	require.Equal(t, 0, chat.calls)
}

func sampleForecast(days int) []forecast.RawSample {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]forecast.RawSample, 0, days*2)
	for d := 0; d < days; d++ {
		for _, hour := range []int{9, 15} {
			out = append(out, forecast.RawSample{
				Timestamp:     base.AddDate(0, 0, d).Add(time.Duration(hour) * time.Hour),
				Temperature:   20,
				Humidity:      60,
				Pressure:      1012,
				WindSpeed:     1.5,
				Precipitation: 10,
			})
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubWeather struct {
	samples []forecast.RawSample
}

func (s *stubWeather) FetchForecast(ctx context.Context, lat, lon float64) ([]forecast.RawSample, error) {
	return s.samples, nil
}

type stubChat struct {
	reply string
	calls int
}

func (s *stubChat) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.ResponseMessage{Role: "assistant", Content: s.reply}}},
	}, nil
}
