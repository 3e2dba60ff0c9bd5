package farm_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	"github.com/cropwise/fieldadvisor/internal/domain/farm"
	"github.com/cropwise/fieldadvisor/internal/infra/farmrepo"
	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

type stubAdvisor struct {
	rec   advisor.Recommendation
	err   error
	calls int
	last  advisor.Request
}

func (s *stubAdvisor) Recommend(_ context.Context, req advisor.Request) (advisor.Recommendation, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return advisor.Recommendation{}, s.err
	}
	return s.rec, nil
}

func newTestFarmService(adv *stubAdvisor) farm.Service {
	return farm.NewService(farmrepo.NewMemoryRepository(), adv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func managerPrincipal() auth.Principal {
	return auth.NewPrincipal(1, []string{auth.RoleManager})
}

func viewerPrincipal(id int64) auth.Principal {
	return auth.NewPrincipal(id, []string{auth.RoleViewer})
}

func TestFarmCRUD(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()
	p := managerPrincipal()

	created, err := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "Hillside", Latitude: -37.8, Longitude: 144.9, AreaHectares: 12})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.OwnerID)

	got, err := svc.GetFarm(ctx, p, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)

	updated, err := svc.UpdateFarm(ctx, p, created.ID, farm.FarmInput{Name: "Hillside East", Latitude: -37.8, Longitude: 144.9, AreaHectares: 14})
	require.NoError(t, err)
	require.Equal(t, "Hillside East", updated.Name)

	farms, err := svc.ListFarms(ctx, p)
	require.NoError(t, err)
	require.Len(t, farms, 1)

	require.NoError(t, svc.DeleteFarm(ctx, auth.NewPrincipal(2, []string{auth.RoleAdmin}), created.ID))
	_, err = svc.GetFarm(ctx, p, created.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestFarmValidation(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()
	p := managerPrincipal()

	_, err := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "", Latitude: 0, Longitude: 0})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.CreateFarm(ctx, p, farm.FarmInput{Name: "X", Latitude: 120, Longitude: 0})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestFarmAuthorization(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()

	created, err := svc.CreateFarm(ctx, managerPrincipal(), farm.FarmInput{Name: "Hillside", Latitude: 0, Longitude: 0})
	require.NoError(t, err)

	// Viewers can read any farm but cannot create.
	_, err = svc.GetFarm(ctx, viewerPrincipal(7), created.ID)
	require.NoError(t, err)
	_, err = svc.CreateFarm(ctx, viewerPrincipal(7), farm.FarmInput{Name: "Other"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	// Managers cannot delete farms they do not own, admins can.
	require.True(t, apperrors.IsCode(svc.DeleteFarm(ctx, auth.NewPrincipal(2, []string{auth.RoleManager}), created.ID), apperrors.CodeForbidden))
	// The owner can, despite lacking the delete capability.
	ownerOnly := auth.NewPrincipal(1, nil)
	require.NoError(t, svc.DeleteFarm(ctx, ownerOnly, created.ID))
}

func TestListFarmsScopedToOwner(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()

	first := managerPrincipal()
	second := auth.NewPrincipal(2, []string{auth.RoleManager})

	_, err := svc.CreateFarm(ctx, first, farm.FarmInput{Name: "North Field"})
	require.NoError(t, err)
	_, err = svc.CreateFarm(ctx, second, farm.FarmInput{Name: "South Field"})
	require.NoError(t, err)

	// Managers hold farm.read_all and see every farm.
	farms, err := svc.ListFarms(ctx, first)
	require.NoError(t, err)
	require.Len(t, farms, 2)

	// Viewers and workers only see their own.
	farms, err = svc.ListFarms(ctx, viewerPrincipal(2))
	require.NoError(t, err)
	require.Len(t, farms, 1)
	require.Equal(t, "South Field", farms[0].Name)

	farms, err = svc.ListFarms(ctx, auth.NewPrincipal(3, []string{auth.RoleWorker}))
	require.NoError(t, err)
	require.Empty(t, farms)
}

func TestPlantAndSprayLifecycle(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()
	p := managerPrincipal()

	f, err := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "Hillside"})
	require.NoError(t, err)

	plant, err := svc.CreatePlant(ctx, p, f.ID, farm.PlantInput{Name: "Tomato", CareText: "warm soil, no frost"})
	require.NoError(t, err)

	_, err = svc.CreatePlant(ctx, p, f.ID, farm.PlantInput{Name: "Basil"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	plants, err := svc.ListPlants(ctx, p, f.ID)
	require.NoError(t, err)
	require.Len(t, plants, 1)

	spray, err := svc.CreateSpray(ctx, p, f.ID, farm.SprayInput{PlantID: &plant.ID, Product: "copper fungicide", DosePerHa: 1.5})
	require.NoError(t, err)
	require.False(t, spray.SprayedAt.IsZero())

	sprays, err := svc.ListSprays(ctx, p, f.ID)
	require.NoError(t, err)
	require.Len(t, sprays, 1)

	require.NoError(t, svc.DeleteSpray(ctx, p, f.ID, spray.ID))
	require.NoError(t, svc.DeletePlant(ctx, p, f.ID, plant.ID))
}

func TestRecommendPlantingAttachesAdvisory(t *testing.T) {
	adv := &stubAdvisor{rec: advisor.Recommendation{
		Advisory:        "Plant mid-month.\nOPTIMAL",
		Status:          advisor.StatusOptimal,
		StatusFromModel: true,
		GeneratedAt:     time.Now(),
	}}
	svc := newTestFarmService(adv)
	ctx := context.Background()
	p := managerPrincipal()

	f, err := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "Hillside", Latitude: -37.8, Longitude: 144.9})
	require.NoError(t, err)
	plant, err := svc.CreatePlant(ctx, p, f.ID, farm.PlantInput{Name: "Tomato", CareText: "warm soil"})
	require.NoError(t, err)
	record, err := svc.CreateWeatherRecord(ctx, p, f.ID, farm.WeatherInput{Temperature: 19, Humidity: 60, Pressure: 1012, WindSpeed: 3, Precipitation: 20})
	require.NoError(t, err)

	result, err := svc.RecommendPlanting(ctx, p, f.ID, record.ID, farm.RecommendInput{PlantID: plant.ID})
	require.NoError(t, err)
	require.Equal(t, advisor.StatusOptimal, result.Record.Status)
	require.Equal(t, "Plant mid-month.\nOPTIMAL", result.Record.Advisory)
	require.Equal(t, "Hillside", adv.last.Farm.Name)
	require.Equal(t, "Tomato", adv.last.Plant.Name)

	// The attachment is persisted.
	records, err := svc.ListWeatherRecords(ctx, p, f.ID)
	require.NoError(t, err)
	require.Equal(t, advisor.StatusOptimal, records[0].Status)
}

func TestRecommendPlantingFallbackStatus(t *testing.T) {
	adv := &stubAdvisor{rec: advisor.Recommendation{Advisory: "no classification", StatusFromModel: false}}
	svc := newTestFarmService(adv)
	ctx := context.Background()
	p := managerPrincipal()

	f, _ := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "Hillside"})
	plant, _ := svc.CreatePlant(ctx, p, f.ID, farm.PlantInput{Name: "Tomato", CareText: "x"})
	record, _ := svc.CreateWeatherRecord(ctx, p, f.ID, farm.WeatherInput{Humidity: 50})

	_, err := svc.RecommendPlanting(ctx, p, f.ID, record.ID, farm.RecommendInput{PlantID: plant.ID})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	result, err := svc.RecommendPlanting(ctx, p, f.ID, record.ID, farm.RecommendInput{PlantID: plant.ID, FallbackStatus: advisor.StatusAcceptable})
	require.NoError(t, err)
	require.Equal(t, advisor.StatusAcceptable, result.Record.Status)
}

func TestRecommendPlantingMissingTargets(t *testing.T) {
	svc := newTestFarmService(&stubAdvisor{})
	ctx := context.Background()
	p := managerPrincipal()

	f, _ := svc.CreateFarm(ctx, p, farm.FarmInput{Name: "Hillside"})
	record, _ := svc.CreateWeatherRecord(ctx, p, f.ID, farm.WeatherInput{Humidity: 50})

	_, err := svc.RecommendPlanting(ctx, p, f.ID, record.ID, farm.RecommendInput{PlantID: uuid.New()})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	plant, _ := svc.CreatePlant(ctx, p, f.ID, farm.PlantInput{Name: "Tomato", CareText: "x"})
	_, err = svc.RecommendPlanting(ctx, p, f.ID, uuid.New(), farm.RecommendInput{PlantID: plant.ID})
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}
