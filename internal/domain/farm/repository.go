package farm

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists farms and their child records. Implementations must
// scope child lookups to the given farm.
type Repository interface {
	CreateFarm(ctx context.Context, f Farm) error
	GetFarm(ctx context.Context, id uuid.UUID) (Farm, bool, error)
	ListFarms(ctx context.Context, ownerID int64) ([]Farm, error)
	UpdateFarm(ctx context.Context, f Farm) error
	DeleteFarm(ctx context.Context, id uuid.UUID) error

	CreatePlant(ctx context.Context, p Plant) error
	GetPlant(ctx context.Context, farmID, id uuid.UUID) (Plant, bool, error)
	ListPlants(ctx context.Context, farmID uuid.UUID) ([]Plant, error)
	UpdatePlant(ctx context.Context, p Plant) error
	DeletePlant(ctx context.Context, farmID, id uuid.UUID) error

	CreateSpray(ctx context.Context, s SprayRecord) error
	ListSprays(ctx context.Context, farmID uuid.UUID) ([]SprayRecord, error)
	DeleteSpray(ctx context.Context, farmID, id uuid.UUID) error

	CreateWeatherRecord(ctx context.Context, w WeatherRecord) error
	GetWeatherRecord(ctx context.Context, farmID, id uuid.UUID) (WeatherRecord, bool, error)
	ListWeatherRecords(ctx context.Context, farmID uuid.UUID) ([]WeatherRecord, error)
	UpdateWeatherRecord(ctx context.Context, w WeatherRecord) error
	DeleteWeatherRecord(ctx context.Context, farmID, id uuid.UUID) error
}
