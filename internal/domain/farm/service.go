package farm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
	"github.com/cropwise/fieldadvisor/internal/domain/auth"
	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
	"github.com/cropwise/fieldadvisor/pkg/util"
)

// FarmInput carries caller-supplied farm fields.
type FarmInput struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AreaHectares float64 `json:"areaHectares"`
}

// PlantInput carries caller-supplied plant fields.
type PlantInput struct {
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	CareText  string     `json:"careText"`
	PlantedAt *time.Time `json:"plantedAt"`
}

// SprayInput carries caller-supplied spray-record fields.
type SprayInput struct {
	PlantID   *uuid.UUID `json:"plantId"`
	Product   string     `json:"product"`
	DosePerHa float64    `json:"dosePerHa"`
	SprayedAt time.Time  `json:"sprayedAt"`
	Notes     string     `json:"notes"`
}

// WeatherInput carries caller-supplied weather observation fields.
type WeatherInput struct {
	RecordedAt    time.Time `json:"recordedAt"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"windSpeed"`
	Precipitation int       `json:"precipitation"`
}

// RecommendInput selects the plant and horizon for a planting
// recommendation. FallbackStatus is persisted when the model text contains
// no classification.
type RecommendInput struct {
	PlantID        uuid.UUID      `json:"plantId"`
	HorizonDays    int            `json:"horizonDays"`
	FallbackStatus advisor.Status `json:"fallbackStatus"`
}

// RecommendResult pairs the updated record with the full pipeline output.
type RecommendResult struct {
	Record         WeatherRecord          `json:"record"`
	Recommendation advisor.Recommendation `json:"recommendation"`
}

// Service exposes the farm-management workflows.
type Service interface {
	CreateFarm(ctx context.Context, p auth.Principal, in FarmInput) (Farm, error)
	GetFarm(ctx context.Context, p auth.Principal, id uuid.UUID) (Farm, error)
	ListFarms(ctx context.Context, p auth.Principal) ([]Farm, error)
	UpdateFarm(ctx context.Context, p auth.Principal, id uuid.UUID, in FarmInput) (Farm, error)
	DeleteFarm(ctx context.Context, p auth.Principal, id uuid.UUID) error

	CreatePlant(ctx context.Context, p auth.Principal, farmID uuid.UUID, in PlantInput) (Plant, error)
	ListPlants(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]Plant, error)
	UpdatePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID, in PlantInput) (Plant, error)
	DeletePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID) error

	CreateSpray(ctx context.Context, p auth.Principal, farmID uuid.UUID, in SprayInput) (SprayRecord, error)
	ListSprays(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]SprayRecord, error)
	DeleteSpray(ctx context.Context, p auth.Principal, farmID, sprayID uuid.UUID) error

	CreateWeatherRecord(ctx context.Context, p auth.Principal, farmID uuid.UUID, in WeatherInput) (WeatherRecord, error)
	ListWeatherRecords(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]WeatherRecord, error)
	DeleteWeatherRecord(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID) error

	RecommendPlanting(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID, in RecommendInput) (RecommendResult, error)
}

type service struct {
	repo    Repository
	advisor advisor.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the farm domain.
func NewService(repo Repository, advisorSvc advisor.Service, logger *slog.Logger) Service {
	return &service{
		repo:    repo,
		advisor: advisorSvc,
		logger:  logger.With("component", "farm.service"),
		now:     util.NowUTC,
	}
}

func (s *service) CreateFarm(ctx context.Context, p auth.Principal, in FarmInput) (Farm, error) {
	if !auth.Authorize(p, auth.ActionFarmWrite, nil) {
		return Farm{}, forbidden()
	}
	if err := validateFarmInput(in); err != nil {
		return Farm{}, err
	}
	now := s.now()
	f := Farm{
		ID:           uuid.New(),
		OwnerID:      p.UserID,
		Name:         strings.TrimSpace(in.Name),
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		AreaHectares: in.AreaHectares,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateFarm(ctx, f); err != nil {
		return Farm{}, storageErr("failed to persist farm", err)
	}
	return f, nil
}

func (s *service) GetFarm(ctx context.Context, p auth.Principal, id uuid.UUID) (Farm, error) {
	return s.loadFarm(ctx, p, id, auth.ActionFarmRead)
}

// ListFarms returns the principal's own farms; admins and managers, who
// hold farm.read_all, see every farm.
func (s *service) ListFarms(ctx context.Context, p auth.Principal) ([]Farm, error) {
	ownerID := p.UserID
	if auth.Authorize(p, auth.ActionFarmReadAll, nil) {
		ownerID = 0
	}
	farms, err := s.repo.ListFarms(ctx, ownerID)
	if err != nil {
		return nil, storageErr("failed to list farms", err)
	}
	return farms, nil
}

func (s *service) UpdateFarm(ctx context.Context, p auth.Principal, id uuid.UUID, in FarmInput) (Farm, error) {
	f, err := s.loadFarm(ctx, p, id, auth.ActionFarmWrite)
	if err != nil {
		return Farm{}, err
	}
	if err := validateFarmInput(in); err != nil {
		return Farm{}, err
	}
	f.Name = strings.TrimSpace(in.Name)
	f.Latitude = in.Latitude
	f.Longitude = in.Longitude
	f.AreaHectares = in.AreaHectares
	f.UpdatedAt = s.now()
	if err := s.repo.UpdateFarm(ctx, f); err != nil {
		return Farm{}, storageErr("failed to update farm", err)
	}
	return f, nil
}

func (s *service) DeleteFarm(ctx context.Context, p auth.Principal, id uuid.UUID) error {
	if _, err := s.loadFarm(ctx, p, id, auth.ActionFarmDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteFarm(ctx, id); err != nil {
		return storageErr("failed to delete farm", err)
	}
	return nil
}

func (s *service) CreatePlant(ctx context.Context, p auth.Principal, farmID uuid.UUID, in PlantInput) (Plant, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionPlantWrite); err != nil {
		return Plant{}, err
	}
	if err := validatePlantInput(in); err != nil {
		return Plant{}, err
	}
	now := s.now()
	plant := Plant{
		ID:        uuid.New(),
		FarmID:    farmID,
		Name:      strings.TrimSpace(in.Name),
		Species:   strings.TrimSpace(in.Species),
		CareText:  strings.TrimSpace(in.CareText),
		PlantedAt: in.PlantedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreatePlant(ctx, plant); err != nil {
		return Plant{}, storageErr("failed to persist plant", err)
	}
	return plant, nil
}

func (s *service) ListPlants(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]Plant, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionFarmRead); err != nil {
		return nil, err
	}
	plants, err := s.repo.ListPlants(ctx, farmID)
	if err != nil {
		return nil, storageErr("failed to list plants", err)
	}
	return plants, nil
}

func (s *service) UpdatePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID, in PlantInput) (Plant, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionPlantWrite); err != nil {
		return Plant{}, err
	}
	if err := validatePlantInput(in); err != nil {
		return Plant{}, err
	}
	plant, found, err := s.repo.GetPlant(ctx, farmID, plantID)
	if err != nil {
		return Plant{}, storageErr("failed to fetch plant", err)
	}
	if !found {
		return Plant{}, notFound("plant not found")
	}
	plant.Name = strings.TrimSpace(in.Name)
	plant.Species = strings.TrimSpace(in.Species)
	plant.CareText = strings.TrimSpace(in.CareText)
	plant.PlantedAt = in.PlantedAt
	plant.UpdatedAt = s.now()
	if err := s.repo.UpdatePlant(ctx, plant); err != nil {
		return Plant{}, storageErr("failed to update plant", err)
	}
	return plant, nil
}

func (s *service) DeletePlant(ctx context.Context, p auth.Principal, farmID, plantID uuid.UUID) error {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionPlantWrite); err != nil {
		return err
	}
	if err := s.repo.DeletePlant(ctx, farmID, plantID); err != nil {
		return storageErr("failed to delete plant", err)
	}
	return nil
}

func (s *service) CreateSpray(ctx context.Context, p auth.Principal, farmID uuid.UUID, in SprayInput) (SprayRecord, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionSprayWrite); err != nil {
		return SprayRecord{}, err
	}
	if strings.TrimSpace(in.Product) == "" {
		return SprayRecord{}, invalidInput("product cannot be empty")
	}
	if in.DosePerHa <= 0 {
		return SprayRecord{}, invalidInput("dosePerHa must be positive")
	}
	sprayedAt := in.SprayedAt
	if sprayedAt.IsZero() {
		sprayedAt = s.now()
	}
	record := SprayRecord{
		ID:        uuid.New(),
		FarmID:    farmID,
		PlantID:   in.PlantID,
		Product:   strings.TrimSpace(in.Product),
		DosePerHa: in.DosePerHa,
		SprayedAt: sprayedAt,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateSpray(ctx, record); err != nil {
		return SprayRecord{}, storageErr("failed to persist spray record", err)
	}
	return record, nil
}

func (s *service) ListSprays(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]SprayRecord, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionFarmRead); err != nil {
		return nil, err
	}
	records, err := s.repo.ListSprays(ctx, farmID)
	if err != nil {
		return nil, storageErr("failed to list spray records", err)
	}
	return records, nil
}

func (s *service) DeleteSpray(ctx context.Context, p auth.Principal, farmID, sprayID uuid.UUID) error {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionSprayWrite); err != nil {
		return err
	}
	if err := s.repo.DeleteSpray(ctx, farmID, sprayID); err != nil {
		return storageErr("failed to delete spray record", err)
	}
	return nil
}

func (s *service) CreateWeatherRecord(ctx context.Context, p auth.Principal, farmID uuid.UUID, in WeatherInput) (WeatherRecord, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionWeatherWrite); err != nil {
		return WeatherRecord{}, err
	}
	if in.Humidity < 0 || in.Humidity > 100 {
		return WeatherRecord{}, invalidInput("humidity must be between 0 and 100")
	}
	if in.Precipitation < 0 || in.Precipitation > 100 {
		return WeatherRecord{}, invalidInput("precipitation must be between 0 and 100")
	}
	recordedAt := in.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}
	now := s.now()
	record := WeatherRecord{
		ID:            uuid.New(),
		FarmID:        farmID,
		RecordedAt:    recordedAt,
		Temperature:   in.Temperature,
		Humidity:      in.Humidity,
		Pressure:      in.Pressure,
		WindSpeed:     in.WindSpeed,
		Precipitation: in.Precipitation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateWeatherRecord(ctx, record); err != nil {
		return WeatherRecord{}, storageErr("failed to persist weather record", err)
	}
	return record, nil
}

func (s *service) ListWeatherRecords(ctx context.Context, p auth.Principal, farmID uuid.UUID) ([]WeatherRecord, error) {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionFarmRead); err != nil {
		return nil, err
	}
	records, err := s.repo.ListWeatherRecords(ctx, farmID)
	if err != nil {
		return nil, storageErr("failed to list weather records", err)
	}
	return records, nil
}

func (s *service) DeleteWeatherRecord(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID) error {
	if _, err := s.loadFarm(ctx, p, farmID, auth.ActionWeatherWrite); err != nil {
		return err
	}
	if err := s.repo.DeleteWeatherRecord(ctx, farmID, recordID); err != nil {
		return storageErr("failed to delete weather record", err)
	}
	return nil
}

// RecommendPlanting runs the full pipeline for one farm/plant pair and
// attaches the advisory to the chosen weather record. The parsed
// classification wins; the caller's fallback status is used when the model
// text contains none.
func (s *service) RecommendPlanting(ctx context.Context, p auth.Principal, farmID, recordID uuid.UUID, in RecommendInput) (RecommendResult, error) {
	f, err := s.loadFarm(ctx, p, farmID, auth.ActionRecommendationRun)
	if err != nil {
		return RecommendResult{}, err
	}
	plant, found, err := s.repo.GetPlant(ctx, farmID, in.PlantID)
	if err != nil {
		return RecommendResult{}, storageErr("failed to fetch plant", err)
	}
	if !found {
		return RecommendResult{}, notFound("plant not found")
	}
	record, found, err := s.repo.GetWeatherRecord(ctx, farmID, recordID)
	if err != nil {
		return RecommendResult{}, storageErr("failed to fetch weather record", err)
	}
	if !found {
		return RecommendResult{}, notFound("weather record not found")
	}

	rec, err := s.advisor.Recommend(ctx, advisor.Request{
		Farm:        advisor.FarmSite{Name: f.Name, Latitude: f.Latitude, Longitude: f.Longitude},
		Plant:       advisor.PlantProfile{Name: plant.Name, CareText: plant.CareText},
		HorizonDays: in.HorizonDays,
	})
	if err != nil {
		return RecommendResult{}, err
	}

	status := rec.Status
	if !rec.StatusFromModel {
		if !in.FallbackStatus.Valid() {
			return RecommendResult{}, invalidInput("model gave no classification and fallbackStatus is missing or invalid")
		}
		status = in.FallbackStatus
	}

	record.Advisory = rec.Advisory
	record.Status = status
	record.UpdatedAt = s.now()
	if err := s.repo.UpdateWeatherRecord(ctx, record); err != nil {
		return RecommendResult{}, storageErr("failed to attach recommendation", err)
	}
	s.logger.Info("recommendation attached", "farm_id", farmID, "record_id", recordID, "status", string(status))

	rec.Status = status
	return RecommendResult{Record: record, Recommendation: rec}, nil
}

func (s *service) loadFarm(ctx context.Context, p auth.Principal, id uuid.UUID, action auth.Action) (Farm, error) {
	f, found, err := s.repo.GetFarm(ctx, id)
	if err != nil {
		return Farm{}, storageErr("failed to fetch farm", err)
	}
	if !found {
		return Farm{}, notFound("farm not found")
	}
	if !auth.Authorize(p, action, &auth.ResourceRef{Type: "farm", OwnerID: f.OwnerID}) {
		return Farm{}, forbidden()
	}
	return f, nil
}

func validateFarmInput(in FarmInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name cannot be empty")
	}
	if in.Latitude < -90 || in.Latitude > 90 {
		return invalidInput("latitude must be between -90 and 90")
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return invalidInput("longitude must be between -180 and 180")
	}
	if in.AreaHectares < 0 {
		return invalidInput("areaHectares cannot be negative")
	}
	return nil
}

func validatePlantInput(in PlantInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalidInput("name cannot be empty")
	}
	if strings.TrimSpace(in.CareText) == "" {
		return invalidInput("careText cannot be empty")
	}
	return nil
}

func invalidInput(msg string) error {
	return apperrors.Wrap(apperrors.CodeInvalidInput, msg, nil)
}

func notFound(msg string) error {
	return apperrors.Wrap(apperrors.CodeNotFound, msg, nil)
}

func forbidden() error {
	return apperrors.Wrap(apperrors.CodeForbidden, "you do not have access to this resource", nil)
}

func storageErr(msg string, err error) error {
	return apperrors.Wrap(apperrors.CodeStorage, msg, err)
}
