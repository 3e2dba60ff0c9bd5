package farm

import (
	"time"

	"github.com/google/uuid"

	"github.com/cropwise/fieldadvisor/internal/domain/advisor"
)

// Farm is a registered growing site.
type Farm struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      int64     `json:"ownerId"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	AreaHectares float64   `json:"areaHectares"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Plant is a crop grown on a farm. CareText is the free-form instruction
// block the advisor prompt embeds verbatim.
type Plant struct {
	ID        uuid.UUID  `json:"id"`
	FarmID    uuid.UUID  `json:"farmId"`
	Name      string     `json:"name"`
	Species   string     `json:"species,omitempty"`
	CareText  string     `json:"careText"`
	PlantedAt *time.Time `json:"plantedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// SprayRecord logs one pesticide application.
type SprayRecord struct {
	ID        uuid.UUID  `json:"id"`
	FarmID    uuid.UUID  `json:"farmId"`
	PlantID   *uuid.UUID `json:"plantId,omitempty"`
	Product   string     `json:"product"`
	DosePerHa float64    `json:"dosePerHa"`
	SprayedAt time.Time  `json:"sprayedAt"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// WeatherRecord is a stored observation for a farm. A planting advisory and
// its status are attached to it by the recommendation pipeline; both may be
// replaced via explicit update but are never mutated otherwise.
type WeatherRecord struct {
	ID            uuid.UUID      `json:"id"`
	FarmID        uuid.UUID      `json:"farmId"`
	RecordedAt    time.Time      `json:"recordedAt"`
	Temperature   float64        `json:"temperature"`
	Humidity      float64        `json:"humidity"`
	Pressure      float64        `json:"pressure"`
	WindSpeed     float64        `json:"windSpeed"`
	Precipitation int            `json:"precipitation"`
	Advisory      string         `json:"advisory,omitempty"`
	Status        advisor.Status `json:"status,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
