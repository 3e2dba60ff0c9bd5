package advisor

import (
	"time"

	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
)

// Status is the tri-state planting suitability classification.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusAcceptable Status = "ACCEPTABLE"
	StatusPoor       Status = "POOR"
)

// Valid reports whether s is one of the known classifications.
func (s Status) Valid() bool {
	switch s {
	case StatusOptimal, StatusAcceptable, StatusPoor:
		return true
	}
	return false
}

// FarmSite identifies the location a recommendation is produced for.
type FarmSite struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// PlantProfile carries the plant identity and free-form care instructions
// the model infers requirements from.
type PlantProfile struct {
	Name     string
	CareText string
}

// Request is a pure input value constructed per call.
type Request struct {
	Farm        FarmSite
	Plant       PlantProfile
	HorizonDays int
}

// Recommendation is the advisory produced by the pipeline. StatusFromModel
// records whether Status was parsed out of the generated text or left for
// the caller to supply.
type Recommendation struct {
	Advisory        string          `json:"advisory"`
	Status          Status          `json:"status,omitempty"`
	StatusFromModel bool            `json:"statusFromModel"`
	Window          forecast.Window `json:"window"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// Config wires runtime settings for the advisor domain.
type Config struct {
	Model          string
	Temperature    float32
	MaxTokens      int
	HorizonDays    int
	RequestTimeout time.Duration
	SystemPrompt   string
}
