package diagnosis

import (
	"context"
	"time"
)

// Severity grades how far a detected disease has progressed.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Result is the structured diagnosis parsed from the model response. It is
// never persisted; it lives for one request/response cycle only.
type Result struct {
	HasDisease      bool     `json:"hasDisease"`
	DiseaseName     string   `json:"diseaseName,omitempty"`
	Severity        Severity `json:"severity,omitempty"`
	Confidence      float64  `json:"confidence"`
	Symptoms        []string `json:"symptoms"`
	AffectedAreas   []string `json:"affectedAreas"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes,omitempty"`
}

// Request carries one uploaded image and its optional plant-name hint.
type Request struct {
	Image     []byte
	MimeType  string
	PlantName string
	SessionID string
}

// Config wires runtime settings for the diagnosis domain.
type Config struct {
	Model          string
	Temperature    float32
	MaxTokens      int
	RequestTimeout time.Duration
	Prompt         string
	MaxImageBytes  int64
	DemoMode       bool
	DemoMaxBytes   int64
	DemoScanLimit  int
}

// ObjectStorage stages the uploaded image for the duration of one call.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
	Delete(ctx context.Context, key string) error
}

// QuotaStore counts demo-session scans. Increment returns the count after
// incrementing, creating the counter with ttl when absent.
type QuotaStore interface {
	Increment(ctx context.Context, sessionID string, ttl time.Duration) (int, error)
}
