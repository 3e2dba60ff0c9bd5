package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cropwise/fieldadvisor/internal/infra/llm/chatgpt"
	apperrors "github.com/cropwise/fieldadvisor/pkg/errors"
)

const (
	defaultMaxImageBytes  = 10 << 20
	defaultDemoMaxBytes   = 5 << 20
	defaultDemoScanLimit  = 3
	defaultRequestTimeout = 30 * time.Second
	demoQuotaTTL          = 24 * time.Hour

	defaultPrompt = "You are a plant pathologist. Examine the photo for disease. Respond ONLY with valid minified JSON using this shape: {\"hasDisease\":bool,\"diseaseName\":string,\"severity\":\"mild\"|\"moderate\"|\"severe\"|null,\"confidence\":number between 0 and 1,\"symptoms\":string[],\"affectedAreas\":string[],\"recommendations\":string[],\"notes\":string}. Never return plain text or extra fields."
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ChatClient abstracts the multimodal text-generation provider.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Service analyzes plant photos for disease.
type Service interface {
	Diagnose(ctx context.Context, req Request) (Result, error)
}

type service struct {
	cfg     Config
	chat    ChatClient
	staging ObjectStorage
	quota   QuotaStore
	logger  *slog.Logger
}

// NewService wires up the diagnosis domain.
func NewService(cfg Config, chat ChatClient, staging ObjectStorage, quota QuotaStore, logger *slog.Logger) Service {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = defaultMaxImageBytes
	}
	if cfg.DemoMaxBytes <= 0 {
		cfg.DemoMaxBytes = defaultDemoMaxBytes
	}
	if cfg.DemoScanLimit <= 0 {
		cfg.DemoScanLimit = defaultDemoScanLimit
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(cfg.Prompt) == "" {
		cfg.Prompt = defaultPrompt
	}
	return &service{
		cfg:     cfg,
		chat:    chat,
		staging: staging,
		quota:   quota,
		logger:  logger.With("component", "diagnosis.service"),
	}
}

// Diagnose validates the payload, stages it, asks the vision model and
// parses the structured result. The staged copy is removed on every exit
// path, including failures.
func (s *service) Diagnose(ctx context.Context, req Request) (Result, error) {
	mimeType, err := s.validate(req)
	if err != nil {
		return Result{}, err
	}

	if s.cfg.DemoMode {
		if err := s.checkQuota(ctx, req.SessionID); err != nil {
			return Result{}, err
		}
	}

	key := "diagnosis/" + uuid.New().String()
	if err := s.staging.Put(ctx, key, req.Image, mimeType); err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeStorage, "diagnosis is unavailable right now", err)
	}
	defer func() {
		// Cleanup must survive a canceled or timed-out request context.
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.staging.Delete(cleanupCtx, key); err != nil {
			s.logger.Warn("failed to release staged image", "key", key, "error", err)
		}
	}()

	prompt := s.cfg.Prompt
	if hint := strings.TrimSpace(req.PlantName); hint != "" {
		prompt += fmt.Sprintf(" The plant is believed to be: %s.", hint)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	completion, err := s.chat.CreateChatCompletion(callCtx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []chatgpt.Message{chatgpt.VisionMessage("user", prompt, mimeType, req.Image)},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "diagnosis is unavailable right now", err)
	}
	if len(completion.Choices) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "diagnosis is unavailable right now", nil)
	}

	result, err := parseResult(completion.Choices[0].Message.Content)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeLLM, "diagnosis is unavailable right now", err)
	}
	s.logger.Info("diagnosis complete", "has_disease", result.HasDisease, "confidence", result.Confidence)
	return result, nil
}

func (s *service) validate(req Request) (string, error) {
	if len(req.Image) == 0 {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "image payload cannot be empty", nil)
	}
	limit := s.cfg.MaxImageBytes
	if s.cfg.DemoMode {
		limit = s.cfg.DemoMaxBytes
	}
	if int64(len(req.Image)) > limit {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "image exceeds maximum allowed size", nil)
	}
	// Sniff the real content type; the declared MIME header is not trusted.
	detected := req.MimeType
	if idx := strings.Index(detected, ";"); idx >= 0 {
		detected = detected[:idx]
	}
	sniffed := http.DetectContentType(req.Image)
	if idx := strings.Index(sniffed, ";"); idx >= 0 {
		sniffed = sniffed[:idx]
	}
	if _, ok := allowedImageTypes[sniffed]; !ok {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported image format", nil)
	}
	if detected != "" && detected != sniffed {
		if _, ok := allowedImageTypes[detected]; !ok {
			return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported image format", nil)
		}
	}
	return sniffed, nil
}

func (s *service) checkQuota(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "demo session id is required", nil)
	}
	count, err := s.quota.Increment(ctx, sessionID, demoQuotaTTL)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "diagnosis is unavailable right now", err)
	}
	if count > s.cfg.DemoScanLimit {
		return apperrors.Wrap(apperrors.CodeQuotaExceeded, "demo scan limit reached", nil)
	}
	return nil
}

type resultWire struct {
	HasDisease      *bool    `json:"hasDisease"`
	DiseaseName     string   `json:"diseaseName"`
	Severity        *string  `json:"severity"`
	Confidence      *float64 `json:"confidence"`
	Symptoms        []string `json:"symptoms"`
	AffectedAreas   []string `json:"affectedAreas"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes"`
}

func parseResult(raw string) (Result, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))

	var wire resultWire
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return Result{}, err
	}
	if wire.HasDisease == nil {
		return Result{}, errors.New("hasDisease missing")
	}
	if wire.Confidence == nil {
		return Result{}, errors.New("confidence missing")
	}
	if *wire.Confidence < 0 || *wire.Confidence > 1 {
		return Result{}, fmt.Errorf("confidence out of range: %f", *wire.Confidence)
	}

	var severity Severity
	if wire.Severity != nil && strings.TrimSpace(*wire.Severity) != "" {
		severity = Severity(strings.ToLower(strings.TrimSpace(*wire.Severity)))
		switch severity {
		case SeverityMild, SeverityModerate, SeveritySevere:
		default:
			return Result{}, fmt.Errorf("unknown severity: %s", *wire.Severity)
		}
	}
	if *wire.HasDisease && strings.TrimSpace(wire.DiseaseName) == "" {
		return Result{}, errors.New("diseaseName missing for positive diagnosis")
	}

	return Result{
		HasDisease:      *wire.HasDisease,
		DiseaseName:     strings.TrimSpace(wire.DiseaseName),
		Severity:        severity,
		Confidence:      *wire.Confidence,
		Symptoms:        normalizeList(wire.Symptoms),
		AffectedAreas:   normalizeList(wire.AffectedAreas),
		Recommendations: normalizeList(wire.Recommendations),
		Notes:           strings.TrimSpace(wire.Notes),
	}, nil
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		clean := strings.TrimSpace(item)
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return out
}
