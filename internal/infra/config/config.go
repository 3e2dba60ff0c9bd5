package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Weather   WeatherConfig   `yaml:"weather"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Diagnosis DiagnosisConfig `yaml:"diagnosis"`
	Auth      AuthConfig      `yaml:"auth"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Staging   StagingConfig   `yaml:"staging"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	Debug          bool            `yaml:"debug"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	VisionModel string  `yaml:"visionModel"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// WeatherConfig contains forecast provider settings.
type WeatherConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	APIKey      string `yaml:"apiKey"`
	SampleCount int    `yaml:"sampleCount"`
}

// AdvisorConfig controls the planting recommendation domain.
type AdvisorConfig struct {
	HorizonDays    int           `yaml:"horizonDays"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	SystemPrompt   string        `yaml:"systemPrompt"`
}

// DiagnosisConfig controls the plant image diagnosis domain.
type DiagnosisConfig struct {
	Prompt         string        `yaml:"prompt"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	MaxImageBytes  int64         `yaml:"maxImageBytes"`
	DemoMode       bool          `yaml:"demoMode"`
	DemoMaxBytes   int64         `yaml:"demoMaxBytes"`
	DemoScanLimit  int           `yaml:"demoScanLimit"`
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects
// the in-memory repositories.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the quota store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StagingConfig contains S3-compatible staging bucket credentials. An
// empty endpoint selects the in-memory store.
type StagingConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_DEBUG"); v != "" {
		cfg.HTTP.Debug = parseBool(v)
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_VISION_MODEL"); v != "" {
		cfg.LLM.VisionModel = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_SAMPLE_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Weather.SampleCount = parsed
		}
	}
	if v := os.Getenv("ADVISOR_HORIZON_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Advisor.HorizonDays = parsed
		}
	}
	if v := os.Getenv("ADVISOR_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Advisor.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("ADVISOR_SYSTEM_PROMPT"); v != "" {
		cfg.Advisor.SystemPrompt = v
	}
	if v := os.Getenv("DIAGNOSIS_PROMPT"); v != "" {
		cfg.Diagnosis.Prompt = v
	}
	if v := os.Getenv("DIAGNOSIS_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Diagnosis.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("DIAGNOSIS_MAX_IMAGE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Diagnosis.MaxImageBytes = parsed
		}
	}
	if v := os.Getenv("DIAGNOSIS_DEMO_MODE"); v != "" {
		cfg.Diagnosis.DemoMode = parseBool(v)
	}
	if v := os.Getenv("DIAGNOSIS_DEMO_MAX_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Diagnosis.DemoMaxBytes = parsed
		}
	}
	if v := os.Getenv("DIAGNOSIS_DEMO_SCAN_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Diagnosis.DemoScanLimit = parsed
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.RefreshTokenTTL = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("STAGING_ENDPOINT"); v != "" {
		cfg.Staging.Endpoint = v
	}
	if v := os.Getenv("STAGING_ACCESS_KEY"); v != "" {
		cfg.Staging.AccessKey = v
	}
	if v := os.Getenv("STAGING_SECRET_KEY"); v != "" {
		cfg.Staging.SecretKey = v
	}
	if v := os.Getenv("STAGING_BUCKET"); v != "" {
		cfg.Staging.Bucket = v
	}
	if v := os.Getenv("STAGING_REGION"); v != "" {
		cfg.Staging.Region = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
			Temperature: 0.2,
			MaxTokens:   900,
		},
		Weather: WeatherConfig{
			BaseURL:     "https://api.openweathermap.org/data/2.5",
			SampleCount: 40,
		},
		Advisor: AdvisorConfig{
			HorizonDays:    40,
			RequestTimeout: 30 * time.Second,
		},
		Diagnosis: DiagnosisConfig{
			RequestTimeout: 30 * time.Second,
			MaxImageBytes:  10 << 20,
			DemoMaxBytes:   5 << 20,
			DemoScanLimit:  3,
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Advisor.HorizonDays <= 0 {
		return errors.New("advisor.horizonDays must be positive")
	}
	if c.Advisor.RequestTimeout <= 0 {
		return errors.New("advisor.requestTimeout must be positive")
	}
	if c.Weather.BaseURL == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.SampleCount <= 0 {
		return errors.New("weather.sampleCount must be positive")
	}
	if c.Diagnosis.MaxImageBytes <= 0 {
		return errors.New("diagnosis.maxImageBytes must be positive")
	}
	if c.Diagnosis.DemoMode {
		if c.Diagnosis.DemoMaxBytes <= 0 {
			return errors.New("diagnosis.demoMaxBytes must be positive when demo mode is enabled")
		}
		if c.Diagnosis.DemoScanLimit <= 0 {
			return errors.New("diagnosis.demoScanLimit must be positive when demo mode is enabled")
		}
	}
	if c.Auth.Secret == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth.refreshTokenTtl must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Staging.Endpoint != "" && c.Staging.Bucket == "" {
		return errors.New("staging.bucket cannot be empty when staging endpoint is set")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
