package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cropwise/fieldadvisor/internal/domain/forecast"
)

const (
	defaultBaseURL     = "https://api.openweathermap.org/data/2.5"
	defaultSampleCount = 40
)

// Client fetches forecast samples from an OpenWeatherMap-compatible API.
type Client struct {
	baseURL     string
	apiKey      string
	sampleCount int
	httpClient  *http.Client
}

// NewClient builds an API client. The API key is required; base URL and
// sample count fall back to defaults.
func NewClient(baseURL, apiKey string, sampleCount int) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("weather api key cannot be empty")
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if sampleCount <= 0 {
		sampleCount = defaultSampleCount
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		apiKey:      apiKey,
		sampleCount: sampleCount,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// FetchForecast retrieves timestamped forecast samples for a coordinate in
// metric units.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) ([]forecast.RawSample, error) {
	endpoint := c.baseURL + "/forecast?" + c.query(lat, lon).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forecast response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	samples := make([]forecast.RawSample, 0, len(raw.List))
	for _, entry := range raw.List {
		samples = append(samples, forecast.RawSample{
			Timestamp:     time.Unix(entry.Dt, 0).UTC(),
			Temperature:   entry.Main.Temp,
			Humidity:      entry.Main.Humidity,
			Pressure:      entry.Main.Pressure,
			WindSpeed:     entry.Wind.Speed,
			Precipitation: entry.Pop * 100,
		})
	}
	return samples, nil
}

func (c *Client) query(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	values.Set("cnt", strconv.Itoa(c.sampleCount))
	return values
}

type apiResponse struct {
	List []apiEntry `json:"list"`
}

type apiEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Pop float64 `json:"pop"`
}
