// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/campkit/internal/config"
	"github.com/tomtom215/campkit/internal/metrics"
	"github.com/tomtom215/campkit/internal/models"
)

const (
	archivePath = "/v1/archive"
	dailyFields = "temperature_2m_mean,precipitation_sum,relative_humidity_2m_mean,wind_speed_10m_max"
	breakerName = "openmeteo-archive"

	// maxResponseBytes bounds the archive response body.
	maxResponseBytes = 4 << 20
)

// ErrNoData is returned when the archive has no complete daily rows.
var ErrNoData = errors.New("open-meteo returned no complete daily rows")

// archiveResponse is the subset of the Open-Meteo archive payload we read.
// Values are pointers because the API reports missing days as null.
type archiveResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
	Daily  struct {
		Time          []string   `json:"time"`
		Temperature   []*float64 `json:"temperature_2m_mean"`
		Precipitation []*float64 `json:"precipitation_sum"`
		Humidity      []*float64 `json:"relative_humidity_2m_mean"`
		WindSpeed     []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Client fetches daily history from the Open-Meteo archive API.
// Calls are rate limited and pass through a circuit breaker so a failing
// upstream is skipped quickly instead of stalling forecast requests.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]models.WeatherObservation]
	logger  zerolog.Logger
}

// NewClient creates an archive client.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg *config.WeatherConfig, logger zerolog.Logger) *Client {
	log := logger.With().Str("component", "openmeteo").Logger()

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	metrics.WeatherBreakerState.Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]models.WeatherObservation](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.WeatherBreakerState.Set(stateToFloat(to))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout(cfg)},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		cb:      cb,
		logger:  log,
	}
}

// History returns complete daily observations for [start, end] at the given
// coordinates, tagged with campsiteID.
func (c *Client) History(ctx context.Context, campsiteID int, lat, lon float64, start, end models.Date) ([]models.WeatherObservation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	return c.cb.Execute(func() ([]models.WeatherObservation, error) {
		return c.fetch(ctx, campsiteID, lat, lon, start, end)
	})
}

func (c *Client) fetch(ctx context.Context, campsiteID int, lat, lon float64, start, end models.Date) ([]models.WeatherObservation, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	q.Set("daily", dailyFields)
	q.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+archivePath+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var payload archiveResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("open-meteo returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || payload.Error {
		return nil, fmt.Errorf("open-meteo returned status %d: %s", resp.StatusCode, payload.Reason)
	}

	return payload.observations(campsiteID)
}

// observations converts the columnar payload into rows, skipping days with
// any missing value.
func (p *archiveResponse) observations(campsiteID int) ([]models.WeatherObservation, error) {
	d := &p.Daily
	out := make([]models.WeatherObservation, 0, len(d.Time))
	for i, day := range d.Time {
		if i >= len(d.Temperature) || i >= len(d.Precipitation) || i >= len(d.Humidity) || i >= len(d.WindSpeed) {
			break
		}
		if d.Temperature[i] == nil || d.Precipitation[i] == nil || d.Humidity[i] == nil || d.WindSpeed[i] == nil {
			continue
		}
		date, err := models.ParseDate(day)
		if err != nil {
			return nil, err
		}
		out = append(out, models.WeatherObservation{
			CampsiteID:    campsiteID,
			Date:          date,
			Temperature:   *d.Temperature[i],
			Precipitation: *d.Precipitation[i],
			Humidity:      *d.Humidity[i],
			WindSpeed:     *d.WindSpeed[i],
		})
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// State returns the breaker state for health reporting.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// requestTimeout returns the HTTP client timeout, defaulting to 10s.
func requestTimeout(cfg *config.WeatherConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return 10 * time.Second
}
