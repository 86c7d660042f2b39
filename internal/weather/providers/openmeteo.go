package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/stock-weather-etl/internal/common"
	"github.com/i474232898/stock-weather-etl/internal/weather"
)

const (
	openMeteoBaseURL = "https://archive-api.open-meteo.com"

	// Daily variables requested from the archive endpoint, in the order the
	// transformer expects them.
	openMeteoDailyVars = "temperature_2m_mean,temperature_2m_min,temperature_2m_max," +
		"relative_humidity_2m_mean,surface_pressure_mean,wind_speed_10m_max,precipitation_sum"
)

// OpenMeteoProvider implements the weather.Provider interface against the
// Open-Meteo historical archive API. The endpoint is keyless.
type OpenMeteoProvider struct {
	name   string
	client *resty.Client
}

func NewOpenMeteoProvider(timeout time.Duration) *OpenMeteoProvider {
	client := resty.New()
	client.SetBaseURL(openMeteoBaseURL)
	client.SetTimeout(timeout)

	return &OpenMeteoProvider{
		name:   "openmeteo",
		client: client,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchDailyHistory requests the daily series for one city over [from, to].
// It makes a single attempt; any failure is fatal for the run.
func (p *OpenMeteoProvider) FetchDailyHistory(ctx context.Context, city weather.City, from, to time.Time) (weather.RawDaily, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   strconv.FormatFloat(city.Lat, 'f', 4, 64),
			"longitude":  strconv.FormatFloat(city.Lon, 'f', 4, 64),
			"start_date": from.Format("2006-01-02"),
			"end_date":   to.Format("2006-01-02"),
			"daily":      openMeteoDailyVars,
			"timezone":   "UTC",
		}).
		Get("/v1/archive")
	if err != nil {
		return weather.RawDaily{}, &common.FetchError{Provider: p.name, Message: "request failed", Err: err}
	}

	var payload struct {
		Error  bool             `json:"error"`
		Reason string           `json:"reason"`
		Daily  weather.RawDaily `json:"daily"`
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		// Open-Meteo reports errors as {"error":true,"reason":...} with a
		// 4xx status; surface the reason when the body parses.
		if json.Unmarshal(resp.Body(), &payload) == nil && payload.Reason != "" {
			return weather.RawDaily{}, &common.FetchError{Provider: p.name, Message: payload.Reason}
		}
		return weather.RawDaily{}, &common.FetchError{
			Provider: p.name,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return weather.RawDaily{}, &common.FetchError{Provider: p.name, Message: "decode response", Err: err}
	}
	if payload.Error {
		return weather.RawDaily{}, &common.FetchError{Provider: p.name, Message: payload.Reason}
	}
	if len(payload.Daily.Time) == 0 {
		return weather.RawDaily{}, &common.FetchError{Provider: p.name, Message: "no daily data in response"}
	}

	return payload.Daily, nil
}

var _ weather.Provider = (*OpenMeteoProvider)(nil)
