package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/i474232898/stock-weather-etl/internal/common"
	"github.com/i474232898/stock-weather-etl/internal/weather"
)

const cannedArchiveResponse = `{
	"latitude": 36.375,
	"longitude": -94.25,
	"daily": {
		"time": ["2024-05-01", "2024-05-02"],
		"temperature_2m_mean": [18.2, 16.9],
		"temperature_2m_min": [11.4, 10.1],
		"temperature_2m_max": [24.7, 22.3],
		"relative_humidity_2m_mean": [62, null],
		"surface_pressure_mean": [1013.2, 1009.8],
		"wind_speed_10m_max": [14.3, 21.7],
		"precipitation_sum": [0, 4.2]
	}
}`

var bentonville = weather.City{Name: "Bentonville", Lat: 36.3729, Lon: -94.2088}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenMeteoProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenMeteoProvider(5 * time.Second)
	p.client.SetBaseURL(srv.URL)
	return p
}

func TestFetchDailyHistory(t *testing.T) {
	var gotQuery map[string]string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"latitude":   r.URL.Query().Get("latitude"),
			"start_date": r.URL.Query().Get("start_date"),
			"end_date":   r.URL.Query().Get("end_date"),
			"timezone":   r.URL.Query().Get("timezone"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cannedArchiveResponse))
	})

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	raw, err := p.FetchDailyHistory(context.Background(), bentonville, from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw.Time) != 2 {
		t.Fatalf("expected 2 days, got %d", len(raw.Time))
	}
	if raw.PrecipitationSum[1] == nil || *raw.PrecipitationSum[1] != 4.2 {
		t.Fatalf("unexpected precipitation: %v", raw.PrecipitationSum[1])
	}
	if raw.HumidityMean[1] != nil {
		t.Fatal("expected null humidity to stay nil")
	}

	if gotQuery["latitude"] != "36.3729" {
		t.Fatalf("unexpected latitude param: %q", gotQuery["latitude"])
	}
	if gotQuery["start_date"] != "2024-05-01" || gotQuery["end_date"] != "2024-05-02" {
		t.Fatalf("unexpected date params: %+v", gotQuery)
	}
	if gotQuery["timezone"] != "UTC" {
		t.Fatalf("unexpected timezone param: %q", gotQuery["timezone"])
	}
}

func TestFetchDailyHistoryProviderError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": true, "reason": "Parameter 'start_date' is out of allowed range"}`))
	})

	_, err := p.FetchDailyHistory(context.Background(), bentonville, time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	var fetchErr *common.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Message != "Parameter 'start_date' is out of allowed range" {
		t.Fatalf("expected provider reason to surface, got %q", fetchErr.Message)
	}
}

func TestFetchDailyHistoryEmptyDaily(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"daily": {"time": []}}`))
	})

	_, err := p.FetchDailyHistory(context.Background(), bentonville, time.Now(), time.Now())
	var fetchErr *common.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}
