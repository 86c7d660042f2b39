package config

import (
	"strings"
	"testing"
	"time"
)

// resetEnv pins every variable Load reads so values from the host
// environment cannot leak into the test.
func resetEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ALPHA_VANTAGE_API_KEY", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER",
		"DB_PASSWORD", "DB_SSLMODE", "STOCK_SYMBOL", "STOCK_OUTPUT_SIZE",
		"STOCK_WINDOW_DAYS", "WEATHER_LOOKBACK_DAYS", "WEATHER_CITIES",
		"WEATHER_LATITUDES", "WEATHER_LONGITUDES", "HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	resetEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StockSymbol != "WMT" {
		t.Fatalf("expected default symbol WMT, got %q", cfg.StockSymbol)
	}
	if cfg.StockOutputSize != "compact" {
		t.Fatalf("expected default output size compact, got %q", cfg.StockOutputSize)
	}
	if cfg.WeatherLookbackDays != 30 {
		t.Fatalf("expected default lookback 30, got %d", cfg.WeatherLookbackDays)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %s", cfg.HTTPTimeout)
	}
	if len(cfg.Cities) != 1 || cfg.Cities[0].Name != "Bentonville" {
		t.Fatalf("expected default city Bentonville, got %+v", cfg.Cities)
	}
	if cfg.DB.Port != 5432 {
		t.Fatalf("expected default port 5432, got %d", cfg.DB.Port)
	}
	if !strings.Contains(cfg.DB.DSN(), "dbname=market_weather_db") {
		t.Fatalf("unexpected DSN: %q", cfg.DB.DSN())
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PASSWORD", "secret")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing ALPHA_VANTAGE_API_KEY")
	}
}

func TestLoadMissingDBPassword(t *testing.T) {
	resetEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing DB_PASSWORD")
	}
}

func TestLoadCityListMismatch(t *testing.T) {
	resetEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("WEATHER_CITIES", "Bentonville,Rogers")
	t.Setenv("WEATHER_LATITUDES", "36.3729")
	t.Setenv("WEATHER_LONGITUDES", "-94.2088")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for mismatched city and coordinate lists")
	}
}

func TestLoadMultipleCities(t *testing.T) {
	resetEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("WEATHER_CITIES", "Bentonville, Rogers")
	t.Setenv("WEATHER_LATITUDES", "36.3729, 36.3320")
	t.Setenv("WEATHER_LONGITUDES", "-94.2088, -94.1185")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(cfg.Cities))
	}
	if cfg.Cities[1].Name != "Rogers" || cfg.Cities[1].Lat != 36.3320 {
		t.Fatalf("unexpected second city: %+v", cfg.Cities[1])
	}
}

func TestLoadInvalidOutputSize(t *testing.T) {
	resetEnv(t)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "test-key")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STOCK_OUTPUT_SIZE", "huge")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid STOCK_OUTPUT_SIZE")
	}
}
