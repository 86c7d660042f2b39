package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/stock-weather-etl/internal/weather"
)

var validate = validator.New()

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	SSLMode  string
}

// DSN builds the connection string for the postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type AppConfig struct {
	AlphaVantageAPIKey string `validate:"required"`

	StockSymbol     string `validate:"required"`
	StockOutputSize string `validate:"oneof=compact full"`

	// StockWindowDays > 0 keeps only the trailing window of trading days;
	// 0 keeps everything the API returned.
	StockWindowDays int `validate:"gte=0"`

	// WeatherLookbackDays is the length of the fetched date range, ending
	// yesterday (the archive API lags about a day behind real time).
	WeatherLookbackDays int `validate:"gt=0"`

	Cities []weather.City `validate:"min=1,dive"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	DB DBConfig
}

// Load reads configuration from the environment (and an optional .env
// file), applies defaults, and validates. It fails fast: a missing
// credential is reported before any network or database I/O happens.
func Load(envFile string) (*AppConfig, error) {
	// A .env file is optional; environment variables alone are fine.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &AppConfig{
		AlphaVantageAPIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		StockSymbol:         getenvDefault("STOCK_SYMBOL", "WMT"),
		StockOutputSize:     getenvDefault("STOCK_OUTPUT_SIZE", "compact"),
		StockWindowDays:     getenvInt("STOCK_WINDOW_DAYS", 0),
		WeatherLookbackDays: getenvInt("WEATHER_LOOKBACK_DAYS", 30),
		DB: DBConfig{
			Host:     getenvDefault("DB_HOST", "localhost"),
			Port:     getenvInt("DB_PORT", 5432),
			Name:     getenvDefault("DB_NAME", "market_weather_db"),
			User:     getenvDefault("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			SSLMode:  getenvDefault("DB_SSLMODE", "disable"),
		},
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cities, err := loadCities()
	if err != nil {
		return nil, err
	}
	cfg.Cities = cities

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadCities parses the parallel comma-separated city/latitude/longitude
// lists. The default is Bentonville, AR, matching the tracked ticker's
// home market.
func loadCities() ([]weather.City, error) {
	names := strings.Split(getenvDefault("WEATHER_CITIES", "Bentonville"), ",")
	lats := strings.Split(getenvDefault("WEATHER_LATITUDES", "36.3729"), ",")
	lons := strings.Split(getenvDefault("WEATHER_LONGITUDES", "-94.2088"), ",")

	if len(names) != len(lats) || len(names) != len(lons) {
		return nil, fmt.Errorf("WEATHER_CITIES, WEATHER_LATITUDES and WEATHER_LONGITUDES must have the same number of entries")
	}

	cities := make([]weather.City, 0, len(names))
	for i := range names {
		lat, err := strconv.ParseFloat(strings.TrimSpace(lats[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", lats[i], err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lons[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", lons[i], err)
		}
		cities = append(cities, weather.City{
			Name: strings.TrimSpace(names[i]),
			Lat:  lat,
			Lon:  lon,
		})
	}

	return cities, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
