package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/i474232898/stock-weather-etl/internal/common"
)

const dateLayout = "2006-01-02"

// Transform converts the raw parallel arrays into typed records for one
// city. A day with a bad date or a hole in a required array is logged and
// skipped; the remaining days still transform. One bad day must not abort
// the whole batch.
func Transform(city string, raw RawDaily, logger *zap.Logger) []WeatherRecord {
	records := make([]WeatherRecord, 0, len(raw.Time))

	for i, dateStr := range raw.Time {
		rec, err := buildRecord(city, raw, i, dateStr)
		if err != nil {
			recErr := &common.RecordError{Source: "weather", Key: dateStr, Err: err}
			logger.Warn("skipping weather record", zap.String("city", city), zap.Error(recErr))
			continue
		}
		records = append(records, rec)
	}

	return records
}

func buildRecord(city string, raw RawDaily, i int, dateStr string) (WeatherRecord, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return WeatherRecord{}, fmt.Errorf("parse date: %w", err)
	}

	if i >= len(raw.TemperatureMean) || i >= len(raw.TemperatureMin) || i >= len(raw.TemperatureMax) {
		return WeatherRecord{}, fmt.Errorf("temperature series shorter than time series")
	}
	if i >= len(raw.PressureMean) || i >= len(raw.WindSpeedMax) {
		return WeatherRecord{}, fmt.Errorf("pressure or wind series shorter than time series")
	}
	if i >= len(raw.PrecipitationSum) || raw.PrecipitationSum[i] == nil {
		return WeatherRecord{}, fmt.Errorf("missing precipitation sum")
	}

	precip := *raw.PrecipitationSum[i]
	condition, description := DeriveCondition(precip)

	rec := WeatherRecord{
		Date:               date,
		City:               city,
		TemperatureAvg:     decimal.NewFromFloat(raw.TemperatureMean[i]),
		TemperatureMin:     decimal.NewFromFloat(raw.TemperatureMin[i]),
		TemperatureMax:     decimal.NewFromFloat(raw.TemperatureMax[i]),
		Pressure:           decimal.NewFromFloat(raw.PressureMean[i]),
		WindSpeed:          decimal.NewFromFloat(raw.WindSpeedMax[i]),
		WeatherCondition:   condition,
		WeatherDescription: description,
		Visibility:         DefaultVisibilityKM,
		UVIndex:            DefaultUVIndex,
	}

	// Humidity is nullable upstream; absent values stay NULL in the table.
	if i < len(raw.HumidityMean) && raw.HumidityMean[i] != nil {
		h := int(math.Round(*raw.HumidityMean[i]))
		rec.Humidity = &h
	}

	return rec, nil
}
