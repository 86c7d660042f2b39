package weather

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condition is the coarse condition label derived from daily precipitation.
type Condition string

const (
	ConditionClear         Condition = "Clear"
	ConditionPrecipitation Condition = "Precipitation"
)

// City is a configured location with fixed coordinates. Coordinates come
// from configuration rather than a geocoding service; the tracked set is
// small and static.
type City struct {
	Name string  `validate:"required"`
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
}

// The archive endpoint supplies neither visibility nor a UV index, so those
// columns carry fixed placeholders.
// TODO: populate UVIndex from the daily uv_index_max variable once the
// archive API exposes it (the forecast API already does).
var (
	DefaultVisibilityKM = decimal.NewFromInt(10)
	DefaultUVIndex      = decimal.NewFromInt(5)
)

// RawDaily is the Open-Meteo archive "daily" block: parallel arrays indexed
// by day. Humidity and precipitation may be null for older ranges.
type RawDaily struct {
	Time             []string   `json:"time"`
	TemperatureMean  []float64  `json:"temperature_2m_mean"`
	TemperatureMin   []float64  `json:"temperature_2m_min"`
	TemperatureMax   []float64  `json:"temperature_2m_max"`
	HumidityMean     []*float64 `json:"relative_humidity_2m_mean"`
	PressureMean     []float64  `json:"surface_pressure_mean"`
	WindSpeedMax     []float64  `json:"wind_speed_10m_max"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// WeatherRecord is one city-day of normalized weather data. Uniqueness on
// (date, city) backs the upsert; the database enforces it, not the app.
type WeatherRecord struct {
	ID                 uint            `gorm:"primaryKey" json:"-"`
	Date               time.Time       `gorm:"column:date;type:date;uniqueIndex:idx_weather_raw_date_city;not null" json:"date"`
	City               string          `gorm:"column:city;uniqueIndex:idx_weather_raw_date_city;not null" json:"city"`
	TemperatureAvg     decimal.Decimal `gorm:"column:temperature_avg;type:numeric(6,2)" json:"temperature_avg"`
	TemperatureMin     decimal.Decimal `gorm:"column:temperature_min;type:numeric(6,2)" json:"temperature_min"`
	TemperatureMax     decimal.Decimal `gorm:"column:temperature_max;type:numeric(6,2)" json:"temperature_max"`
	Humidity           *int            `gorm:"column:humidity" json:"humidity,omitempty"`
	Pressure           decimal.Decimal `gorm:"column:pressure;type:numeric(7,2)" json:"pressure"`
	WindSpeed          decimal.Decimal `gorm:"column:wind_speed;type:numeric(6,2)" json:"wind_speed"`
	WeatherCondition   Condition       `gorm:"column:weather_condition" json:"weather_condition"`
	WeatherDescription string          `gorm:"column:weather_description" json:"weather_description"`
	Visibility         decimal.Decimal `gorm:"column:visibility;type:numeric(6,2)" json:"visibility"`
	UVIndex            decimal.Decimal `gorm:"column:uv_index;type:numeric(4,1)" json:"uv_index"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for WeatherRecord.
func (WeatherRecord) TableName() string {
	return "weather_raw_data"
}

// DeriveCondition maps a daily precipitation sum (mm) to the coarse
// condition label and its description.
func DeriveCondition(precipMM float64) (Condition, string) {
	if precipMM > 0 {
		return ConditionPrecipitation, "precipitation observed"
	}
	return ConditionClear, "clear sky"
}
