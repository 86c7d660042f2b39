package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/i474232898/stock-weather-etl/internal/common"
	"github.com/i474232898/stock-weather-etl/internal/config"
	"github.com/i474232898/stock-weather-etl/internal/market"
	"github.com/i474232898/stock-weather-etl/internal/weather"
)

// Non-key columns rewritten on conflict: an upsert always wins with the
// newest values.
var (
	stockUpdateColumns = []string{
		"open_price", "high_price", "low_price", "close_price",
		"adjusted_close", "volume", "dividend_amount", "split_coefficient",
		"updated_at",
	}
	weatherUpdateColumns = []string{
		"temperature_avg", "temperature_min", "temperature_max", "humidity",
		"pressure", "wind_speed", "weather_condition", "weather_description",
		"visibility", "uv_index", "updated_at",
	}
)

// Store persists stock and weather records in a relational database.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and migrates both tables so a fresh database
// works on the first run.
func Open(cfg config.DBConfig) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&market.StockRecord{}, &weather.WeatherRecord{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return New(db), nil
}

// New wraps an existing gorm handle. Tests use this with the sqlite driver.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertStockRecords writes all records in one transaction, one upsert per
// record keyed on date. Any statement error rolls the whole dataset back.
func (s *Store) UpsertStockRecords(ctx context.Context, recs []market.StockRecord) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recs {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoUpdates: clause.AssignmentColumns(stockUpdateColumns),
			}).Create(&recs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &common.LoadError{Table: market.StockRecord{}.TableName(), Err: err}
	}
	return len(recs), nil
}

// UpsertWeatherRecords writes all records in one transaction, one upsert per
// record keyed on (date, city).
func (s *Store) UpsertWeatherRecords(ctx context.Context, recs []weather.WeatherRecord) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recs {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}, {Name: "city"}},
				DoUpdates: clause.AssignmentColumns(weatherUpdateColumns),
			}).Create(&recs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, &common.LoadError{Table: weather.WeatherRecord{}.TableName(), Err: err}
	}
	return len(recs), nil
}

// VerificationReport is the result of the read-only post-load checks.
type VerificationReport struct {
	StockRows    int64
	StockFirst   time.Time
	StockLast    time.Time
	LatestClose  decimal.Decimal
	LatestVolume int64

	WeatherRows  int64
	WeatherFirst time.Time
	WeatherLast  time.Time
}

// OK reports whether both tables hold at least one row.
func (r VerificationReport) OK() bool {
	return r.StockRows > 0 && r.WeatherRows > 0
}

// Verify runs the read-only checks: row counts, date ranges, and the most
// recent stock sample.
func (s *Store) Verify(ctx context.Context) (VerificationReport, error) {
	var rep VerificationReport
	db := s.db.WithContext(ctx)

	if err := db.Model(&market.StockRecord{}).Count(&rep.StockRows).Error; err != nil {
		return rep, fmt.Errorf("count stock rows: %w", err)
	}
	if rep.StockRows > 0 {
		var first, last market.StockRecord
		if err := db.Order("date asc").First(&first).Error; err != nil {
			return rep, fmt.Errorf("read earliest stock row: %w", err)
		}
		if err := db.Order("date desc").First(&last).Error; err != nil {
			return rep, fmt.Errorf("read latest stock row: %w", err)
		}
		rep.StockFirst = first.Date
		rep.StockLast = last.Date
		rep.LatestClose = last.Close
		rep.LatestVolume = last.Volume
	}

	if err := db.Model(&weather.WeatherRecord{}).Count(&rep.WeatherRows).Error; err != nil {
		return rep, fmt.Errorf("count weather rows: %w", err)
	}
	if rep.WeatherRows > 0 {
		var first, last weather.WeatherRecord
		if err := db.Order("date asc").First(&first).Error; err != nil {
			return rep, fmt.Errorf("read earliest weather row: %w", err)
		}
		if err := db.Order("date desc").First(&last).Error; err != nil {
			return rep, fmt.Errorf("read latest weather row: %w", err)
		}
		rep.WeatherFirst = first.Date
		rep.WeatherLast = last.Date
	}

	return rep, nil
}
