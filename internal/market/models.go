package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawDailyQuote is one trading day exactly as Alpha Vantage returns it:
// every value is a string under the API's numbered field keys.
type RawDailyQuote struct {
	Open             string `json:"1. open"`
	High             string `json:"2. high"`
	Low              string `json:"3. low"`
	Close            string `json:"4. close"`
	AdjustedClose    string `json:"5. adjusted close"`
	Volume           string `json:"6. volume"`
	DividendAmount   string `json:"7. dividend amount"`
	SplitCoefficient string `json:"8. split coefficient"`
}

// RawTimeSeries is the "Time Series (Daily)" object, keyed by date string.
type RawTimeSeries map[string]RawDailyQuote

// StockRecord is one normalized trading day. Uniqueness on date backs the
// upsert; the database enforces it, not the app.
type StockRecord struct {
	ID               uint            `gorm:"primaryKey" json:"-"`
	Date             time.Time       `gorm:"column:date;type:date;uniqueIndex:idx_stock_raw_date;not null" json:"date"`
	Open             decimal.Decimal `gorm:"column:open_price;type:numeric(12,4)" json:"open"`
	High             decimal.Decimal `gorm:"column:high_price;type:numeric(12,4)" json:"high"`
	Low              decimal.Decimal `gorm:"column:low_price;type:numeric(12,4)" json:"low"`
	Close            decimal.Decimal `gorm:"column:close_price;type:numeric(12,4)" json:"close"`
	AdjustedClose    decimal.Decimal `gorm:"column:adjusted_close;type:numeric(12,4)" json:"adjusted_close"`
	Volume           int64           `gorm:"column:volume" json:"volume"`
	DividendAmount   decimal.Decimal `gorm:"column:dividend_amount;type:numeric(12,4)" json:"dividend_amount"`
	SplitCoefficient decimal.Decimal `gorm:"column:split_coefficient;type:numeric(10,4)" json:"split_coefficient"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for StockRecord.
func (StockRecord) TableName() string {
	return "stock_raw_data"
}
