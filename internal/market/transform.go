package market

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/i474232898/stock-weather-etl/internal/common"
)

const dateLayout = "2006-01-02"

// Transform converts the raw time series into typed records, sorted by date
// ascending. A row with a bad date or a non-numeric value is logged and
// skipped; the remaining rows still transform. When windowDays > 0, only
// dates within that trailing window of the newest raw date are kept.
func Transform(raw RawTimeSeries, windowDays int, logger *zap.Logger) []StockRecord {
	records := make([]StockRecord, 0, len(raw))

	for dateStr, quote := range raw {
		rec, err := buildRecord(dateStr, quote)
		if err != nil {
			recErr := &common.RecordError{Source: "stock", Key: dateStr, Err: err}
			logger.Warn("skipping stock record", zap.Error(recErr))
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	if windowDays > 0 && len(records) > 0 {
		newest := records[len(records)-1].Date
		cutoff := newest.AddDate(0, 0, -windowDays)
		i := sort.Search(len(records), func(i int) bool {
			return !records[i].Date.Before(cutoff)
		})
		records = records[i:]
	}

	return records
}

func buildRecord(dateStr string, quote RawDailyQuote) (StockRecord, error) {
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return StockRecord{}, fmt.Errorf("parse date: %w", err)
	}

	rec := StockRecord{Date: date}

	fields := []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"open", quote.Open, &rec.Open},
		{"high", quote.High, &rec.High},
		{"low", quote.Low, &rec.Low},
		{"close", quote.Close, &rec.Close},
		{"adjusted close", quote.AdjustedClose, &rec.AdjustedClose},
		{"dividend amount", quote.DividendAmount, &rec.DividendAmount},
		{"split coefficient", quote.SplitCoefficient, &rec.SplitCoefficient},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return StockRecord{}, fmt.Errorf("parse %s %q: %w", f.name, f.value, err)
		}
		*f.dst = d
	}

	volume, err := strconv.ParseInt(quote.Volume, 10, 64)
	if err != nil {
		return StockRecord{}, fmt.Errorf("parse volume %q: %w", quote.Volume, err)
	}
	rec.Volume = volume

	return rec, nil
}
