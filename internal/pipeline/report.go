package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/stock-weather-etl/internal/store"
)

// Report is the outcome of one run, in the shape the process prints on exit.
type Report struct {
	RunID     string
	Symbol    string
	StartedAt time.Time
	Duration  time.Duration
	DryRun    bool

	StockFetched       int
	StockTransformed   int
	StockLoaded        int
	WeatherFetched     int
	WeatherTransformed int
	WeatherLoaded      int

	Verification store.VerificationReport

	Success     bool
	FailedStage Stage
}

const dateLayout = "2006-01-02"

// Summary renders the human-readable end-of-run report.
func (r *Report) Summary() string {
	var b strings.Builder

	if r.Success {
		fmt.Fprintf(&b, "run %s succeeded in %s\n", r.RunID, r.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(&b, "run %s failed at stage %s after %s\n", r.RunID, r.FailedStage, r.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(&b, "  stock (%s):  fetched %d, transformed %d, loaded %d\n",
		r.Symbol, r.StockFetched, r.StockTransformed, r.StockLoaded)
	fmt.Fprintf(&b, "  weather:     fetched %d, transformed %d, loaded %d\n",
		r.WeatherFetched, r.WeatherTransformed, r.WeatherLoaded)

	if skipped := r.StockFetched - r.StockTransformed; skipped > 0 {
		fmt.Fprintf(&b, "  skipped %d malformed stock row(s)\n", skipped)
	}
	if skipped := r.WeatherFetched - r.WeatherTransformed; skipped > 0 {
		fmt.Fprintf(&b, "  skipped %d malformed weather row(s)\n", skipped)
	}

	if r.DryRun {
		b.WriteString("  dry run: nothing was loaded\n")
		return b.String()
	}

	v := r.Verification
	if v.StockRows > 0 {
		fmt.Fprintf(&b, "  stock_raw_data: %d rows, %s to %s, latest close %s on volume %d\n",
			v.StockRows,
			v.StockFirst.Format(dateLayout), v.StockLast.Format(dateLayout),
			v.LatestClose.StringFixed(2), v.LatestVolume)
	}
	if v.WeatherRows > 0 {
		fmt.Fprintf(&b, "  weather_raw_data: %d rows, %s to %s\n",
			v.WeatherRows,
			v.WeatherFirst.Format(dateLayout), v.WeatherLast.Format(dateLayout))
	}

	return b.String()
}
