package weather

import (
	"context"
	"time"
)

// Provider abstracts a historical weather data source. Implementations make
// exactly one attempt per call; resilience is the caller's policy, and the
// current policy is fail-fast.
type Provider interface {
	Name() string
	FetchDailyHistory(ctx context.Context, city City, from, to time.Time) (RawDaily, error)
}
