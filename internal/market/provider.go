package market

import "context"

// Provider abstracts a daily stock quote source. Implementations make
// exactly one attempt per call; a failure aborts the run.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string) (RawTimeSeries, error)
}
