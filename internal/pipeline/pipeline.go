package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/stock-weather-etl/internal/config"
	"github.com/i474232898/stock-weather-etl/internal/market"
	"github.com/i474232898/stock-weather-etl/internal/store"
	"github.com/i474232898/stock-weather-etl/internal/weather"
)

// Stage labels the sequential steps of one run.
type Stage string

const (
	StageInit         Stage = "INIT"
	StageFetchStock   Stage = "FETCH_STOCK"
	StageFetchWeather Stage = "FETCH_WEATHER"
	StageTransform    Stage = "TRANSFORM"
	StageConnect      Stage = "CONNECT"
	StageLoadStock    Stage = "LOAD_STOCK"
	StageLoadWeather  Stage = "LOAD_WEATHER"
	StageVerify       Stage = "VERIFY"
)

// StockSource yields the raw daily series for one symbol.
type StockSource interface {
	FetchDaily(ctx context.Context, symbol string) (market.RawTimeSeries, error)
}

// WeatherSource yields the raw daily history for one city and date range.
type WeatherSource interface {
	FetchDailyHistory(ctx context.Context, city weather.City, from, to time.Time) (weather.RawDaily, error)
}

// Store is what a run needs from the database layer.
type Store interface {
	UpsertStockRecords(ctx context.Context, recs []market.StockRecord) (int, error)
	UpsertWeatherRecords(ctx context.Context, recs []weather.WeatherRecord) (int, error)
	Verify(ctx context.Context) (store.VerificationReport, error)
	Close() error
}

// Pipeline executes one fetch→transform→load run. Fully sequential and
// single-threaded; the only waiting happens on HTTP responses and database
// round-trips. Concurrent runs against the same database are safe because
// every write is an idempotent upsert keyed by natural key.
type Pipeline struct {
	cfg       *config.AppConfig
	stocks    StockSource
	weatherSr WeatherSource
	openStore func() (Store, error)
	logger    *zap.Logger
	dryRun    bool
}

func New(cfg *config.AppConfig, stocks StockSource, weatherSrc WeatherSource, openStore func() (Store, error), logger *zap.Logger, dryRun bool) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		stocks:    stocks,
		weatherSr: weatherSrc,
		openStore: openStore,
		logger:    logger,
		dryRun:    dryRun,
	}
}

// Run drives the stages in order. Any stage failure short-circuits the run;
// the report is returned either way, and an opened connection is always
// closed.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	rep := &Report{
		RunID:     uuid.NewString(),
		Symbol:    p.cfg.StockSymbol,
		StartedAt: time.Now(),
		DryRun:    p.dryRun,
	}
	log := p.logger.With(zap.String("run_id", rep.RunID))
	log.Info("run starting", zap.String("stage", string(StageInit)), zap.String("symbol", p.cfg.StockSymbol))

	err := p.run(ctx, rep, log)
	rep.Duration = time.Since(rep.StartedAt)
	if err != nil {
		rep.Success = false
		log.Error("run failed", zap.String("stage", string(rep.FailedStage)), zap.Error(err))
		return rep, err
	}

	rep.Success = true
	log.Info("run succeeded",
		zap.Int("stock_rows", rep.StockLoaded),
		zap.Int("weather_rows", rep.WeatherLoaded),
		zap.Duration("duration", rep.Duration))
	return rep, nil
}

func (p *Pipeline) run(ctx context.Context, rep *Report, log *zap.Logger) error {
	// FETCH_STOCK
	log.Info("fetching stock data", zap.String("stage", string(StageFetchStock)))
	rawStock, err := p.stocks.FetchDaily(ctx, p.cfg.StockSymbol)
	if err != nil {
		rep.FailedStage = StageFetchStock
		return fmt.Errorf("fetch stock data: %w", err)
	}
	rep.StockFetched = len(rawStock)

	// FETCH_WEATHER. The archive lags about a day behind real time, so the
	// range ends yesterday.
	to := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	from := to.AddDate(0, 0, -(p.cfg.WeatherLookbackDays - 1))
	log.Info("fetching weather data",
		zap.String("stage", string(StageFetchWeather)),
		zap.Time("from", from), zap.Time("to", to),
		zap.Int("cities", len(p.cfg.Cities)))

	rawWeather := make(map[string]weather.RawDaily, len(p.cfg.Cities))
	for _, city := range p.cfg.Cities {
		raw, err := p.weatherSr.FetchDailyHistory(ctx, city, from, to)
		if err != nil {
			rep.FailedStage = StageFetchWeather
			return fmt.Errorf("fetch weather data for %s: %w", city.Name, err)
		}
		rawWeather[city.Name] = raw
		rep.WeatherFetched += len(raw.Time)
	}

	// TRANSFORM
	log.Info("transforming records", zap.String("stage", string(StageTransform)))
	stockRecs := market.Transform(rawStock, p.cfg.StockWindowDays, log)
	if len(stockRecs) == 0 {
		rep.FailedStage = StageTransform
		return fmt.Errorf("no valid stock records to load")
	}
	rep.StockTransformed = len(stockRecs)

	var weatherRecs []weather.WeatherRecord
	for _, city := range p.cfg.Cities {
		weatherRecs = append(weatherRecs, weather.Transform(city.Name, rawWeather[city.Name], log)...)
	}
	if len(weatherRecs) == 0 {
		rep.FailedStage = StageTransform
		return fmt.Errorf("no valid weather records to load")
	}
	rep.WeatherTransformed = len(weatherRecs)

	if p.dryRun {
		log.Info("dry run, skipping load")
		return nil
	}

	// CONNECT
	log.Info("connecting to database", zap.String("stage", string(StageConnect)))
	st, err := p.openStore()
	if err != nil {
		rep.FailedStage = StageConnect
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("closing database connection", zap.Error(cerr))
		}
	}()

	// LOAD_STOCK
	log.Info("loading stock records", zap.String("stage", string(StageLoadStock)), zap.Int("records", len(stockRecs)))
	n, err := st.UpsertStockRecords(ctx, stockRecs)
	if err != nil {
		rep.FailedStage = StageLoadStock
		return err
	}
	rep.StockLoaded = n

	// LOAD_WEATHER
	log.Info("loading weather records", zap.String("stage", string(StageLoadWeather)), zap.Int("records", len(weatherRecs)))
	n, err = st.UpsertWeatherRecords(ctx, weatherRecs)
	if err != nil {
		rep.FailedStage = StageLoadWeather
		return err
	}
	rep.WeatherLoaded = n

	// VERIFY
	log.Info("verifying loaded data", zap.String("stage", string(StageVerify)))
	verification, err := st.Verify(ctx)
	if err != nil {
		rep.FailedStage = StageVerify
		return fmt.Errorf("verify loaded data: %w", err)
	}
	rep.Verification = verification
	if !verification.OK() {
		rep.FailedStage = StageVerify
		return fmt.Errorf("verification failed: stock rows=%d, weather rows=%d",
			verification.StockRows, verification.WeatherRows)
	}

	return nil
}
