package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/stock-weather-etl/internal/config"
	marketproviders "github.com/i474232898/stock-weather-etl/internal/market/providers"
	"github.com/i474232898/stock-weather-etl/internal/pipeline"
	"github.com/i474232898/stock-weather-etl/internal/store"
	weatherproviders "github.com/i474232898/stock-weather-etl/internal/weather/providers"
)

// NewRootCmd builds the single-run ingestion command.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		windowDays int
		dryRun     bool
		envFile    string
	)

	cmd := &cobra.Command{
		Use:   "stock-weather-etl",
		Short: "Fetch daily stock and weather data and upsert it into PostgreSQL",
		Long: `stock-weather-etl runs one batch ingestion: it fetches the daily stock
series for the configured symbol and the historical daily weather for the
configured cities, normalizes both, and upserts them into PostgreSQL keyed
by date (and city, for weather). Reruns are idempotent.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Config is validated before any client is built, so a missing
			// credential aborts before the first HTTP call.
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("window") {
				cfg.StockWindowDays = windowDays
			}

			stocks := marketproviders.NewAlphaVantageProvider(cfg.AlphaVantageAPIKey, cfg.StockOutputSize, cfg.HTTPTimeout)
			weatherSrc := weatherproviders.NewOpenMeteoProvider(cfg.HTTPTimeout)
			openStore := func() (pipeline.Store, error) {
				return store.Open(cfg.DB)
			}

			p := pipeline.New(cfg, stocks, weatherSrc, openStore, logger, dryRun)
			rep, err := p.Run(cmd.Context())
			if rep != nil {
				fmt.Fprint(cmd.OutOrStdout(), rep.Summary())
			}
			return err
		},
	}

	cmd.Flags().IntVar(&windowDays, "window", 0, "keep only stock rows within this trailing window of days (overrides STOCK_WINDOW_DAYS)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "fetch and transform only; skip the database entirely")
	cmd.Flags().StringVar(&envFile, "env-file", "", "load environment from this file instead of ./.env")

	return cmd
}
