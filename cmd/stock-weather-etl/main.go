package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/i474232898/stock-weather-etl/internal/cli"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	rootCmd := cli.NewRootCmd(logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("ingestion failed", zap.Error(err))
		os.Exit(1)
	}
}
