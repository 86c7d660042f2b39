package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/stock-weather-etl/internal/common"
	"github.com/i474232898/stock-weather-etl/internal/market"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageProvider implements the market.Provider interface against the
// Alpha Vantage TIME_SERIES_DAILY_ADJUSTED endpoint.
type AlphaVantageProvider struct {
	name       string
	apiKey     string
	outputSize string // "compact" (last 100 trading days) or "full"
	client     *resty.Client
}

func NewAlphaVantageProvider(apiKey, outputSize string, timeout time.Duration) *AlphaVantageProvider {
	client := resty.New()
	client.SetBaseURL(alphaVantageBaseURL)
	client.SetTimeout(timeout)

	return &AlphaVantageProvider{
		name:       "alphavantage",
		apiKey:     apiKey,
		outputSize: outputSize,
		client:     client,
	}
}

func (p *AlphaVantageProvider) Name() string {
	return p.name
}

// FetchDaily requests the daily adjusted series for one symbol. It makes a
// single attempt; any failure, including a provider error payload embedded
// in a 200 response, is fatal for the run.
func (p *AlphaVantageProvider) FetchDaily(ctx context.Context, symbol string) (market.RawTimeSeries, error) {
	if p.apiKey == "" {
		return nil, &common.FetchError{Provider: p.name, Message: "api key is not configured"}
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   "TIME_SERIES_DAILY_ADJUSTED",
			"symbol":     symbol,
			"outputsize": p.outputSize,
			"apikey":     p.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, &common.FetchError{Provider: p.name, Message: "request failed", Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &common.FetchError{
			Provider: p.name,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	// Alpha Vantage reports errors inside a 200 body: "Error Message" for
	// bad requests, "Note"/"Information" for rate-limit notices.
	var envelope struct {
		ErrorMessage string               `json:"Error Message"`
		Note         string               `json:"Note"`
		Information  string               `json:"Information"`
		TimeSeries   market.RawTimeSeries `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, &common.FetchError{Provider: p.name, Message: "decode response", Err: err}
	}

	switch {
	case envelope.ErrorMessage != "":
		return nil, &common.FetchError{Provider: p.name, Message: envelope.ErrorMessage}
	case envelope.Note != "":
		return nil, &common.FetchError{Provider: p.name, Message: envelope.Note}
	case envelope.Information != "":
		return nil, &common.FetchError{Provider: p.name, Message: envelope.Information}
	case len(envelope.TimeSeries) == 0:
		return nil, &common.FetchError{Provider: p.name, Message: "no time series data in response"}
	}

	return envelope.TimeSeries, nil
}

var _ market.Provider = (*AlphaVantageProvider)(nil)
