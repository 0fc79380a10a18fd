package ingest

import (
	"context"
	"log/slog"
	"time"
)

// Provider fetches market data for one symbol at a time.
// *AlphaVantageClient is the production implementation.
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	GetDailySeries(ctx context.Context, symbol, outputsize string) ([]Bar, error)
}

// Options configures one ingestion run.
type Options struct {
	// FetchDaily also pulls the compact daily series per symbol. Costs one
	// extra provider call per symbol.
	FetchDaily bool
	// Delay is the pause between symbols, for provider rate limits.
	Delay time.Duration
}

// Run fetches each symbol once and fans the results out to the sinks.
// A failure on one symbol or one sink is logged and does not stop the run;
// only context cancellation ends it early.
func Run(ctx context.Context, provider Provider, symbols []string, quoteSinks []QuoteSink, barSinks []BarSink, opts Options, logger *slog.Logger) error {
	if len(symbols) == 0 {
		logger.Warn("no symbols to ingest")
		return nil
	}

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		quote, err := provider.GetQuote(ctx, symbol)
		if err != nil {
			logger.Error("fetching quote failed", "symbol", symbol, "error", err)
		} else {
			for _, sink := range quoteSinks {
				if err := sink.WriteQuote(ctx, quote); err != nil {
					logger.Error("quote sink failed", "symbol", symbol, "error", err)
				}
			}
		}

		if opts.FetchDaily {
			bars, err := provider.GetDailySeries(ctx, symbol, "compact")
			if err != nil {
				logger.Error("fetching daily series failed", "symbol", symbol, "error", err)
			} else {
				for _, sink := range barSinks {
					if err := sink.WriteBars(ctx, symbol, bars); err != nil {
						logger.Error("bar sink failed", "symbol", symbol, "error", err)
					}
				}
			}
		}

		if i < len(symbols)-1 && opts.Delay > 0 {
			select {
			case <-time.After(opts.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
