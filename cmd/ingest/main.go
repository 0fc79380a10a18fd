// One-shot market data ingestion: fetches quotes (and optionally daily
// OHLCV bars) for a symbol list and writes them to the configured sinks.
//
// Usage:
//
//	ingest              # quotes only, symbols from INGEST_SYMBOLS
//	ingest -daily       # quotes + daily bars (uses more provider calls)
//	ingest AAPL MSFT    # override symbols
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/user/marketdash-go/cache"
	"github.com/user/marketdash-go/config"
	"github.com/user/marketdash-go/db"
	"github.com/user/marketdash-go/ingest"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	fetchDaily := flag.Bool("daily", false, "also fetch daily OHLCV bars per symbol")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found or error loading it", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fatal(logger, "failed to load config", err)
	}

	if cfg.Ingest.AlphaVantageAPIKey == "" {
		fatal(logger, "ALPHA_VANTAGE_API_KEY not set", nil)
	}

	symbols := cfg.Ingest.Symbols
	if args := flag.Args(); len(args) > 0 {
		symbols = nil
		for _, s := range args {
			symbols = append(symbols, strings.ToUpper(strings.TrimSpace(s)))
		}
	}
	if len(symbols) == 0 {
		fatal(logger, "no symbols (set INGEST_SYMBOLS or pass symbols)", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := ingest.NewAlphaVantageClient(cfg.Ingest.AlphaVantageAPIKey, "")
	if err != nil {
		fatal(logger, "failed to create market data client", err)
	}

	logSink := &ingest.LogSink{Logger: logger}
	quoteSinks := []ingest.QuoteSink{logSink}
	barSinks := []ingest.BarSink{logSink}

	if cfg.HasCache() {
		quoteClient, err := cache.New(ctx, cfg.RedisURL)
		if quoteClient == nil {
			fatal(logger, "invalid REDIS_URL", err)
		}
		if err != nil {
			logger.Warn("quote cache unreachable; writes may fail", "error", err)
		}
		defer quoteClient.Close()
		quoteSinks = append(quoteSinks, &ingest.RedisSink{Cache: quoteClient, TTL: cfg.Ingest.QuoteCacheTTL})
	} else {
		logger.Warn("REDIS_URL not set; quotes will not be cached")
	}

	if *fetchDaily {
		if cfg.HasDB() {
			pool, err := db.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				fatal(logger, "failed to create database pool", err)
			}
			defer pool.Close()
			barSinks = append(barSinks, &ingest.PostgresSink{Pool: pool})
		} else {
			logger.Warn("DATABASE_URL not set; daily bars will not be persisted")
		}
	}

	opts := ingest.Options{FetchDaily: *fetchDaily, Delay: cfg.Ingest.QuoteDelay}
	if err := ingest.Run(ctx, provider, symbols, quoteSinks, barSinks, opts, logger); err != nil {
		fatal(logger, "ingestion aborted", err)
	}
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
