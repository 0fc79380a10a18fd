package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/marketdash-go/cache"
)

// QuoteSink consumes ingested quotes.
type QuoteSink interface {
	WriteQuote(ctx context.Context, quote *Quote) error
}

// BarSink consumes ingested daily OHLCV bars.
type BarSink interface {
	WriteBars(ctx context.Context, symbol string, bars []Bar) error
}

// LogSink writes quotes and bars to the log. It implements both sink
// interfaces and is the fallback when no cache or database is configured.
type LogSink struct {
	Logger *slog.Logger
}

func (s *LogSink) WriteQuote(ctx context.Context, quote *Quote) error {
	volume := int64(0)
	if quote.Volume != nil {
		volume = *quote.Volume
	}
	s.Logger.Info("quote", "symbol", quote.Symbol, "price", quote.Price, "volume", volume)
	return nil
}

func (s *LogSink) WriteBars(ctx context.Context, symbol string, bars []Bar) error {
	s.Logger.Info("ohlcv", "symbol", symbol, "count", len(bars))
	return nil
}

// RedisSink caches quotes for real-time reads by the API: key
// quote:SYMBOL, JSON document, TTL.
type RedisSink struct {
	Cache *cache.Client
	TTL   time.Duration
}

func (s *RedisSink) WriteQuote(ctx context.Context, quote *Quote) error {
	doc, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("encoding quote %s: %w", quote.Symbol, err)
	}
	if err := s.Cache.SetQuote(ctx, quote.Symbol, doc, s.TTL); err != nil {
		return fmt.Errorf("caching quote %s: %w", quote.Symbol, err)
	}
	return nil
}

// PostgresSink persists daily bars to price_bars for charts and backtests.
type PostgresSink struct {
	Pool *pgxpool.Pool
}

func (s *PostgresSink) WriteBars(ctx context.Context, symbol string, bars []Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `INSERT INTO price_bars (symbol, bar_date, open, high, low, close, volume, source)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              ON CONFLICT (symbol, bar_date) DO UPDATE SET
                open = EXCLUDED.open,
                high = EXCLUDED.high,
                low = EXCLUDED.low,
                close = EXCLUDED.close,
                volume = EXCLUDED.volume,
                source = EXCLUDED.source`

	batch := &pgx.Batch{}
	for _, bar := range bars {
		batch.Queue(query, symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.Source)
	}

	results := s.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upserting price bars for %s: %w", symbol, err)
		}
	}
	return nil
}
