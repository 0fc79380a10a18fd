// Package cache provides the Redis-backed quote cache client. Quotes are
// written by the ingestion pipeline under "quote:<SYMBOL>" keys as JSON
// documents; the API reads them back verbatim.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuoteKeyPrefix is the key namespace shared with the ingestion pipeline.
const QuoteKeyPrefix = "quote:"

// ErrNotCached is returned when a symbol has no cached quote.
var ErrNotCached = errors.New("quote not cached")

// Client wraps a go-redis client with quote-cache operations.
type Client struct {
	rdb *redis.Client
}

// New creates a quote cache client from a Redis URL
// (redis://[:password@]host:port/db).
//
// The connection is verified with a short ping so a misconfigured cache
// surfaces at startup, but a ping failure is reported to the caller rather
// than treated as fatal; the caller decides whether to run degraded.
func New(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return &Client{rdb: rdb}, err
	}
	return &Client{rdb: rdb}, nil
}

// QuoteKey returns the cache key for a symbol. Symbols are stored uppercased.
func QuoteKey(symbol string) string {
	return QuoteKeyPrefix + symbol
}

// GetQuote fetches the cached quote document for an already-normalized
// (uppercase) symbol. Returns ErrNotCached on a miss.
func (c *Client) GetQuote(ctx context.Context, symbol string) (json.RawMessage, error) {
	raw, err := c.rdb.Get(ctx, QuoteKey(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotCached
		}
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// SetQuote stores a quote document for a symbol with the given TTL.
// Used by the ingestion sink; the API itself never writes.
func (c *Client) SetQuote(ctx context.Context, symbol string, doc []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, QuoteKey(symbol), doc, ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
