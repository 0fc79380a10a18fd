// Package ingest fetches market data from the provider and writes it to the
// configured sinks: the Redis quote cache the API serves from, the
// price_bars table, and the log. It backs both the one-shot ingestion CLI
// and the in-process periodic refresh.
package ingest

import "time"

// SourceAlphaVantage tags records fetched from Alpha Vantage.
const SourceAlphaVantage = "alpha_vantage"

// Quote is a normalized latest-price snapshot for one symbol. Decimal
// fields are carried as strings exactly as the provider reports them, so the
// cached JSON document preserves the provider's precision; consumers parse
// as needed. Optional fields are nil when the provider omits them.
type Quote struct {
	Symbol        string     `json:"symbol"`
	Price         string     `json:"price"`
	Change        *string    `json:"change"`
	ChangePercent *string    `json:"change_percent"`
	Volume        *int64     `json:"volume"`
	High          *string    `json:"high"`
	Low           *string    `json:"low"`
	Open          *string    `json:"open"`
	PreviousClose *string    `json:"previous_close"`
	Timestamp     *time.Time `json:"timestamp"`
	Source        string     `json:"source"`
}

// Bar is one daily OHLCV bar.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   string    `json:"open"`
	High   string    `json:"high"`
	Low    string    `json:"low"`
	Close  string    `json:"close"`
	Volume int64     `json:"volume"`
	Symbol string    `json:"symbol"`
	Source string    `json:"source"`
}
