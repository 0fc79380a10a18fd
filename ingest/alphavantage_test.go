package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const globalQuoteFixture = `{
  "Global Quote": {
    "01. symbol": "AAPL",
    "02. open": "188.0000",
    "03. high": "190.5000",
    "04. low": "187.2500",
    "05. price": "189.5000",
    "06. volume": "54,321,000",
    "07. latest trading day": "2026-08-28",
    "08. previous close": "188.9000",
    "09. change": "0.6000",
    "10. change percent": "0.3176%"
  }
}`

const dailySeriesFixture = `{
  "Meta Data": {
    "1. Information": "Daily Prices (open, high, low, close) and Volumes",
    "2. Symbol": "AAPL",
    "3. Last Refreshed": "2026-08-28"
  },
  "Time Series (Daily)": {
    "2026-08-28": {
      "1. open": "188.0000",
      "2. high": "190.5000",
      "3. low": "187.2500",
      "4. close": "189.5000",
      "5. volume": "54321000"
    },
    "2026-08-27": {
      "1. open": "186.0000",
      "2. high": "188.7500",
      "3. low": "185.5000",
      "4. close": "188.9000",
      "5. volume": "48000000"
    }
  }
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewAlphaVantageClient("test-key", srv.URL)
	require.NoError(t, err)
	return client
}

func TestNewAlphaVantageClient_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewAlphaVantageClient("  ", "")
	assert.Error(t, err)
}

func TestGetQuote_ParsesGlobalQuote(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(globalQuoteFixture))
	})

	quote, err := client.GetQuote(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "189.5000", quote.Price)
	require.NotNil(t, quote.Change)
	assert.Equal(t, "0.6000", *quote.Change)
	require.NotNil(t, quote.ChangePercent)
	assert.Equal(t, "0.3176", *quote.ChangePercent)
	require.NotNil(t, quote.Volume)
	assert.Equal(t, int64(54321000), *quote.Volume)
	require.NotNil(t, quote.PreviousClose)
	assert.Equal(t, "188.9000", *quote.PreviousClose)
	assert.Equal(t, SourceAlphaVantage, quote.Source)
}

func TestGetQuote_EmptyPayloadDefaults(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	})

	quote, err := client.GetQuote(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Equal(t, "ZZZZ", quote.Symbol)
	assert.Equal(t, "0", quote.Price)
	assert.Nil(t, quote.Change)
	assert.Nil(t, quote.Volume)
}

func TestGetQuote_ProviderErrorMessage(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API call.")
}

func TestGetQuote_RateLimitNote(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestGetQuote_HTTPError(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetDailySeries_SortedAscending(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
		w.Write([]byte(dailySeriesFixture))
	})

	bars, err := client.GetDailySeries(context.Background(), "AAPL", "compact")
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.True(t, bars[0].Date.Before(bars[1].Date))
	assert.Equal(t, "186.0000", bars[0].Open)
	assert.Equal(t, "189.5000", bars[1].Close)
	assert.Equal(t, int64(54321000), bars[1].Volume)
	assert.Equal(t, "AAPL", bars[0].Symbol)
	assert.Equal(t, SourceAlphaVantage, bars[0].Source)
}

func TestGetDailySeries_EmptySeries(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Meta Data": {"2. Symbol": "AAPL"}, "Time Series (Daily)": {}}`))
	})

	bars, err := client.GetDailySeries(context.Background(), "AAPL", "compact")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestGetDailySeries_DefaultsBadOutputsize(t *testing.T) {
	t.Parallel()

	client := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "compact", r.URL.Query().Get("outputsize"))
		w.Write([]byte(dailySeriesFixture))
	})

	_, err := client.GetDailySeries(context.Background(), "AAPL", "huge")
	require.NoError(t, err)
}

func TestCleanDecimal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want *string
	}{
		{"189.5000", strP("189.5000")},
		{" 1,234.56 ", strP("1234.56")},
		{"", nil},
		{"None", nil},
		{"n/a", nil},
	}
	for _, tc := range cases {
		got := cleanDecimal(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.in)
		} else {
			require.NotNil(t, got, "input %q", tc.in)
			assert.Equal(t, *tc.want, *got)
		}
	}
}

func strP(s string) *string { return &s }
