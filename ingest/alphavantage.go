package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// AlphaVantageClient fetches quotes and daily series from Alpha Vantage.
// The free tier allows 25 requests per day; the runner's inter-symbol delay
// exists to stay under the per-minute limit.
type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewAlphaVantageClient creates a provider client. The API key is required.
func NewAlphaVantageClient(apiKey, baseURL string) (*AlphaVantageClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("alpha vantage api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// providerEnvelope captures the error fields Alpha Vantage mixes into an
// otherwise successful HTTP 200 body.
type providerEnvelope struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
}

func (c *AlphaVantageClient) get(ctx context.Context, params url.Values, out interface{}) error {
	params.Set("apikey", c.apiKey)
	params.Set("datatype", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alpha vantage: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope providerEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("alpha vantage: decoding response: %w", err)
	}
	if envelope.ErrorMessage != "" {
		return fmt.Errorf("alpha vantage api error: %s", envelope.ErrorMessage)
	}
	if envelope.Note != "" {
		return fmt.Errorf("alpha vantage api error: %s", envelope.Note)
	}

	return json.Unmarshal(body, out)
}

// cleanDecimal normalizes a provider decimal string, returning nil for
// empty or unparseable values.
func cleanDecimal(s string) *string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return nil
	}
	return &s
}

// cleanInt parses a provider integer string, returning nil when absent or
// malformed.
func cleanInt(s string) *int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	v := int64(f)
	return &v
}

type globalQuoteResponse struct {
	GlobalQuote map[string]string `json:"Global Quote"`
}

// GetQuote fetches the latest quote for a symbol. One API call per symbol.
func (c *AlphaVantageClient) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	var resp globalQuoteResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	gq := resp.GlobalQuote

	changePct := gq["10. change percent"]
	changePct = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(changePct), "%"))

	quotedSymbol := strings.TrimSpace(gq["01. symbol"])
	if quotedSymbol == "" {
		quotedSymbol = symbol
	}

	price := cleanDecimal(gq["05. price"])
	if price == nil {
		zero := "0"
		price = &zero
	}

	return &Quote{
		Symbol:        quotedSymbol,
		Price:         *price,
		Change:        cleanDecimal(gq["09. change"]),
		ChangePercent: cleanDecimal(changePct),
		Volume:        cleanInt(gq["06. volume"]),
		High:          cleanDecimal(gq["03. high"]),
		Low:           cleanDecimal(gq["04. low"]),
		Open:          cleanDecimal(gq["02. open"]),
		PreviousClose: cleanDecimal(gq["08. previous close"]),
		Source:        SourceAlphaVantage,
	}, nil
}

type dailySeriesResponse struct {
	MetaData map[string]string            `json:"Meta Data"`
	Series   map[string]map[string]string `json:"Time Series (Daily)"`
}

// GetDailySeries fetches daily OHLCV bars, oldest first.
// outputsize is "compact" (last 100 days) or "full".
func (c *AlphaVantageClient) GetDailySeries(ctx context.Context, symbol, outputsize string) ([]Bar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if outputsize != "compact" && outputsize != "full" {
		outputsize = "compact"
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputsize)

	var resp dailySeriesResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, nil
	}

	barSymbol := strings.TrimSpace(resp.MetaData["2. Symbol"])
	if barSymbol == "" {
		barSymbol = symbol
	}

	var bars []Bar
	for dayStr, ohlcv := range resp.Series {
		day, err := time.Parse("2006-01-02", dayStr)
		if err != nil {
			continue
		}
		open := cleanDecimal(ohlcv["1. open"])
		high := cleanDecimal(ohlcv["2. high"])
		low := cleanDecimal(ohlcv["3. low"])
		closePrice := cleanDecimal(ohlcv["4. close"])
		if open == nil && high == nil && low == nil && closePrice == nil {
			continue
		}
		var volume int64
		if v := cleanInt(ohlcv["5. volume"]); v != nil {
			volume = *v
		}
		bars = append(bars, Bar{
			Date:   day,
			Open:   orZero(open),
			High:   orZero(high),
			Low:    orZero(low),
			Close:  orZero(closePrice),
			Volume: volume,
			Symbol: barSymbol,
			Source: SourceAlphaVantage,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func orZero(s *string) string {
	if s == nil {
		return "0"
	}
	return *s
}
