// Package quotes serves cached market quotes. The API is a read-only
// passthrough: quote documents are written to the cache by the ingestion
// pipeline and returned here verbatim.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/marketdash-go/apperror"
	"github.com/user/marketdash-go/auth"
	"github.com/user/marketdash-go/cache"
)

// QuoteCache is the read side of the quote cache.
type QuoteCache interface {
	GetQuote(ctx context.Context, symbol string) (json.RawMessage, error)
}

// Handlers provides HTTP handlers for quote lookups. A nil cache means the
// quote cache is not configured.
type Handlers struct {
	cache QuoteCache
}

// NewHandlers creates quote handlers over a cache, which may be nil.
func NewHandlers(quoteCache QuoteCache) *Handlers {
	return &Handlers{cache: quoteCache}
}

// HandleGetQuote godoc
// @Summary Get a cached market quote
// @Description Returns the latest cached quote document for a ticker symbol.
// @Tags Quotes
// @Produce json
// @Param symbol path string true "Ticker symbol, e.g. AAPL"
// @Success 200 {object} auth.DataEnvelope "Cached quote"
// @Failure 400 {object} apperror.ErrorResponse "Empty symbol"
// @Failure 404 {object} apperror.ErrorResponse "Quote not cached"
// @Failure 503 {object} apperror.ErrorResponse "Quote cache not configured or unreachable"
// @Router /quotes/{symbol} [get]
func (h *Handlers) HandleGetQuote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
		if symbol == "" {
			auth.WriteError(w, r, apperror.NewValidationError("Symbol is required", nil))
			return
		}

		if h.cache == nil {
			auth.WriteError(w, r, apperror.NewUnavailableError("Quote cache not configured", nil).
				WithData(map[string]any{
					"hint": "Set REDIS_URL and run the ingestion pipeline to populate the cache.",
				}))
			return
		}

		doc, err := h.cache.GetQuote(r.Context(), symbol)
		if err != nil {
			if errors.Is(err, cache.ErrNotCached) {
				auth.WriteError(w, r, apperror.NewNotFoundError("Quote not found", nil).
					WithData(map[string]any{"symbol": symbol}))
				return
			}
			auth.WriteError(w, r, apperror.NewUnavailableError("Service unavailable", err))
			return
		}

		auth.WriteData(w, http.StatusOK, doc)
	}
}
