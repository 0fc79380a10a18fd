// Package background contains services that run inside the API process,
// independently of the HTTP request cycle. Currently: the periodic quote
// refresh, which re-ingests the configured symbols so the cache stays warm
// without an external scheduler.
package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/user/marketdash-go/ingest"
)

// StartQuoteRefreshService launches the periodic quote refresh loop. Every
// interval it runs one quotes-only ingestion pass over symbols, writing to
// sinks. Closing stopChan stops the loop; any in-flight pass is cancelled
// through its context and drained before the goroutine exits.
func StartQuoteRefreshService(provider ingest.Provider, symbols []string, sinks []ingest.QuoteSink, interval time.Duration, logger *slog.Logger, stopChan <-chan struct{}) {
	logger.Info("quote refresh service starting", "symbols", len(symbols), "interval", interval.String())

	go func() {
		defer logger.Info("quote refresh service stopped")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// runCtx cancels the in-flight pass on shutdown.
		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var running sync.WaitGroup
		opts := ingest.Options{Delay: time.Second}

		for {
			select {
			case <-ticker.C:
				running.Add(1)
				go func() {
					defer running.Done()
					if err := ingest.Run(runCtx, provider, symbols, sinks, nil, opts, logger); err != nil {
						logger.Warn("quote refresh pass ended early", "error", err)
					}
				}()
			case <-stopChan:
				cancel()
				running.Wait()
				return
			}
		}
	}()
}
