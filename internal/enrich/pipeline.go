// Package enrich attaches price and return estimates to normalized trades.
package enrich

import (
	"context"
	"sort"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/returns"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// PriceResolver is the slice of the price layer the pipeline needs.
type PriceResolver interface {
	ResolveDates(ctx context.Context, ticker string, dates []string) map[string]*float64
	CurrentPrice(ctx context.Context, ticker string) *float64
}

// Pipeline enriches trades in place with entry price, current price,
// estimated return and estimated position size.
type Pipeline struct {
	resolver PriceResolver
	logger   *logger.Logger
}

// NewPipeline creates an enrichment pipeline.
func NewPipeline(resolver PriceResolver, log *logger.Logger) *Pipeline {
	return &Pipeline{resolver: resolver, logger: log}
}

// Run enriches every trade. Trades without an equity-style ticker keep nil
// price fields; price lookups that fail leave the affected fields nil.
func (p *Pipeline) Run(ctx context.Context, trades []*contracts.Trade) {
	// Unique tickers that need price lookups, plus the tx dates per ticker.
	tickerDates := make(map[string][]string)
	for _, t := range trades {
		if !contracts.IsEquityTicker(t.Ticker) || t.TxDate == "" {
			continue
		}
		tickerDates[t.Ticker] = append(tickerDates[t.Ticker], t.TxDate)
	}

	tickers := make([]string, 0, len(tickerDates))
	for ticker := range tickerDates {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	p.logger.WithFields(map[string]interface{}{
		"trades":  len(trades),
		"tickers": len(tickers),
	}).Info("Enriching trades")

	// Pre-fetch current prices once per unique ticker.
	currentPrices := make(map[string]*float64, len(tickers))
	for i, ticker := range tickers {
		if i%50 == 0 && i > 0 {
			p.logger.Infof("Fetched current prices for %d / %d tickers", i, len(tickers))
		}
		currentPrices[ticker] = p.resolver.CurrentPrice(ctx, ticker)
	}

	// One batched historical lookup per ticker.
	entryPrices := make(map[string]map[string]*float64, len(tickers))
	for _, ticker := range tickers {
		dates := tickerDates[ticker]
		sort.Strings(dates)
		entryPrices[ticker] = p.resolver.ResolveDates(ctx, ticker, dates)
	}

	enriched := 0
	for _, t := range trades {
		t.EstPosition = t.Midpoint()

		if !contracts.IsEquityTicker(t.Ticker) {
			t.PriceAtTrade = nil
			t.CurrentPrice = nil
			t.EstReturn = nil
			continue
		}

		if t.TxDate != "" {
			t.PriceAtTrade = entryPrices[t.Ticker][t.TxDate]
		} else {
			t.PriceAtTrade = nil
		}
		t.CurrentPrice = currentPrices[t.Ticker]

		t.EstReturn = returns.Percent(t.PriceAtTrade, t.CurrentPrice)
		if t.EstReturn != nil && t.IsSale() {
			// The official profits when the price drops after a sale.
			inverted := -*t.EstReturn
			t.EstReturn = &inverted
		}
		if t.EstReturn != nil {
			enriched++
		}
	}

	p.logger.Infof("Enriched %d / %d trades with return estimates", enriched, len(trades))
}
