package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// fakeResolver answers from fixed maps and counts lookups.
type fakeResolver struct {
	prices       map[string]map[string]float64 // ticker → date → close
	current      map[string]float64            // ticker → latest close
	rangeCalls   int
	currentCalls int
}

func (f *fakeResolver) ResolveDates(ctx context.Context, ticker string, dates []string) map[string]*float64 {
	f.rangeCalls++
	out := make(map[string]*float64, len(dates))
	for _, d := range dates {
		if p, ok := f.prices[ticker][d]; ok {
			p := p
			out[d] = &p
		} else {
			out[d] = nil
		}
	}
	return out
}

func (f *fakeResolver) CurrentPrice(ctx context.Context, ticker string) *float64 {
	f.currentCalls++
	if p, ok := f.current[ticker]; ok {
		return &p
	}
	return nil
}

func TestPipelineEnrichesPurchase(t *testing.T) {
	resolver := &fakeResolver{
		prices:  map[string]map[string]float64{"NVDA": {"2025-01-15": 100}},
		current: map[string]float64{"NVDA": 125},
	}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trade := &contracts.Trade{
		Politician: "Nancy Pelosi",
		Ticker:     "NVDA",
		TxType:     contracts.TxPurchase,
		TxDate:     "2025-01-15",
		AmountLow:  1001,
		AmountHigh: 15000,
	}
	pipeline.Run(context.Background(), []*contracts.Trade{trade})

	require.NotNil(t, trade.PriceAtTrade)
	require.NotNil(t, trade.CurrentPrice)
	require.NotNil(t, trade.EstReturn)
	assert.Equal(t, 100.0, *trade.PriceAtTrade)
	assert.Equal(t, 125.0, *trade.CurrentPrice)
	assert.Equal(t, 25.0, *trade.EstReturn)
	assert.Equal(t, int64(8000), trade.EstPosition)
}

func TestPipelineInvertsSaleReturn(t *testing.T) {
	resolver := &fakeResolver{
		prices:  map[string]map[string]float64{"INTC": {"2025-01-15": 50}},
		current: map[string]float64{"INTC": 40},
	}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trade := &contracts.Trade{
		Politician: "Someone",
		Ticker:     "INTC",
		TxType:     contracts.TxSaleFull,
		TxDate:     "2025-01-15",
	}
	pipeline.Run(context.Background(), []*contracts.Trade{trade})

	// Price dropped 20% after the sale; the seller avoided that loss.
	require.NotNil(t, trade.EstReturn)
	assert.Equal(t, 20.0, *trade.EstReturn)
}

func TestPipelineSkipsNonEquityTickers(t *testing.T) {
	resolver := &fakeResolver{}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trades := []*contracts.Trade{
		{Ticker: "", TxType: contracts.TxPurchase, TxDate: "2025-01-15", AmountLow: 1001, AmountHigh: 15000},
		{Ticker: "912828XG8", TxType: contracts.TxPurchase, TxDate: "2025-01-15"},
	}
	pipeline.Run(context.Background(), trades)

	for _, tr := range trades {
		assert.Nil(t, tr.PriceAtTrade)
		assert.Nil(t, tr.CurrentPrice)
		assert.Nil(t, tr.EstReturn)
	}
	assert.Equal(t, int64(8000), trades[0].EstPosition, "position estimate needs no price data")
	assert.Equal(t, 0, resolver.rangeCalls)
	assert.Equal(t, 0, resolver.currentCalls)
}

func TestPipelineLeavesNilOnMissingPrices(t *testing.T) {
	resolver := &fakeResolver{
		prices:  map[string]map[string]float64{},
		current: map[string]float64{},
	}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trade := &contracts.Trade{Ticker: "NVDA", TxType: contracts.TxPurchase, TxDate: "2025-01-15"}
	pipeline.Run(context.Background(), []*contracts.Trade{trade})

	assert.Nil(t, trade.PriceAtTrade)
	assert.Nil(t, trade.CurrentPrice)
	assert.Nil(t, trade.EstReturn)
}

func TestPipelineIsIdempotent(t *testing.T) {
	resolver := &fakeResolver{
		prices:  map[string]map[string]float64{"NVDA": {"2025-01-15": 100}},
		current: map[string]float64{"NVDA": 125},
	}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trade := &contracts.Trade{
		Ticker:     "NVDA",
		TxType:     contracts.TxPurchase,
		TxDate:     "2025-01-15",
		AmountLow:  1001,
		AmountHigh: 15000,
	}

	pipeline.Run(context.Background(), []*contracts.Trade{trade})
	first := *trade

	pipeline.Run(context.Background(), []*contracts.Trade{trade})

	assert.Equal(t, *first.PriceAtTrade, *trade.PriceAtTrade)
	assert.Equal(t, *first.CurrentPrice, *trade.CurrentPrice)
	assert.Equal(t, *first.EstReturn, *trade.EstReturn)
	assert.Equal(t, first.EstPosition, trade.EstPosition)
}

func TestPipelineBatchesPerTicker(t *testing.T) {
	resolver := &fakeResolver{
		prices: map[string]map[string]float64{
			"NVDA": {"2025-01-15": 100, "2025-02-01": 110},
		},
		current: map[string]float64{"NVDA": 125},
	}
	pipeline := NewPipeline(resolver, logger.NewNop())

	trades := []*contracts.Trade{
		{Ticker: "NVDA", TxType: contracts.TxPurchase, TxDate: "2025-01-15"},
		{Ticker: "NVDA", TxType: contracts.TxPurchase, TxDate: "2025-02-01"},
		{Ticker: "NVDA", TxType: contracts.TxPurchase, TxDate: "2025-01-15"},
	}
	pipeline.Run(context.Background(), trades)

	assert.Equal(t, 1, resolver.rangeCalls, "one historical lookup per ticker")
	assert.Equal(t, 1, resolver.currentCalls, "one current-price lookup per ticker")
	require.NotNil(t, trades[1].PriceAtTrade)
	assert.Equal(t, 110.0, *trades[1].PriceAtTrade)
}
