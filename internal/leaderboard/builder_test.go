package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcwatch/dcwatch/internal/contracts"
)

var asOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func purchase(name, ticker, date string, ret *float64) *contracts.Trade {
	return &contracts.Trade{
		Politician: name,
		Ticker:     ticker,
		TxType:     contracts.TxPurchase,
		TxDate:     date,
		EstReturn:  ret,
	}
}

func TestBuildAggregatesPerPolitician(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("Alice", "NVDA", "2025-01-10", contracts.Float(10)),
		purchase("Alice", "MSFT", "2025-02-10", contracts.Float(-5)),
		purchase("Alice", "NVDA", "2025-03-10", contracts.Float(25)),
		purchase("Bob", "AAPL", "2025-01-20", contracts.Float(2)),
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 2)

	// Alice: mean(10, -5, 25) = 10, two of three positive.
	alice := entries[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 3, alice.TotalTrades)
	assert.Equal(t, 3, alice.TradesWithReturns)
	assert.Equal(t, 10.0, alice.EstReturn1Y)
	assert.Equal(t, 66.7, alice.WinRate)
	assert.Equal(t, 2, alice.UniqueTickers)

	require.NotNil(t, alice.BestTrade)
	require.NotNil(t, alice.WorstTrade)
	assert.Equal(t, 25.0, alice.BestTrade.EstReturn)
	assert.Equal(t, "NVDA", alice.BestTrade.Ticker)
	assert.Equal(t, -5.0, alice.WorstTrade.EstReturn)

	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 2.0, entries[1].EstReturn1Y)
}

func TestBuildSortsByReturnDescending(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("Low", "A", "2025-01-10", contracts.Float(1)),
		purchase("High", "B", "2025-01-10", contracts.Float(50)),
		purchase("Mid", "C", "2025-01-10", contracts.Float(20)),
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 3)
	assert.Equal(t, "High", entries[0].Name)
	assert.Equal(t, "Mid", entries[1].Name)
	assert.Equal(t, "Low", entries[2].Name)
}

func TestBuildExcludesReturnsOutsideTrailingYear(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("Alice", "NVDA", "2023-01-10", contracts.Float(500)), // stale
		purchase("Alice", "NVDA", "2025-05-10", contracts.Float(10)),
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 1)

	// The stale trade still counts toward totals, not toward returns.
	assert.Equal(t, 2, entries[0].TotalTrades)
	assert.Equal(t, 1, entries[0].TradesWithReturns)
	assert.Equal(t, 10.0, entries[0].EstReturn1Y)
}

func TestBuildCountsTradesWithoutReturns(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("Alice", "NVDA", "2025-01-10", nil),
		purchase("Alice", "MSFT", "2025-02-10", contracts.Float(8)),
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].TotalTrades)
	assert.Equal(t, 1, entries[0].TradesWithReturns)
	assert.Equal(t, 8.0, entries[0].EstReturn1Y)
	assert.Equal(t, 100.0, entries[0].WinRate)
}

func TestBuildBackfillsAffiliationFirstSeen(t *testing.T) {
	trades := []*contracts.Trade{
		{Politician: "Alice", TxType: contracts.TxPurchase, TxDate: "2025-01-10"},
		{Politician: "Alice", Party: "D", State: "CA", Chamber: "house", TxType: contracts.TxPurchase, TxDate: "2025-02-10"},
		{Politician: "Alice", Party: "R", TxType: contracts.TxPurchase, TxDate: "2025-03-10"},
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 1)
	assert.Equal(t, "D", entries[0].Party, "first non-empty value wins")
	assert.Equal(t, "CA", entries[0].State)
	assert.Equal(t, "house", entries[0].Chamber)
}

func TestBuildSkipsAnonymousTrades(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("", "NVDA", "2025-01-10", contracts.Float(10)),
	}
	assert.Empty(t, Build(trades, asOf))
}

func TestBuildZeroReturnsPolitician(t *testing.T) {
	trades := []*contracts.Trade{
		purchase("Alice", "NVDA", "2025-01-10", nil),
	}

	entries := Build(trades, asOf)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, entries[0].EstReturn1Y)
	assert.Equal(t, 0.0, entries[0].WinRate)
	assert.Nil(t, entries[0].BestTrade)
	assert.Nil(t, entries[0].WorstTrade)
}
