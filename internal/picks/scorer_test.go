package picks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/leaderboard"
)

var asOf = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func buy(name, party, ticker, date string) *contracts.Trade {
	return &contracts.Trade{
		Politician: name,
		Party:      party,
		Ticker:     ticker,
		TxType:     contracts.TxPurchase,
		TxDate:     date,
	}
}

func TestBuildRequiresTwoDistinctBuyers(t *testing.T) {
	trades := []*contracts.Trade{
		buy("Alice", "D", "NVDA", "2025-06-10"),
		buy("Alice", "D", "NVDA", "2025-06-12"), // same buyer twice
	}
	assert.Empty(t, Build(trades, nil, asOf))

	trades = append(trades, buy("Bob", "D", "NVDA", "2025-06-11"))
	picks := Build(trades, nil, asOf)
	require.Len(t, picks, 1)
	assert.Equal(t, "NVDA", picks[0].Ticker)
	assert.Equal(t, 2, picks[0].NumPoliticians)
}

func TestBuildIgnoresOldAndNonPurchaseTrades(t *testing.T) {
	trades := []*contracts.Trade{
		buy("Alice", "D", "NVDA", "2025-03-01"), // outside 60-day lookback
		buy("Bob", "D", "NVDA", "2025-06-10"),
		{Politician: "Carol", Party: "D", Ticker: "NVDA", TxType: contracts.TxSaleFull, TxDate: "2025-06-11"},
	}
	assert.Empty(t, Build(trades, nil, asOf))
}

func TestBuildScoring(t *testing.T) {
	trades := []*contracts.Trade{
		buy("Alice", "D", "NVDA", "2025-06-10"), // 5 days ago: recency 3
		buy("Bob", "R", "NVDA", "2025-05-20"),   // 26 days ago: recency 2
	}
	summary := []leaderboard.Entry{
		{Name: "Alice", WinRate: 80},
		{Name: "Bob", WinRate: 60},
	}

	picks := Build(trades, summary, asOf)
	require.Len(t, picks, 1)

	p := picks[0]
	assert.True(t, p.Bipartisan)
	assert.Equal(t, 70.0, p.AvgWinRate)
	// score = 2 buyers * 3 + 70/10 + (3 + 2) recency + 5 bipartisan = 23
	assert.Equal(t, 23.0, p.Score)
	assert.Equal(t, "2025-06-10", p.LatestTradeDate)
	assert.Len(t, p.Politicians, 2)
}

func TestBuildRanksAndTruncates(t *testing.T) {
	var trades []*contracts.Trade
	tickers := []string{"T1", "T2", "T3", "T4", "T5", "T6"}
	for i, ticker := range tickers {
		// Increasing buyer counts so later tickers score higher.
		for b := 0; b <= i+1; b++ {
			name := string(rune('A' + b))
			trades = append(trades, buy(name+ticker, "D", ticker, "2025-06-10"))
		}
	}

	picks := Build(trades, nil, asOf)
	require.Len(t, picks, 5, "watch-list is capped")
	assert.Equal(t, "T6", picks[0].Ticker, "most buyers scores highest")
	for i := 1; i < len(picks); i++ {
		assert.GreaterOrEqual(t, picks[i-1].Score, picks[i].Score)
	}
}

func TestBuildLatestTradeCarriesPrices(t *testing.T) {
	older := buy("Alice", "D", "NVDA", "2025-06-01")
	older.PriceAtTrade = contracts.Float(90)
	newer := buy("Bob", "D", "NVDA", "2025-06-10")
	newer.PriceAtTrade = contracts.Float(100)
	newer.CurrentPrice = contracts.Float(110)

	picks := Build([]*contracts.Trade{older, newer}, nil, asOf)
	require.Len(t, picks, 1)

	require.NotNil(t, picks[0].PriceAtLatest)
	assert.Equal(t, 100.0, *picks[0].PriceAtLatest)
	require.NotNil(t, picks[0].CurrentPrice)
	assert.Equal(t, 110.0, *picks[0].CurrentPrice)
}

func TestBuildCompanyNameFallsBackToTicker(t *testing.T) {
	trades := []*contracts.Trade{
		buy("Alice", "D", "NVDA", "2025-06-10"),
		buy("Bob", "D", "NVDA", "2025-06-11"),
	}
	picks := Build(trades, nil, asOf)
	require.Len(t, picks, 1)
	assert.Equal(t, "NVDA", picks[0].CompanyName)
}
