package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcwatch/dcwatch/internal/contracts"
)

func trade(name, party, ticker, date string) *contracts.Trade {
	return &contracts.Trade{
		Politician: name,
		Party:      party,
		Ticker:     ticker,
		TxType:     contracts.TxPurchase,
		TxDate:     date,
		AmountLow:  1001,
		AmountHigh: 15000,
	}
}

func TestDetectRequiresThreeDistinctPoliticians(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-10"),
		trade("Bob", "D", "NVDA", "2025-01-12"),
		trade("Alice", "D", "NVDA", "2025-01-14"), // repeat, not distinct
	}
	assert.Empty(t, Detect(trades))

	trades = append(trades, trade("Carol", "D", "NVDA", "2025-01-15"))
	signals := Detect(trades)
	require.Len(t, signals, 1)
	assert.Equal(t, "NVDA", signals[0].Ticker)

	// A fourth trade by one of the same three must not change the
	// distinct-politician count.
	trades = append(trades, trade("Bob", "D", "NVDA", "2025-01-16"))
	signals = Detect(trades)
	require.Len(t, signals, 1)
	distinct := make(map[string]struct{})
	for _, p := range signals[0].Politicians {
		distinct[p.Name] = struct{}{}
	}
	assert.Len(t, distinct, 3)
}

func TestDetectWindowIsOneDirectional(t *testing.T) {
	// Three politicians spread over 11 days: no anchor sees all three
	// within 10 days forward except the earliest.
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-01"),
		trade("Bob", "D", "NVDA", "2025-01-06"),
		trade("Carol", "D", "NVDA", "2025-01-11"),
	}
	signals := Detect(trades)
	require.Len(t, signals, 1)
	assert.Equal(t, "2025-01-01", signals[0].StartDate)
	assert.Equal(t, "2025-01-11", signals[0].EndDate)

	// Shift the last trade past the window: no cluster from any anchor.
	trades[2].TxDate = "2025-01-12"
	assert.Empty(t, Detect(trades))
}

func TestDetectBipartisanFlagAndHeat(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "Democrat", "NVDA", "2025-01-10"),
		trade("Bob", "Republican", "NVDA", "2025-01-11"),
		trade("Carol", "D", "NVDA", "2025-01-12"),
	}
	signals := Detect(trades)
	require.Len(t, signals, 1)

	s := signals[0]
	assert.True(t, s.Bipartisan, "party strings normalize to their first letter")

	// heat = 2*3 + 5 (bipartisan) + floor(ln(3*8000.5 + 1)) = 6 + 5 + 10
	assert.Equal(t, 21, s.HeatScore)
	assert.Len(t, s.Politicians, 3)
}

func TestDetectSamePartyIsNotBipartisan(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-10"),
		trade("Bob", "Democrat", "NVDA", "2025-01-11"),
		trade("Carol", "D", "NVDA", "2025-01-12"),
	}
	signals := Detect(trades)
	require.Len(t, signals, 1)
	assert.False(t, signals[0].Bipartisan)
}

func TestDetectDropsOverlappingWindows(t *testing.T) {
	// Four trades inside one tight window yield multiple candidate
	// anchors; only one cluster per overlapping date range survives.
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-10"),
		trade("Bob", "R", "NVDA", "2025-01-11"),
		trade("Carol", "D", "NVDA", "2025-01-12"),
		trade("Dave", "R", "NVDA", "2025-01-13"),
	}
	signals := Detect(trades)
	require.Len(t, signals, 1, "overlapping candidates collapse to the hottest")
	assert.Len(t, signals[0].Politicians, 4)
}

func TestDetectKeepsDisjointClusters(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-01"),
		trade("Bob", "D", "NVDA", "2025-01-02"),
		trade("Carol", "D", "NVDA", "2025-01-03"),

		trade("Dave", "R", "NVDA", "2025-03-01"),
		trade("Erin", "R", "NVDA", "2025-03-02"),
		trade("Frank", "R", "NVDA", "2025-03-03"),
	}
	signals := Detect(trades)
	assert.Len(t, signals, 2)
}

func TestDetectSortsByHeatDescending(t *testing.T) {
	trades := []*contracts.Trade{
		// Bipartisan cluster on MSFT: hotter.
		trade("Alice", "D", "MSFT", "2025-01-10"),
		trade("Bob", "R", "MSFT", "2025-01-11"),
		trade("Carol", "D", "MSFT", "2025-01-12"),

		// Same-party cluster on NVDA.
		trade("Dave", "R", "NVDA", "2025-01-10"),
		trade("Erin", "R", "NVDA", "2025-01-11"),
		trade("Frank", "R", "NVDA", "2025-01-12"),
	}
	signals := Detect(trades)
	require.Len(t, signals, 2)
	assert.Equal(t, "MSFT", signals[0].Ticker)
	assert.Greater(t, signals[0].HeatScore, signals[1].HeatScore)
}

func TestDetectUsesAssetDescriptionAsCompanyName(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "D", "NVDA", "2025-01-10"),
		trade("Bob", "D", "NVDA", "2025-01-11"),
		trade("Carol", "D", "NVDA", "2025-01-12"),
	}
	trades[1].AssetDescription = "NVIDIA Corporation"

	signals := Detect(trades)
	require.Len(t, signals, 1)
	assert.Equal(t, "NVIDIA Corporation", signals[0].CompanyName)
}

func TestDetectIgnoresTradesWithoutTickerOrDate(t *testing.T) {
	trades := []*contracts.Trade{
		trade("Alice", "D", "", "2025-01-10"),
		trade("Bob", "D", "NVDA", ""),
		trade("Carol", "D", "NVDA", "2025-01-12"),
	}
	assert.Empty(t, Detect(trades))
}

func TestPartyCode(t *testing.T) {
	assert.Equal(t, "D", PartyCode("Democrat"))
	assert.Equal(t, "R", PartyCode("republican"))
	assert.Equal(t, "I", PartyCode("Independent"))
	assert.Equal(t, "", PartyCode(""))
}
