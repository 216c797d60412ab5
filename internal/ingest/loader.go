// Package ingest loads, normalizes, and persists the JSON data artifacts.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

// Artifact file names under the data directory.
const (
	TradesFile   = "trades.json"
	SummaryFile  = "summary.json"
	LatestFile   = "latest.json"
	SignalsFile  = "signals.json"
	TopPicksFile = "top_picks.json"
	BacktestFile = "backtest_results.json"
)

// latestCount is how many recent trades the latest artifact keeps.
const latestCount = 50

// partyLookup fills party affiliations the filings leave blank. Senate PDFs
// in particular omit them.
var partyLookup = map[string]string{
	"A. Mitchell McConnell, Jr.": "R",
	"Angus S King, Jr.":          "I",
	"Bernie Moreno":              "R",
	"David H McCormick":          "R",
	"Gary C Peters":              "D",
	"John Boozman":               "R",
	"John Fetterman":             "D",
	"John W Hickenlooper":        "D",
	"Katie Britt":                "R",
	"Lindsey Graham":             "R",
	"Mark R Warner":              "D",
	"Markwayne Mullin":           "R",
	"Rafael E Cruz":              "R",
	"Sheldon Whitehouse":         "D",
	"Shelley M Capito":           "R",
	"Thomas H Tuberville":        "R",
	"Tina Smith":                 "D",
	"Richard Blumenthal":         "D",
}

// Loader reads trades from the data directory and applies the normalization
// steps every downstream stage relies on.
type Loader struct {
	dataDir string
	logger  *logger.Logger
}

// NewLoader creates a loader rooted at dataDir.
func NewLoader(dataDir string, log *logger.Logger) *Loader {
	return &Loader{dataDir: dataDir, logger: log}
}

// LoadTrades reads trades.json and normalizes it: party backfill, removal of
// trades with no transaction date, and ID assignment. A missing or corrupt
// file is an error, the analytics have nothing to work with without it.
func (l *Loader) LoadTrades() ([]*contracts.Trade, error) {
	path := filepath.Join(l.dataDir, TradesFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var trades []*contracts.Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	l.logger.Infof("Loaded %d trades from %s", len(trades), path)

	l.backfillParty(trades)
	trades = l.dropMissingTxDate(trades)

	for _, t := range trades {
		if t.ID == "" {
			t.ID = contracts.TradeID(t.Politician, t.TxDate, t.Ticker, t.TxType, t.AmountLow, t.AmountHigh)
		}
	}

	return trades, nil
}

// backfillParty fills blank party fields from the lookup table.
func (l *Loader) backfillParty(trades []*contracts.Trade) {
	filled := 0
	for _, t := range trades {
		if t.Party != "" {
			continue
		}
		if party, ok := partyLookup[t.Politician]; ok {
			t.Party = party
			filled++
		}
	}
	if filled > 0 {
		l.logger.Infof("Filled party for %d trades from lookup table", filled)
	}
}

// dropMissingTxDate removes trades whose transaction date failed to parse
// upstream. They cannot be priced, bucketed, or windowed.
func (l *Loader) dropMissingTxDate(trades []*contracts.Trade) []*contracts.Trade {
	kept := trades[:0]
	for _, t := range trades {
		if strings.TrimSpace(t.TxDate) != "" {
			kept = append(kept, t)
		}
	}
	if dropped := len(trades) - len(kept); dropped > 0 {
		l.logger.Infof("Filtered out %d trades with empty tx_date", dropped)
	}
	return kept
}

// Latest returns the most recent trades that carry a ticker, newest first.
func Latest(trades []*contracts.Trade) []*contracts.Trade {
	withTicker := make([]*contracts.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Ticker != "" {
			withTicker = append(withTicker, t)
		}
	}

	sort.SliceStable(withTicker, func(i, j int) bool {
		return withTicker[i].TxDate > withTicker[j].TxDate
	})

	if len(withTicker) > latestCount {
		withTicker = withTicker[:latestCount]
	}
	return withTicker
}
