// Package leaderboard aggregates enriched trades into per-politician
// performance statistics over a trailing one-year window.
package leaderboard

import (
	"sort"
	"time"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/returns"
)

// trailingDays bounds which returns count toward the leaderboard.
const trailingDays = 365

// TradeSummary identifies a single best or worst trade on an entry.
type TradeSummary struct {
	Ticker      string  `json:"ticker"`
	TxType      string  `json:"tx_type"`
	TxDate      string  `json:"tx_date"`
	EstReturn   float64 `json:"est_return"`
	EstPosition int64   `json:"est_position"`
}

// Entry is one politician's aggregate row, recomputed fully each run.
type Entry struct {
	Name              string        `json:"name"`
	Party             string        `json:"party"`
	State             string        `json:"state"`
	Chamber           string        `json:"chamber"`
	TotalTrades       int           `json:"total_trades"`
	TradesWithReturns int           `json:"trades_with_returns"`
	EstReturn1Y       float64       `json:"est_return_1y"`
	WinRate           float64       `json:"win_rate"`
	UniqueTickers     int           `json:"unique_tickers"`
	BestTrade         *TradeSummary `json:"best_trade"`
	WorstTrade        *TradeSummary `json:"worst_trade"`
}

type aggregate struct {
	entry   Entry
	rets    []float64
	tickers map[string]struct{}
}

// Build computes the leaderboard from the full trade set as of the given
// date, sorted by average return descending. Input order breaks ties:
// party/state/chamber backfill and best/worst trades are first-seen wins.
func Build(trades []*contracts.Trade, asOf time.Time) []Entry {
	cutoff := contracts.FormatDate(asOf.AddDate(0, 0, -trailingDays))

	byName := make(map[string]*aggregate)
	var order []string

	for _, t := range trades {
		if t.Politician == "" {
			continue
		}

		agg, ok := byName[t.Politician]
		if !ok {
			agg = &aggregate{
				entry:   Entry{Name: t.Politician},
				tickers: make(map[string]struct{}),
			}
			byName[t.Politician] = agg
			order = append(order, t.Politician)
		}

		agg.entry.TotalTrades++

		if agg.entry.Party == "" && t.Party != "" {
			agg.entry.Party = t.Party
		}
		if agg.entry.State == "" && t.State != "" {
			agg.entry.State = t.State
		}
		if agg.entry.Chamber == "" && t.Chamber != "" {
			agg.entry.Chamber = t.Chamber
		}

		if t.Ticker != "" {
			agg.tickers[t.Ticker] = struct{}{}
		}

		if t.EstReturn == nil || t.TxDate < cutoff {
			continue
		}

		ret := *t.EstReturn
		agg.rets = append(agg.rets, ret)

		summary := &TradeSummary{
			Ticker:      t.Ticker,
			TxType:      t.TxType,
			TxDate:      t.TxDate,
			EstReturn:   ret,
			EstPosition: t.EstPosition,
		}
		if agg.entry.BestTrade == nil || ret > agg.entry.BestTrade.EstReturn {
			agg.entry.BestTrade = summary
		}
		if agg.entry.WorstTrade == nil || ret < agg.entry.WorstTrade.EstReturn {
			agg.entry.WorstTrade = summary
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, name := range order {
		agg := byName[name]
		e := agg.entry
		e.TradesWithReturns = len(agg.rets)
		e.UniqueTickers = len(agg.tickers)

		if len(agg.rets) > 0 {
			sum := 0.0
			wins := 0
			for _, r := range agg.rets {
				sum += r
				if r > 0 {
					wins++
				}
			}
			e.EstReturn1Y = returns.Round2(sum / float64(len(agg.rets)))
			e.WinRate = returns.Round1(float64(wins) / float64(len(agg.rets)) * 100)
		}

		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EstReturn1Y > entries[j].EstReturn1Y
	})

	return entries
}
