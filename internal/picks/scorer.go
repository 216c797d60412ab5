// Package picks ranks tickers with recent multi-politician buying into a
// short watch-list.
package picks

import (
	"sort"
	"time"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/leaderboard"
	"github.com/dcwatch/dcwatch/internal/returns"
	"github.com/dcwatch/dcwatch/internal/signals"
)

const (
	lookbackDays = 60
	minBuyers    = 2
	topN         = 5

	bipartisanBonus = 5.0
)

// Buyer is one distinct purchasing politician on a pick.
type Buyer struct {
	Name    string  `json:"name"`
	Party   string  `json:"party"`
	TxDate  string  `json:"tx_date"`
	WinRate float64 `json:"win_rate"`
}

// TopPick is one ranked watch-list entry, recomputed per run.
type TopPick struct {
	Ticker          string   `json:"ticker"`
	CompanyName     string   `json:"company_name"`
	Score           float64  `json:"score"`
	NumPoliticians  int      `json:"num_politicians"`
	Bipartisan      bool     `json:"bipartisan"`
	AvgWinRate      float64  `json:"avg_win_rate"`
	LatestTradeDate string   `json:"latest_trade_date"`
	PriceAtLatest   *float64 `json:"price_at_latest"`
	CurrentPrice    *float64 `json:"current_price"`
	Politicians     []Buyer  `json:"politicians"`
}

// Build scores tickers bought by minBuyers+ distinct politicians in the last
// lookbackDays and returns the topN by score.
func Build(trades []*contracts.Trade, summary []leaderboard.Entry, asOf time.Time) []TopPick {
	winRates := make(map[string]float64, len(summary))
	for _, e := range summary {
		if e.Name != "" {
			winRates[e.Name] = e.WinRate
		}
	}

	today := truncateToDate(asOf)
	cutoff := contracts.FormatDate(today.AddDate(0, 0, -lookbackDays))

	byTicker := make(map[string][]*contracts.Trade)
	var tickerOrder []string
	for _, t := range trades {
		if t.TxType != contracts.TxPurchase || t.TxDate < cutoff || t.Ticker == "" {
			continue
		}
		if _, ok := byTicker[t.Ticker]; !ok {
			tickerOrder = append(tickerOrder, t.Ticker)
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	var candidates []TopPick
	for _, ticker := range tickerOrder {
		if pick, ok := scoreTicker(ticker, byTicker[ticker], winRates, today); ok {
			candidates = append(candidates, pick)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}

// scoreTicker computes the multi-factor score for one ticker's recent
// purchases; ok is false below the distinct-buyer threshold.
func scoreTicker(ticker string, group []*contracts.Trade, winRates map[string]float64, today time.Time) (TopPick, bool) {
	parties := make(map[string]struct{})
	seen := make(map[string]struct{})
	var buyers []Buyer

	for _, t := range group {
		if t.Politician == "" {
			continue
		}
		if t.Party != "" {
			parties[signals.PartyCode(t.Party)] = struct{}{}
		}
		if _, ok := seen[t.Politician]; !ok {
			seen[t.Politician] = struct{}{}
			buyers = append(buyers, Buyer{
				Name:    t.Politician,
				Party:   t.Party,
				TxDate:  t.TxDate,
				WinRate: winRates[t.Politician],
			})
		}
	}

	if len(buyers) < minBuyers {
		return TopPick{}, false
	}

	_, hasD := parties["D"]
	_, hasR := parties["R"]
	bipartisan := hasD && hasR

	avgWinRate := 0.0
	for _, b := range buyers {
		avgWinRate += b.WinRate
	}
	avgWinRate /= float64(len(buyers))

	recency := 0.0
	for _, t := range group {
		txDate, err := contracts.ParseDate(t.TxDate)
		if err != nil {
			continue
		}
		switch daysAgo := int(today.Sub(txDate).Hours() / 24); {
		case daysAgo <= 14:
			recency += 3
		case daysAgo <= 30:
			recency += 2
		default:
			recency += 1
		}
	}

	score := float64(len(buyers)*3) + avgWinRate/10 + recency
	if bipartisan {
		score += bipartisanBonus
	}

	companyName := ticker
	for _, t := range group {
		if t.AssetDescription != "" {
			companyName = t.AssetDescription
			break
		}
	}

	// Latest trade carries the price snapshot; first wins on equal dates.
	latest := group[0]
	for _, t := range group[1:] {
		if t.TxDate > latest.TxDate {
			latest = t
		}
	}

	return TopPick{
		Ticker:          ticker,
		CompanyName:     companyName,
		Score:           returns.Round1(score),
		NumPoliticians:  len(buyers),
		Bipartisan:      bipartisan,
		AvgWinRate:      returns.Round1(avgWinRate),
		LatestTradeDate: latest.TxDate,
		PriceAtLatest:   latest.PriceAtTrade,
		CurrentPrice:    latest.CurrentPrice,
		Politicians:     buyers,
	}, true
}

// truncateToDate drops the time-of-day component.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
