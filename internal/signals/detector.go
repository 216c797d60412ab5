// Package signals detects trading clusters: several distinct officeholders
// trading the same ticker inside a short window.
package signals

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dcwatch/dcwatch/internal/contracts"
)

const (
	// windowDays is the one-directional cluster window: a trade belongs to
	// an anchor's window when it falls 0..10 days after the anchor.
	windowDays = 10

	// minPoliticians is the smallest distinct-participant count that
	// qualifies a window as a cluster.
	minPoliticians = 3

	bipartisanBonus = 5
)

// Participant is one (politician, date, type) tuple inside a cluster.
type Participant struct {
	Name   string `json:"name"`
	Party  string `json:"party"`
	TxType string `json:"tx_type"`
	TxDate string `json:"tx_date"`
}

// Signal is a detected cluster, recomputed per run.
type Signal struct {
	Ticker      string        `json:"ticker"`
	CompanyName string        `json:"company_name"`
	Politicians []Participant `json:"politicians"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	HeatScore   int           `json:"heat_score"`
	Bipartisan  bool          `json:"bipartisan"`
}

// Detect finds clusters of minPoliticians+ distinct politicians trading the
// same ticker within windowDays, scores them, and drops overlapping
// duplicates per ticker (highest heat score wins). Output is sorted by heat
// score descending.
func Detect(trades []*contracts.Trade) []Signal {
	byTicker := make(map[string][]*contracts.Trade)
	var tickerOrder []string
	for _, t := range trades {
		if t.Ticker == "" || t.TxDate == "" {
			continue
		}
		if _, ok := byTicker[t.Ticker]; !ok {
			tickerOrder = append(tickerOrder, t.Ticker)
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	var signals []Signal
	for _, ticker := range tickerOrder {
		group := byTicker[ticker]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].TxDate < group[j].TxDate
		})

		candidates := detectForTicker(ticker, group)
		signals = append(signals, dedupOverlaps(candidates)...)
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].HeatScore > signals[j].HeatScore
	})
	return signals
}

// detectForTicker treats every trade as a window anchor and emits a
// candidate cluster per qualifying window. Overlaps are resolved later.
func detectForTicker(ticker string, group []*contracts.Trade) []Signal {
	var candidates []Signal

	for _, anchor := range group {
		anchorDate, err := contracts.ParseDate(anchor.TxDate)
		if err != nil {
			continue
		}

		var window []*contracts.Trade
		distinct := make(map[string]struct{})
		for _, other := range group {
			otherDate, err := contracts.ParseDate(other.TxDate)
			if err != nil {
				continue
			}
			days := int(otherDate.Sub(anchorDate).Hours() / 24)
			if days < 0 || days > windowDays {
				continue
			}
			window = append(window, other)
			if other.Politician != "" {
				distinct[other.Politician] = struct{}{}
			}
		}

		if len(distinct) < minPoliticians {
			continue
		}

		candidates = append(candidates, buildCluster(ticker, window, len(distinct)))
	}

	return candidates
}

// buildCluster assembles the cluster record for one qualifying window.
func buildCluster(ticker string, window []*contracts.Trade, numPoliticians int) Signal {
	parties := make(map[string]struct{})
	seen := make(map[string]struct{})
	var participants []Participant
	var totalVolume float64
	var startDate, endDate string

	for _, t := range window {
		if t.Party != "" {
			parties[partyCode(t.Party)] = struct{}{}
		}

		// A politician may appear more than once with different trades.
		key := fmt.Sprintf("%s|%s|%s", t.Politician, t.TxDate, t.TxType)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			participants = append(participants, Participant{
				Name:   t.Politician,
				Party:  t.Party,
				TxType: t.TxType,
				TxDate: t.TxDate,
			})
		}

		totalVolume += float64(t.AmountLow+t.AmountHigh) / 2

		if startDate == "" || t.TxDate < startDate {
			startDate = t.TxDate
		}
		if endDate == "" || t.TxDate > endDate {
			endDate = t.TxDate
		}
	}

	bipartisan := hasParty(parties, "D") && hasParty(parties, "R")
	heat := numPoliticians * 2
	if bipartisan {
		heat += bipartisanBonus
	}
	heat += int(math.Log(totalVolume + 1))

	companyName := ticker
	for _, t := range window {
		if t.AssetDescription != "" {
			companyName = t.AssetDescription
			break
		}
	}

	return Signal{
		Ticker:      ticker,
		CompanyName: companyName,
		Politicians: participants,
		StartDate:   startDate,
		EndDate:     endDate,
		HeatScore:   heat,
		Bipartisan:  bipartisan,
	}
}

// dedupOverlaps keeps, per ticker, the highest-heat clusters whose date
// ranges do not overlap any already-kept range.
func dedupOverlaps(candidates []Signal) []Signal {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HeatScore > candidates[j].HeatScore
	})

	var kept []Signal
	for _, c := range candidates {
		overlaps := false
		for _, k := range kept {
			if c.StartDate <= k.EndDate && c.EndDate >= k.StartDate {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, c)
		}
	}
	return kept
}

// hasParty checks for a normalized party code.
func hasParty(parties map[string]struct{}, code string) bool {
	_, ok := parties[code]
	return ok
}

// PartyCode normalizes a party string to its uppercased first letter
// ("Democrat" → "D").
func PartyCode(party string) string {
	return partyCode(party)
}

func partyCode(party string) string {
	if party == "" {
		return ""
	}
	r := []rune(party)
	return strings.ToUpper(string(r[0]))
}
