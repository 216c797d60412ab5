// Package backtest evaluates a "buy when disclosed" copycat strategy over
// every eligible purchase, against a market benchmark.
package backtest

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/dcwatch/dcwatch/internal/contracts"
	"github.com/dcwatch/dcwatch/internal/returns"
	"github.com/dcwatch/dcwatch/internal/signals"
	"github.com/dcwatch/dcwatch/pkg/logger"
)

const (
	// Estimation of a missing disclosure date: a known positive filing
	// delay implies the 45-day statutory window was fully used, an unknown
	// delay gets the observed median of roughly 30 days.
	estimateDelayPad = 45
	estimateDefault  = 30
)

// PriceResolver is the slice of the price layer the engine needs.
type PriceResolver interface {
	ResolveDates(ctx context.Context, ticker string, dates []string) map[string]*float64
}

// Engine runs the copycat backtest.
type Engine struct {
	resolver  PriceResolver
	logger    *logger.Logger
	benchmark string
}

// NewEngine creates a backtest engine against the given benchmark ticker.
func NewEngine(resolver PriceResolver, log *logger.Logger, benchmark string) *Engine {
	return &Engine{
		resolver:  resolver,
		logger:    log,
		benchmark: benchmark,
	}
}

// Run backtests every eligible trade as of the given date. An empty eligible
// set yields a fully-populated zero report, never an error.
func (e *Engine) Run(ctx context.Context, trades []*contracts.Trade, asOf time.Time) *Report {
	today := truncateToDate(asOf)

	e.estimateDisclosureDates(trades)

	var eligible []*contracts.Trade
	for _, t := range trades {
		if t.TxType == contracts.TxPurchase &&
			t.PriceAtTrade != nil && *t.PriceAtTrade > 0 &&
			t.DisclosureDate != "" &&
			contracts.IsEquityTicker(t.Ticker) &&
			t.TxDate != "" {
			eligible = append(eligible, t)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"total":    len(trades),
		"eligible": len(eligible),
	}).Info("Backtest eligibility filter applied")

	if len(eligible) == 0 {
		e.logger.Warn("No eligible trades for backtest")
		return emptyReport()
	}

	tickerPrices, spyPrices, currentPrices := e.fetchPrices(ctx, eligible, today)

	records := make([]Record, 0, len(eligible))

	// Index-paired return slices per window, appended only when both the
	// strategy and the benchmark value are known for the same trade.
	var pairedCopycat, pairedSpy [3][]float64

	for _, t := range eligible {
		rec := e.buildRecord(t, today, tickerPrices[t.Ticker], spyPrices, currentPrices)
		records = append(records, rec)

		for w, pair := range [][2]*float64{
			{rec.CopycatReturnCurrent, rec.SpyReturnCurrent},
			{rec.CopycatReturn30d, rec.SpyReturn30d},
			{rec.CopycatReturn90d, rec.SpyReturn90d},
		} {
			if pair[0] != nil && pair[1] != nil {
				pairedCopycat[w] = append(pairedCopycat[w], *pair[0])
				pairedSpy[w] = append(pairedSpy[w], *pair[1])
			}
		}
	}

	e.logger.Infof("Computed backtest results for %d trades", len(records))

	return e.aggregate(records, pairedCopycat, pairedSpy)
}

// estimateDisclosureDates fills missing disclosure dates from the
// transaction date, flagging the estimate.
func (e *Engine) estimateDisclosureDates(trades []*contracts.Trade) {
	estimated := 0
	for _, t := range trades {
		if t.DisclosureDate != "" || t.TxDate == "" {
			continue
		}
		txDate, err := contracts.ParseDate(t.TxDate)
		if err != nil {
			continue
		}

		days := estimateDefault
		if t.DaysLate > 0 {
			days = t.DaysLate + estimateDelayPad
		}
		t.DisclosureDate = contracts.FormatDate(txDate.AddDate(0, 0, days))
		t.DisclosureDateEstimated = true
		estimated++
	}

	if estimated > 0 {
		e.logger.Infof("Estimated disclosure_date for %d trades", estimated)
	}
}

// fetchPrices batches every needed lookup: one historical range per ticker,
// one for the benchmark, and one current price per symbol.
func (e *Engine) fetchPrices(ctx context.Context, eligible []*contracts.Trade, today time.Time) (
	map[string]map[string]*float64, map[string]*float64, map[string]*float64,
) {
	tickerDates := make(map[string]map[string]struct{})
	spyDates := make(map[string]struct{})

	addDate := func(ticker, date string) {
		if tickerDates[ticker] == nil {
			tickerDates[ticker] = make(map[string]struct{})
		}
		tickerDates[ticker][date] = struct{}{}
	}

	for _, t := range eligible {
		addDate(t.Ticker, t.DisclosureDate)
		spyDates[t.DisclosureDate] = struct{}{}
		spyDates[t.TxDate] = struct{}{}

		disc, err := contracts.ParseDate(t.DisclosureDate)
		if err != nil {
			continue
		}
		for _, horizon := range []int{30, 90} {
			future := disc.AddDate(0, 0, horizon)
			if future.After(today) {
				continue
			}
			futureStr := contracts.FormatDate(future)
			addDate(t.Ticker, futureStr)
			spyDates[futureStr] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(tickerDates))
	for ticker := range tickerDates {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	e.logger.Infof("Fetching prices for %d tickers", len(tickers))
	tickerPrices := make(map[string]map[string]*float64, len(tickers))
	for i, ticker := range tickers {
		if i%50 == 0 && i > 0 {
			e.logger.Infof("Fetched %d / %d tickers", i, len(tickers))
		}
		tickerPrices[ticker] = e.resolver.ResolveDates(ctx, ticker, sortedKeys(tickerDates[ticker]))
	}

	e.logger.Infof("Fetching %s benchmark prices for %d dates", e.benchmark, len(spyDates))
	spyPrices := e.resolver.ResolveDates(ctx, e.benchmark, sortedKeys(spyDates))

	todayStr := contracts.FormatDate(today)
	currentPrices := make(map[string]*float64, len(tickers)+1)
	for _, ticker := range append(tickers, e.benchmark) {
		currentPrices[ticker] = e.resolver.ResolveDates(ctx, ticker, []string{todayStr})[todayStr]
	}

	return tickerPrices, spyPrices, currentPrices
}

// buildRecord computes every window return, alpha, and the timing cost for
// one eligible trade.
func (e *Engine) buildRecord(
	t *contracts.Trade,
	today time.Time,
	prices map[string]*float64,
	spyPrices map[string]*float64,
	currentPrices map[string]*float64,
) Record {
	priceAtDisclosure := prices[t.DisclosureDate]
	currentPrice := currentPrices[t.Ticker]
	if currentPrice == nil {
		currentPrice = t.CurrentPrice
	}

	var price30, price90, spy30, spy90 *float64
	if disc, err := contracts.ParseDate(t.DisclosureDate); err == nil {
		if d30 := disc.AddDate(0, 0, 30); !d30.After(today) {
			price30 = prices[contracts.FormatDate(d30)]
			spy30 = spyPrices[contracts.FormatDate(d30)]
		}
		if d90 := disc.AddDate(0, 0, 90); !d90.After(today) {
			price90 = prices[contracts.FormatDate(d90)]
			spy90 = spyPrices[contracts.FormatDate(d90)]
		}
	}

	spyAtDisclosure := spyPrices[t.DisclosureDate]
	spyCurrent := currentPrices[e.benchmark]

	copycatCurrent := returns.Percent(priceAtDisclosure, currentPrice)
	copycat30 := returns.Percent(priceAtDisclosure, price30)
	copycat90 := returns.Percent(priceAtDisclosure, price90)

	spyReturnCurrent := returns.Percent(spyAtDisclosure, spyCurrent)
	spyReturn30 := returns.Percent(spyAtDisclosure, spy30)
	spyReturn90 := returns.Percent(spyAtDisclosure, spy90)

	return Record{
		ID:               t.ID,
		Politician:       t.Politician,
		Party:            t.Party,
		Ticker:           t.Ticker,
		AssetDescription: t.AssetDescription,
		TxDate:           t.TxDate,
		DisclosureDate:   t.DisclosureDate,
		DaysLate:         recordDaysLate(t),
		AmountLow:        t.AmountLow,
		AmountHigh:       t.AmountHigh,
		PriceAtTrade:     *t.PriceAtTrade,

		PriceAtDisclosure: priceAtDisclosure,
		Price30d:          price30,
		Price90d:          price90,
		CurrentPrice:      currentPrice,

		PoliticianReturn: t.EstReturn,

		CopycatReturnCurrent: copycatCurrent,
		CopycatReturn30d:     copycat30,
		CopycatReturn90d:     copycat90,

		SpyReturnCurrent: spyReturnCurrent,
		SpyReturn30d:     spyReturn30,
		SpyReturn90d:     spyReturn90,

		AlphaCurrent: returns.Alpha(copycatCurrent, spyReturnCurrent),
		Alpha30d:     returns.Alpha(copycat30, spyReturn30),
		Alpha90d:     returns.Alpha(copycat90, spyReturn90),

		// Return lost by buying at disclosure instead of at trade time.
		TimingCost: returns.Percent(t.PriceAtTrade, priceAtDisclosure),
	}
}

// aggregate builds the report body from the per-trade records.
func (e *Engine) aggregate(records []Record, pairedCopycat, pairedSpy [3][]float64) *Report {
	report := emptyReport()
	report.TotalTradesAnalyzed = len(records)
	report.IndividualTrades = records

	collect := func(pick func(Record) *float64) []float64 {
		var out []float64
		for _, r := range records {
			if v := pick(r); v != nil {
				out = append(out, *v)
			}
		}
		return out
	}

	allCurrent := collect(func(r Record) *float64 { return r.CopycatReturnCurrent })
	all30 := collect(func(r Record) *float64 { return r.CopycatReturn30d })
	all90 := collect(func(r Record) *float64 { return r.CopycatReturn90d })

	report.StrategySummary = WindowSet{
		Current: windowStats(allCurrent),
		Days30:  windowStats(all30),
		Days90:  windowStats(all90),
	}

	report.VsBenchmark = BenchmarkSet{
		Current: benchmarkComparison(pairedCopycat[0], pairedSpy[0]),
		Days30:  benchmarkComparison(pairedCopycat[1], pairedSpy[1]),
		Days90:  benchmarkComparison(pairedCopycat[2], pairedSpy[2]),
	}

	timingCosts := collect(func(r Record) *float64 { return r.TimingCost })
	politicianReturns := collect(func(r Record) *float64 { return r.PoliticianReturn })

	delayHurt := 0
	for _, tc := range timingCosts {
		if tc > 0 {
			delayHurt++
		}
	}

	timing := TimingSummary{}
	if len(politicianReturns) > 0 {
		timing.AvgPoliticianReturn = returns.Round2(mean(politicianReturns))
	}
	if len(allCurrent) > 0 {
		timing.AvgCopycatReturn = returns.Round2(mean(allCurrent))
	}
	if len(timingCosts) > 0 {
		timing.AvgTimingCost = returns.Round2(mean(timingCosts))
		timing.PctWhereDelayHurt = returns.Round1(float64(delayHurt) / float64(len(timingCosts)) * 100)
	}
	report.PoliticianVsCopycat = timing

	// Breakdowns use the current-window return only.
	byParty := make(map[string][]float64)
	byAmount := make(map[string][]float64)
	byYear := make(map[int][]float64)
	byDelay := make(map[string][]float64)

	for _, r := range records {
		if r.CopycatReturnCurrent == nil {
			continue
		}
		ret := *r.CopycatReturnCurrent

		if code := signals.PartyCode(r.Party); code == "D" || code == "R" {
			byParty[code] = append(byParty[code], ret)
		}

		byAmount[returns.AmountBucket(r.AmountLow, r.AmountHigh)] = append(
			byAmount[returns.AmountBucket(r.AmountLow, r.AmountHigh)], ret)

		if len(r.DisclosureDate) >= 4 {
			if year, err := strconv.Atoi(r.DisclosureDate[:4]); err == nil {
				byYear[year] = append(byYear[year], ret)
			}
		}

		byDelay[returns.DelayBucket(r.DaysLate)] = append(byDelay[returns.DelayBucket(r.DaysLate)], ret)
	}

	for _, party := range []string{"D", "R"} {
		report.ByParty[party] = windowStats(byParty[party])
	}
	for _, bucket := range returns.AmountBuckets {
		report.ByAmount[bucket] = windowStats(byAmount[bucket])
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		report.ByYear = append(report.ByYear, YearStats{WindowStats: windowStats(byYear[year]), Year: year})
	}

	for _, bucket := range returns.DelayBuckets {
		report.ByDaysLate = append(report.ByDaysLate, DelayStats{WindowStats: windowStats(byDelay[bucket]), Bucket: bucket})
	}

	// Best and worst by current-window return.
	ranked := make([]Record, 0, len(records))
	for _, r := range records {
		if r.CopycatReturnCurrent != nil {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].CopycatReturnCurrent > *ranked[j].CopycatReturnCurrent
	})

	top := 10
	if top > len(ranked) {
		top = len(ranked)
	}
	for _, r := range ranked[:top] {
		report.TopTrades.Best = append(report.TopTrades.Best, highlight(r))
	}
	for _, r := range ranked[len(ranked)-top:] {
		report.TopTrades.Worst = append(report.TopTrades.Worst, highlight(r))
	}

	return report
}

// emptyReport returns a zero-valued but fully-populated report.
func emptyReport() *Report {
	return &Report{
		GeneratedAt:      time.Now().Format(time.RFC3339),
		ByParty:          make(map[string]WindowStats),
		ByAmount:         make(map[string]WindowStats),
		ByYear:           make([]YearStats, 0),
		ByDaysLate:       make([]DelayStats, 0),
		TopTrades:        TopTrades{Best: make([]Highlight, 0), Worst: make([]Highlight, 0)},
		IndividualTrades: make([]Record, 0),
	}
}

// recordDaysLate prefers the reported delay, falling back to the raw gap
// between disclosure and transaction.
func recordDaysLate(t *contracts.Trade) int {
	if t.DaysLate > 0 {
		return t.DaysLate
	}
	tx, err1 := contracts.ParseDate(t.TxDate)
	disc, err2 := contracts.ParseDate(t.DisclosureDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	gap := int(disc.Sub(tx).Hours() / 24)
	if gap < 0 {
		return 0
	}
	return gap
}

// sortedKeys returns a set's keys in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truncateToDate drops the time-of-day component.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
