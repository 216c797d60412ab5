package backtest

// WindowStats summarizes a set of percentage returns for one holding window.
type WindowStats struct {
	Count        int     `json:"count"`
	WinRate      float64 `json:"win_rate"`
	AvgReturn    float64 `json:"avg_return"`
	MedianReturn float64 `json:"median_return"`
}

// BenchmarkComparison compares copycat returns against the benchmark over
// paired trades.
type BenchmarkComparison struct {
	CopycatAvg float64 `json:"copycat_avg"`
	SpyAvg     float64 `json:"spy_avg"`
	Alpha      float64 `json:"alpha"`
	BeatSpyPct float64 `json:"beat_spy_pct"`
}

// TimingSummary quantifies what the disclosure delay cost a copycat.
type TimingSummary struct {
	AvgPoliticianReturn float64 `json:"avg_politician_return"`
	AvgCopycatReturn    float64 `json:"avg_copycat_return"`
	AvgTimingCost       float64 `json:"avg_timing_cost"`
	PctWhereDelayHurt   float64 `json:"pct_where_delay_hurt"`
}

// WindowSet holds one stats block per holding window.
type WindowSet struct {
	Current WindowStats `json:"current"`
	Days30  WindowStats `json:"30d"`
	Days90  WindowStats `json:"90d"`
}

// BenchmarkSet holds one benchmark comparison per holding window.
type BenchmarkSet struct {
	Current BenchmarkComparison `json:"current"`
	Days30  BenchmarkComparison `json:"30d"`
	Days90  BenchmarkComparison `json:"90d"`
}

// YearStats is a per-disclosure-year breakdown row.
type YearStats struct {
	WindowStats
	Year int `json:"year"`
}

// DelayStats is a per-delay-bucket breakdown row.
type DelayStats struct {
	WindowStats
	Bucket string `json:"bucket"`
}

// Record is the full per-trade backtest result.
type Record struct {
	ID               string  `json:"id"`
	Politician       string  `json:"politician"`
	Party            string  `json:"party"`
	Ticker           string  `json:"ticker"`
	AssetDescription string  `json:"asset_description"`
	TxDate           string  `json:"tx_date"`
	DisclosureDate   string  `json:"disclosure_date"`
	DaysLate         int     `json:"days_late"`
	AmountLow        int64   `json:"amount_low"`
	AmountHigh       int64   `json:"amount_high"`
	PriceAtTrade     float64 `json:"price_at_trade"`

	PriceAtDisclosure *float64 `json:"price_at_disclosure"`
	Price30d          *float64 `json:"price_30d"`
	Price90d          *float64 `json:"price_90d"`
	CurrentPrice      *float64 `json:"current_price"`

	PoliticianReturn *float64 `json:"politician_return"`

	CopycatReturnCurrent *float64 `json:"copycat_return_current"`
	CopycatReturn30d     *float64 `json:"copycat_return_30d"`
	CopycatReturn90d     *float64 `json:"copycat_return_90d"`

	SpyReturnCurrent *float64 `json:"spy_return_current"`
	SpyReturn30d     *float64 `json:"spy_return_30d"`
	SpyReturn90d     *float64 `json:"spy_return_90d"`

	AlphaCurrent *float64 `json:"alpha_current"`
	Alpha30d     *float64 `json:"alpha_30d"`
	Alpha90d     *float64 `json:"alpha_90d"`

	TimingCost *float64 `json:"timing_cost"`
}

// Highlight is the slim view of a record used for the best/worst lists.
type Highlight struct {
	ID                   string   `json:"id"`
	Politician           string   `json:"politician"`
	Party                string   `json:"party"`
	Ticker               string   `json:"ticker"`
	TxDate               string   `json:"tx_date"`
	DisclosureDate       string   `json:"disclosure_date"`
	DaysLate             int      `json:"days_late"`
	PriceAtTrade         float64  `json:"price_at_trade"`
	PriceAtDisclosure    *float64 `json:"price_at_disclosure"`
	CurrentPrice         *float64 `json:"current_price"`
	CopycatReturnCurrent *float64 `json:"copycat_return_current"`
	SpyReturnCurrent     *float64 `json:"spy_return_current"`
	AlphaCurrent         *float64 `json:"alpha_current"`
	TimingCost           *float64 `json:"timing_cost"`
}

// TopTrades lists the ten best and ten worst trades by current-window return.
type TopTrades struct {
	Best  []Highlight `json:"best"`
	Worst []Highlight `json:"worst"`
}

// Report is the backtest output object. Every field is populated even when
// no trades were eligible.
type Report struct {
	GeneratedAt         string                 `json:"generated_at"`
	TotalTradesAnalyzed int                    `json:"total_trades_analyzed"`
	StrategySummary     WindowSet              `json:"strategy_summary"`
	VsBenchmark         BenchmarkSet           `json:"vs_benchmark"`
	PoliticianVsCopycat TimingSummary          `json:"politician_vs_copycat"`
	ByParty             map[string]WindowStats `json:"by_party"`
	ByAmount            map[string]WindowStats `json:"by_amount"`
	ByYear              []YearStats            `json:"by_year"`
	ByDaysLate          []DelayStats           `json:"by_days_late"`
	TopTrades           TopTrades              `json:"top_trades"`
	IndividualTrades    []Record               `json:"individual_trades"`
}

// highlight projects a record onto its slim view.
func highlight(r Record) Highlight {
	return Highlight{
		ID:                   r.ID,
		Politician:           r.Politician,
		Party:                r.Party,
		Ticker:               r.Ticker,
		TxDate:               r.TxDate,
		DisclosureDate:       r.DisclosureDate,
		DaysLate:             r.DaysLate,
		PriceAtTrade:         r.PriceAtTrade,
		PriceAtDisclosure:    r.PriceAtDisclosure,
		CurrentPrice:         r.CurrentPrice,
		CopycatReturnCurrent: r.CopycatReturnCurrent,
		SpyReturnCurrent:     r.SpyReturnCurrent,
		AlphaCurrent:         r.AlphaCurrent,
		TimingCost:           r.TimingCost,
	}
}
