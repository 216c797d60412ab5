// Package returns holds the pure return/alpha arithmetic and the
// deterministic bucketing classifiers shared by the enrichment and
// backtest layers.
package returns

import "math"

// Percent computes the percentage return of buying at buy and selling at
// sell, rounded to two decimals. It is nil exactly when buy is nil, sell is
// nil, or buy <= 0.
func Percent(buy, sell *float64) *float64 {
	if buy == nil || sell == nil || *buy <= 0 {
		return nil
	}
	v := Round2((*sell - *buy) / *buy * 100)
	return &v
}

// Alpha is the strategy return minus the benchmark return over the same
// window; nil when either side is unknown.
func Alpha(strategy, benchmark *float64) *float64 {
	if strategy == nil || benchmark == nil {
		return nil
	}
	v := Round2(*strategy - *benchmark)
	return &v
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
