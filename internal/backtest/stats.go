package backtest

import (
	"sort"

	"github.com/dcwatch/dcwatch/internal/returns"
)

// windowStats summarizes a list of returns. An empty list yields zeros.
func windowStats(rets []float64) WindowStats {
	if len(rets) == 0 {
		return WindowStats{}
	}

	wins := 0
	for _, r := range rets {
		if r > 0 {
			wins++
		}
	}

	return WindowStats{
		Count:        len(rets),
		WinRate:      returns.Round1(float64(wins) / float64(len(rets)) * 100),
		AvgReturn:    returns.Round2(mean(rets)),
		MedianReturn: returns.Round2(median(rets)),
	}
}

// benchmarkComparison compares paired copycat vs benchmark returns.
// The slices are index-paired: entry i of each came from the same trade.
func benchmarkComparison(copycat, benchmark []float64) BenchmarkComparison {
	if len(copycat) == 0 || len(benchmark) == 0 {
		return BenchmarkComparison{}
	}

	copycatAvg := mean(copycat)
	benchmarkAvg := mean(benchmark)

	paired := len(copycat)
	if len(benchmark) < paired {
		paired = len(benchmark)
	}
	beat := 0
	for i := 0; i < paired; i++ {
		if copycat[i] > benchmark[i] {
			beat++
		}
	}

	cmp := BenchmarkComparison{
		CopycatAvg: returns.Round2(copycatAvg),
		SpyAvg:     returns.Round2(benchmarkAvg),
		Alpha:      returns.Round2(copycatAvg - benchmarkAvg),
	}
	if paired > 0 {
		cmp.BeatSpyPct = returns.Round1(float64(beat) / float64(paired) * 100)
	}
	return cmp
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
