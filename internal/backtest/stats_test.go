package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowStats(t *testing.T) {
	stats := windowStats([]float64{10, -5, 25, 0})

	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 50.0, stats.WinRate, "zero is not a win")
	assert.Equal(t, 7.5, stats.AvgReturn)
	assert.Equal(t, 5.0, stats.MedianReturn)
}

func TestWindowStatsEmpty(t *testing.T) {
	stats := windowStats(nil)
	assert.Equal(t, WindowStats{}, stats)
}

func TestWindowStatsSingle(t *testing.T) {
	stats := windowStats([]float64{-3.333})
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Equal(t, -3.33, stats.AvgReturn)
	assert.Equal(t, -3.33, stats.MedianReturn)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestBenchmarkComparison(t *testing.T) {
	copycat := []float64{10, -2}
	benchmark := []float64{1, 3}

	cmp := benchmarkComparison(copycat, benchmark)

	assert.Equal(t, 4.0, cmp.CopycatAvg)
	assert.Equal(t, 2.0, cmp.SpyAvg)
	assert.Equal(t, 2.0, cmp.Alpha)
	assert.Equal(t, 50.0, cmp.BeatSpyPct, "one of two trades beat the benchmark")
}

func TestBenchmarkComparisonEmpty(t *testing.T) {
	cmp := benchmarkComparison(nil, nil)
	assert.Equal(t, BenchmarkComparison{}, cmp)
}
