package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountBucket(t *testing.T) {
	tests := []struct {
		name string
		low  int64
		high int64
		want string
	}{
		{"typical small filing range", 1001, 15000, AmountSmall},
		{"midpoint exactly at small boundary", 15000, 15000, AmountSmall},
		{"just above small boundary", 15001, 15001, AmountMedium},
		{"mid-size range", 15001, 50000, AmountMedium},
		{"midpoint exactly at medium boundary", 100000, 100000, AmountMedium},
		{"large range", 100001, 250000, AmountLarge},
		{"zero range", 0, 0, AmountSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountBucket(tt.low, tt.high))
		})
	}
}

func TestDelayBucket(t *testing.T) {
	tests := []struct {
		daysLate int
		want     string
	}{
		{0, "0-15d"},
		{15, "0-15d"},
		{16, "16-30d"},
		{30, "16-30d"},
		{31, "31-45d"},
		{45, "31-45d"},
		{46, "45d+"},
		{365, "45d+"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DelayBucket(tt.daysLate), "daysLate=%d", tt.daysLate)
	}
}
