package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcwatch/dcwatch/internal/contracts"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name string
		buy  *float64
		sell *float64
		want *float64
	}{
		{
			name: "simple gain",
			buy:  contracts.Float(100),
			sell: contracts.Float(110),
			want: contracts.Float(10),
		},
		{
			name: "simple loss",
			buy:  contracts.Float(100),
			sell: contracts.Float(75),
			want: contracts.Float(-25),
		},
		{
			name: "rounds to two decimals",
			buy:  contracts.Float(3),
			sell: contracts.Float(4),
			want: contracts.Float(33.33),
		},
		{
			name: "nil buy price",
			buy:  nil,
			sell: contracts.Float(110),
			want: nil,
		},
		{
			name: "nil sell price",
			buy:  contracts.Float(100),
			sell: nil,
			want: nil,
		},
		{
			name: "zero buy price",
			buy:  contracts.Float(0),
			sell: contracts.Float(110),
			want: nil,
		},
		{
			name: "negative buy price",
			buy:  contracts.Float(-5),
			sell: contracts.Float(110),
			want: nil,
		},
		{
			name: "sell to zero is total loss",
			buy:  contracts.Float(100),
			sell: contracts.Float(0),
			want: contracts.Float(-100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.buy, tt.sell)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, *tt.want, *got, 1e-9)
			}
		})
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		name      string
		strategy  *float64
		benchmark *float64
		want      *float64
	}{
		{
			name:      "strategy beats benchmark",
			strategy:  contracts.Float(10),
			benchmark: contracts.Float(1),
			want:      contracts.Float(9),
		},
		{
			name:      "strategy trails benchmark",
			strategy:  contracts.Float(-2.5),
			benchmark: contracts.Float(3.25),
			want:      contracts.Float(-5.75),
		},
		{
			name:      "nil strategy",
			strategy:  nil,
			benchmark: contracts.Float(1),
			want:      nil,
		},
		{
			name:      "nil benchmark",
			strategy:  contracts.Float(10),
			benchmark: nil,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Alpha(tt.strategy, tt.benchmark)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.InDelta(t, *tt.want, *got, 1e-9)
			}
		})
	}
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 33.33, Round2(33.333333))
	assert.Equal(t, -33.33, Round2(-33.333333))
	assert.Equal(t, 66.7, Round1(66.66666))
	assert.Equal(t, 0.0, Round2(0))
}
