// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ammcore/ammerr"
	"github.com/ava-labs/ammcore/decimal"
)

func mustScaled(s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name     string
		amp      uint64
		d        decimal.LargeDecimal
		balances []uint64
		index    int
		expected string
	}{
		{
			name:     "balanced",
			amp:      100,
			d:        decimal.NewLarge(2_000_000),
			balances: []uint64{1_000_000, 1_000_000},
			index:    1,
			expected: "1000000",
		},
		{
			name:     "after deposit into other reserve",
			amp:      100,
			d:        decimal.NewLarge(2_000_000),
			balances: []uint64{1_010_000, 1_000_000},
			index:    1,
			expected: "990000.497536942",
		},
		{
			name:     "imbalanced",
			amp:      10,
			d:        decimal.NewLargeScaled(105_329_716_514),
			balances: []uint64{100, 10},
			index:    0,
			expected: "100.000002507",
		},
		{
			name:     "nearly drained",
			amp:      10,
			d:        decimal.NewLargeScaled(105_329_716_514),
			balances: []uint64{100, 1_010},
			index:    0,
			expected: "0.007969938",
		},
		{
			name:     "three reserves",
			amp:      10,
			d:        decimal.NewLargeScaled(352_805_602_633),
			balances: []uint64{100, 10, 250},
			index:    2,
			expected: "250.000000156",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			y, err := Balance(tt.amp, tt.d, tt.balances, tt.index)
			require.NoError(err)
			require.Equal(tt.expected, y.String())
		})
	}
}

func TestBalanceInvalid(t *testing.T) {
	require := require.New(t)

	d := decimal.NewLarge(2)
	_, err := Balance(0, d, []uint64{1, 1}, 0)
	require.ErrorIs(err, ErrZeroAmplifier)
	_, err = Balance(1, d, []uint64{1}, 0)
	require.ErrorIs(err, ErrTooFewReserves)
	_, err = Balance(1, d, []uint64{1, 1}, 2)
	require.ErrorIs(err, ErrInvalidIndex)
	require.ErrorIs(err, ammerr.ErrInvalidArgument)
	_, err = Balance(1, d, []uint64{0, 1}, 1)
	require.ErrorIs(err, decimal.ErrDivideByZero)
}

func TestPreserves(t *testing.T) {
	tests := []struct {
		name     string
		d        decimal.LargeDecimal
		balances []uint64
		expected bool
	}{
		{
			name:     "unchanged",
			d:        decimal.NewLarge(2_000_000),
			balances: []uint64{1_000_000, 1_000_000},
			expected: true,
		},
		{
			name:     "output rounded up",
			d:        decimal.NewLarge(2_000_000),
			balances: []uint64{1_010_000, 990_001},
			expected: true,
		},
		{
			name:     "output rounded down",
			d:        decimal.NewLarge(2_000_000),
			balances: []uint64{1_010_000, 990_000},
			expected: false,
		},
		{
			name:     "larger invariant",
			d:        decimal.NewLarge(2_000_001),
			balances: []uint64{1_000_000, 1_000_000},
			expected: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			ok, err := Preserves(100, tt.d, tt.balances)
			require.NoError(err)
			require.Equal(tt.expected, ok)
		})
	}
}
