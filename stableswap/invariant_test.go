// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ammcore/ammerr"
	"github.com/ava-labs/ammcore/consts"
	"github.com/ava-labs/ammcore/decimal"
)

func TestPolynomial(t *testing.T) {
	tests := []struct {
		name       string
		amp        uint64
		reserves   []uint64
		at         uint64
		value      uint64
		derivative uint64
		step       uint64
	}{
		{
			name:       "two reserves",
			amp:        10,
			reserves:   []uint64{100, 10},
			at:         110,
			value:      222_750_000_000,
			derivative: 48_075_000_000,
			step:       105_366_614_665,
		},
		{
			name:       "three reserves",
			amp:        10,
			reserves:   []uint64{100, 10, 250},
			at:         360,
			value:      2_128_320_000_000,
			derivative: 296_648_000_000,
			step:       352_825_436_208,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p, err := newPolynomial(tt.amp, tt.reserves)
			require.NoError(err)

			value, err := p.value(decimal.NewLarge(tt.at))
			require.NoError(err)
			require.True(decimal.NewLargeScaled(tt.value).Eq(value), value.String())

			derivative, err := p.derivative(decimal.NewLarge(tt.at))
			require.NoError(err)
			require.True(decimal.NewLargeScaled(tt.derivative).Eq(derivative), derivative.String())

			next, err := p.step(decimal.NewLarge(tt.at))
			require.NoError(err)
			require.True(decimal.NewLargeScaled(tt.step).Eq(next), next.String())
		})
	}
}

func TestPolynomialBelowRoot(t *testing.T) {
	require := require.New(t)

	p, err := newPolynomial(10, []uint64{100, 10})
	require.NoError(err)

	// f is negative below the root
	_, err = p.value(decimal.NewLarge(100))
	require.ErrorIs(err, decimal.ErrUnderflow)
	require.ErrorIs(err, ammerr.ErrCalculationFailure)
}

func TestSettle(t *testing.T) {
	p, err := newPolynomial(10, []uint64{100, 10})
	require.NoError(t, err)

	root := decimal.NewLargeScaled(105_329_716_514)
	tests := []struct {
		name      string
		prev      decimal.LargeDecimal
		next      decimal.LargeDecimal
		expected  decimal.LargeDecimal
		done      bool
		expectErr error
	}{
		{
			name:     "far apart",
			prev:     decimal.NewLarge(110),
			next:     decimal.NewLargeScaled(105_366_614_665),
			expected: decimal.NewLargeScaled(105_366_614_665),
		},
		{
			name:     "within admissible error",
			prev:     decimal.NewLargeScaled(105_366_614_665),
			next:     root,
			expected: root,
			done:     true,
		},
		{
			name:     "increase at root",
			prev:     root,
			next:     decimal.NewLargeScaled(105_329_716_515),
			expected: root,
			done:     true,
		},
		{
			name:      "increase away from root",
			prev:      decimal.NewLarge(110),
			next:      decimal.NewLarge(111),
			expectErr: ErrNotARoot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			value, done, err := p.settle(tt.prev, tt.next)
			require.ErrorIs(err, tt.expectErr)
			if tt.expectErr != nil {
				require.ErrorIs(err, ammerr.ErrInvariantViolation)
				return
			}
			require.Equal(tt.done, done)
			require.True(tt.expected.Eq(value), value.String())
		})
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		amp        uint64
		reserves   []uint64
		expected   decimal.Decimal
		iterations int
	}{
		{
			name:       "two reserves",
			amp:        10,
			reserves:   []uint64{100, 10},
			expected:   decimal.NewScaledInt(mustScaled("105329716514000000000")),
			iterations: 2,
		},
		{
			name:     "three reserves",
			amp:      10,
			reserves: []uint64{100, 10, 250},
			expected: decimal.NewScaledInt(mustScaled("352805602633000000000")),
		},
		{
			name:     "balanced",
			amp:      100,
			reserves: []uint64{1_000_000, 1_000_000},
			expected: decimal.New(2_000_000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			s, err := Solve(tt.amp, tt.reserves)
			require.NoError(err)
			require.True(s.Converged)
			require.Equal(tt.expected, s.Value)
			if tt.iterations != 0 {
				require.Equal(tt.iterations, s.Iterations)
			}

			d, err := Compute(tt.amp, tt.reserves)
			require.NoError(err)
			require.Equal(tt.expected, d)
		})
	}
}

func TestComputeBalancedReserves(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		for _, k := range []uint64{
			100_000,
			1_000_000,
			10_000_000,
			10_000_000_000,
			10_000_000_000_000,
			500_000_000_000_000,
			10_000_000_000_000_000,
		} {
			reserves := make([]uint64, n)
			for i := range reserves {
				reserves[i] = k
			}
			d, err := Compute(10, reserves)
			require.NoError(t, err)
			require.Equal(t, decimal.New(k*uint64(n)), d, "n=%d k=%d", n, k)
		}
	}
}

func TestComputeRegressions(t *testing.T) {
	tests := []struct {
		amp      uint64
		reserves []uint64
	}{
		{amp: 10, reserves: []uint64{20_000_000_000, 19_989_000_000, 20_002_000_000}},
		{amp: 36, reserves: []uint64{323_937_059_261_502, 307_818_470_989_694, 409_053_424_216_126}},
		{amp: 36, reserves: []uint64{323_937_059_261_502, 307_818_470_989_694, 362_813_707_275_663}},
		{amp: 2, reserves: []uint64{6_801_827_978, 670_789_431, 2_631_887_715}},
	}
	for _, tt := range tests {
		s, err := Solve(tt.amp, tt.reserves)
		require.NoError(t, err, "amp=%d reserves=%v", tt.amp, tt.reserves)
		require.True(t, s.Converged)
	}
}

func TestComputeNotConverged(t *testing.T) {
	require := require.New(t)

	s, err := Solve(134, []uint64{314_582_831_144_139, 905, 8_722})
	require.NoError(err)
	require.False(s.Converged)
	require.Equal(consts.MaxSolverIterations, s.Iterations)
	require.Equal(decimal.NewScaledInt(mustScaled("31970502119213623261000000000")), s.Value)
}

func TestComputeInvalid(t *testing.T) {
	tests := []struct {
		name      string
		amp       uint64
		reserves  []uint64
		expectErr error
		kind      error
	}{
		{
			name:      "zero amplifier",
			amp:       0,
			reserves:  []uint64{100, 10},
			expectErr: ErrZeroAmplifier,
			kind:      ammerr.ErrInvalidArgument,
		},
		{
			name:      "single reserve",
			amp:       10,
			reserves:  []uint64{100},
			expectErr: ErrTooFewReserves,
			kind:      ammerr.ErrInvalidArgument,
		},
		{
			name:      "empty reserve",
			amp:       10,
			reserves:  []uint64{100, 0},
			expectErr: decimal.ErrDivideByZero,
			kind:      ammerr.ErrCalculationFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := Compute(tt.amp, tt.reserves)
			require.ErrorIs(err, tt.expectErr)
			require.ErrorIs(err, tt.kind)
		})
	}
}

// The invariant of moderately imbalanced pools never exceeds the sum of
// the reserves it starts from.
func TestComputeRandom(t *testing.T) {
	require := require.New(t)

	r := rand.New(rand.NewPCG(3, 7))
	for i := 0; i < 500; i++ {
		var (
			n        = 2 + r.IntN(3)
			amp      = 2 + r.Uint64N(198)
			base     = 1_000_000 + r.Uint64N(10_000_000_000_000-1_000_000)
			reserves = make([]uint64, n)
			sum      uint64
		)
		for j := range reserves {
			reserves[j] = base / 100 * (50 + r.Uint64N(150))
			sum += reserves[j]
		}
		s, err := Solve(amp, reserves)
		require.NoError(err, "amp=%d reserves=%v", amp, reserves)
		require.True(s.Value.Lte(decimal.New(sum)), "amp=%d reserves=%v", amp, reserves)
	}
}
