// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"math/rand/v2"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ammcore/ammerr"
	"github.com/ava-labs/ammcore/curve"
	"github.com/ava-labs/ammcore/decimal"
	"github.com/ava-labs/ammcore/fees"

	internallogging "github.com/ava-labs/ammcore/internal/logging"
)

func TestFirstDeposit(t *testing.T) {
	require := require.New(t)

	p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, 0, 0, 0, 0)
	maxTokens := map[ids.ID]uint64{
		mintA: 10,
		mintB: 100,
		mintC: 250,
	}
	result, err := p.DepositTokens(maxTokens, 0)
	require.NoError(err)
	require.Equal(uint64(10), result.LPTokens)
	require.Equal(maxTokens, result.TokensToDeposit)
	require.Equal([]uint64{10, 100, 250}, p.Balances())
}

func TestProportionalDeposit(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []uint64
		lpSupply  uint64
		maxTokens map[ids.ID]uint64
		expected  *DepositResult
		balances  []uint64
	}{
		{
			name:     "limited by largest reserve",
			tokens:   []uint64{10, 100, 250},
			lpSupply: 10,
			maxTokens: map[ids.ID]uint64{
				mintA: 5,
				mintB: 50,
				mintC: 100,
			},
			expected: &DepositResult{
				LPTokens: 4,
				TokensToDeposit: map[ids.ID]uint64{
					mintA: 4,
					mintB: 40,
					mintC: 100,
				},
			},
			balances: []uint64{14, 140, 350},
		},
		{
			name:     "different ratio than pool",
			tokens:   []uint64{100, 1},
			lpSupply: 1,
			maxTokens: map[ids.ID]uint64{
				mintA: 500,
				mintB: 2,
			},
			expected: &DepositResult{
				LPTokens: 2,
				TokensToDeposit: map[ids.ID]uint64{
					mintA: 200,
					mintB: 2,
				},
			},
			balances: []uint64{300, 3},
		},
		{
			name:     "exact ratio",
			tokens:   []uint64{1_000, 2_000, 3_000, 4_000},
			lpSupply: 100,
			maxTokens: map[ids.ID]uint64{
				mintA: 10,
				mintB: 20,
				mintC: 30,
				mintD: 40,
			},
			expected: &DepositResult{
				LPTokens: 1,
				TokensToDeposit: map[ids.ID]uint64{
					mintA: 10,
					mintB: 20,
					mintC: 30,
					mintD: 40,
				},
			},
			balances: []uint64{1_010, 2_020, 3_030, 4_040},
		},
	}
	for _, tt := range tests {
		for _, c := range []curve.Curve{curve.NewCurve(0), curve.NewCurve(10)} {
			t.Run(tt.name+"/"+c.Kind.String(), func(t *testing.T) {
				require := require.New(t)

				p := newTestPool(t, c, fees.Fees{}, tt.lpSupply, tt.tokens...)
				result, err := p.DepositTokens(tt.maxTokens, tt.lpSupply)
				require.NoError(err)
				require.Equal(tt.expected, result)
				require.Equal(tt.balances, p.Balances())
			})
		}
	}
}

func TestEligiblePoolTokensTakesSmallestShare(t *testing.T) {
	require := require.New(t)

	p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, 10, 10, 100, 250)

	// exact ratio: every reserve prices the deposit at 4
	lp, err := p.eligiblePoolTokens([]uint64{4, 40, 100}, 10)
	require.NoError(err)
	require.Equal(uint64(4), lp)

	// the first reserve alone would mint 5
	lp, err = p.eligiblePoolTokens([]uint64{5, 40, 100}, 10)
	require.NoError(err)
	require.Equal(uint64(4), lp)
}

func TestDepositErrors(t *testing.T) {
	tests := []struct {
		name      string
		maxTokens map[ids.ID]uint64
		lpSupply  uint64
		expectErr error
		kind      ammerr.Kind
	}{
		{
			name:      "zero amount",
			maxTokens: map[ids.ID]uint64{mintA: 10, mintB: 0, mintC: 10},
			lpSupply:  10,
			expectErr: ErrZeroAmount,
			kind:      ammerr.KindInvalidArgument,
		},
		{
			name:      "zero amount on first deposit",
			maxTokens: map[ids.ID]uint64{mintA: 10, mintB: 10, mintC: 0},
			expectErr: ErrZeroAmount,
			kind:      ammerr.KindInvalidArgument,
		},
		{
			name:      "too few mints",
			maxTokens: map[ids.ID]uint64{mintA: 10, mintB: 10},
			lpSupply:  10,
			expectErr: ErrDimensionMismatch,
			kind:      ammerr.KindInvalidArgument,
		},
		{
			name:      "foreign mint",
			maxTokens: map[ids.ID]uint64{mintA: 10, mintB: 10, mintD: 10},
			lpSupply:  10,
			expectErr: ErrMissingMint,
			kind:      ammerr.KindInvalidArgument,
		},
		{
			name:      "dust",
			maxTokens: map[ids.ID]uint64{mintA: 1, mintB: 1, mintC: 1},
			lpSupply:  10,
			expectErr: ErrZeroPoolTokens,
			kind:      ammerr.KindZeroResult,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, 10, 10, 100, 250)
			_, err := p.DepositTokens(tt.maxTokens, tt.lpSupply)
			require.ErrorIs(err, tt.expectErr)
			require.Equal(tt.kind, ammerr.Classify(err))
			require.Equal([]uint64{10, 100, 250}, p.Balances())
		})
	}
}

func TestDepositOverflow(t *testing.T) {
	require := require.New(t)

	p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, 1, ^uint64(0), 1)
	_, err := p.DepositTokens(map[ids.ID]uint64{mintA: ^uint64(0), mintB: 1}, 1)
	require.ErrorIs(err, ammerr.ErrCalculationFailure)
	require.Equal([]uint64{^uint64(0), 1}, p.Balances())
}

func TestDepositInvariantViolationIsLogged(t *testing.T) {
	require := require.New(t)

	var (
		log      = internallogging.NewRecorder(logging.Info)
		registry = prometheus.NewRegistry()
	)
	m, err := NewMetrics(registry)
	require.NoError(err)
	p, err := New(Config{
		Mint:     poolMint,
		Reserves: reserves([]ids.ID{mintA, mintB}, 0, 0),
	}, 0, log, m)
	require.NoError(err)

	// a positive supply against empty reserves is inconsistent
	_, err = p.DepositTokens(map[ids.ID]uint64{mintA: 1, mintB: 1}, 5)
	require.ErrorIs(err, ErrEmptyReserve)
	require.ErrorIs(err, decimal.ErrDivideByZero)
	require.Equal(ammerr.KindInvariantViolation, ammerr.Classify(err))

	entries := log.Entries(logging.Error)
	require.Len(entries, 1)
	require.Equal("invariant violation", entries[0].Msg)
	require.Equal(1.0, testutil.ToFloat64(m.invariantViolations))
	require.Equal(1.0, testutil.ToFloat64(m.failures.WithLabelValues("deposit", "invariant_violation")))

	// rejected requests are not logged as errors
	_, err = p.DepositTokens(map[ids.ID]uint64{mintA: 0, mintB: 1}, 0)
	require.ErrorIs(err, ErrZeroAmount)
	require.Len(log.Entries(logging.Error), 1)
	require.Equal(1.0, testutil.ToFloat64(m.invariantViolations))
	require.Equal(1.0, testutil.ToFloat64(m.failures.WithLabelValues("deposit", "invalid_argument")))
}

func TestDepositResetsInvariant(t *testing.T) {
	require := require.New(t)

	p := newTestPool(t, curve.NewCurve(100), fees.Fees{}, 2_000_000, 1_000_000, 1_000_000)
	_, err := p.Swap(mintA, mintB, 10_000, 2_000_000)
	require.NoError(err)
	require.Equal(decimal.New(2_000_000), p.Curve().CachedInvariant)

	_, err = p.DepositTokens(map[ids.ID]uint64{mintA: 1_000, mintB: 1_000}, 2_000_000)
	require.NoError(err)
	require.True(p.Curve().CachedInvariant.IsZero())

	_, err = p.Swap(mintA, mintB, 10_000, 2_000_000)
	require.NoError(err)
	require.False(p.Curve().CachedInvariant.IsZero())

	_, err = p.WithdrawTokens(1_000, 2_000_000)
	require.NoError(err)
	require.True(p.Curve().CachedInvariant.IsZero())
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name     string
		fees     fees.Fees
		lpTokens uint64
		expected *WithdrawResult
		balances []uint64
	}{
		{
			name:     "without fee",
			lpTokens: 4,
			expected: &WithdrawResult{
				LPTokensBurned: 4,
				TokensToWithdraw: map[ids.ID]uint64{
					mintA: 4,
					mintB: 40,
					mintC: 100,
				},
			},
			balances: []uint64{10, 100, 250},
		},
		{
			name:     "with owner fee",
			fees:     fees.Fees{OwnerWithdrawFeeNumerator: 1, OwnerWithdrawFeeDenominator: 4},
			lpTokens: 4,
			expected: &WithdrawResult{
				LPTokensBurned: 3,
				OwnerFee:       1,
				TokensToWithdraw: map[ids.ID]uint64{
					mintA: 3,
					mintB: 30,
					mintC: 75,
				},
			},
			balances: []uint64{11, 110, 275},
		},
		{
			name:     "partial",
			lpTokens: 3,
			expected: &WithdrawResult{
				LPTokensBurned: 3,
				TokensToWithdraw: map[ids.ID]uint64{
					mintA: 3,
					mintB: 30,
					mintC: 75,
				},
			},
			balances: []uint64{11, 110, 275},
		},
		{
			name:     "whole supply",
			lpTokens: 14,
			expected: &WithdrawResult{
				LPTokensBurned: 14,
				TokensToWithdraw: map[ids.ID]uint64{
					mintA: 14,
					mintB: 140,
					mintC: 350,
				},
			},
			balances: []uint64{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := newTestPool(t, curve.NewCurve(0), tt.fees, 14, 14, 140, 350)
			result, err := p.WithdrawTokens(tt.lpTokens, 14)
			require.NoError(err)
			require.Equal(tt.expected, result)
			require.Equal(tt.balances, p.Balances())
		})
	}
}

func TestWithdrawErrors(t *testing.T) {
	tests := []struct {
		name      string
		lpTokens  uint64
		lpSupply  uint64
		expectErr error
	}{
		{
			name:      "zero",
			lpSupply:  1_000_000,
			expectErr: ErrZeroAmount,
		},
		{
			name:      "exceeds supply",
			lpTokens:  1_000_001,
			lpSupply:  1_000_000,
			expectErr: ErrExceedsSupply,
		},
		{
			name:      "dust",
			lpTokens:  1,
			lpSupply:  1_000_000,
			expectErr: curve.ErrZeroTradingTokens,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, 1_000_000, 10, 10)
			_, err := p.WithdrawTokens(tt.lpTokens, tt.lpSupply)
			require.ErrorIs(err, tt.expectErr)
			require.Equal([]uint64{10, 10}, p.Balances())
		})
	}
}

// Redeeming the pool tokens minted for a deposit never returns more of any
// reserve than was deposited.
func TestDepositWithdrawSymmetry(t *testing.T) {
	require := require.New(t)

	r := rand.New(rand.NewPCG(23, 29))
	mints := []ids.ID{mintA, mintB, mintC, mintD}
	random := func() uint64 {
		return 1 + r.Uint64N(1<<(4+r.IntN(36)))
	}
	for i := 0; i < 1_000; i++ {
		var (
			n         = 2 + r.IntN(3)
			tokens    = make([]uint64, n)
			maxTokens = make(map[ids.ID]uint64, n)
			lpSupply  = random()
		)
		for j := range tokens {
			tokens[j] = random()
			maxTokens[mints[j]] = random()
		}
		p := newTestPool(t, curve.NewCurve(0), fees.Fees{}, lpSupply, tokens...)
		deposit, err := p.DepositTokens(maxTokens, lpSupply)
		if err != nil {
			require.ErrorIs(err, ErrZeroPoolTokens)
			continue
		}
		for mint, amount := range deposit.TokensToDeposit {
			require.LessOrEqual(amount, maxTokens[mint])
			require.NotZero(amount)
		}

		withdraw, err := p.WithdrawTokens(deposit.LPTokens, lpSupply+deposit.LPTokens)
		if err != nil {
			// every share rounds down to zero
			require.ErrorIs(err, curve.ErrZeroTradingTokens)
			continue
		}
		for mint, amount := range withdraw.TokensToWithdraw {
			require.LessOrEqual(amount, deposit.TokensToDeposit[mint], "reserves=%v max=%v supply=%d", tokens, maxTokens, lpSupply)
		}
	}
}
