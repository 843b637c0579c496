// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/ava-labs/ammcore/ammerr"
	"github.com/ava-labs/ammcore/curve"
	"github.com/ava-labs/ammcore/decimal"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

type DepositResult struct {
	LPTokens        uint64            `json:"lpTokens"`
	TokensToDeposit map[ids.ID]uint64 `json:"tokensToDeposit"`
}

type WithdrawResult struct {
	// LPTokensBurned are redeemed for [TokensToWithdraw].
	LPTokensBurned uint64 `json:"lpTokensBurned"`
	// OwnerFee is the part of the withdrawn pool tokens transferred to the
	// pool owner instead of being burned.
	OwnerFee         uint64            `json:"ownerFee"`
	TokensToWithdraw map[ids.ID]uint64 `json:"tokensToWithdraw"`
}

// DepositTokens deposits at most [maxTokens] of every reserve mint and
// returns the pool tokens to mint for it.
//
// The first deposit (zero [lpSupply]) takes the requested amounts as they
// are and mints the smallest of them. Later deposits keep the reserve
// ratios: every requested amount is priced in the token with the largest
// reserve, the lowest total value limits the deposit and the other amounts
// are scaled down to it, rounding up.
func (p *Pool) DepositTokens(maxTokens map[ids.ID]uint64, lpSupply uint64) (*DepositResult, error) {
	result, balances, err := p.deposit(maxTokens, lpSupply)
	if err != nil {
		return nil, p.fail("deposit", err)
	}
	p.commit(balances)
	p.curve.ResetInvariant()
	p.metrics.recordDeposit()
	p.log.Debug("deposited tokens",
		zap.Stringer("pool", p.mint),
		zap.Uint64("lpTokens", result.LPTokens),
		zap.Uint64s("balances", balances),
	)
	return result, nil
}

func (p *Pool) deposit(maxTokens map[ids.ID]uint64, lpSupply uint64) (*DepositResult, []uint64, error) {
	if !p.curve.AllowsDeposits() {
		return nil, nil, fmt.Errorf("%w: %s", ErrDepositsDisabled, p.curve.Kind)
	}
	for mint, amount := range maxTokens {
		if amount == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrZeroAmount, mint)
		}
	}
	if len(maxTokens) != p.dimension {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(maxTokens), p.dimension)
	}
	for i := 0; i < p.dimension; i++ {
		if _, ok := maxTokens[p.reserves[i].Mint]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingMint, p.reserves[i].Mint)
		}
	}

	var (
		amounts  []uint64
		lpTokens uint64
		err      error
	)
	if lpSupply == 0 {
		amounts = make([]uint64, p.dimension)
		for i := range amounts {
			amounts[i] = maxTokens[p.reserves[i].Mint]
		}
		lpTokens = amounts[0]
		for _, a := range amounts[1:] {
			lpTokens = min(lpTokens, a)
		}
	} else {
		amounts, err = p.proportionalAmounts(maxTokens)
		if err != nil {
			return nil, nil, err
		}
		lpTokens, err = p.eligiblePoolTokens(amounts, lpSupply)
		if err != nil {
			return nil, nil, err
		}
		if lpTokens == 0 {
			return nil, nil, ErrZeroPoolTokens
		}
	}

	balances := p.Balances()
	tokensToDeposit := make(map[ids.ID]uint64, p.dimension)
	for i, amount := range amounts {
		balances[i], err = smath.Add(balances[i], amount)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reserve %s: %w", ammerr.ErrCalculationFailure, p.reserves[i].Mint, err)
		}
		tokensToDeposit[p.reserves[i].Mint] = amount
	}
	return &DepositResult{
		LPTokens:        lpTokens,
		TokensToDeposit: tokensToDeposit,
	}, balances, nil
}

// parityPrices prices every reserve in the token with the largest reserve,
// the cheapest token from the pool's perspective.
func (p *Pool) parityPrices() ([]decimal.Decimal, error) {
	var quote uint64
	for i := 0; i < p.dimension; i++ {
		quote = max(quote, p.reserves[i].Tokens)
	}
	prices := make([]decimal.Decimal, p.dimension)
	for i := range prices {
		price, err := decimal.New(quote).Div(decimal.New(p.reserves[i].Tokens))
		if err != nil {
			return nil, fmt.Errorf("%w: reserve %s: %w", ErrEmptyReserve, p.reserves[i].Mint, err)
		}
		prices[i] = price
	}
	return prices, nil
}

// proportionalAmounts scales [maxTokens] down to the reserve ratios.
func (p *Pool) proportionalAmounts(maxTokens map[ids.ID]uint64) ([]uint64, error) {
	prices, err := p.parityPrices()
	if err != nil {
		return nil, err
	}

	totals := make([]decimal.Decimal, p.dimension)
	for i, price := range prices {
		totals[i], err = decimal.New(maxTokens[p.reserves[i].Mint]).Mul(price)
		if err != nil {
			return nil, err
		}
	}
	lowest := totals[0]
	for _, total := range totals[1:] {
		if total.Lt(lowest) {
			lowest = total
		}
	}
	if lowest.IsZero() {
		return nil, ErrZeroParityPrice
	}

	amounts := make([]uint64, p.dimension)
	for i, total := range totals {
		ratio, err := lowest.Div(total)
		if err != nil {
			return nil, err
		}
		if ratio.Gt(decimal.One()) {
			return nil, fmt.Errorf("%w: %s", ErrParityRatio, ratio)
		}
		scaled, err := decimal.New(maxTokens[p.reserves[i].Mint]).Mul(ratio)
		if err != nil {
			return nil, err
		}
		// rounding up never deposits zero tokens
		amounts[i], err = scaled.Ceil()
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// eligiblePoolTokens prices a proportional deposit of [amounts] in pool
// tokens as lpSupply * amount / reserve. Any reserve gives the same ratio
// up to rounding; the smallest one is taken so that redeeming the minted
// tokens never returns more than was deposited.
//
// This deliberately replaces pricing against a single reference reserve,
// which over-mints once the scaled amounts were rounded up. Both agree on
// deposits made in the exact reserve ratio.
func (p *Pool) eligiblePoolTokens(amounts []uint64, lpSupply uint64) (uint64, error) {
	var (
		lowest   uint256.Int
		product  uint256.Int
		quotient uint256.Int
		supply   = uint256.NewInt(lpSupply)
	)
	for i, amount := range amounts {
		if p.reserves[i].Tokens == 0 {
			return 0, fmt.Errorf("%w: reserve %s", ErrEmptyReserve, p.reserves[i].Mint)
		}
		product.Mul(supply, uint256.NewInt(amount))
		quotient.Div(&product, uint256.NewInt(p.reserves[i].Tokens))
		if i == 0 || quotient.Lt(&lowest) {
			lowest.Set(&quotient)
		}
	}
	if !lowest.IsUint64() {
		return 0, fmt.Errorf("%w: pool tokens", decimal.ErrConversion)
	}
	return lowest.Uint64(), nil
}

// WithdrawTokens redeems [lpTokens] out of [lpSupply] for a proportional
// share of every reserve, rounded down. The owner withdraw fee is charged
// in pool tokens before the conversion.
func (p *Pool) WithdrawTokens(lpTokens uint64, lpSupply uint64) (*WithdrawResult, error) {
	result, balances, err := p.withdraw(lpTokens, lpSupply)
	if err != nil {
		return nil, p.fail("withdraw", err)
	}
	p.commit(balances)
	p.curve.ResetInvariant()
	p.metrics.recordWithdrawal()
	p.log.Debug("withdrew tokens",
		zap.Stringer("pool", p.mint),
		zap.Uint64("lpTokensBurned", result.LPTokensBurned),
		zap.Uint64("ownerFee", result.OwnerFee),
		zap.Uint64s("balances", balances),
	)
	return result, nil
}

func (p *Pool) withdraw(lpTokens uint64, lpSupply uint64) (*WithdrawResult, []uint64, error) {
	if lpTokens == 0 {
		return nil, nil, fmt.Errorf("%w: pool tokens", ErrZeroAmount)
	}
	if lpTokens > lpSupply {
		return nil, nil, fmt.Errorf("%w: %d > %d", ErrExceedsSupply, lpTokens, lpSupply)
	}
	ownerFee, err := p.fees.OwnerWithdrawFee(lpTokens)
	if err != nil {
		return nil, nil, err
	}
	burned := lpTokens - ownerFee

	balances := p.Balances()
	amounts, err := p.curve.PoolTokensToTradingTokens(burned, lpSupply, balances, curve.Floor)
	if err != nil {
		return nil, nil, err
	}
	tokensToWithdraw := make(map[ids.ID]uint64, p.dimension)
	for i, amount := range amounts {
		balances[i], err = smath.Sub(balances[i], amount)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: reserve %s: %w", ammerr.ErrCalculationFailure, p.reserves[i].Mint, err)
		}
		tokensToWithdraw[p.reserves[i].Mint] = amount
	}
	return &WithdrawResult{
		LPTokensBurned:   burned,
		OwnerFee:         ownerFee,
		TokensToWithdraw: tokensToWithdraw,
	}, balances, nil
}
