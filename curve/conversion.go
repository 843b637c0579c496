// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ammcore/decimal"
	"github.com/ava-labs/ammcore/fees"
	"github.com/ava-labs/ammcore/stableswap"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// RoundDirection selects how a fractional conversion result is rounded.
// Conversions always round in favor of the pool.
type RoundDirection uint8

const (
	Floor RoundDirection = iota
	Ceiling
)

func (r RoundDirection) String() string {
	if r == Floor {
		return "floor"
	}
	return "ceiling"
}

// LiquidityChange is the direction of a single sided conversion.
type LiquidityChange uint8

const (
	Deposit LiquidityChange = iota
	Withdraw
)

func (l LiquidityChange) String() string {
	if l == Deposit {
		return "deposit"
	}
	return "withdraw"
}

// PoolTokensToTradingTokens returns the share of every reserve backing
// [poolTokens] out of [supply], rounded in [round].
func (c *Curve) PoolTokensToTradingTokens(
	poolTokens uint64,
	supply uint64,
	balances []uint64,
	round RoundDirection,
) ([]uint64, error) {
	switch c.Kind {
	case ConstantProductKind, StableKind:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Kind)
	}
	if err := checkReserves(balances); err != nil {
		return nil, err
	}
	if supply == 0 {
		return nil, ErrZeroPoolSupply
	}

	var (
		amounts  = make([]uint64, len(balances))
		divisor  = uint256.NewInt(supply)
		nonZero  bool
		product  uint256.Int
		quotient uint256.Int
		rem      uint256.Int
	)
	for i, b := range balances {
		product.Mul(uint256.NewInt(poolTokens), uint256.NewInt(b))
		quotient.DivMod(&product, divisor, &rem)
		if round == Ceiling && !rem.IsZero() {
			quotient.AddUint64(&quotient, 1)
		}
		if !quotient.IsUint64() {
			return nil, fmt.Errorf("%w: reserve %d", decimal.ErrConversion, i)
		}
		amounts[i] = quotient.Uint64()
		nonZero = nonZero || amounts[i] != 0
	}
	if !nonZero {
		return nil, ErrZeroTradingTokens
	}
	return amounts, nil
}

// TradingTokensToPoolTokens returns the pool tokens matching a single
// sided deposit or withdrawal of [amount] into reserve [index], measured as
// the relative change of the normalized value of the pool:
//
//	supply * |V(after) - V(before)| / V(before)
func (c *Curve) TradingTokensToPoolTokens(
	amount uint64,
	balances []uint64,
	index int,
	supply uint64,
	change LiquidityChange,
	round RoundDirection,
) (uint64, error) {
	if err := checkReserves(balances); err != nil {
		return 0, err
	}
	if err := checkIndex(balances, index); err != nil {
		return 0, err
	}

	after := make([]uint64, len(balances))
	copy(after, balances)
	var err error
	if change == Deposit {
		after[index], err = checked(smath.Add(balances[index], amount))
	} else {
		after[index], err = checked(smath.Sub(balances[index], amount))
	}
	if err != nil {
		return 0, err
	}

	before, err := c.normalizedValue(balances)
	if err != nil {
		return 0, err
	}
	next, err := c.normalizedValue(after)
	if err != nil {
		return 0, err
	}
	var diff decimal.Decimal
	if change == Deposit {
		diff, err = next.Sub(before)
	} else {
		diff, err = before.Sub(next)
	}
	if err != nil {
		return 0, err
	}

	ratio, err := decimal.New(supply).Mul(diff)
	if err != nil {
		return 0, err
	}
	ratio, err = ratio.Div(before)
	if err != nil {
		return 0, err
	}
	if round == Ceiling {
		return ratio.Ceil()
	}
	return ratio.Floor()
}

// normalizedValue is the value a pool is measured in for single sided
// conversions: sqrt(x * y) for constant product and D for stable curves.
func (c *Curve) normalizedValue(balances []uint64) (decimal.Decimal, error) {
	switch c.Kind {
	case ConstantProductKind:
		if len(balances) != 2 {
			return decimal.Zero(), fmt.Errorf("%w: %d", ErrUnsupportedReserveCount, len(balances))
		}
		product, err := decimal.New(balances[0]).Mul(decimal.New(balances[1]))
		if err != nil {
			return decimal.Zero(), err
		}
		return product.Sqrt()
	case StableKind:
		return stableswap.Compute(c.Amplifier, balances)
	default:
		return decimal.Zero(), fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Kind)
	}
}

// halfFees returns the trade and owner fee charged on half of [amount].
// A single sided deposit or withdrawal is treated as a swap of half the
// amount followed by a balanced deposit or withdrawal.
func halfFees(amount uint64, f fees.Fees) (uint64, error) {
	half := max(1, amount/2)
	tradeFee, err := f.TradingFee(half)
	if err != nil {
		return 0, err
	}
	ownerFee, err := f.OwnerTradingFee(half)
	if err != nil {
		return 0, err
	}
	return checked(smath.Add(tradeFee, ownerFee))
}

// DepositSingleTokenType returns the pool tokens minted for depositing
// [amount] into reserve [index] only.
func (c *Curve) DepositSingleTokenType(
	amount uint64,
	balances []uint64,
	index int,
	supply uint64,
	f fees.Fees,
) (uint64, error) {
	if !c.AllowsDeposits() {
		return 0, fmt.Errorf("%w: %s curve does not allow deposits", ErrUnsupportedCurve, c.Kind)
	}
	totalFees, err := halfFees(amount, f)
	if err != nil {
		return 0, err
	}
	amountLessFees, err := checked(smath.Sub(amount, totalFees))
	if err != nil {
		return 0, err
	}
	poolTokens, err := c.TradingTokensToPoolTokens(amountLessFees, balances, index, supply, Deposit, Floor)
	if err != nil {
		return 0, err
	}
	if poolTokens == 0 {
		return 0, ErrZeroPoolTokens
	}
	return poolTokens, nil
}

// WithdrawSingleTokenTypeExactOut returns the pool tokens to burn for
// withdrawing exactly [amount] from reserve [index]. Fees are added on top
// of the amount.
func (c *Curve) WithdrawSingleTokenTypeExactOut(
	amount uint64,
	balances []uint64,
	index int,
	supply uint64,
	f fees.Fees,
) (uint64, error) {
	totalFees, err := halfFees(amount, f)
	if err != nil {
		return 0, err
	}
	amountWithFees, err := checked(smath.Add(amount, totalFees))
	if err != nil {
		return 0, err
	}
	poolTokens, err := c.TradingTokensToPoolTokens(amountWithFees, balances, index, supply, Withdraw, Ceiling)
	if err != nil {
		return 0, err
	}
	if poolTokens == 0 {
		return 0, ErrZeroPoolTokens
	}
	return poolTokens, nil
}

// OwnerFeeToPoolTokens converts the owner fee of a swap, still held in
// reserve [index] of the post swap [balances], into the pool tokens minted
// to the owner. A fee too small to be worth a pool token yields 0.
func (c *Curve) OwnerFeeToPoolTokens(ownerFee uint64, balances []uint64, index int, supply uint64) (uint64, error) {
	if ownerFee == 0 {
		return 0, nil
	}
	return c.TradingTokensToPoolTokens(ownerFee, balances, index, supply, Withdraw, Floor)
}
