// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ammcore/fees"
	"github.com/ava-labs/ammcore/stableswap"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// TradeDirection is the direction of a trade between the first two
// reserves of a pool.
type TradeDirection uint8

const (
	AToB TradeDirection = iota
	BToA
)

func (d TradeDirection) Opposite() TradeDirection {
	if d == AToB {
		return BToA
	}
	return AToB
}

func (d TradeDirection) String() string {
	if d == AToB {
		return "a_to_b"
	}
	return "b_to_a"
}

// SwapResult is the outcome of a swap. Fees are denominated in the source
// token and are part of [AmountIn].
type SwapResult struct {
	NewSourceBalance      uint64         `json:"newSourceBalance"`
	NewDestinationBalance uint64         `json:"newDestinationBalance"`
	AmountIn              uint64         `json:"amountIn"`
	AmountOut             uint64         `json:"amountOut"`
	TradeFee              uint64         `json:"tradeFee"`
	OwnerFee              uint64         `json:"ownerFee"`
	Direction             TradeDirection `json:"direction"`
}

// Balances returns the new balances in (A, B) order.
func (r *SwapResult) Balances() (uint64, uint64) {
	if r.Direction == AToB {
		return r.NewSourceBalance, r.NewDestinationBalance
	}
	return r.NewDestinationBalance, r.NewSourceBalance
}

// Swap trades [amountIn] of one token of a two reserve pool for the other.
func (c *Curve) Swap(
	amountIn uint64,
	sourceBalance uint64,
	destinationBalance uint64,
	direction TradeDirection,
	f fees.Fees,
) (*SwapResult, error) {
	balances := []uint64{sourceBalance, destinationBalance}
	src, dst := 0, 1
	if direction == BToA {
		balances[0], balances[1] = destinationBalance, sourceBalance
		src, dst = 1, 0
	}
	return c.SwapReserves(amountIn, balances, src, dst, f)
}

// SwapReserves trades [amountIn] of reserve [src] for reserve [dst] of a
// pool holding [balances]. Reserves other than [src] and [dst] only take
// part through the invariant of a stable curve.
//
// The trade fee and the owner fee are both taken from [amountIn] before
// the curve is applied and stay in the source reserve.
func (c *Curve) SwapReserves(amountIn uint64, balances []uint64, src, dst int, f fees.Fees) (*SwapResult, error) {
	if err := checkReserves(balances); err != nil {
		return nil, err
	}
	if err := checkIndex(balances, src); err != nil {
		return nil, err
	}
	if err := checkIndex(balances, dst); err != nil {
		return nil, err
	}
	if src == dst {
		return nil, fmt.Errorf("%w: %d", ErrSameReserve, src)
	}
	if err := c.ValidateSupply(balances); err != nil {
		return nil, err
	}

	tradeFee, err := f.TradingFee(amountIn)
	if err != nil {
		return nil, err
	}
	ownerFee, err := f.OwnerTradingFee(amountIn)
	if err != nil {
		return nil, err
	}
	amountLessFees, err := checked(smath.Sub(amountIn, tradeFee))
	if err != nil {
		return nil, err
	}
	amountLessFees, err = checked(smath.Sub(amountLessFees, ownerFee))
	if err != nil {
		return nil, err
	}

	var amountOut uint64
	switch c.Kind {
	case ConstantProductKind:
		amountOut, err = constantProductOut(amountLessFees, balances[src], balances[dst])
	case StableKind:
		amountOut, err = c.stableOut(amountLessFees, balances, src, dst)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Kind)
	}
	if err != nil {
		return nil, err
	}
	if amountOut == 0 {
		return nil, ErrZeroTradingTokens
	}

	newSource, err := checked(smath.Add(balances[src], amountIn))
	if err != nil {
		return nil, err
	}
	newDestination, err := checked(smath.Sub(balances[dst], amountOut))
	if err != nil {
		return nil, err
	}
	direction := AToB
	if src > dst {
		direction = BToA
	}
	result := &SwapResult{
		NewSourceBalance:      newSource,
		NewDestinationBalance: newDestination,
		AmountIn:              amountIn,
		AmountOut:             amountOut,
		TradeFee:              tradeFee,
		OwnerFee:              ownerFee,
		Direction:             direction,
	}
	if err := c.checkSwap(result, balances, src, dst); err != nil {
		return nil, err
	}
	return result, nil
}

// constantProductOut returns dest - ceil(source * dest / (source + amount)).
// Rounding the new destination balance up keeps the product from
// decreasing.
func constantProductOut(amount, source, destination uint64) (uint64, error) {
	var (
		k           uint256.Int
		denominator uint256.Int
		newDest     uint256.Int
		rem         uint256.Int
	)
	k.Mul(uint256.NewInt(source), uint256.NewInt(destination))
	denominator.Add(uint256.NewInt(source), uint256.NewInt(amount))
	newDest.DivMod(&k, &denominator, &rem)
	if !rem.IsZero() {
		newDest.AddUint64(&newDest, 1)
	}
	// newDest <= destination since source <= source + amount
	return checked(smath.Sub(destination, newDest.Uint64()))
}

// stableOut holds the invariant constant and solves for the destination
// balance after [amount] entered the source reserve. The new destination
// balance is rounded up.
func (c *Curve) stableOut(amount uint64, balances []uint64, src, dst int) (uint64, error) {
	s, err := c.Invariant(balances)
	if err != nil {
		return 0, err
	}
	d, err := s.Value.Large()
	if err != nil {
		return 0, err
	}
	next := make([]uint64, len(balances))
	copy(next, balances)
	next[src], err = checked(smath.Add(balances[src], amount))
	if err != nil {
		return 0, err
	}
	y, err := stableswap.Balance(c.Amplifier, d, next, dst)
	if err != nil {
		return 0, err
	}
	newDest, err := y.Ceil()
	if err != nil {
		return 0, err
	}
	if newDest >= balances[dst] {
		return 0, nil
	}
	return balances[dst] - newDest, nil
}

// checkSwap verifies that the reserves after [result] still back the
// invariant they had before it.
func (c *Curve) checkSwap(result *SwapResult, balances []uint64, src, dst int) error {
	switch c.Kind {
	case ConstantProductKind:
		var before, after uint256.Int
		before.Mul(uint256.NewInt(balances[src]), uint256.NewInt(balances[dst]))
		after.Mul(uint256.NewInt(result.NewSourceBalance), uint256.NewInt(result.NewDestinationBalance))
		if after.Lt(&before) {
			return fmt.Errorf("%w: product %s < %s", ErrInvariantDecreased, after.Dec(), before.Dec())
		}
		return nil
	case StableKind:
		after := make([]uint64, len(balances))
		copy(after, balances)
		after[src] = result.NewSourceBalance
		after[dst] = result.NewDestinationBalance
		s, err := c.Invariant(balances)
		if err != nil {
			return err
		}
		d, err := s.Value.Large()
		if err != nil {
			return err
		}
		ok, err := stableswap.Preserves(c.Amplifier, d, after)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: balances %v no longer back %s", ErrInvariantDecreased, after, s.Value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Kind)
	}
}
