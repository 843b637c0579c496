// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package curve prices trades and converts between trading tokens and pool
// tokens along the bonding curve of a pool.
//
// A [Curve] is a closed set of variants. Every operation switches over
// [Kind] and fails with [ErrUnsupportedCurve] for anything else, so adding a
// variant means visiting every switch in this package.
package curve

import (
	"fmt"
	"slices"

	"github.com/ava-labs/ammcore/consts"
	"github.com/ava-labs/ammcore/decimal"
	"github.com/ava-labs/ammcore/stableswap"
)

type Kind uint8

const (
	// ConstantProductKind holds x * y constant.
	ConstantProductKind Kind = iota
	// StableKind follows the stable swap invariant, which flattens the
	// constant product curve around the balanced point by the amplifier.
	StableKind
)

func (k Kind) String() string {
	switch k {
	case ConstantProductKind:
		return "constant_product"
	case StableKind:
		return "stable"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Curve is the curve configuration embedded in a pool.
type Curve struct {
	Kind      Kind   `json:"kind"`
	Amplifier uint64 `json:"amplifier,omitempty"`

	// CachedInvariant memoizes the stable invariant D for the balances it
	// was solved for. A lookup with any other balances solves again, and
	// [Curve.ResetInvariant] drops it once the composition of the reserves
	// changed. Zero means unset.
	CachedInvariant decimal.Decimal `json:"invariant"`

	// balances [CachedInvariant] belongs to, never mutated in place
	invariantBalances []uint64
	// set when the memoized invariant came from a solver run that hit the
	// iteration cap
	notConverged bool
}

// NewCurve returns a stable curve for a non-zero [amplifier] and a constant
// product curve otherwise.
func NewCurve(amplifier uint64) Curve {
	if amplifier == 0 {
		return Curve{Kind: ConstantProductKind}
	}
	return Curve{Kind: StableKind, Amplifier: amplifier}
}

func (c *Curve) Validate() error {
	switch c.Kind {
	case ConstantProductKind:
		if c.Amplifier != 0 {
			return fmt.Errorf("%w: constant product curve has amplifier %d", ErrInvalidAmplifier, c.Amplifier)
		}
		return nil
	case StableKind:
		if c.Amplifier < consts.MinAmplifier || c.Amplifier > consts.MaxAmplifier {
			return fmt.Errorf(
				"%w: %d not in [%d, %d]",
				ErrInvalidAmplifier, c.Amplifier, consts.MinAmplifier, consts.MaxAmplifier,
			)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCurve, c.Kind)
	}
}

// AllowsDeposits reports whether liquidity can be added after creation.
func (c *Curve) AllowsDeposits() bool {
	switch c.Kind {
	case ConstantProductKind, StableKind:
		return true
	default:
		return false
	}
}

// ValidateSupply checks that every reserve holds tokens. Both curves are
// undefined on an empty reserve.
func (*Curve) ValidateSupply(balances []uint64) error {
	for i, b := range balances {
		if b == 0 {
			return fmt.Errorf("%w: reserve %d", ErrEmptySupply, i)
		}
	}
	return nil
}

// Invariant returns the stable invariant of [balances], solving it unless
// it is memoized for exactly these balances.
func (c *Curve) Invariant(balances []uint64) (stableswap.Solution, error) {
	if c.Kind != StableKind {
		return stableswap.Solution{}, fmt.Errorf("%w: %s curve has no stable invariant", ErrUnsupportedCurve, c.Kind)
	}
	if c.HasInvariant(balances) {
		return stableswap.Solution{
			Value:     c.CachedInvariant,
			Converged: !c.notConverged,
		}, nil
	}
	s, err := stableswap.Solve(c.Amplifier, balances)
	if err != nil {
		return stableswap.Solution{}, err
	}
	c.CachedInvariant = s.Value
	c.invariantBalances = slices.Clone(balances)
	c.notConverged = !s.Converged
	return s, nil
}

// HasInvariant reports whether the invariant of [balances] is memoized.
func (c *Curve) HasInvariant(balances []uint64) bool {
	return !c.CachedInvariant.IsZero() && slices.Equal(c.invariantBalances, balances)
}

// CarryInvariant moves the invariant memoized for [before] to [after]. A
// swap keeps the invariant, so the pool carries it to the post-swap
// balances on commit. It is a no-op if nothing is memoized for [before].
func (c *Curve) CarryInvariant(before, after []uint64) {
	if c.HasInvariant(before) {
		c.invariantBalances = slices.Clone(after)
	}
}

// ResetInvariant drops the memoized invariant.
func (c *Curve) ResetInvariant() {
	c.CachedInvariant = decimal.Zero()
	c.invariantBalances = nil
	c.notConverged = false
}

func checkReserves(balances []uint64) error {
	if n := len(balances); n < consts.MinReserves || n > consts.MaxReserves {
		return fmt.Errorf("%w: %d", ErrReserveCount, n)
	}
	return nil
}

func checkIndex(balances []uint64, index int) error {
	if index < 0 || index >= len(balances) {
		return fmt.Errorf("%w: %d of %d", ErrReserveIndex, index, len(balances))
	}
	return nil
}
