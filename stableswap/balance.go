// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"fmt"

	"github.com/ava-labs/ammcore/consts"
	"github.com/ava-labs/ammcore/decimal"
)

var four = decimal.NewLarge(4)

// Balance returns the balance y of reserve [index] such that [balances],
// with y in place of balances[index], has invariant [d]. The value at
// balances[index] is ignored.
//
// Fixing every other balance turns the invariant into the quadratic
//
//	y^2 + (b - D) * y - c = 0
//
// with b = S' + D/(A*n^n) and c = D^(n+1) / (A*n^n * n^n * P') where S' and
// P' are the sum and product of the other balances. The positive root is
// taken in the form that avoids cancellation for the sign of b - D.
func Balance(amp uint64, d decimal.LargeDecimal, balances []uint64, index int) (decimal.LargeDecimal, error) {
	if amp == 0 {
		return decimal.LargeDecimal{}, ErrZeroAmplifier
	}
	if len(balances) < consts.MinReserves {
		return decimal.LargeDecimal{}, fmt.Errorf("%w: got %d", ErrTooFewReserves, len(balances))
	}
	if index < 0 || index >= len(balances) {
		return decimal.LargeDecimal{}, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, index, len(balances))
	}

	var (
		n       = uint64(len(balances))
		sum     = decimal.LargeZero()
		product = decimal.LargeOne()
		err     error
	)
	for i, b := range balances {
		if i == index {
			continue
		}
		sum, err = sum.Add(decimal.NewLarge(b))
		if err != nil {
			return decimal.LargeDecimal{}, err
		}
		product, err = product.Mul(decimal.NewLarge(b))
		if err != nil {
			return decimal.LargeDecimal{}, err
		}
	}

	nn, err := decimal.NewLarge(n).Pow(n)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	ann, err := decimal.NewLarge(amp).Mul(nn)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}

	// b = S' + D/Ann
	dOverAnn, err := d.Div(ann)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	b, err := sum.Add(dOverAnn)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}

	// c = D^(n+1) / (Ann * n^n * P')
	numerator, err := d.Pow(n + 1)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	denominator, err := ann.Mul(nn)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	denominator, err = denominator.Mul(product)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	c, err := numerator.Div(denominator)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	fourC, err := c.Mul(four)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}

	if b.Lt(d) {
		// y = ((D - b) + sqrt((D - b)^2 + 4c)) / 2
		bn, err := d.Sub(b)
		if err != nil {
			return decimal.LargeDecimal{}, err
		}
		disc, err := discriminant(bn, fourC)
		if err != nil {
			return decimal.LargeDecimal{}, err
		}
		y, err := bn.Add(disc)
		if err != nil {
			return decimal.LargeDecimal{}, err
		}
		return y.Div(decimal.NewLarge(2))
	}
	// y = (sqrt((b - D)^2 + 4c) - (b - D)) / 2
	bp, err := b.Sub(d)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	disc, err := discriminant(bp, fourC)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	y, err := disc.Sub(bp)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	return y.Div(decimal.NewLarge(2))
}

// discriminant returns sqrt(b^2 + 4c).
func discriminant(b, fourC decimal.LargeDecimal) (decimal.LargeDecimal, error) {
	sq, err := b.Mul(b)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	sq, err = sq.Add(fourC)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	return sq.Sqrt()
}

// Preserves reports whether [balances] still back an invariant of at least
// [d]. It evaluates the leading terms of the invariant polynomial at [d]
// against its constant term, within the solver's rounding precision.
func Preserves(amp uint64, d decimal.LargeDecimal, balances []uint64) (bool, error) {
	p, err := newPolynomial(amp, balances)
	if err != nil {
		return false, err
	}
	leading, err := p.leadingTerms(d)
	if err != nil {
		return false, err
	}
	return leading.Lte(p.constantTerm) || leading.AlmostEq(p.constantTerm, polynomialPrecision), nil
}
