// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package stableswap approximates the invariant D of the stable swap curve
// with the Newton-Raphson method and solves the curve for a single reserve
// balance once D is known.
//
// For n reserves x_i and amplifier A, D is the positive root of
//
//	f(D) = D^(n+1) / (n^n * Πx_i) + (A*n^n - 1) * D - A*n^n * Σx_i
//
// Starting from D_0 = Σx_i, which bounds the root from above, the iterates
// decrease monotonically towards the root. All intermediate values are
// [decimal.LargeDecimal] so the D^(n+1) term does not overflow; only the
// result is narrowed to a [decimal.Decimal].
package stableswap

import (
	"fmt"

	"github.com/ava-labs/ammcore/consts"
	"github.com/ava-labs/ammcore/decimal"
)

var (
	// successive iterates closer than this are considered converged
	admissibleError = decimal.NewLargeScaled(500_000_000)
	// |f(D)| up to 0.00001 is accepted as a root when an iterate increases
	rootTolerance = decimal.NewLargeScaled(10_000)
)

// f(D) values closer than 10^6 scaled units (0.001) to the constant term
// are rounded to zero, larger reserves accumulate more rounding error.
const polynomialPrecision = 6

type Solution struct {
	Value      decimal.Decimal `json:"value"`
	Iterations int             `json:"iterations"`
	// Converged is false when neither convergence criterion fired within
	// [consts.MaxSolverIterations]. Value then holds the last iterate.
	Converged bool `json:"converged"`
}

// Compute returns the invariant D of [reserves] for amplifier [amp].
func Compute(amp uint64, reserves []uint64) (decimal.Decimal, error) {
	s, err := Solve(amp, reserves)
	if err != nil {
		return decimal.Zero(), err
	}
	return s.Value, nil
}

// Solve runs the Newton-Raphson iteration and reports how it terminated.
func Solve(amp uint64, reserves []uint64) (Solution, error) {
	p, err := newPolynomial(amp, reserves)
	if err != nil {
		return Solution{}, err
	}
	root, iterations, converged, err := p.solve()
	if err != nil {
		return Solution{}, err
	}
	value, err := root.Narrow()
	if err != nil {
		return Solution{}, err
	}
	return Solution{
		Value:      value,
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

type polynomial struct {
	// number of reserves
	exponent uint64
	// n^n
	nn decimal.LargeDecimal
	// n^n * Πx_i
	nnProduct decimal.LargeDecimal
	// Σx_i, also the initial guess
	sum decimal.LargeDecimal
	// A*n^n
	ann decimal.LargeDecimal
	// A*n^n - 1
	firstOrderCoeff decimal.LargeDecimal
	// A*n^n * Σx_i
	constantTerm decimal.LargeDecimal
}

func newPolynomial(amp uint64, reserves []uint64) (*polynomial, error) {
	if amp == 0 {
		return nil, ErrZeroAmplifier
	}
	if len(reserves) < consts.MinReserves {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewReserves, len(reserves))
	}

	var (
		product = decimal.LargeOne()
		sum     = decimal.LargeZero()
		err     error
	)
	for _, r := range reserves {
		product, err = product.Mul(decimal.NewLarge(r))
		if err != nil {
			return nil, err
		}
		sum, err = sum.Add(decimal.NewLarge(r))
		if err != nil {
			return nil, err
		}
	}

	exponent := uint64(len(reserves))
	nn, err := decimal.NewLarge(exponent).Pow(exponent)
	if err != nil {
		return nil, err
	}
	nnProduct, err := nn.Mul(product)
	if err != nil {
		return nil, err
	}
	ann, err := decimal.NewLarge(amp).Mul(nn)
	if err != nil {
		return nil, err
	}
	firstOrderCoeff, err := ann.Sub(decimal.LargeOne())
	if err != nil {
		return nil, err
	}
	constantTerm, err := ann.Mul(sum)
	if err != nil {
		return nil, err
	}
	return &polynomial{
		exponent:        exponent,
		nn:              nn,
		nnProduct:       nnProduct,
		sum:             sum,
		ann:             ann,
		firstOrderCoeff: firstOrderCoeff,
		constantTerm:    constantTerm,
	}, nil
}

// leadingTerms returns D^(n+1) / (n^n * Πx_i) + (A*n^n - 1) * D.
func (p *polynomial) leadingTerms(d decimal.LargeDecimal) (decimal.LargeDecimal, error) {
	pow, err := d.Pow(p.exponent + 1)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	first, err := pow.Div(p.nnProduct)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	second, err := d.Mul(p.firstOrderCoeff)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	return first.Add(second)
}

// value evaluates f(D). Since iterates stay at or above the root, f(D) is
// non-negative and a D below the root fails with an underflow.
func (p *polynomial) value(d decimal.LargeDecimal) (decimal.LargeDecimal, error) {
	leading, err := p.leadingTerms(d)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	if leading.AlmostEq(p.constantTerm, polynomialPrecision) {
		return decimal.LargeZero(), nil
	}
	return leading.Sub(p.constantTerm)
}

// derivative evaluates f'(D) = (n+1) * D^n / (n^n * Πx_i) + A*n^n - 1.
func (p *polynomial) derivative(d decimal.LargeDecimal) (decimal.LargeDecimal, error) {
	coeff, err := decimal.NewLarge(p.exponent).Add(decimal.LargeOne())
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	pow, err := d.Pow(p.exponent)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	first, err := coeff.Mul(pow)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	first, err = first.Div(p.nnProduct)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	return first.Add(p.firstOrderCoeff)
}

// step performs a single Newton-Raphson iteration D - f(D)/f'(D).
func (p *polynomial) step(d decimal.LargeDecimal) (decimal.LargeDecimal, error) {
	f, err := p.value(d)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	df, err := p.derivative(d)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	delta, err := f.Div(df)
	if err != nil {
		return decimal.LargeDecimal{}, err
	}
	return d.Sub(delta)
}

// settle applies both convergence criteria to a pair of successive
// iterates. It returns the value to stop at and whether to stop.
func (p *polynomial) settle(prev, next decimal.LargeDecimal) (decimal.LargeDecimal, bool, error) {
	// The iteration never increases unless [prev] is a root, up to
	// rounding.
	if next.Gt(prev) {
		f, err := p.value(prev)
		if err != nil {
			return decimal.LargeDecimal{}, false, err
		}
		if f.Lte(rootTolerance) {
			return prev, true, nil
		}
		return decimal.LargeDecimal{}, false, fmt.Errorf(
			"%w: previous %s, next %s, f(previous) %s",
			ErrNotARoot, prev, next, f,
		)
	}
	diff, err := prev.Sub(next)
	if err != nil {
		return decimal.LargeDecimal{}, false, err
	}
	return next, diff.Lte(admissibleError), nil
}

func (p *polynomial) solve() (decimal.LargeDecimal, int, bool, error) {
	next := p.sum
	for i := 1; i <= consts.MaxSolverIterations; i++ {
		prev := next
		var err error
		next, err = p.step(prev)
		if err != nil {
			return decimal.LargeDecimal{}, i, false, err
		}
		root, done, err := p.settle(prev, next)
		if err != nil {
			return decimal.LargeDecimal{}, i, false, err
		}
		if done {
			return root, i, true, nil
		}
	}
	return next, consts.MaxSolverIterations, false, nil
}
