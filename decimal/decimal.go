// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package decimal implements the unsigned fixed-point numbers used by the
// curve engine.
//
// [Decimal] keeps 18 fractional digits on a 256 bit integer and is the type
// amounts, prices and invariants are exchanged in. [LargeDecimal] keeps 9
// fractional digits on a wider integer and only exists to hold the
// intermediate powers of the stable swap polynomial. The two are connected
// by the explicit conversions [Decimal.Large] and [LargeDecimal.Narrow].
//
// Every operation that could overflow, underflow or lose information
// returns an error wrapping [ammerr.ErrCalculationFailure]. Nothing wraps
// or saturates.
package decimal

import (
	"math/big"
	"strings"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ammcore/consts"
)

var (
	wad     = uint256.NewInt(1_000_000_000_000_000_000)
	halfWad = uint256.NewInt(500_000_000_000_000_000)

	// ratio between the Decimal and LargeDecimal scales
	narrowFactor = uint256.NewInt(1_000_000_000)
)

// Decimal is an immutable unsigned fixed-point number with
// [consts.DecimalPlaces] fractional digits. The zero value is 0.
type Decimal struct {
	raw uint256.Int
}

func Zero() Decimal {
	return Decimal{}
}

func One() Decimal {
	return Decimal{raw: *wad}
}

// New returns the Decimal representation of the integer [v]. This never
// overflows since 2^64 * 10^18 < 2^256.
func New(v uint64) Decimal {
	var d Decimal
	d.raw.Mul(uint256.NewInt(v), wad)
	return d
}

// NewScaled interprets [v] as an already scaled value, ie. NewScaled(1)
// is 10^-18.
func NewScaled(v uint64) Decimal {
	var d Decimal
	d.raw.SetUint64(v)
	return d
}

func NewScaledInt(v *uint256.Int) Decimal {
	var d Decimal
	d.raw.Set(v)
	return d
}

// Scaled returns a copy of the backing integer.
func (d Decimal) Scaled() *uint256.Int {
	return d.raw.Clone()
}

func (d Decimal) Add(o Decimal) (Decimal, error) {
	var r Decimal
	if _, overflow := r.raw.AddOverflow(&d.raw, &o.raw); overflow {
		return Zero(), ErrOverflow
	}
	return r, nil
}

func (d Decimal) Sub(o Decimal) (Decimal, error) {
	var r Decimal
	if _, underflow := r.raw.SubOverflow(&d.raw, &o.raw); underflow {
		return Zero(), ErrUnderflow
	}
	return r, nil
}

// Mul rounds the product down.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	var (
		r       Decimal
		product uint256.Int
	)
	if _, overflow := product.MulOverflow(&d.raw, &o.raw); overflow {
		return Zero(), ErrOverflow
	}
	r.raw.Div(&product, wad)
	return r, nil
}

// Div rounds the quotient down.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.raw.IsZero() {
		return Zero(), ErrDivideByZero
	}
	var (
		r      Decimal
		scaled uint256.Int
	)
	if _, overflow := scaled.MulOverflow(&d.raw, wad); overflow {
		return Zero(), ErrOverflow
	}
	r.raw.Div(&scaled, &o.raw)
	return r, nil
}

// Pow raises [d] to [exp] by repeated squaring.
func (d Decimal) Pow(exp uint64) (Decimal, error) {
	var (
		ret  = One()
		base = d
		err  error
	)
	for exp > 0 {
		if exp&1 == 1 {
			ret, err = ret.Mul(base)
			if err != nil {
				return Zero(), err
			}
		}
		exp >>= 1
		if exp > 0 {
			base, err = base.Mul(base)
			if err != nil {
				return Zero(), err
			}
		}
	}
	return ret, nil
}

// Sqrt returns the square root of [d] rounded down.
func (d Decimal) Sqrt() (Decimal, error) {
	var (
		r      Decimal
		scaled uint256.Int
	)
	if _, overflow := scaled.MulOverflow(&d.raw, wad); overflow {
		return Zero(), ErrOverflow
	}
	r.raw.Sqrt(&scaled)
	return r, nil
}

func (d Decimal) Cmp(o Decimal) int {
	return d.raw.Cmp(&o.raw)
}

func (d Decimal) Eq(o Decimal) bool  { return d.raw.Eq(&o.raw) }
func (d Decimal) Lt(o Decimal) bool  { return d.raw.Lt(&o.raw) }
func (d Decimal) Gt(o Decimal) bool  { return d.raw.Gt(&o.raw) }
func (d Decimal) Lte(o Decimal) bool { return !d.raw.Gt(&o.raw) }
func (d Decimal) Gte(o Decimal) bool { return !d.raw.Lt(&o.raw) }
func (d Decimal) IsZero() bool       { return d.raw.IsZero() }

// AlmostEq reports whether [d] and [o] differ by less than 10^precision
// scaled units, ie. it ignores the [precision] least significant digits.
func (d Decimal) AlmostEq(o Decimal, precision uint) bool {
	// 10^78 does not fit in 256 bits and any two values are that close
	if precision >= 78 {
		return true
	}
	var diff uint256.Int
	if d.raw.Lt(&o.raw) {
		diff.Sub(&o.raw, &d.raw)
	} else {
		diff.Sub(&d.raw, &o.raw)
	}
	var tolerance uint256.Int
	tolerance.Exp(uint256.NewInt(10), uint256.NewInt(uint64(precision)))
	return diff.Lt(&tolerance)
}

func (d Decimal) Floor() (uint64, error) {
	var q uint256.Int
	q.Div(&d.raw, wad)
	if !q.IsUint64() {
		return 0, ErrConversion
	}
	return q.Uint64(), nil
}

func (d Decimal) Ceil() (uint64, error) {
	var q, m uint256.Int
	q.DivMod(&d.raw, wad, &m)
	if !m.IsZero() {
		q.AddUint64(&q, 1)
	}
	if !q.IsUint64() {
		return 0, ErrConversion
	}
	return q.Uint64(), nil
}

// Round rounds half away from zero.
func (d Decimal) Round() (uint64, error) {
	var q uint256.Int
	if _, overflow := q.AddOverflow(&d.raw, halfWad); overflow {
		return 0, ErrConversion
	}
	q.Div(&q, wad)
	if !q.IsUint64() {
		return 0, ErrConversion
	}
	return q.Uint64(), nil
}

// Large converts [d] to a [LargeDecimal]. It fails if [d] has any digit
// below the LargeDecimal precision.
func (d Decimal) Large() (LargeDecimal, error) {
	var q, m uint256.Int
	q.DivMod(&d.raw, narrowFactor, &m)
	if !m.IsZero() {
		return LargeDecimal{}, ErrPrecisionLoss
	}
	return LargeDecimal{raw: q.ToBig()}, nil
}

func (d Decimal) String() string {
	return format(d.raw.ToBig(), consts.DecimalPlaces)
}

func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// format renders a scaled integer with [places] fractional digits,
// dropping trailing zeros.
func format(v *big.Int, places int) string {
	s := v.String()
	if len(s) <= places {
		s = strings.Repeat("0", places-len(s)+1) + s
	}
	whole, frac := s[:len(s)-places], strings.TrimRight(s[len(s)-places:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
