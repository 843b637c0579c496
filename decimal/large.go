// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decimal

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ammcore/consts"
)

var (
	largeScale = big.NewInt(1_000_000_000)
	largeOne   = big.NewInt(1_000_000_000)
	bigTen     = big.NewInt(10)
)

// LargeDecimal is an immutable unsigned fixed-point number with
// [consts.LargeDecimalPlaces] fractional digits whose backing integer is
// capped at [consts.LargeDecimalBits]. Any intermediate value exceeding the
// cap is reported as an overflow, so it behaves like a fixed width type.
//
// The zero value is 0. The backing integer is never mutated once a value
// has been constructed.
type LargeDecimal struct {
	raw *big.Int
}

func LargeZero() LargeDecimal {
	return LargeDecimal{}
}

func LargeOne() LargeDecimal {
	return LargeDecimal{raw: largeOne}
}

// NewLarge returns the LargeDecimal representation of the integer [v].
func NewLarge(v uint64) LargeDecimal {
	r := new(big.Int).SetUint64(v)
	return LargeDecimal{raw: r.Mul(r, largeScale)}
}

// NewLargeScaled interprets [v] as an already scaled value, ie.
// NewLargeScaled(1) is 10^-9.
func NewLargeScaled(v uint64) LargeDecimal {
	return LargeDecimal{raw: new(big.Int).SetUint64(v)}
}

// NewLargeScaledInt copies [v] and fails if it is negative or wider than
// the cap.
func NewLargeScaledInt(v *big.Int) (LargeDecimal, error) {
	return checked(new(big.Int).Set(v))
}

func checked(v *big.Int) (LargeDecimal, error) {
	if v.Sign() < 0 {
		return LargeDecimal{}, ErrUnderflow
	}
	if v.BitLen() > consts.LargeDecimalBits {
		return LargeDecimal{}, ErrOverflow
	}
	return LargeDecimal{raw: v}, nil
}

func (l LargeDecimal) int() *big.Int {
	if l.raw == nil {
		return new(big.Int)
	}
	return l.raw
}

// Scaled returns a copy of the backing integer.
func (l LargeDecimal) Scaled() *big.Int {
	return new(big.Int).Set(l.int())
}

func (l LargeDecimal) Add(o LargeDecimal) (LargeDecimal, error) {
	return checked(new(big.Int).Add(l.int(), o.int()))
}

func (l LargeDecimal) Sub(o LargeDecimal) (LargeDecimal, error) {
	return checked(new(big.Int).Sub(l.int(), o.int()))
}

// Mul rounds the product down. The unscaled product must fit the cap.
func (l LargeDecimal) Mul(o LargeDecimal) (LargeDecimal, error) {
	product := new(big.Int).Mul(l.int(), o.int())
	if product.BitLen() > consts.LargeDecimalBits {
		return LargeDecimal{}, ErrOverflow
	}
	return LargeDecimal{raw: product.Quo(product, largeScale)}, nil
}

// Div rounds the quotient down.
func (l LargeDecimal) Div(o LargeDecimal) (LargeDecimal, error) {
	if o.IsZero() {
		return LargeDecimal{}, ErrDivideByZero
	}
	scaled := new(big.Int).Mul(l.int(), largeScale)
	if scaled.BitLen() > consts.LargeDecimalBits {
		return LargeDecimal{}, ErrOverflow
	}
	return LargeDecimal{raw: scaled.Quo(scaled, o.int())}, nil
}

// Pow raises [l] to [exp] by repeated squaring.
func (l LargeDecimal) Pow(exp uint64) (LargeDecimal, error) {
	var (
		ret  = LargeOne()
		base = l
		err  error
	)
	for exp > 0 {
		if exp&1 == 1 {
			ret, err = ret.Mul(base)
			if err != nil {
				return LargeDecimal{}, err
			}
		}
		exp >>= 1
		if exp > 0 {
			base, err = base.Mul(base)
			if err != nil {
				return LargeDecimal{}, err
			}
		}
	}
	return ret, nil
}

// Sqrt returns the square root of [l] rounded down.
func (l LargeDecimal) Sqrt() (LargeDecimal, error) {
	scaled := new(big.Int).Mul(l.int(), largeScale)
	if scaled.BitLen() > consts.LargeDecimalBits {
		return LargeDecimal{}, ErrOverflow
	}
	return LargeDecimal{raw: scaled.Sqrt(scaled)}, nil
}

func (l LargeDecimal) Cmp(o LargeDecimal) int {
	return l.int().Cmp(o.int())
}

func (l LargeDecimal) Eq(o LargeDecimal) bool  { return l.Cmp(o) == 0 }
func (l LargeDecimal) Lt(o LargeDecimal) bool  { return l.Cmp(o) < 0 }
func (l LargeDecimal) Gt(o LargeDecimal) bool  { return l.Cmp(o) > 0 }
func (l LargeDecimal) Lte(o LargeDecimal) bool { return l.Cmp(o) <= 0 }
func (l LargeDecimal) IsZero() bool            { return l.int().Sign() == 0 }

// AlmostEq reports whether [l] and [o] differ by less than 10^precision
// scaled units. With 9 fractional digits, a precision of 6 compares up to
// the third decimal place.
func (l LargeDecimal) AlmostEq(o LargeDecimal, precision uint) bool {
	diff := new(big.Int).Sub(l.int(), o.int())
	diff.Abs(diff)
	tolerance := new(big.Int).Exp(bigTen, big.NewInt(int64(precision)), nil)
	return diff.Cmp(tolerance) < 0
}

func (l LargeDecimal) Floor() (uint64, error) {
	q := new(big.Int).Quo(l.int(), largeScale)
	if !q.IsUint64() {
		return 0, ErrConversion
	}
	return q.Uint64(), nil
}

func (l LargeDecimal) Ceil() (uint64, error) {
	q, m := new(big.Int).QuoRem(l.int(), largeScale, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsUint64() {
		return 0, ErrConversion
	}
	return q.Uint64(), nil
}

// Narrow converts [l] back to a [Decimal], failing if it does not fit.
func (l LargeDecimal) Narrow() (Decimal, error) {
	v, overflow := uint256.FromBig(l.int())
	if overflow {
		return Zero(), ErrOverflow
	}
	var d Decimal
	if _, overflow := d.raw.MulOverflow(v, narrowFactor); overflow {
		return Zero(), ErrOverflow
	}
	return d, nil
}

func (l LargeDecimal) String() string {
	return format(l.int(), consts.LargeDecimalPlaces)
}

func (l LargeDecimal) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
