// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// A pool holds at least [MinReserves] and at most [MaxReserves] token
	// reserves.
	MinReserves = 2
	MaxReserves = 4

	// DecimalPlaces is the number of fractional digits of decimal.Decimal.
	DecimalPlaces = 18
	// LargeDecimalPlaces is the number of fractional digits of
	// decimal.LargeDecimal. Newton-Raphson loses too much precision below 9.
	LargeDecimalPlaces = 9
	// LargeDecimalBits caps the backing integer of decimal.LargeDecimal.
	LargeDecimalBits = 384

	// MaxSolverIterations bounds the stable invariant solver.
	MaxSolverIterations = 32

	MinAmplifier = 1
	MaxAmplifier = 1_000_000

	MaxUint64 = ^uint64(0)
)
