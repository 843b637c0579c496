// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"fmt"

	"github.com/ava-labs/ammcore/ammerr"
)

var (
	ErrUnsupportedCurve        = fmt.Errorf("%w: unknown curve kind", ammerr.ErrUnsupportedOperation)
	ErrUnsupportedReserveCount = fmt.Errorf("%w: curve does not support this number of reserves", ammerr.ErrUnsupportedOperation)

	ErrInvalidAmplifier = fmt.Errorf("%w: amplifier out of range", ammerr.ErrInvalidArgument)
	ErrReserveCount     = fmt.Errorf("%w: invalid number of reserves", ammerr.ErrInvalidArgument)
	ErrReserveIndex     = fmt.Errorf("%w: reserve index out of range", ammerr.ErrInvalidArgument)
	ErrSameReserve      = fmt.Errorf("%w: source and destination reserve are the same", ammerr.ErrInvalidArgument)
	ErrEmptySupply      = fmt.Errorf("%w: reserve has no supply", ammerr.ErrInvalidArgument)
	ErrZeroPoolSupply   = fmt.Errorf("%w: pool token supply is zero", ammerr.ErrInvalidArgument)

	ErrZeroTradingTokens = fmt.Errorf("%w: conversion yields zero trading tokens", ammerr.ErrZeroResult)
	ErrZeroPoolTokens    = fmt.Errorf("%w: conversion yields zero pool tokens", ammerr.ErrZeroResult)

	ErrInvariantDecreased = fmt.Errorf("%w: swap decreased the curve invariant", ammerr.ErrInvariantViolation)
)

// checked wraps errors of the avalanchego safe math helpers as calculation
// failures.
func checked(v uint64, err error) (uint64, error) {
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ammerr.ErrCalculationFailure, err)
	}
	return v, nil
}
