// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/ava-labs/ammcore/ammerr"
)

var (
	ErrDimension         = fmt.Errorf("%w: pool must hold between 2 and 4 reserves", ammerr.ErrInvalidArgument)
	ErrDuplicateMint     = fmt.Errorf("%w: duplicate reserve mint", ammerr.ErrInvalidArgument)
	ErrEmptyMint         = fmt.Errorf("%w: reserve mint is empty", ammerr.ErrInvalidArgument)
	ErrReserveSupply     = fmt.Errorf("%w: reserve balances must be zero exactly when the pool token supply is", ammerr.ErrInvalidArgument)
	ErrZeroAmount        = fmt.Errorf("%w: must deposit a positive amount of tokens for each mint", ammerr.ErrInvalidArgument)
	ErrDimensionMismatch = fmt.Errorf("%w: max tokens map does not match pool dimension", ammerr.ErrInvalidArgument)
	ErrMissingMint       = fmt.Errorf("%w: reserve mint is not represented", ammerr.ErrInvalidArgument)
	ErrUnknownMint       = fmt.Errorf("%w: mint is not a reserve of the pool", ammerr.ErrInvalidArgument)
	ErrExceedsSupply     = fmt.Errorf("%w: pool tokens exceed supply", ammerr.ErrInvalidArgument)

	ErrDepositsDisabled = fmt.Errorf("%w: curve does not allow deposits", ammerr.ErrUnsupportedOperation)

	ErrZeroPoolTokens = fmt.Errorf("%w: deposit yields zero pool tokens", ammerr.ErrZeroResult)

	ErrZeroParityPrice = fmt.Errorf(
		"%w: no parity price can be zero on a curve asymptotic to each axis",
		ammerr.ErrInvariantViolation,
	)
	ErrParityRatio = fmt.Errorf(
		"%w: deposit ratio exceeds one although it is limited by the lowest total parity price",
		ammerr.ErrInvariantViolation,
	)
	ErrEmptyReserve = fmt.Errorf("%w: no reserve can have a zero balance", ammerr.ErrInvariantViolation)
)
