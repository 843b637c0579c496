// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package stableswap

import (
	"fmt"

	"github.com/ava-labs/ammcore/ammerr"
)

var (
	ErrZeroAmplifier  = fmt.Errorf("%w: amplifier is zero, the curve reduces to constant product", ammerr.ErrInvalidArgument)
	ErrTooFewReserves = fmt.Errorf("%w: at least two reserves are required", ammerr.ErrInvalidArgument)
	ErrInvalidIndex   = fmt.Errorf("%w: reserve index out of range", ammerr.ErrInvalidArgument)
	ErrNotARoot       = fmt.Errorf("%w: newton-raphson iterate increased at a value that is not a root", ammerr.ErrInvariantViolation)
)
