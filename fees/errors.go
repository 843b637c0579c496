// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fees

import (
	"fmt"

	"github.com/ava-labs/ammcore/ammerr"
)

var (
	ErrFeeCalculation = fmt.Errorf("%w: fee calculation overflow", ammerr.ErrCalculationFailure)
	ErrInvalidFee     = fmt.Errorf("%w: fee numerator exceeds denominator", ammerr.ErrInvalidArgument)
)
