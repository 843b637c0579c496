// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package decimal

import (
	"fmt"

	"github.com/ava-labs/ammcore/ammerr"
)

var (
	ErrOverflow      = fmt.Errorf("%w: overflow", ammerr.ErrCalculationFailure)
	ErrUnderflow     = fmt.Errorf("%w: underflow", ammerr.ErrCalculationFailure)
	ErrDivideByZero  = fmt.Errorf("%w: division by zero", ammerr.ErrCalculationFailure)
	ErrConversion    = fmt.Errorf("%w: conversion to u64 failed", ammerr.ErrCalculationFailure)
	ErrPrecisionLoss = fmt.Errorf("%w: conversion loses precision", ammerr.ErrCalculationFailure)
)
