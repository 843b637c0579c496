// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ammerr defines the error kinds shared by every package of the
// curve and liquidity engine. Package specific errors wrap exactly one of
// the roots below, so callers can classify any returned error with
// [errors.Is] or [Classify].
package ammerr

import "errors"

var (
	// ErrCalculationFailure covers overflow, underflow, division by zero,
	// precision loss and failed numeric conversions.
	ErrCalculationFailure = errors.New("calculation failure")

	// ErrZeroResult is returned when a well defined computation yields zero
	// where a positive amount is required.
	ErrZeroResult = errors.New("zero result")

	// ErrUnsupportedOperation is returned when a curve does not support the
	// requested action.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvariantViolation denotes a defect in the engine itself.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidArgument is returned for caller supplied input that breaks
	// the documented preconditions.
	ErrInvalidArgument = errors.New("invalid argument")
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindCalculationFailure
	KindZeroResult
	KindUnsupportedOperation
	KindInvariantViolation
	KindInvalidArgument
)

var roots = []struct {
	err  error
	kind Kind
}{
	// invariant violations are checked first so a defect is never reported
	// as a plain arithmetic failure
	{ErrInvariantViolation, KindInvariantViolation},
	{ErrCalculationFailure, KindCalculationFailure},
	{ErrZeroResult, KindZeroResult},
	{ErrUnsupportedOperation, KindUnsupportedOperation},
	{ErrInvalidArgument, KindInvalidArgument},
}

// Classify returns the kind of [err]. Errors that do not originate from
// this module are reported as [KindUnknown].
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, r := range roots {
		if errors.Is(err, r.err) {
			return r.kind
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	switch k {
	case KindCalculationFailure:
		return "calculation_failure"
	case KindZeroResult:
		return "zero_result"
	case KindUnsupportedOperation:
		return "unsupported_operation"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}
