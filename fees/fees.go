// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fees

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Fees is the fee schedule of a pool. Each fee is a numerator/denominator
// pair; a zero denominator disables the fee.
//
// The trade fee stays in the pool as extra reserve. The owner trade fee is
// also retained by the pool and later minted to the owner as pool tokens.
// The owner withdraw fee is charged in pool tokens on withdrawals. The host
// fee is the share of the owner fee routed to an integrating front end.
type Fees struct {
	TradeFeeNumerator           uint64 `json:"tradeFeeNumerator" mapstructure:"trade-fee-numerator"`
	TradeFeeDenominator         uint64 `json:"tradeFeeDenominator" mapstructure:"trade-fee-denominator"`
	OwnerTradeFeeNumerator      uint64 `json:"ownerTradeFeeNumerator" mapstructure:"owner-trade-fee-numerator"`
	OwnerTradeFeeDenominator    uint64 `json:"ownerTradeFeeDenominator" mapstructure:"owner-trade-fee-denominator"`
	OwnerWithdrawFeeNumerator   uint64 `json:"ownerWithdrawFeeNumerator" mapstructure:"owner-withdraw-fee-numerator"`
	OwnerWithdrawFeeDenominator uint64 `json:"ownerWithdrawFeeDenominator" mapstructure:"owner-withdraw-fee-denominator"`
	HostFeeNumerator            uint64 `json:"hostFeeNumerator" mapstructure:"host-fee-numerator"`
	HostFeeDenominator          uint64 `json:"hostFeeDenominator" mapstructure:"host-fee-denominator"`
}

// calculateFee returns floor(amount * numerator / denominator). The product
// is taken on 256 bits so it never overflows; only a quotient that does not
// fit a uint64 (numerator > denominator) fails.
func calculateFee(amount, numerator, denominator uint64) (uint64, error) {
	if denominator == 0 || numerator == 0 || amount == 0 {
		return 0, nil
	}
	var fee uint256.Int
	fee.Mul(uint256.NewInt(amount), uint256.NewInt(numerator))
	fee.Div(&fee, uint256.NewInt(denominator))
	if !fee.IsUint64() {
		return 0, ErrFeeCalculation
	}
	return fee.Uint64(), nil
}

func (f *Fees) TradingFee(amount uint64) (uint64, error) {
	return calculateFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator)
}

func (f *Fees) OwnerTradingFee(amount uint64) (uint64, error) {
	return calculateFee(amount, f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator)
}

func (f *Fees) OwnerWithdrawFee(amount uint64) (uint64, error) {
	return calculateFee(amount, f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator)
}

// HostFee is assessed on the owner fee, not on the traded amount.
func (f *Fees) HostFee(ownerFee uint64) (uint64, error) {
	return calculateFee(ownerFee, f.HostFeeNumerator, f.HostFeeDenominator)
}

// Validate checks that no enabled fee exceeds 100%.
func (f *Fees) Validate() error {
	for _, fee := range []struct {
		name                   string
		numerator, denominator uint64
	}{
		{"trade", f.TradeFeeNumerator, f.TradeFeeDenominator},
		{"owner trade", f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator},
		{"owner withdraw", f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator},
		{"host", f.HostFeeNumerator, f.HostFeeDenominator},
	} {
		if fee.denominator != 0 && fee.numerator > fee.denominator {
			return fmt.Errorf("%w: %s fee %d/%d", ErrInvalidFee, fee.name, fee.numerator, fee.denominator)
		}
	}
	return nil
}
