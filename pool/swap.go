// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/ammcore/curve"
)

type SwapResult struct {
	curve.SwapResult

	MintIn  ids.ID `json:"mintIn"`
	MintOut ids.ID `json:"mintOut"`
	// OwnerPoolTokens are minted to the pool owner for the owner fee.
	OwnerPoolTokens uint64 `json:"ownerPoolTokens"`
	// HostPoolTokens is the part of [OwnerPoolTokens] routed to the host.
	HostPoolTokens uint64 `json:"hostPoolTokens"`
}

// Swap trades [amountIn] of [mintIn] for [mintOut]. The owner fee is
// converted to pool tokens against [lpSupply]; minting them is up to the
// caller. Slippage bounds are enforced by the caller on the result.
func (p *Pool) Swap(mintIn, mintOut ids.ID, amountIn uint64, lpSupply uint64) (*SwapResult, error) {
	before := p.Balances()
	result, balances, err := p.swap(mintIn, mintOut, amountIn, lpSupply)
	if err != nil {
		return nil, p.fail("swap", err)
	}
	p.commit(balances)
	p.curve.CarryInvariant(before, balances)
	p.metrics.recordSwap()
	p.log.Debug("swapped tokens",
		zap.Stringer("pool", p.mint),
		zap.Stringer("mintIn", mintIn),
		zap.Stringer("mintOut", mintOut),
		zap.Uint64("amountIn", result.AmountIn),
		zap.Uint64("amountOut", result.AmountOut),
		zap.Uint64("ownerPoolTokens", result.OwnerPoolTokens),
	)
	return result, nil
}

func (p *Pool) swap(mintIn, mintOut ids.ID, amountIn uint64, lpSupply uint64) (*SwapResult, []uint64, error) {
	src, ok := p.index(mintIn)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownMint, mintIn)
	}
	dst, ok := p.index(mintOut)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownMint, mintOut)
	}

	balances := p.Balances()
	if err := p.curve.ValidateSupply(balances); err != nil {
		return nil, nil, err
	}
	if err := p.observeInvariant(balances); err != nil {
		return nil, nil, err
	}
	swapped, err := p.curve.SwapReserves(amountIn, balances, src, dst, p.fees)
	if err != nil {
		return nil, nil, err
	}
	balances[src] = swapped.NewSourceBalance
	balances[dst] = swapped.NewDestinationBalance

	ownerPoolTokens, err := p.curve.OwnerFeeToPoolTokens(swapped.OwnerFee, balances, src, lpSupply)
	if err != nil {
		return nil, nil, err
	}
	hostPoolTokens, err := p.fees.HostFee(ownerPoolTokens)
	if err != nil {
		return nil, nil, err
	}
	return &SwapResult{
		SwapResult:      *swapped,
		MintIn:          mintIn,
		MintOut:         mintOut,
		OwnerPoolTokens: ownerPoolTokens,
		HostPoolTokens:  hostPoolTokens,
	}, balances, nil
}
