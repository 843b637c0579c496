// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var swapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Price a swap against the configured pool",
	RunE: run(func(e *env, cmd *cobra.Command, _ []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		amount, _ := cmd.Flags().GetUint64("amount")
		minOut, _ := cmd.Flags().GetUint64("min-out")

		mintIn, err := e.mint(in)
		if err != nil {
			return err
		}
		mintOut, err := e.mint(out)
		if err != nil {
			return err
		}
		p, err := e.pool()
		if err != nil {
			return err
		}
		result, err := p.Swap(mintIn, mintOut, amount, e.cfg.Pool.LPSupply)
		if err != nil {
			return err
		}
		if result.AmountOut < minOut {
			return fmt.Errorf("%w: got %d, want at least %d", errSlippage, result.AmountOut, minOut)
		}

		fields := []field{
			{"amount in", result.AmountIn},
			{"amount out", result.AmountOut},
			{"trade fee", result.TradeFee},
			{"owner fee", result.OwnerFee},
			{"owner pool tokens", result.OwnerPoolTokens},
			{"host pool tokens", result.HostPoolTokens},
		}
		return e.print(result, append(fields, stateFields(e.labels, p)...))
	}),
}

func init() {
	swapCmd.Flags().String("in", "", "Label of the reserve paid into the pool")
	swapCmd.Flags().String("out", "", "Label of the reserve paid out")
	swapCmd.Flags().Uint64("amount", 0, "Amount of the input token, fees included")
	swapCmd.Flags().Uint64("min-out", 0, "Fail if fewer tokens would be paid out")
	_ = swapCmd.MarkFlagRequired("in")
	_ = swapCmd.MarkFlagRequired("out")
	_ = swapCmd.MarkFlagRequired("amount")
}
