// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/spf13/cobra"
)

var (
	errSlippage      = errors.New("slippage limit exceeded")
	errInvalidAmount = errors.New("amount must be LABEL=TOKENS")
)

var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Price a balanced deposit into the configured pool",
	RunE: run(func(e *env, cmd *cobra.Command, _ []string) error {
		raw, _ := cmd.Flags().GetStringArray("amount")
		minLP, _ := cmd.Flags().GetUint64("min-lp-tokens")

		maxTokens, err := parseAmounts(e, raw)
		if err != nil {
			return err
		}
		p, err := e.pool()
		if err != nil {
			return err
		}
		result, err := p.DepositTokens(maxTokens, e.cfg.Pool.LPSupply)
		if err != nil {
			return err
		}
		if result.LPTokens < minLP {
			return fmt.Errorf("%w: got %d pool tokens, want at least %d", errSlippage, result.LPTokens, minLP)
		}

		fields := []field{
			{"pool tokens", result.LPTokens},
			{"deposit", amounts(e.labels, result.TokensToDeposit)},
		}
		return e.print(result, append(fields, stateFields(e.labels, p)...))
	}),
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Price a balanced withdrawal from the configured pool",
	RunE: run(func(e *env, cmd *cobra.Command, _ []string) error {
		lpTokens, _ := cmd.Flags().GetUint64("lp-tokens")

		p, err := e.pool()
		if err != nil {
			return err
		}
		result, err := p.WithdrawTokens(lpTokens, e.cfg.Pool.LPSupply)
		if err != nil {
			return err
		}

		fields := []field{
			{"pool tokens burned", result.LPTokensBurned},
			{"owner fee", result.OwnerFee},
			{"withdraw", amounts(e.labels, result.TokensToWithdraw)},
		}
		return e.print(result, append(fields, stateFields(e.labels, p)...))
	}),
}

// parseAmounts turns repeated LABEL=TOKENS flags into a mint keyed map.
func parseAmounts(e *env, raw []string) (map[ids.ID]uint64, error) {
	out := make(map[ids.ID]uint64, len(raw))
	for _, r := range raw {
		label, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errInvalidAmount, r)
		}
		tokens, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", errInvalidAmount, r, err)
		}
		mint, err := e.mint(label)
		if err != nil {
			return nil, err
		}
		out[mint] = tokens
	}
	return out, nil
}

func init() {
	depositCmd.Flags().StringArray("amount", nil, "Maximum deposit of one reserve as LABEL=TOKENS, repeatable")
	depositCmd.Flags().Uint64("min-lp-tokens", 0, "Fail if fewer pool tokens would be minted")
	_ = depositCmd.MarkFlagRequired("amount")

	withdrawCmd.Flags().Uint64("lp-tokens", 0, "Pool tokens to redeem")
	_ = withdrawCmd.MarkFlagRequired("lp-tokens")
}
