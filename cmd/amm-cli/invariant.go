// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/ammcore/stableswap"
)

var invariantCmd = &cobra.Command{
	Use:   "invariant",
	Short: "Solve the stable invariant of the given or configured reserves",
	RunE: run(func(e *env, cmd *cobra.Command, _ []string) error {
		sol, err := solveInvariant(e, cmd)
		if err != nil {
			return err
		}
		if !sol.Converged {
			e.log.Warn("stable invariant did not converge",
				zap.Int("iterations", sol.Iterations),
				zap.Stringer("invariant", sol.Value),
			)
		}
		return e.print(sol, []field{
			{"invariant", sol.Value},
			{"iterations", sol.Iterations},
			{"converged", sol.Converged},
		})
	}),
}

// solveInvariant uses --reserves and --amplifier when given, the pool
// description otherwise.
func solveInvariant(e *env, cmd *cobra.Command) (stableswap.Solution, error) {
	if cmd.Flags().Changed("reserves") {
		raw, _ := cmd.Flags().GetUintSlice("reserves")
		amp, _ := cmd.Flags().GetUint64("amplifier")
		reserves := make([]uint64, len(raw))
		for i, r := range raw {
			reserves[i] = uint64(r)
		}
		return stableswap.Solve(amp, reserves)
	}
	p, err := e.pool()
	if err != nil {
		return stableswap.Solution{}, err
	}
	c := p.Curve()
	return c.Invariant(p.Balances())
}

func init() {
	invariantCmd.Flags().UintSlice("reserves", nil, "Reserve balances, comma separated")
	invariantCmd.Flags().Uint64("amplifier", 0, "Amplification coefficient used with --reserves")
}
