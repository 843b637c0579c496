// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ammcore/ammerr"
)

var rootCmd = &cobra.Command{
	Use:   "amm-cli",
	Short: "Evaluate AMM pool operations offline",
	Long: `A CLI application that prices swaps, deposits and withdrawals against a
pool description and prints the resulting pool state. It never writes state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exit status per error kind
var exitCodes = map[ammerr.Kind]int{
	ammerr.KindUnknown:              1,
	ammerr.KindCalculationFailure:   2,
	ammerr.KindZeroResult:           3,
	ammerr.KindUnsupportedOperation: 4,
	ammerr.KindInvalidArgument:      5,
	ammerr.KindInvariantViolation:   70,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodes[ammerr.Classify(err)])
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Pool description file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (verbo, debug, trace, info, warn, error, fatal, off)")
	rootCmd.PersistentFlags().String("log-dir", "", "Also write rotated log files to this directory")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print the collected metrics in prometheus text format")

	rootCmd.AddCommand(
		invariantCmd,
		swapCmd,
		depositCmd,
		withdrawCmd,
	)
}

func main() {
	Execute()
}
