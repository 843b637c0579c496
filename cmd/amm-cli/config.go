// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/ammcore/curve"
	"github.com/ava-labs/ammcore/fees"
	"github.com/ava-labs/ammcore/pool"
)

const envPrefix = "AMM"

var errNoReserves = errors.New("pool description has no reserves")

// Config holds the values merged from flags, environment and config file.
type Config struct {
	Output   string
	LogLevel string
	LogDir   string
	Metrics  bool
	Pool     PoolConfig
}

type ReserveConfig struct {
	Label  string `mapstructure:"label"`
	Tokens uint64 `mapstructure:"tokens"`
}

// PoolConfig describes a pool by human readable reserve labels. Mints and
// vaults are derived from the labels.
type PoolConfig struct {
	Label     string          `mapstructure:"label"`
	Reserves  []ReserveConfig `mapstructure:"reserves"`
	Amplifier uint64          `mapstructure:"amplifier"`
	LPSupply  uint64          `mapstructure:"lp-supply"`
	Fees      fees.Fees       `mapstructure:"fees"`
}

// loadConfig merges the config file, AMM_* environment variables and flags.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", "text")
	v.SetDefault("log-level", logging.Info.LowerString())
	v.SetDefault("pool.label", "lp")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Output:   strings.ToLower(v.GetString("output")),
		LogLevel: v.GetString("log-level"),
		LogDir:   v.GetString("log-dir"),
		Metrics:  v.GetBool("metrics"),
	}
	if err := v.UnmarshalKey("pool", &cfg.Pool); err != nil {
		return Config{}, fmt.Errorf("decode pool: %w", err)
	}
	if cfg.Output != "text" && cfg.Output != "json" {
		return Config{}, fmt.Errorf("unknown output format %q", cfg.Output)
	}
	return cfg, nil
}

// labelID derives a stable identifier from a human readable label.
func labelID(label string) ids.ID {
	return ids.ID(hashing.ComputeHash256Array([]byte(label)))
}

func vaultID(poolLabel, reserveLabel string) ids.ID {
	return labelID(poolLabel + "/vault/" + reserveLabel)
}

// labels maps reserve mints back to their labels.
func (c PoolConfig) labels() map[ids.ID]string {
	labels := make(map[ids.ID]string, len(c.Reserves))
	for _, r := range c.Reserves {
		labels[labelID(r.Label)] = r.Label
	}
	return labels
}

func (c PoolConfig) build(log logging.Logger, metrics *pool.Metrics) (*pool.Pool, error) {
	if len(c.Reserves) == 0 {
		return nil, errNoReserves
	}
	reserves := make([]pool.Reserve, len(c.Reserves))
	for i, r := range c.Reserves {
		reserves[i] = pool.Reserve{
			Tokens: r.Tokens,
			Mint:   labelID(r.Label),
			Vault:  vaultID(c.Label, r.Label),
		}
	}
	return pool.New(pool.Config{
		Mint:     labelID(c.Label),
		Reserves: reserves,
		Curve:    curve.NewCurve(c.Amplifier),
		Fees:     c.Fees,
	}, c.LPSupply, log, metrics)
}
