// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ava-labs/ammcore/pool"
)

// env is the per invocation state shared by every command.
type env struct {
	cfg      Config
	log      logging.Logger
	registry *prometheus.Registry
	metrics  *pool.Metrics
	labels   map[ids.ID]string
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	metrics, err := pool.NewMetrics(registry)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  metrics,
		labels:   cfg.Pool.labels(),
	}, nil
}

func (e *env) pool() (*pool.Pool, error) {
	return e.cfg.Pool.build(e.log, e.metrics)
}

func (e *env) mint(label string) (ids.ID, error) {
	id := labelID(label)
	if _, ok := e.labels[id]; !ok {
		return ids.Empty, fmt.Errorf("unknown reserve %q", label)
	}
	return id, nil
}

func (e *env) print(v any, fields []field) error {
	return printValue(os.Stdout, e.cfg.Output, v, fields)
}

// close dumps metrics if requested and flushes the logger.
func (e *env) close() error {
	defer e.log.Stop()
	if !e.cfg.Metrics {
		return nil
	}
	return printMetrics(os.Stdout, e.registry)
}

// run wraps a command body with env setup and teardown.
func run(fn func(e *env, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		if err := fn(e, cmd, args); err != nil {
			e.log.Stop()
			return err
		}
		return e.close()
	}
}
