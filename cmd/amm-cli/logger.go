// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	loggerName = "amm"

	maxLogSize    = 8 // megabytes
	maxLogAge     = 7 // days
	maxLogBackups = 4
)

// newLogger writes colored logs to stderr and, when [dir] is set, plain
// logs to a rotated file in [dir].
func newLogger(level string, dir string) (logging.Logger, error) {
	lvl, err := logging.ToLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cores := []logging.WrappedCore{
		logging.NewWrappedCore(lvl, os.Stderr, logging.Colors.ConsoleEncoder()),
	}
	if dir != "" {
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(dir, loggerName+".log"),
			MaxSize:    maxLogSize,
			MaxAge:     maxLogAge,
			MaxBackups: maxLogBackups,
		}
		cores = append(cores, logging.NewWrappedCore(lvl, rw, logging.Plain.FileEncoder()))
	}
	return logging.NewLogger(logging.Plain.WrapPrefix(loggerName), cores...), nil
}
