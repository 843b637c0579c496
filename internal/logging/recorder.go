// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
)

var _ logging.Logger = (*Recorder)(nil)

type Entry struct {
	Level  logging.Level
	Msg    string
	Fields []zap.Field
}

// Recorder keeps every entry logged at or above its level so tests can
// assert on them.
type Recorder struct {
	logging.NoLog

	lock    sync.Mutex
	level   logging.Level
	entries []Entry
}

func NewRecorder(level logging.Level) *Recorder {
	return &Recorder{level: level}
}

func (r *Recorder) record(level logging.Level, msg string, fields []zap.Field) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if level < r.level {
		return
	}
	r.entries = append(r.entries, Entry{
		Level:  level,
		Msg:    msg,
		Fields: fields,
	})
}

// Entries returns the entries recorded at [level].
func (r *Recorder) Entries(level logging.Level) []Entry {
	r.lock.Lock()
	defer r.lock.Unlock()

	var entries []Entry
	for _, e := range r.entries {
		if e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

func (r *Recorder) Enabled(level logging.Level) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return level >= r.level
}

func (r *Recorder) SetLevel(level logging.Level) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.level = level
}

func (r *Recorder) Fatal(msg string, fields ...zap.Field) { r.record(logging.Fatal, msg, fields) }

func (r *Recorder) Error(msg string, fields ...zap.Field) { r.record(logging.Error, msg, fields) }

func (r *Recorder) Warn(msg string, fields ...zap.Field) { r.record(logging.Warn, msg, fields) }

func (r *Recorder) Info(msg string, fields ...zap.Field) { r.record(logging.Info, msg, fields) }

func (r *Recorder) Trace(msg string, fields ...zap.Field) { r.record(logging.Trace, msg, fields) }

func (r *Recorder) Debug(msg string, fields ...zap.Field) { r.record(logging.Debug, msg, fields) }

func (r *Recorder) Verbo(msg string, fields ...zap.Field) { r.record(logging.Verbo, msg, fields) }
