// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/ammcore/pool"
)

// field is one line of text output.
type field struct {
	name  string
	value any
}

// printValue writes [v] as indented json, or [fields] as aligned
// "name: value" lines.
func printValue(w io.Writer, format string, v any, fields []field) error {
	if format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	width := 0
	for _, f := range fields {
		width = max(width, len(f.name))
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-*s %v\n", width+1, f.name+":", f.value); err != nil {
			return err
		}
	}
	return nil
}

// amounts renders a mint keyed map in label order.
func amounts(labels map[ids.ID]string, m map[ids.ID]uint64) string {
	keys := maps.Keys(m)
	slices.SortFunc(keys, func(a, b ids.ID) int {
		return strings.Compare(labelOf(labels, a), labelOf(labels, b))
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", labelOf(labels, k), m[k])
	}
	return strings.Join(parts, " ")
}

func labelOf(labels map[ids.ID]string, id ids.ID) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id.String()
}

func stateFields(labels map[ids.ID]string, p *pool.Pool) []field {
	fields := []field{
		{"curve", p.Curve().Kind},
	}
	for _, r := range p.Reserves() {
		fields = append(fields, field{"reserve " + labelOf(labels, r.Mint), r.Tokens})
	}
	return fields
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
