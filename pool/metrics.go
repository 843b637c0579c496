// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amm_pool"

// Metrics counts pool operations. A nil *Metrics records nothing.
type Metrics struct {
	swaps               prometheus.Counter
	deposits            prometheus.Counter
	withdrawals         prometheus.Counter
	failures            *prometheus.CounterVec
	invariantViolations prometheus.Counter
	solverNotConverged  prometheus.Counter
	solverIterations    metric.Averager
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	solverIterations, err := metric.NewAverager(
		namespace+"_solver_iterations",
		"newton-raphson iterations per stable invariant solved",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &Metrics{
		swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps",
			Help:      "number of swaps executed",
		}),
		deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits",
			Help:      "number of deposits executed",
		}),
		withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawals",
			Help:      "number of withdrawals executed",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures",
			Help:      "number of rejected operations by error kind",
		}, []string{"operation", "kind"}),
		invariantViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invariant_violations",
			Help:      "number of internal consistency checks that failed",
		}),
		solverNotConverged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_not_converged",
			Help:      "number of stable invariants that hit the iteration cap",
		}),
		solverIterations: solverIterations,
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.swaps),
		r.Register(m.deposits),
		r.Register(m.withdrawals),
		r.Register(m.failures),
		r.Register(m.invariantViolations),
		r.Register(m.solverNotConverged),
	)
	return m, errs.Err
}

func (m *Metrics) recordSwap() {
	if m != nil {
		m.swaps.Inc()
	}
}

func (m *Metrics) recordDeposit() {
	if m != nil {
		m.deposits.Inc()
	}
}

func (m *Metrics) recordWithdrawal() {
	if m != nil {
		m.withdrawals.Inc()
	}
}

func (m *Metrics) recordFailure(operation, kind string, violation bool) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation, kind).Inc()
	if violation {
		m.invariantViolations.Inc()
	}
}

func (m *Metrics) recordSolve(iterations int, converged bool) {
	if m == nil {
		return
	}
	m.solverIterations.Observe(float64(iterations))
	if !converged {
		m.solverNotConverged.Inc()
	}
}
