// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pool keeps the reserves of a multi-asset pool and applies
// deposits, withdrawals and swaps to them.
//
// Every operation computes its full result before touching the reserves,
// so a failed operation leaves the pool exactly as it was. The caller owns
// the pool token supply and the token transfers the results describe.
package pool

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.uber.org/zap"

	"github.com/ava-labs/ammcore/ammerr"
	"github.com/ava-labs/ammcore/consts"
	"github.com/ava-labs/ammcore/curve"
	"github.com/ava-labs/ammcore/fees"
)

// Reserve is one token holding of a pool. Mint identifies the token type
// and Vault its custody location; both are opaque comparison keys.
type Reserve struct {
	Tokens uint64 `json:"tokens"`
	Mint   ids.ID `json:"mint"`
	Vault  ids.ID `json:"vault"`
}

type Config struct {
	// Mint of the pool token
	Mint     ids.ID      `json:"mint"`
	Reserves []Reserve   `json:"reserves"`
	Curve    curve.Curve `json:"curve"`
	Fees     fees.Fees   `json:"fees"`
}

// State is a copy of the pool state.
type State struct {
	Mint     ids.ID      `json:"mint"`
	Reserves []Reserve   `json:"reserves"`
	Curve    curve.Curve `json:"curve"`
	Fees     fees.Fees   `json:"fees"`
}

type Pool struct {
	mint      ids.ID
	dimension int
	// only the first [dimension] reserves are populated
	reserves [consts.MaxReserves]Reserve
	curve    curve.Curve
	fees     fees.Fees

	log     logging.Logger
	metrics *Metrics
}

// New validates [cfg] against the current pool token supply and returns
// the pool. Either every reserve is empty and [lpSupply] is zero, or no
// reserve is empty and [lpSupply] is positive. [log] and [metrics] may be
// nil.
func New(cfg Config, lpSupply uint64, log logging.Logger, metrics *Metrics) (*Pool, error) {
	dimension := len(cfg.Reserves)
	if dimension < consts.MinReserves || dimension > consts.MaxReserves {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, dimension)
	}
	mints := set.NewSet[ids.ID](dimension)
	for i, r := range cfg.Reserves {
		if r.Mint == ids.Empty {
			return nil, fmt.Errorf("%w: reserve %d", ErrEmptyMint, i)
		}
		if mints.Contains(r.Mint) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMint, r.Mint)
		}
		mints.Add(r.Mint)
		if (lpSupply == 0) != (r.Tokens == 0) {
			return nil, fmt.Errorf("%w: reserve %d holds %d with supply %d", ErrReserveSupply, i, r.Tokens, lpSupply)
		}
	}
	if err := cfg.Fees.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Curve.Validate(); err != nil {
		return nil, err
	}
	// owner fees are minted through a single sided conversion, which the
	// constant product curve only defines for two reserves
	if cfg.Curve.Kind == curve.ConstantProductKind && dimension > 2 &&
		cfg.Fees.OwnerTradeFeeNumerator != 0 && cfg.Fees.OwnerTradeFeeDenominator != 0 {
		return nil, fmt.Errorf("%w: owner trade fee on %d reserves", curve.ErrUnsupportedReserveCount, dimension)
	}
	if log == nil {
		log = logging.NoLog{}
	}

	p := &Pool{
		mint:      cfg.Mint,
		dimension: dimension,
		curve:     cfg.Curve,
		fees:      cfg.Fees,
		log:       log,
		metrics:   metrics,
	}
	copy(p.reserves[:], cfg.Reserves)
	// an invariant supplied with the config is not tied to the reserves
	p.curve.ResetInvariant()
	return p, nil
}

func (p *Pool) Mint() ids.ID {
	return p.mint
}

func (p *Pool) Dimension() int {
	return p.dimension
}

// Reserves returns a copy of the populated reserves.
func (p *Pool) Reserves() []Reserve {
	reserves := make([]Reserve, p.dimension)
	copy(reserves, p.reserves[:p.dimension])
	return reserves
}

// Balances returns the token amounts of the populated reserves in reserve
// order.
func (p *Pool) Balances() []uint64 {
	balances := make([]uint64, p.dimension)
	for i := range balances {
		balances[i] = p.reserves[i].Tokens
	}
	return balances
}

func (p *Pool) Curve() curve.Curve {
	return p.curve
}

func (p *Pool) Fees() fees.Fees {
	return p.fees
}

func (p *Pool) State() State {
	return State{
		Mint:     p.mint,
		Reserves: p.Reserves(),
		Curve:    p.curve,
		Fees:     p.fees,
	}
}

// index returns the position of the reserve holding [mint].
func (p *Pool) index(mint ids.ID) (int, bool) {
	for i := 0; i < p.dimension; i++ {
		if p.reserves[i].Mint == mint {
			return i, true
		}
	}
	return 0, false
}

// commit replaces the reserve balances. [balances] must hold one entry per
// populated reserve.
func (p *Pool) commit(balances []uint64) {
	for i, b := range balances {
		p.reserves[i].Tokens = b
	}
}

// fail records a rejected operation. Invariant violations are logged at
// error level since they denote a defect rather than a rejected request.
func (p *Pool) fail(operation string, err error) error {
	kind := ammerr.Classify(err)
	violation := kind == ammerr.KindInvariantViolation
	p.metrics.recordFailure(operation, kind.String(), violation)
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Stringer("pool", p.mint),
		zap.Uint64s("balances", p.Balances()),
		zap.Error(err),
	}
	if violation {
		p.log.Error("invariant violation", fields...)
	} else {
		p.log.Debug("operation rejected", fields...)
	}
	return err
}

// observeInvariant solves or recalls the stable invariant ahead of an
// operation so a solver run that hit the iteration cap is reported.
func (p *Pool) observeInvariant(balances []uint64) error {
	if p.curve.Kind != curve.StableKind || p.curve.HasInvariant(balances) {
		return nil
	}
	s, err := p.curve.Invariant(balances)
	if err != nil {
		return err
	}
	p.metrics.recordSolve(s.Iterations, s.Converged)
	if !s.Converged {
		p.log.Warn("stable invariant did not converge",
			zap.Stringer("pool", p.mint),
			zap.Uint64("amplifier", p.curve.Amplifier),
			zap.Uint64s("balances", balances),
			zap.Int("iterations", s.Iterations),
			zap.Stringer("invariant", s.Value),
		)
	}
	return nil
}
