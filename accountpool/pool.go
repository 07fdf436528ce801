// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-certmint
//
// go-certmint is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-certmint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-certmint.  If not, see <https://www.gnu.org/licenses/>.

// Package accountpool hands out freshly generated accounts that a funder has
// already paid, refilling in batches with one grouped payment per batch.
package accountpool

import (
	"context"
	"encoding/binary"

	"github.com/algorand/go-deadlock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
	"github.com/algorand/go-certmint/util/metrics"
)

// Pool is safe for concurrent use. Refills are serialized; a caller that
// finds the pool empty waits for the refill in progress.
type Pool struct {
	client  ledger.Client
	builder *txgroup.Builder
	waiter  *confirm.Waiter
	funders []account.Signer
	batch   int
	amount  uint64
	log     logging.Logger
	size    prometheus.Gauge

	waiterOpts []confirm.Option

	refillMu deadlock.Mutex
	mu       deadlock.Mutex
	ready    []*account.KeyAccount
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the pool's logger.
func WithLogger(log logging.Logger) Option {
	return func(p *Pool) { p.log = log }
}

// WithRegisterer exports the pool size gauge through reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Pool) {
		if err := metrics.Register(reg, p.size); err != nil {
			p.log.Warnf("account pool gauge not registered: %v", err)
		}
	}
}

// WithWaiterOptions passes options to the confirmation waiter.
func WithWaiterOptions(opts ...confirm.Option) Option {
	return func(p *Pool) { p.waiterOpts = append(p.waiterOpts, opts...) }
}

// New returns an empty pool paying cfg.AccountPoolFunding to each account,
// cfg.AccountPoolBatch accounts per refill, from one of funders.
func New(client ledger.Client, cfg config.Local, funders []account.Signer, opts ...Option) (*Pool, error) {
	if len(funders) == 0 {
		return nil, serr.Configuration("account pool needs at least one funder")
	}
	if cfg.AccountPoolBatch <= 0 || cfg.AccountPoolBatch > config.Consensus.MaxTxGroupSize {
		return nil, serr.Configuration("account pool batch must fit in one group", "batch", cfg.AccountPoolBatch)
	}
	p := &Pool{
		client:  client,
		funders: funders,
		batch:   cfg.AccountPoolBatch,
		amount:  cfg.AccountPoolFunding,
		log:     logging.Base(),
		size:    metrics.NewGauge(metrics.AccountPoolSize),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.builder = txgroup.NewBuilder(client, txgroup.WithLogger(p.log))
	p.waiter = confirm.NewWaiter(client, cfg, append([]confirm.Option{confirm.WithLogger(p.log)}, p.waiterOpts...)...)
	return p, nil
}

// Len returns the number of funded accounts waiting.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ready)
}

func (p *Pool) pop() *account.KeyAccount {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.ready)
	if n == 0 {
		return nil
	}
	a := p.ready[n-1]
	p.ready = p.ready[:n-1]
	p.size.Set(float64(len(p.ready)))
	return a
}

// Take returns a funded account no other caller has received.
func (p *Pool) Take(ctx context.Context) (*account.KeyAccount, error) {
	if a := p.pop(); a != nil {
		return a, nil
	}
	p.refillMu.Lock()
	defer p.refillMu.Unlock()
	if a := p.pop(); a != nil {
		return a, nil
	}
	if err := p.refill(ctx); err != nil {
		return nil, err
	}
	return p.pop(), nil
}

// refill funds one batch in a single group and waits for it to confirm.
func (p *Pool) refill(ctx context.Context) error {
	funder := p.pickFunder()
	fresh := make([]*account.KeyAccount, p.batch)
	intents := make([]txgroup.Intent, p.batch)
	for i := range fresh {
		fresh[i] = account.GenerateKeyAccount()
		intents[i] = txgroup.Intent{
			Txn:    txgroup.Payment(funder.Address(), fresh[i].Address(), p.amount),
			Signer: funder,
			Fee:    txgroup.FeeSelf,
		}
	}
	g, err := p.builder.Build(ctx, intents)
	if err != nil {
		return err
	}
	if err := p.builder.Submit(ctx, g); err != nil {
		return err
	}
	last := g.TxID(g.Len() - 1)
	if _, err := p.waiter.Await(ctx, last, 0); err != nil {
		return serr.Extend(err, "funder", funder.Address().String())
	}
	p.log.Infof("account pool funded %d accounts with %d microAlgos each from %v", p.batch, p.amount, funder.Address())

	p.mu.Lock()
	p.ready = append(p.ready, fresh...)
	p.size.Set(float64(len(p.ready)))
	p.mu.Unlock()
	return nil
}

func (p *Pool) pickFunder() account.Signer {
	var b [8]byte
	crypto.RandBytes(b[:])
	return p.funders[binary.LittleEndian.Uint64(b[:])%uint64(len(p.funders))]
}

// Fund pays amount microAlgos to addr from a random funder and waits for it.
func (p *Pool) Fund(ctx context.Context, addr basics.Address, amount uint64) (confirm.Confirmation, error) {
	if addr.IsZero() {
		return confirm.Confirmation{}, serr.Configuration("cannot fund the zero address")
	}
	funder := p.pickFunder()
	g, err := p.builder.Build(ctx, []txgroup.Intent{{
		Txn:    txgroup.Payment(funder.Address(), addr, amount),
		Signer: funder,
		Fee:    txgroup.FeeSelf,
	}})
	if err != nil {
		return confirm.Confirmation{}, err
	}
	if err := p.builder.Submit(ctx, g); err != nil {
		return confirm.Confirmation{}, err
	}
	conf, err := p.waiter.Await(ctx, g.TxID(0), 0)
	if err != nil {
		return confirm.Confirmation{}, serr.Extend(err, "funded", addr.String())
	}
	return conf, nil
}
