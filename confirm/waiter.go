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

// Package confirm waits for a submitted transaction to be confirmed,
// rejected or given up on.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util/timers"
)

// State is a step of the wait.
type State int

const (
	// Polling queries the pool for the transaction.
	Polling State = iota
	// Backoff sleeps after a failed query.
	Backoff
	// Confirmed is terminal: the transaction is in a block.
	Confirmed
	// Rejected is terminal: the pool dropped the transaction.
	Rejected
	// TimedOut is terminal: the round budget ran out.
	TimedOut
)

func (s State) String() string {
	switch s {
	case Polling:
		return "polling"
	case Backoff:
		return "backoff"
	case Confirmed:
		return "confirmed"
	case Rejected:
		return "rejected"
	case TimedOut:
		return "timed-out"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Sentinels wrapped by the errors Await returns.
var (
	ErrRejected     = errors.New("transaction rejected by the pool")
	ErrNotConfirmed = errors.New("transaction not confirmed")
)

// Confirmation is the confirmed transaction's result.
type Confirmation struct {
	TxID             transactions.Txid
	Round            basics.Round
	ApplicationIndex basics.AppIndex
	AssetIndex       basics.AssetIndex
	GlobalDelta      basics.StateDelta
	LocalDeltas      map[basics.Address]basics.StateDelta
	InnerTxns        []ledger.PendingTxn
	Logs             [][]byte
}

// CreatedAsset returns the asset created by the transaction or one of its
// inner transactions.
func (c Confirmation) CreatedAsset() (basics.AssetIndex, bool) {
	return ledger.PendingTxn{AssetIndex: c.AssetIndex, InnerTxns: c.InnerTxns}.CreatedAsset()
}

// Waiter polls one node.
type Waiter struct {
	client    ledger.Client
	attempts  int
	backoff   time.Duration
	maxRounds uint64
	perRound  time.Duration
	clock     timers.Clock
	log       logging.Logger
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithLogger sets the waiter's logger.
func WithLogger(log logging.Logger) Option {
	return func(w *Waiter) { w.log = log }
}

// WithClock replaces the clock used to sleep between failed queries.
func WithClock(clock timers.Clock) Option {
	return func(w *Waiter) { w.clock = clock }
}

// NewWaiter returns a waiter configured from cfg's poll settings.
func NewWaiter(client ledger.Client, cfg config.Local, opts ...Option) *Waiter {
	w := &Waiter{
		client:    client,
		attempts:  cfg.PollAttempts,
		backoff:   cfg.PollBackoff,
		maxRounds: cfg.WaitRounds,
		perRound:  cfg.RoundTimeout,
		clock:     timers.MakeMonotonicClock(time.Now()),
		log:       logging.Base(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type wait struct {
	txid      transactions.Txid
	state     State
	attempt   int
	baseline  basics.Round
	lastRound basics.Round
	started   timers.Clock
	pending   ledger.PendingTxn
	lastErr   error
}

func (w *Waiter) transition(wt *wait, next State) {
	w.log.With("txid", wt.txid.String()).Debugf("confirm: %v -> %v (round %d, attempt %d)", wt.state, next, wt.lastRound, wt.attempt)
	wt.state = next
}

// Await waits until txid is confirmed or rejected, or until maxRounds rounds
// pass. Zero maxRounds uses the configured default. The wait also times out
// once maxRounds x RoundTimeout of wall-clock time has passed. PollAttempts
// bounds consecutive failed steps, whichever query failed. Cancelling ctx
// aborts the wait with ctx's error; the transaction may still confirm later.
func (w *Waiter) Await(ctx context.Context, txid transactions.Txid, maxRounds uint64) (Confirmation, error) {
	if maxRounds == 0 {
		maxRounds = w.maxRounds
	}
	status, err := w.client.Status(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Confirmation{}, ctx.Err()
		}
		return Confirmation{}, serr.Extend(err, "txid", txid.String())
	}
	wt := &wait{txid: txid, state: Polling, baseline: status.LastRound, lastRound: status.LastRound, started: w.clock.Zero()}

	for {
		if err := ctx.Err(); err != nil {
			return Confirmation{}, err
		}
		switch wt.state {
		case Polling:
			w.poll(ctx, wt, maxRounds)

		case Backoff:
			wt.attempt++
			if wt.attempt > w.attempts {
				return Confirmation{}, serr.Transient(
					fmt.Errorf("giving up on %v after %d failed queries: %w", txid, w.attempts, wt.lastErr),
					"txid", txid.String(), "round", uint64(wt.lastRound))
			}
			select {
			case <-ctx.Done():
				return Confirmation{}, ctx.Err()
			case <-w.clock.Zero().TimeoutAt(time.Duration(wt.attempt) * w.backoff):
			}
			w.transition(wt, Polling)

		case Confirmed:
			p := wt.pending
			return Confirmation{
				TxID:             txid,
				Round:            p.ConfirmedRound,
				ApplicationIndex: p.ApplicationIndex,
				AssetIndex:       p.AssetIndex,
				GlobalDelta:      p.GlobalDelta,
				LocalDeltas:      p.LocalDeltas,
				InnerTxns:        p.InnerTxns,
				Logs:             p.Logs,
			}, nil

		case Rejected:
			return Confirmation{}, serr.Wrap(serr.KindRejection,
				fmt.Errorf("%w: %s", ErrRejected, wt.pending.PoolError),
				"txid", txid.String(), "pool_error", wt.pending.PoolError)

		case TimedOut:
			return Confirmation{}, serr.Wrap(serr.KindTimeout,
				fmt.Errorf("%w: %v still pending after %d rounds", ErrNotConfirmed, txid, maxRounds),
				"txid", txid.String(), "round", uint64(wt.lastRound), "elapsed", wt.started.Since().String())
		}
	}
}

// poll runs one Polling step and moves wt to the next state. The failure
// count is cleared only once both queries of the step succeed.
func (w *Waiter) poll(ctx context.Context, wt *wait, maxRounds uint64) {
	p, err := w.client.PendingTransaction(ctx, wt.txid)
	if err != nil {
		wt.lastErr = err
		w.transition(wt, Backoff)
		return
	}
	wt.pending = p
	switch {
	case p.ConfirmedRound > 0:
		w.transition(wt, Confirmed)
		return
	case p.PoolError != "":
		w.transition(wt, Rejected)
		return
	case uint64(basics.SubSaturate(wt.lastRound, wt.baseline)) >= maxRounds:
		w.transition(wt, TimedOut)
		return
	case w.perRound > 0 && wt.started.Since() >= time.Duration(maxRounds)*w.perRound:
		w.transition(wt, TimedOut)
		return
	}
	status, err := w.client.StatusAfterBlock(ctx, wt.lastRound)
	if err != nil {
		wt.lastErr = err
		w.transition(wt, Backoff)
		return
	}
	wt.attempt = 0
	wt.lastRound = status.LastRound
}
