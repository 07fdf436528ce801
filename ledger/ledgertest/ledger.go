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

// Package ledgertest provides an in-memory ledger.Client for tests. It keeps
// balances, assets and application state, checks groups the way a node's
// transaction pool does, and runs the certificate minting application's
// methods natively.
package ledgertest

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/serr"
)

// ConsensusVersion is the protocol name the ledger reports.
const ConsensusVersion = "certmint-test-v1"

type pendingEntry struct {
	info   ledger.PendingTxn
	queued bool
}

// Ledger is an in-memory ledger. The zero value is not usable; use New.
type Ledger struct {
	mu deadlock.Mutex

	proto       config.ConsensusParams
	genesisID   string
	genesisHash crypto.Digest
	mintCost    uint64

	round basics.Round
	st    *state
	txns  map[transactions.Txid]*pendingEntry
	queue []transactions.Txid

	holdBlocks   bool
	dropNext     string
	failPending  int
	failSubmit   error
	submissions  int
	lastRejected error
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithConsensus replaces the consensus parameters.
func WithConsensus(proto config.ConsensusParams) Option {
	return func(l *Ledger) { l.proto = proto }
}

// WithMintCost sets the opcode budget a mint call needs from its group.
func WithMintCost(cost uint64) Option {
	return func(l *Ledger) { l.mintCost = cost }
}

// WithGenesis sets the genesis id and hash.
func WithGenesis(id string, hash crypto.Digest) Option {
	return func(l *Ledger) {
		l.genesisID = id
		l.genesisHash = hash
	}
}

// New creates an empty ledger at round 1.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		proto:       config.Consensus,
		genesisID:   "certmint-test",
		genesisHash: crypto.Hash([]byte("certmint-test")),
		mintCost:    DefaultMintCost,
		round:       1,
		st:          newState(),
		txns:        make(map[transactions.Txid]*pendingEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fund credits addr with amount microAlgos out of thin air.
func (l *Ledger) Fund(addr basics.Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ad := l.st.account(addr)
	ad.balance = basics.AddSaturate(ad.balance, amount)
}

// NewFundedAccount generates a key account holding amount microAlgos.
func (l *Ledger) NewFundedAccount(amount uint64) *account.KeyAccount {
	acct := account.GenerateKeyAccount()
	l.Fund(acct.Address(), amount)
	return acct
}

// HoldBlocks stops confirming queued transactions while rounds keep advancing.
func (l *Ledger) HoldBlocks(hold bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.holdBlocks = hold
}

// DropNextGroup makes the pool accept the next group and then evict it with
// poolError, leaving state untouched.
func (l *Ledger) DropNextGroup(poolError string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropNext = poolError
}

// FailPendingQueries makes the next n pending-transaction queries fail with a
// transient error.
func (l *Ledger) FailPendingQueries(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failPending = n
}

// FailNextSubmit makes the next submission fail with err before reaching the pool.
func (l *Ledger) FailNextSubmit(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failSubmit = err
}

// Submissions counts the groups sent to the ledger, accepted or not.
func (l *Ledger) Submissions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submissions
}

// LastRejection returns the error of the most recent rejected group.
func (l *Ledger) LastRejection() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastRejected
}

// Round returns the last round.
func (l *Ledger) Round() basics.Round {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.round
}

// Status implements ledger.Client
func (l *Ledger) Status(ctx context.Context) (ledger.NodeStatus, error) {
	if err := ctx.Err(); err != nil {
		return ledger.NodeStatus{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return ledger.NodeStatus{LastRound: l.round}, nil
}

// StatusAfterBlock implements ledger.Client. It produces the next block at
// once, confirming whatever is queued unless blocks are held.
func (l *Ledger) StatusAfterBlock(ctx context.Context, round basics.Round) (ledger.NodeStatus, error) {
	if err := ctx.Err(); err != nil {
		return ledger.NodeStatus{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.round <= round {
		l.round = round
	}
	l.round++
	if !l.holdBlocks {
		for _, txid := range l.queue {
			e := l.txns[txid]
			e.queued = false
			e.info.ConfirmedRound = l.round
		}
		l.queue = nil
	}
	return ledger.NodeStatus{LastRound: l.round}, nil
}

// SuggestedParams implements ledger.Client
func (l *Ledger) SuggestedParams(ctx context.Context) (ledger.Params, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Params{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return ledger.Params{
		MinFee:           basics.MicroAlgos{Raw: l.proto.MinTxnFee},
		LastRound:        l.round,
		GenesisID:        l.genesisID,
		GenesisHash:      l.genesisHash,
		ConsensusVersion: ConsensusVersion,
	}, nil
}

// SendRawTransactionGroup implements ledger.Client. A group the pool would
// refuse comes back as a rejection and changes nothing.
func (l *Ledger) SendRawTransactionGroup(ctx context.Context, group []transactions.SignedTxn) error {
	if err := ctx.Err(); err != nil {
		return serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submissions++

	if l.failSubmit != nil {
		err := l.failSubmit
		l.failSubmit = nil
		return serr.Transient(err)
	}

	if err := l.checkGroup(group); err != nil {
		return l.reject(err)
	}

	if l.dropNext != "" {
		for _, stxn := range group {
			l.txns[stxn.ID()] = &pendingEntry{info: ledger.PendingTxn{PoolError: l.dropNext}}
		}
		l.dropNext = ""
		return nil
	}

	ev := &evaluator{
		proto:    &l.proto,
		st:       l.st.clone(),
		group:    group,
		touched:  make(map[basics.Address]struct{}),
		mintCost: l.mintCost,
	}
	results, err := ev.eval()
	if err != nil {
		return l.reject(err)
	}
	l.st = ev.st
	for i, stxn := range group {
		txid := stxn.ID()
		l.txns[txid] = &pendingEntry{info: results[i], queued: true}
		l.queue = append(l.queue, txid)
	}
	return nil
}

func (l *Ledger) reject(err error) error {
	l.lastRejected = err
	return serr.Wrap(serr.KindRejection, fmt.Errorf("TransactionPool.Remember: %w", err))
}

func (l *Ledger) checkGroup(group []transactions.SignedTxn) error {
	if len(group) == 0 {
		return errors.New("empty transaction group")
	}
	if len(group) > l.proto.MaxTxGroupSize {
		return fmt.Errorf("group size %d exceeds maximum %d", len(group), l.proto.MaxTxGroupSize)
	}

	txns := make([]transactions.Transaction, len(group))
	seen := make(map[transactions.Txid]struct{}, len(group))
	next := l.round + 1
	for i, stxn := range group {
		txid := stxn.ID()
		if _, ok := l.txns[txid]; ok {
			return fmt.Errorf("transaction already in ledger: %v", txid)
		}
		if _, ok := seen[txid]; ok {
			return fmt.Errorf("transaction %v appears twice in the group", txid)
		}
		seen[txid] = struct{}{}
		if err := stxn.Verify(); err != nil {
			return fmt.Errorf("transaction %v: %w", txid, err)
		}
		if err := stxn.Txn.WellFormed(l.proto); err != nil {
			return fmt.Errorf("transaction %v: malformed: %w", txid, err)
		}
		if stxn.Txn.GenesisHash != l.genesisHash {
			return fmt.Errorf("transaction %v: genesis hash mismatch", txid)
		}
		if stxn.Txn.GenesisID != "" && stxn.Txn.GenesisID != l.genesisID {
			return fmt.Errorf("transaction %v: genesis id %q, ledger is %q", txid, stxn.Txn.GenesisID, l.genesisID)
		}
		if next < stxn.Txn.FirstValid || next > stxn.Txn.LastValid {
			return fmt.Errorf("transaction %v: round %d outside of %d--%d", txid, next, stxn.Txn.FirstValid, stxn.Txn.LastValid)
		}
		txns[i] = stxn.Txn
	}

	gid := transactions.ComputeGroupID(txns)
	for i, tx := range txns {
		if len(txns) == 1 && tx.Group.IsZero() {
			continue
		}
		if tx.Group != gid {
			return fmt.Errorf("transaction %v: incomplete group: %v != %v", group[i].ID(), tx.Group, gid)
		}
	}
	return nil
}

// PendingTransaction implements ledger.Client
func (l *Ledger) PendingTransaction(ctx context.Context, txid transactions.Txid) (ledger.PendingTxn, error) {
	if err := ctx.Err(); err != nil {
		return ledger.PendingTxn{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failPending > 0 {
		l.failPending--
		return ledger.PendingTxn{}, serr.Transient(errors.New("pending transaction query failed"), "txid", txid.String())
	}
	e, ok := l.txns[txid]
	if !ok {
		return ledger.PendingTxn{}, serr.Transient(fmt.Errorf("%w: %v", ledger.ErrTxnNotFound, txid))
	}
	return e.info, nil
}

// AccountInformation implements ledger.Client. Unknown accounts read as empty.
func (l *Ledger) AccountInformation(ctx context.Context, addr basics.Address) (ledger.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return ledger.AccountInfo{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	info := ledger.AccountInfo{
		Address:    addr,
		MinBalance: l.st.minBalance(&l.proto, addr),
		Assets:     make(map[basics.AssetIndex]basics.AssetHolding),
		AppLocal:   make(map[basics.AppIndex]ledger.AppLocalState),
	}
	ad, ok := l.st.accounts[addr]
	if !ok {
		return info, nil
	}
	info.Amount = basics.MicroAlgos{Raw: ad.balance}
	for id, h := range ad.assets {
		info.Assets[id] = h
	}
	for id, kv := range ad.local {
		ls := ledger.AppLocalState{KeyValue: kv.Clone()}
		if ap, ok := l.st.apps[id]; ok {
			ls.Schema = ap.localSchema
		}
		info.AppLocal[id] = ls
	}
	return info, nil
}

// ApplicationInformation implements ledger.Client
func (l *Ledger) ApplicationInformation(ctx context.Context, app basics.AppIndex) (ledger.AppInfo, error) {
	if err := ctx.Err(); err != nil {
		return ledger.AppInfo{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ap, ok := l.st.apps[app]
	if !ok {
		return ledger.AppInfo{}, serr.Transient(fmt.Errorf("application does not exist: %d", app))
	}
	return ledger.AppInfo{
		ID:              ap.id,
		Creator:         ap.creator,
		ApprovalProgram: append([]byte(nil), ap.approval...),
		ClearProgram:    append([]byte(nil), ap.clear...),
		GlobalState:     ap.global.Clone(),
		GlobalSchema:    ap.globalSchema,
		LocalSchema:     ap.localSchema,
	}, nil
}

// AssetInformation implements ledger.Client
func (l *Ledger) AssetInformation(ctx context.Context, asset basics.AssetIndex) (ledger.AssetInfo, error) {
	if err := ctx.Err(); err != nil {
		return ledger.AssetInfo{}, serr.Transient(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	as, ok := l.st.assets[asset]
	if !ok {
		return ledger.AssetInfo{}, serr.Transient(fmt.Errorf("asset does not exist: %d", asset))
	}
	return ledger.AssetInfo{ID: as.id, Creator: as.creator, Params: as.params}, nil
}

var _ ledger.Client = (*Ledger)(nil)
