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

// Package txgroup turns an ordered list of intents into a signed atomic
// group: one set of suggested parameters for every member, fees assigned by
// policy, a shared group id and one submission call.
package txgroup

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/serr"
)

// Errors returned when a group cannot be composed. They are wrapped into
// configuration errors.
var (
	ErrEmptyGroup     = errors.New("transaction group is empty")
	ErrGroupTooLarge  = errors.New("transaction group exceeds the maximum size")
	ErrZeroSender     = errors.New("transaction has no sender")
	ErrNoSigner       = errors.New("transaction has no signer")
	ErrSignerMismatch = errors.New("signer does not authorize the sender")
	ErrManyFeePayers  = errors.New("more than one member pays the pooled fee")
	ErrUncoveredFees  = errors.New("zero-fee members are not covered by a pooled fee")
	ErrDuplicateTxn   = errors.New("two members of the group have the same transaction id")
	ErrMalformed      = errors.New("malformed transaction")
)

// DefaultValidityRounds is how many rounds past the suggested first round a
// group stays valid.
const DefaultValidityRounds = 1000

// Builder composes, signs and submits groups against one node.
type Builder struct {
	client   ledger.Client
	proto    config.ConsensusParams
	validity basics.Round
	log      logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(log logging.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// WithConsensus replaces the consensus limits used for validation.
func WithConsensus(proto config.ConsensusParams) Option {
	return func(b *Builder) { b.proto = proto }
}

// WithValidityRounds sets the width of the validity window.
func WithValidityRounds(rounds uint64) Option {
	return func(b *Builder) { b.validity = basics.Round(rounds) }
}

// NewBuilder returns a builder that reads parameters from and submits to client.
func NewBuilder(client ledger.Client, opts ...Option) *Builder {
	b := &Builder{
		client:   client,
		proto:    config.Consensus,
		validity: DefaultValidityRounds,
		log:      logging.Base(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if uint64(b.validity) > b.proto.MaxTxnLife {
		b.validity = basics.Round(b.proto.MaxTxnLife)
	}
	return b
}

func configErr(err error, pairs ...any) error {
	return serr.Wrap(serr.KindConfiguration, err, pairs...)
}

// validate checks what can be checked without the network.
func (b *Builder) validate(intents []Intent) error {
	if len(intents) == 0 {
		return configErr(ErrEmptyGroup)
	}
	if len(intents) > b.proto.MaxTxGroupSize {
		return configErr(fmt.Errorf("%w: %d > %d", ErrGroupTooLarge, len(intents), b.proto.MaxTxGroupSize))
	}
	pool := 0
	for i, in := range intents {
		txn := in.Txn
		if txn.Sender.IsZero() {
			return configErr(ErrZeroSender, "member", i)
		}
		if in.Signer == nil {
			return configErr(ErrNoSigner, "member", i)
		}
		if in.Signer.Address() != txn.Sender {
			return configErr(fmt.Errorf("%w: member %d sender %v, signer %v", ErrSignerMismatch, i, txn.Sender, in.Signer.Address()), "member", i)
		}
		if !txn.Group.IsZero() {
			return configErr(fmt.Errorf("member %d: %w", i, transactions.ErrGroupAlreadySet), "member", i)
		}
		switch txn.Type {
		case protocol.ApplicationCallTx:
			if txn.ApplicationID == 0 && len(txn.ApprovalProgram) == 0 {
				return configErr(fmt.Errorf("%w: member %d calls application 0 without creating one", ErrMalformed, i), "member", i)
			}
		case protocol.AssetTransferTx:
			if txn.XferAsset == 0 {
				return configErr(fmt.Errorf("%w: member %d transfers asset 0", ErrMalformed, i), "member", i)
			}
		case protocol.PaymentTx:
			if txn.Receiver.IsZero() && txn.CloseRemainderTo.IsZero() {
				return configErr(fmt.Errorf("%w: member %d pays the zero address", ErrMalformed, i), "member", i)
			}
		}
		if in.Fee == FeePool {
			pool++
		}
	}
	if pool > 1 {
		return configErr(ErrManyFeePayers)
	}
	return nil
}

// Build validates intents, stamps every member with one set of suggested
// parameters, assigns fees and computes the group id. Nothing is signed.
func (b *Builder) Build(ctx context.Context, intents []Intent) (*Group, error) {
	if err := b.validate(intents); err != nil {
		return nil, err
	}
	params, err := b.client.SuggestedParams(ctx)
	if err != nil {
		return nil, err
	}

	unit := params.MinFee.Raw
	if unit < b.proto.MinTxnFee {
		unit = b.proto.MinTxnFee
	}
	var zeroFee uint64
	for _, in := range intents {
		if in.Fee == FeeNone {
			zeroFee++
		}
	}

	members := make([]Intent, len(intents))
	txns := make([]transactions.Transaction, len(intents))
	seen := make(map[transactions.Txid]int, len(intents))
	for i, in := range intents {
		txn := in.Txn
		txn.FirstValid = params.LastRound
		txn.LastValid = params.LastRound + b.validity
		txn.GenesisID = params.GenesisID
		txn.GenesisHash = params.GenesisHash
		switch in.Fee {
		case FeeNone:
			txn.Fee = basics.MicroAlgos{}
		case FeeSelf:
			txn.Fee = basics.MicroAlgos{Raw: basics.MulSaturate(unit, 1+in.InnerTxns)}
		case FeePool:
			txn.Fee = basics.MicroAlgos{Raw: basics.MulSaturate(unit, basics.AddSaturate(1+in.InnerTxns, zeroFee))}
		}
		if err := txn.WellFormed(b.proto); err != nil {
			return nil, configErr(fmt.Errorf("%w: member %d: %v", ErrMalformed, i, err), "member", i)
		}
		txid := txn.ID()
		if j, dup := seen[txid]; dup {
			return nil, configErr(fmt.Errorf("%w: members %d and %d are %v", ErrDuplicateTxn, j, i, txid), "txid", txid.String())
		}
		seen[txid] = i
		in.Txn = txn
		members[i] = in
		txns[i] = txn
	}

	g := &Group{members: members, unit: unit}
	if err := g.checkFees(); err != nil {
		return nil, configErr(err)
	}
	if len(txns) > 1 {
		gid, err := transactions.AssignGroupID(txns, b.proto.MaxTxGroupSize)
		if err != nil {
			return nil, configErr(err)
		}
		g.id = gid
		for i := range members {
			members[i].Txn = txns[i]
		}
	}
	b.log.Debugf("built group %v: %d members, %d inner, fee %d", g.id, len(members), g.InnerTxns(), g.TotalFee().Raw)
	return g, nil
}

// Submit signs g if needed and sends every member, in order, in one call.
func (b *Builder) Submit(ctx context.Context, g *Group) error {
	signed, err := g.Sign(ctx)
	if err != nil {
		return err
	}
	if err := b.client.SendRawTransactionGroup(ctx, signed); err != nil {
		b.log.With("group", g.id.String()).Infof("group submission failed: %v", err)
		return serr.Extend(err, "group", g.id.String())
	}
	b.log.Debugf("submitted group %v", g.id)
	return nil
}

// Group is a built group. Its members are final once built; signing never
// changes them.
type Group struct {
	members []Intent
	signed  []transactions.SignedTxn
	id      crypto.Digest
	unit    uint64
}

func (g *Group) checkFees() error {
	required := basics.MulSaturate(g.unit, uint64(len(g.members))+g.InnerTxns())
	if g.TotalFee().Raw < required {
		return fmt.Errorf("%w: total %d, need %d", ErrUncoveredFees, g.TotalFee().Raw, required)
	}
	return nil
}

// Sign signs every member in parallel. The result is in composition order.
func (g *Group) Sign(ctx context.Context) ([]transactions.SignedTxn, error) {
	if g.signed != nil {
		return g.signed, nil
	}
	signed := make([]transactions.SignedTxn, len(g.members))
	eg, ctx := errgroup.WithContext(ctx)
	for i := range g.members {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stxn, err := g.members[i].Signer.SignTransaction(g.members[i].Txn)
			if err != nil {
				return serr.Extend(err, "member", i)
			}
			signed[i] = stxn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.signed = signed
	return signed, nil
}

// ID returns the group id; zero for a single transaction.
func (g *Group) ID() crypto.Digest {
	return g.id
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// Txns returns copies of the built members.
func (g *Group) Txns() []transactions.Transaction {
	out := make([]transactions.Transaction, len(g.members))
	for i, m := range g.members {
		out[i] = m.Txn
	}
	return out
}

// TxID returns the id of member i.
func (g *Group) TxID(i int) transactions.Txid {
	return g.members[i].Txn.ID()
}

// TxIDs returns every member's id in order.
func (g *Group) TxIDs() []transactions.Txid {
	out := make([]transactions.Txid, len(g.members))
	for i := range g.members {
		out[i] = g.TxID(i)
	}
	return out
}

// TotalFee sums the fees of every member.
func (g *Group) TotalFee() basics.MicroAlgos {
	var total uint64
	for _, m := range g.members {
		total = basics.AddSaturate(total, m.Txn.Fee.Raw)
	}
	return basics.MicroAlgos{Raw: total}
}

// InnerTxns sums the declared inner transactions.
func (g *Group) InnerTxns() uint64 {
	var total uint64
	for _, m := range g.members {
		total = basics.AddSaturate(total, m.InnerTxns)
	}
	return total
}

// FirstValid returns the first round the group is valid in.
func (g *Group) FirstValid() basics.Round {
	return g.members[0].Txn.FirstValid
}

// LastValid returns the last round the group is valid in.
func (g *Group) LastValid() basics.Round {
	return g.members[0].Txn.LastValid
}
