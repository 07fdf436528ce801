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

package ledger

import (
	"context"
	"errors"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
)

// ErrTxnNotFound is wrapped by PendingTransaction errors when the node has no
// record of the transaction, in its pool or among recent confirmations.
var ErrTxnNotFound = errors.New("txn does not exist")

// Client is the view of an algod node that the workflows need. Every read is
// a point-in-time snapshot; two reads are not isolated from each other.
type Client interface {
	Status(ctx context.Context) (NodeStatus, error)
	// StatusAfterBlock blocks until a round after the given one exists, or
	// until the node gives up waiting, and returns the new status.
	StatusAfterBlock(ctx context.Context, round basics.Round) (NodeStatus, error)
	SuggestedParams(ctx context.Context) (Params, error)
	// SendRawTransactionGroup submits signed members, in order, as one call.
	SendRawTransactionGroup(ctx context.Context, group []transactions.SignedTxn) error
	PendingTransaction(ctx context.Context, txid transactions.Txid) (PendingTxn, error)
	AccountInformation(ctx context.Context, addr basics.Address) (AccountInfo, error)
	ApplicationInformation(ctx context.Context, app basics.AppIndex) (AppInfo, error)
	AssetInformation(ctx context.Context, asset basics.AssetIndex) (AssetInfo, error)
}

// NodeStatus is the node's view of the chain.
type NodeStatus struct {
	LastRound basics.Round
}

// Params are the suggested parameters for new transactions.
type Params struct {
	// Fee is the per-byte fee; zero outside congestion.
	Fee    basics.MicroAlgos
	MinFee basics.MicroAlgos

	LastRound        basics.Round
	GenesisID        string
	GenesisHash      crypto.Digest
	ConsensusVersion string
}

// PendingTxn is the pool's report on a transaction. ConfirmedRound is zero
// while it is still pending; PoolError is set when the pool dropped it.
type PendingTxn struct {
	ConfirmedRound   basics.Round
	PoolError        string
	ApplicationIndex basics.AppIndex
	AssetIndex       basics.AssetIndex
	GlobalDelta      basics.StateDelta
	LocalDeltas      map[basics.Address]basics.StateDelta
	InnerTxns        []PendingTxn
	Logs             [][]byte
}

// CreatedAsset returns the first asset created by this transaction or one of
// its inner transactions.
func (p PendingTxn) CreatedAsset() (basics.AssetIndex, bool) {
	if p.AssetIndex != 0 {
		return p.AssetIndex, true
	}
	for _, inner := range p.InnerTxns {
		if id, ok := inner.CreatedAsset(); ok {
			return id, true
		}
	}
	return 0, false
}

// AppLocalState is an account's local state in one application.
type AppLocalState struct {
	Schema   basics.StateSchema
	KeyValue basics.TealKeyValue
}

// AccountInfo is a snapshot of an account.
type AccountInfo struct {
	Address    basics.Address
	Amount     basics.MicroAlgos
	MinBalance basics.MicroAlgos
	Assets     map[basics.AssetIndex]basics.AssetHolding
	AppLocal   map[basics.AppIndex]AppLocalState
}

// HoldsAsset reports whether the account has opted in to asset.
func (a AccountInfo) HoldsAsset(asset basics.AssetIndex) bool {
	_, ok := a.Assets[asset]
	return ok
}

// OptedIn reports whether the account has opted in to app.
func (a AccountInfo) OptedIn(app basics.AppIndex) bool {
	_, ok := a.AppLocal[app]
	return ok
}

// AppInfo is a snapshot of an application.
type AppInfo struct {
	ID              basics.AppIndex
	Creator         basics.Address
	ApprovalProgram []byte
	ClearProgram    []byte
	GlobalState     basics.TealKeyValue
	GlobalSchema    basics.StateSchema
	LocalSchema     basics.StateSchema
}

// AssetInfo is a snapshot of an asset.
type AssetInfo struct {
	ID      basics.AssetIndex
	Creator basics.Address
	Params  basics.AssetParams
}
