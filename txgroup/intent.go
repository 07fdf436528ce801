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

package txgroup

import (
	"github.com/algorand/avm-abi/abi"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/protocol"
)

// FeePolicy decides how much fee a member carries once the group is built.
type FeePolicy int

const (
	// FeeNone members carry no fee; a FeePool member pays for them.
	FeeNone FeePolicy = iota
	// FeeSelf members pay for themselves and their own inner transactions.
	FeeSelf
	// FeePool members pay for themselves, their inner transactions and every
	// FeeNone member of the group.
	FeePool
)

func (p FeePolicy) String() string {
	switch p {
	case FeeNone:
		return "none"
	case FeeSelf:
		return "self"
	case FeePool:
		return "pool"
	}
	return "unknown"
}

// Intent is one member of a group before fees, validity and group id are set.
type Intent struct {
	Txn       transactions.Transaction
	Signer    account.Signer
	Fee       FeePolicy
	InnerTxns uint64
}

// Payment builds a payment of amount microAlgos.
func Payment(from, to basics.Address, amount uint64) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.PaymentTx,
		Header: transactions.Header{Sender: from},
		PaymentTxnFields: transactions.PaymentTxnFields{
			Receiver: to,
			Amount:   basics.MicroAlgos{Raw: amount},
		},
	}
}

// AppCall builds a NoOp call to app.
func AppCall(sender basics.Address, app basics.AppIndex, args ...[]byte) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.ApplicationCallTx,
		Header: transactions.Header{Sender: sender},
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
			ApplicationID:   app,
			OnCompletion:    transactions.NoOpOC,
			ApplicationArgs: args,
		},
	}
}

// AppCreate builds an application creation.
func AppCreate(sender basics.Address, approval, clear []byte, global, local basics.StateSchema, args ...[]byte) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.ApplicationCallTx,
		Header: transactions.Header{Sender: sender},
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
			OnCompletion:      transactions.NoOpOC,
			ApplicationArgs:   args,
			ApprovalProgram:   approval,
			ClearStateProgram: clear,
			GlobalStateSchema: global,
			LocalStateSchema:  local,
		},
	}
}

// AppOptIn builds sender's opt-in to app.
func AppOptIn(sender basics.Address, app basics.AppIndex) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.ApplicationCallTx,
		Header: transactions.Header{Sender: sender},
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
			ApplicationID: app,
			OnCompletion:  transactions.OptInOC,
		},
	}
}

// AssetOptIn builds a zero transfer of asset from sender to itself.
func AssetOptIn(sender basics.Address, asset basics.AssetIndex) transactions.Transaction {
	return AssetTransfer(sender, sender, asset, 0)
}

// AssetTransfer moves amount units of asset.
func AssetTransfer(sender, receiver basics.Address, asset basics.AssetIndex, amount uint64) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.AssetTransferTx,
		Header: transactions.Header{Sender: sender},
		AssetTransferTxnFields: transactions.AssetTransferTxnFields{
			XferAsset:     asset,
			AssetAmount:   amount,
			AssetReceiver: receiver,
		},
	}
}

// RandomNote returns 32 random bytes. Fillers carry one so that otherwise
// identical calls get distinct ids.
func RandomNote() []byte {
	note := make([]byte, 32)
	crypto.RandBytes(note)
	return note
}

var uint64Type = mustType("uint64")

func mustType(s string) abi.Type {
	t, err := abi.TypeOf(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Uint64Arg encodes v the way the AVM reads a uint64 argument: 8 bytes, big endian.
func Uint64Arg(v uint64) []byte {
	b, err := uint64Type.Encode(v)
	if err != nil {
		panic(err)
	}
	return b
}
