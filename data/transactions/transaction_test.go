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

package transactions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/test/partitiontest"
)

func testAddress(seed byte) basics.Address {
	return basics.Address(crypto.Hash([]byte{seed}))
}

func testPayment(sender, receiver basics.Address, amount uint64) Transaction {
	return Transaction{
		Type: protocol.PaymentTx,
		Header: Header{
			Sender:     sender,
			Fee:        basics.MicroAlgos{Raw: 1000},
			FirstValid: 100,
			LastValid:  1100,
		},
		PaymentTxnFields: PaymentTxnFields{
			Receiver: receiver,
			Amount:   basics.MicroAlgos{Raw: amount},
		},
	}
}

func TestTransactionIDDeterministic(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	tx := testPayment(testAddress(1), testAddress(2), 5)
	require.Equal(t, tx.ID(), tx.ID())

	expected := crypto.Hash(append([]byte("TX"), protocol.Encode(&tx)...))
	require.Equal(t, Txid(expected), tx.ID())

	other := tx
	other.Note = []byte{1}
	require.NotEqual(t, tx.ID(), other.ID())
}

func TestTxidStringRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	id := testPayment(testAddress(1), testAddress(2), 5).ID()
	var back Txid
	require.NoError(t, back.FromString(id.String()))
	require.Equal(t, id, back)
}

func TestEncodingOmitsEmptyTypeFields(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	tx := testPayment(testAddress(1), testAddress(2), 5)
	var decoded map[string]interface{}
	require.NoError(t, protocol.DecodeReflect(protocol.Encode(&tx), &decoded))
	require.Contains(t, decoded, "rcv")
	require.Contains(t, decoded, "snd")
	require.NotContains(t, decoded, "apid")
	require.NotContains(t, decoded, "xaid")
	require.NotContains(t, decoded, "grp")
}

func TestWellFormed(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	proto := config.Consensus
	good := testPayment(testAddress(1), testAddress(2), 5)
	require.NoError(t, good.WellFormed(proto))

	noSender := good
	noSender.Sender = basics.Address{}
	require.ErrorIs(t, noSender.WellFormed(proto), errZeroSender)

	badRange := good
	badRange.LastValid = 50
	require.Error(t, badRange.WellFormed(proto))

	longLife := good
	longLife.LastValid = longLife.FirstValid + basics.Round(proto.MaxTxnLife) + 1
	require.Error(t, longLife.WellFormed(proto))

	mixed := good
	mixed.XferAsset = 5
	require.ErrorContains(t, mixed.WellFormed(proto), "non-zero fields")

	xfer := Transaction{
		Type:   protocol.AssetTransferTx,
		Header: good.Header,
		AssetTransferTxnFields: AssetTransferTxnFields{
			AssetReceiver: testAddress(1),
		},
	}
	require.ErrorContains(t, xfer.WellFormed(proto), "asset ID cannot be zero")
	xfer.XferAsset = 9
	require.NoError(t, xfer.WellFormed(proto))

	call := Transaction{
		Type:   protocol.ApplicationCallTx,
		Header: good.Header,
		ApplicationCallTxnFields: ApplicationCallTxnFields{
			ApplicationID:   7,
			ApplicationArgs: make([][]byte, proto.MaxAppArgs+1),
		},
	}
	require.ErrorContains(t, call.WellFormed(proto), "too many application args")
	call.ApplicationArgs = [][]byte{[]byte("mint")}
	require.NoError(t, call.WellFormed(proto))

	create := call
	create.ApplicationID = 0
	require.ErrorContains(t, create.WellFormed(proto), "ApprovalProgram")
	create.ApprovalProgram = []byte{6, 0x81, 1}
	create.ClearStateProgram = []byte{5, 0x81, 1}
	require.ErrorContains(t, create.WellFormed(proto), "version mismatch")
	create.ClearStateProgram = []byte{6, 0x81, 1}
	require.NoError(t, create.WellFormed(proto))
}

func TestAssignGroupID(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	txns := []Transaction{
		testPayment(testAddress(1), testAddress(2), 5),
		testPayment(testAddress(2), testAddress(1), 6),
	}
	expected := crypto.HashObj(TxGroup{TxGroupHashes: []crypto.Digest{
		crypto.Digest(txns[0].ID()), crypto.Digest(txns[1].ID()),
	}})

	gid, err := AssignGroupID(txns, 16)
	require.NoError(t, err)
	require.Equal(t, expected, gid)
	for _, tx := range txns {
		require.Equal(t, gid, tx.Group)
	}

	// recomputing over grouped members ignores the group field
	require.Equal(t, gid, ComputeGroupID(txns))

	_, err = AssignGroupID(txns, 16)
	require.ErrorIs(t, err, ErrGroupAlreadySet)

	_, err = AssignGroupID(make([]Transaction, 17), 16)
	require.Error(t, err)
	_, err = AssignGroupID(nil, 16)
	require.Error(t, err)
}

func TestGroupOrderMatters(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	a := testPayment(testAddress(1), testAddress(2), 5)
	b := testPayment(testAddress(2), testAddress(1), 6)
	require.NotEqual(t, ComputeGroupID([]Transaction{a, b}), ComputeGroupID([]Transaction{b, a}))
}
