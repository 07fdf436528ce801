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

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/test/partitiontest"
)

func TestSignedTxnVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	secrets := crypto.GenerateRandomSignatureSecrets()
	sender := basics.Address(secrets.SignatureVerifier)
	tx := testPayment(sender, testAddress(2), 5)

	stx := tx.Sign(secrets)
	require.NoError(t, stx.Verify())
	require.True(t, stx.AuthAddr.IsZero())
	require.Equal(t, tx.ID(), stx.ID())

	tampered := stx
	tampered.Txn.Amount.Raw++
	require.ErrorIs(t, tampered.Verify(), errBadSignature)

	require.ErrorIs(t, SignedTxn{Txn: tx}.Verify(), errNoAuthorization)
}

func TestSignedTxnRekeyedAuthorizer(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	secrets := crypto.GenerateRandomSignatureSecrets()
	tx := testPayment(testAddress(9), testAddress(2), 5)
	stx := tx.Sign(secrets)
	require.Equal(t, basics.Address(secrets.SignatureVerifier), stx.AuthAddr)
	require.NoError(t, stx.Verify())
}

func TestLogicSigVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	program := []byte{0x06, 0x81, 0x01}
	addr := Program(program).Address()
	require.Equal(t, basics.Address(crypto.Hash(append([]byte(protocol.Program), program...))), addr)

	tx := testPayment(addr, testAddress(2), 0)
	stx := SignedTxn{Txn: tx, Lsig: LogicSig{Logic: program}}
	require.NoError(t, stx.Verify())

	wrong := SignedTxn{Txn: tx, Lsig: LogicSig{Logic: []byte{0x06, 0x81, 0x00}}}
	require.Error(t, wrong.Verify())

	both := stx
	both.Sig = crypto.Signature{1}
	require.ErrorIs(t, both.Verify(), errTwoAuthorizations)
}

func TestSignedTxnEncodingKeys(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	program := []byte{0x06, 0x81, 0x01}
	tx := testPayment(Program(program).Address(), testAddress(2), 0)
	stx := SignedTxn{Txn: tx, Lsig: LogicSig{Logic: program, Args: [][]byte{{1}}}}

	var decoded map[string]interface{}
	require.NoError(t, protocol.DecodeReflect(protocol.Encode(&stx), &decoded))
	require.Contains(t, decoded, "lsig")
	require.Contains(t, decoded, "txn")
	require.NotContains(t, decoded, "sig")

	var back SignedTxn
	require.NoError(t, protocol.Decode(protocol.Encode(&stx), &back))
	require.Equal(t, stx.ID(), back.ID())
	require.Equal(t, program, back.Lsig.Logic)
}
