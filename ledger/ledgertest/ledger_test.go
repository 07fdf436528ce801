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

package ledgertest

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/test/partitiontest"
)

var (
	approval      = []byte{0x06, 0x81, 0x01, 0x43}
	clearProgram  = []byte{0x06, 0x81, 0x01}
	escrowProgram = []byte{0x06, 0x20, 0x01, 0x01, 0x22}
)

func header(l *Ledger, sender basics.Address, fee uint64) transactions.Header {
	return transactions.Header{
		Sender:      sender,
		Fee:         basics.MicroAlgos{Raw: fee},
		FirstValid:  l.Round(),
		LastValid:   l.Round() + 100,
		GenesisID:   l.genesisID,
		GenesisHash: l.genesisHash,
	}
}

func payTxn(l *Ledger, from, to basics.Address, amount, fee uint64) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.PaymentTx,
		Header: header(l, from, fee),
		PaymentTxnFields: transactions.PaymentTxnFields{
			Receiver: to,
			Amount:   basics.MicroAlgos{Raw: amount},
		},
	}
}

func appTxn(l *Ledger, sender basics.Address, app basics.AppIndex, fee uint64, oc transactions.OnCompletion, args ...[]byte) transactions.Transaction {
	return transactions.Transaction{
		Type:   protocol.ApplicationCallTx,
		Header: header(l, sender, fee),
		ApplicationCallTxnFields: transactions.ApplicationCallTxnFields{
			ApplicationID:   app,
			OnCompletion:    oc,
			ApplicationArgs: args,
		},
	}
}

func sign(t *testing.T, txns []transactions.Transaction, signers ...account.Signer) []transactions.SignedTxn {
	t.Helper()
	if len(txns) > 1 {
		_, err := transactions.AssignGroupID(txns, 16)
		require.NoError(t, err)
	}
	out := make([]transactions.SignedTxn, len(txns))
	for i := range txns {
		stxn, err := signers[i].SignTransaction(txns[i])
		require.NoError(t, err)
		out[i] = stxn
	}
	return out
}

func confirm(t *testing.T, l *Ledger, txid transactions.Txid) {
	t.Helper()
	_, err := l.StatusAfterBlock(context.Background(), l.Round())
	require.NoError(t, err)
	p, err := l.PendingTransaction(context.Background(), txid)
	require.NoError(t, err)
	require.NotZero(t, p.ConfirmedRound)
}

func balance(t *testing.T, l *Ledger, addr basics.Address) uint64 {
	info, err := l.AccountInformation(context.Background(), addr)
	require.NoError(t, err)
	return info.Amount.Raw
}

func TestPaymentGroup(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	l := New()
	a := l.NewFundedAccount(1000000)
	b := l.NewFundedAccount(1000000)
	c := account.GenerateKeyAccount()

	group := sign(t, []transactions.Transaction{
		payTxn(l, a.Address(), c.Address(), 200000, 2000),
		payTxn(l, b.Address(), c.Address(), 300000, 0),
	}, a, b)
	require.NoError(t, l.SendRawTransactionGroup(context.Background(), group))

	p, err := l.PendingTransaction(context.Background(), group[0].ID())
	require.NoError(t, err)
	require.Zero(t, p.ConfirmedRound)

	confirm(t, l, group[1].ID())
	require.Equal(t, uint64(500000), balance(t, l, c.Address()))
	require.Equal(t, uint64(1000000-200000-2000), balance(t, l, a.Address()))
	require.Equal(t, 1, l.Submissions())
}

func TestRejections(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	l := New()
	a := l.NewFundedAccount(1000000)
	b := l.NewFundedAccount(1000000)
	ctx := context.Background()

	expectRejected := func(group []transactions.SignedTxn, contains string) {
		t.Helper()
		err := l.SendRawTransactionGroup(ctx, group)
		require.Error(t, err)
		require.Equal(t, serr.KindRejection, serr.KindOf(err))
		require.Contains(t, err.Error(), contains)
	}

	// pooled fee short by one member
	expectRejected(sign(t, []transactions.Transaction{
		payTxn(l, a.Address(), b.Address(), 1, 1000),
		payTxn(l, b.Address(), a.Address(), 1, 0),
	}, a, b), "less than the minimum")

	// below the balance floor
	expectRejected(sign(t, []transactions.Transaction{
		payTxn(l, a.Address(), b.Address(), 950000, 1000),
	}, a), "below min")

	// wrong signer
	txn := payTxn(l, a.Address(), b.Address(), 1, 1000)
	stxn := txn.Sign(crypto.GenerateRandomSignatureSecrets())
	stxn.AuthAddr = basics.Address{}
	expectRejected([]transactions.SignedTxn{stxn}, "signature validation failed")

	// group id does not cover the submitted members
	group := sign(t, []transactions.Transaction{
		payTxn(l, a.Address(), b.Address(), 1, 1000),
		payTxn(l, b.Address(), a.Address(), 1, 1000),
	}, a, b)
	expectRejected(group[:1], "incomplete group")

	// stale validity window
	stale := payTxn(l, a.Address(), b.Address(), 1, 1000)
	stale.LastValid = 0
	stale.FirstValid = 0
	expectRejected(sign(t, []transactions.Transaction{stale}, a), "outside of")

	require.Equal(t, uint64(1000000), balance(t, l, a.Address()))

	ok := sign(t, []transactions.Transaction{payTxn(l, a.Address(), b.Address(), 1, 1000)}, a)
	require.NoError(t, l.SendRawTransactionGroup(ctx, ok))
	expectRejected(ok, "already in ledger")
}

func TestDropAndHold(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	l := New()
	a := l.NewFundedAccount(1000000)
	ctx := context.Background()

	l.DropNextGroup("overspend")
	dropped := sign(t, []transactions.Transaction{payTxn(l, a.Address(), a.Address(), 0, 1000)}, a)
	require.NoError(t, l.SendRawTransactionGroup(ctx, dropped))
	p, err := l.PendingTransaction(ctx, dropped[0].ID())
	require.NoError(t, err)
	require.Equal(t, "overspend", p.PoolError)
	require.Equal(t, uint64(1000000), balance(t, l, a.Address()))

	l.HoldBlocks(true)
	held := sign(t, []transactions.Transaction{payTxn(l, a.Address(), a.Address(), 1, 1000)}, a)
	require.NoError(t, l.SendRawTransactionGroup(ctx, held))
	for i := 0; i < 3; i++ {
		_, err := l.StatusAfterBlock(ctx, l.Round())
		require.NoError(t, err)
	}
	p, err = l.PendingTransaction(ctx, held[0].ID())
	require.NoError(t, err)
	require.Zero(t, p.ConfirmedRound)

	l.HoldBlocks(false)
	confirm(t, l, held[0].ID())

	l.FailPendingQueries(1)
	_, err = l.PendingTransaction(ctx, held[0].ID())
	require.Equal(t, serr.KindTransient, serr.KindOf(err))
	_, err = l.PendingTransaction(ctx, held[0].ID())
	require.NoError(t, err)
}

type certFixture struct {
	l         *Ledger
	creator   *account.KeyAccount
	initiator *account.KeyAccount
	enclave   *account.KeyAccount
	escrow    *account.LogicSigAccount
	app       basics.AppIndex
	checkHash []byte
}

func be64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func deployMinting(t *testing.T) *certFixture {
	l := New()
	f := &certFixture{
		l:         l,
		creator:   l.NewFundedAccount(10000000),
		initiator: l.NewFundedAccount(10000000),
		enclave:   account.KeyAccountFromSeed(crypto.Seed{}),
		checkHash: []byte("check-hash"),
	}
	escrow, err := account.NewLogicSigAccount(escrowProgram, nil)
	require.NoError(t, err)
	f.escrow = escrow

	pk := f.enclave.PublicKey()
	create := appTxn(l, f.creator.Address(), 0, 1000, transactions.NoOpOC,
		pk[:], f.checkHash, be64(6),
		[]byte("bcheck_hash"), []byte("bid"), []byte("blsig_pkey"),
		[]byte("binitiator_pkey"), []byte("basset_id"), []byte("itimestamp"))
	create.ApprovalProgram = approval
	create.ClearStateProgram = clearProgram
	create.LocalStateSchema = basics.StateSchema{NumUint: 2, NumByteSlice: 5}
	create.GlobalStateSchema = basics.StateSchema{NumUint: 7, NumByteSlice: 2}
	group := sign(t, []transactions.Transaction{create}, f.creator)
	require.NoError(t, l.SendRawTransactionGroup(context.Background(), group))
	confirm(t, l, group[0].ID())

	p, err := l.PendingTransaction(context.Background(), group[0].ID())
	require.NoError(t, err)
	require.NotZero(t, p.ApplicationIndex)
	require.Equal(t, uint64(6), p.GlobalDelta[KeyNumParams].Uint)
	f.app = p.ApplicationIndex
	return f
}

func (f *certFixture) certificate(t *testing.T) ([]byte, []byte) {
	escrow := f.escrow.Address()
	initiator := f.initiator.Address()
	data, err := protocol.EncodeCBOR(map[string]interface{}{
		"check_hash":     f.checkHash,
		"id":             "123e4567-e89b-12d3-a456-426614174000",
		"lsig_pkey":      escrow[:],
		"initiator_pkey": initiator[:],
		"asset_id":       []byte{0xf3, 0x18},
		"timestamp":      uint64(1652287366),
	})
	require.NoError(t, err)
	sig := f.enclave.SignBytes(certificate.Message(certificate.ProgramHash(approval), data))
	return data, sig[:]
}

func (f *certFixture) mintGroup(t *testing.T, fillers int, data, sig []byte) []transactions.SignedTxn {
	l := f.l
	appAddr := f.app.Address()
	txns := []transactions.Transaction{
		payTxn(l, f.initiator.Address(), appAddr, 200000, 0),
		payTxn(l, f.initiator.Address(), f.escrow.Address(), 1000000, 0),
		appTxn(l, f.escrow.Address(), f.app, 0, transactions.OptInOC),
	}
	mint := appTxn(l, f.initiator.Address(), f.app, uint64(1000*(5+fillers)), transactions.NoOpOC, []byte("mint"), sig, data)
	mint.Accounts = []basics.Address{f.escrow.Address()}
	txns = append(txns, mint)
	signers := []account.Signer{f.initiator, f.initiator, f.escrow, f.initiator}
	for i := 0; i < fillers; i++ {
		fund := appTxn(l, f.initiator.Address(), f.app, 0, transactions.NoOpOC, []byte("fund"))
		fund.Note = []byte{byte(i)}
		txns = append(txns, fund)
		signers = append(signers, f.initiator)
	}
	return sign(t, txns, signers...)
}

func TestMintAndClaim(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := deployMinting(t)
	l := f.l
	ctx := context.Background()
	data, sig := f.certificate(t)

	group := f.mintGroup(t, 12, data, sig)
	require.NoError(t, l.SendRawTransactionGroup(ctx, group))
	confirm(t, l, group[3].ID())

	p, err := l.PendingTransaction(ctx, group[3].ID())
	require.NoError(t, err)
	asset, ok := p.CreatedAsset()
	require.True(t, ok)
	require.Equal(t, uint64(asset), p.LocalDeltas[f.escrow.Address()][KeyAssetID].Uint)

	ai, err := l.AssetInformation(ctx, asset)
	require.NoError(t, err)
	require.Equal(t, uint64(2), ai.Params.Total)
	require.Equal(t, URLPrefix+"123e4567-e89b-12d3-a456-426614174000", ai.Params.URL)
	require.Equal(t, f.app.Address(), ai.Creator)

	// a second mint for the same escrow is refused
	again := f.mintGroup(t, 12, data, sig)
	require.Error(t, l.SendRawTransactionGroup(ctx, again))

	// escrow opts into its own asset, then the initiator claims
	optin := []transactions.Transaction{
		{
			Type:   protocol.AssetTransferTx,
			Header: header(l, f.escrow.Address(), 0),
			AssetTransferTxnFields: transactions.AssetTransferTxnFields{
				XferAsset: asset, AssetReceiver: f.escrow.Address(),
			},
		},
		payTxn(l, f.initiator.Address(), f.escrow.Address(), 100000, 2000),
	}
	perm := appTxn(l, f.initiator.Address(), f.app, 1000, transactions.NoOpOC, []byte("permission"))
	perm.Accounts = []basics.Address{f.escrow.Address()}
	optin = append([]transactions.Transaction{perm}, optin...)
	g := sign(t, optin, f.initiator, f.escrow, f.initiator)
	require.NoError(t, l.SendRawTransactionGroup(ctx, g))

	claimGroup := func(sender *account.KeyAccount) []transactions.SignedTxn {
		claim := appTxn(l, sender.Address(), f.app, 4000, transactions.NoOpOC, []byte("claim"))
		claim.Accounts = []basics.Address{f.escrow.Address()}
		claim.ForeignAssets = []basics.AssetIndex{asset}
		return sign(t, []transactions.Transaction{{
			Type:   protocol.AssetTransferTx,
			Header: header(l, sender.Address(), 0),
			AssetTransferTxnFields: transactions.AssetTransferTxnFields{
				XferAsset: asset, AssetReceiver: sender.Address(),
			},
		}, claim}, sender, sender)
	}

	stranger := l.NewFundedAccount(1000000)
	err = l.SendRawTransactionGroup(ctx, claimGroup(stranger))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not the initiator")

	require.NoError(t, l.SendRawTransactionGroup(ctx, claimGroup(f.initiator)))
	for _, addr := range []basics.Address{f.escrow.Address(), f.initiator.Address()} {
		info, err := l.AccountInformation(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, uint64(1), info.Assets[asset].Amount)
	}
	info, err := l.AccountInformation(ctx, f.app.Address())
	require.NoError(t, err)
	require.Zero(t, info.Assets[asset].Amount)
}

func TestMintChecks(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := deployMinting(t)
	ctx := context.Background()
	data, sig := f.certificate(t)

	err := f.l.SendRawTransactionGroup(ctx, f.mintGroup(t, 8, data, sig))
	require.Error(t, err)
	require.Contains(t, err.Error(), "budget")

	bad := append([]byte(nil), sig...)
	bad[0] ^= 1
	err = f.l.SendRawTransactionGroup(ctx, f.mintGroup(t, 12, data, bad))
	require.Error(t, err)
	require.Contains(t, err.Error(), "ed25519verify")

	// rotating the key invalidates certificates signed by the old one
	newKey := account.GenerateKeyAccount().PublicKey()
	setKey := sign(t, []transactions.Transaction{
		appTxn(f.l, f.creator.Address(), f.app, 1000, transactions.NoOpOC, []byte("set_key"), newKey[:]),
	}, f.creator)
	require.NoError(t, f.l.SendRawTransactionGroup(ctx, setKey))
	err = f.l.SendRawTransactionGroup(ctx, f.mintGroup(t, 12, data, sig))
	require.Error(t, err)

	notCreator := sign(t, []transactions.Transaction{
		appTxn(f.l, f.initiator.Address(), f.app, 1000, transactions.NoOpOC, []byte("set_key"), newKey[:]),
	}, f.initiator)
	require.Error(t, f.l.SendRawTransactionGroup(ctx, notCreator))

	ai, err := f.l.ApplicationInformation(ctx, f.app)
	require.NoError(t, err)
	require.Equal(t, string(newKey[:]), ai.GlobalState[KeySigningKey].Bytes)
}

func TestCreateRejectsSchemaWithoutRequiredFields(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	l := New()
	creator := l.NewFundedAccount(10000000)
	pk := creator.PublicKey()
	create := appTxn(l, creator.Address(), 0, 1000, transactions.NoOpOC, pk[:], []byte("h"), be64(1), []byte("iid"))
	create.ApprovalProgram = approval
	create.ClearStateProgram = clearProgram
	create.LocalStateSchema = basics.StateSchema{NumUint: 2, NumByteSlice: 1}
	create.GlobalStateSchema = basics.StateSchema{NumUint: 2, NumByteSlice: 2}
	err := l.SendRawTransactionGroup(context.Background(), sign(t, []transactions.Transaction{create}, creator))
	require.Error(t, err)
	require.Contains(t, err.Error(), "must declare")
}
