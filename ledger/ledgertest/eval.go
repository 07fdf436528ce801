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
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/protocol"
)

var errUnsupported = errors.New("transaction shape is not supported by the test ledger")

// evaluator applies one group to a private copy of the ledger state.
type evaluator struct {
	proto    *config.ConsensusParams
	st       *state
	group    []transactions.SignedTxn
	touched  map[basics.Address]struct{}
	mintCost uint64
}

func (ev *evaluator) touch(addrs ...basics.Address) {
	for _, a := range addrs {
		ev.touched[a] = struct{}{}
	}
}

// eval applies every member in order and returns the per-member pool
// reports. The whole group fails if any member fails.
func (ev *evaluator) eval() ([]ledger.PendingTxn, error) {
	results := make([]ledger.PendingTxn, len(ev.group))
	var fees, inner uint64
	for gi := range ev.group {
		res, n, err := ev.apply(gi)
		if err != nil {
			return nil, fmt.Errorf("transaction %v: %w", ev.group[gi].ID(), err)
		}
		results[gi] = res
		fees = basics.AddSaturate(fees, ev.group[gi].Txn.Fee.Raw)
		inner = basics.AddSaturate(inner, n)
	}

	required := basics.MulSaturate(ev.proto.MinTxnFee, uint64(len(ev.group))+inner)
	if fees < required {
		return nil, fmt.Errorf("txgroup had %d in fees, which is less than the minimum %d * %d",
			fees, ev.proto.MinTxnFee, uint64(len(ev.group))+inner)
	}

	for addr := range ev.touched {
		ad, ok := ev.st.accounts[addr]
		if !ok || ad.empty() {
			continue
		}
		min := ev.st.minBalance(ev.proto, addr)
		if ad.balance < min.Raw {
			return nil, fmt.Errorf("account %v balance %d below min %d (%d assets)", addr, ad.balance, min.Raw, len(ad.assets))
		}
	}
	return results, nil
}

func (ev *evaluator) apply(gi int) (ledger.PendingTxn, uint64, error) {
	txn := ev.group[gi].Txn
	snd := ev.st.account(txn.Sender)
	ev.touch(txn.Sender)
	if snd.balance < txn.Fee.Raw {
		return ledger.PendingTxn{}, 0, fmt.Errorf("overspend (account %v, data balance %d, tried to spend fee %d)", txn.Sender, snd.balance, txn.Fee.Raw)
	}
	snd.balance -= txn.Fee.Raw

	switch txn.Type {
	case protocol.PaymentTx:
		return ledger.PendingTxn{}, 0, ev.pay(txn)
	case protocol.AssetConfigTx:
		if txn.ConfigAsset != 0 {
			return ledger.PendingTxn{}, 0, fmt.Errorf("%w: reconfiguring asset %d", errUnsupported, txn.ConfigAsset)
		}
		id := ev.createAsset(txn.Sender, txn.AssetParams)
		return ledger.PendingTxn{AssetIndex: id}, 0, nil
	case protocol.AssetTransferTx:
		if !txn.AssetSender.IsZero() || !txn.AssetCloseTo.IsZero() {
			return ledger.PendingTxn{}, 0, fmt.Errorf("%w: clawback or close-out of asset %d", errUnsupported, txn.XferAsset)
		}
		return ledger.PendingTxn{}, 0, ev.transferAsset(txn.Sender, txn.XferAsset, txn.AssetAmount, txn.AssetReceiver)
	case protocol.ApplicationCallTx:
		return ev.appCall(gi)
	}
	return ledger.PendingTxn{}, 0, fmt.Errorf("%w: type %v", errUnsupported, txn.Type)
}

func (ev *evaluator) pay(txn transactions.Transaction) error {
	snd := ev.st.account(txn.Sender)
	amt := txn.Amount.Raw
	if snd.balance < amt {
		return fmt.Errorf("overspend (account %v, data balance %d, tried to spend %d)", txn.Sender, snd.balance, amt)
	}
	if txn.Receiver.IsZero() && amt != 0 {
		return fmt.Errorf("payment of %d to the zero address", amt)
	}
	snd.balance -= amt
	if !txn.Receiver.IsZero() {
		rcv := ev.st.account(txn.Receiver)
		bal, overflowed := basics.OAdd(rcv.balance, amt)
		if overflowed {
			return fmt.Errorf("balance overflow for %v", txn.Receiver)
		}
		rcv.balance = bal
		ev.touch(txn.Receiver)
	}
	if !txn.CloseRemainderTo.IsZero() {
		if len(snd.assets) > 0 || len(snd.local) > 0 || len(snd.createdApps) > 0 {
			return fmt.Errorf("cannot close account %v while it holds assets or applications", txn.Sender)
		}
		to := ev.st.account(txn.CloseRemainderTo)
		to.balance = basics.AddSaturate(to.balance, snd.balance)
		delete(ev.st.accounts, txn.Sender)
		ev.touch(txn.CloseRemainderTo)
	}
	return nil
}

func (ev *evaluator) createAsset(creator basics.Address, params basics.AssetParams) basics.AssetIndex {
	id := basics.AssetIndex(ev.st.allocIndex())
	ev.st.assets[id] = &assetData{id: id, creator: creator, params: params}
	ev.st.account(creator).assets[id] = basics.AssetHolding{Amount: params.Total}
	ev.touch(creator)
	return id
}

func (ev *evaluator) transferAsset(sender basics.Address, id basics.AssetIndex, amount uint64, receiver basics.Address) error {
	if _, ok := ev.st.assets[id]; !ok {
		return fmt.Errorf("asset %d does not exist or has been deleted", id)
	}
	snd := ev.st.account(sender)
	ev.touch(sender, receiver)
	if amount == 0 && receiver == sender {
		if _, ok := snd.assets[id]; !ok {
			snd.assets[id] = basics.AssetHolding{}
		}
		return nil
	}
	sh, ok := snd.assets[id]
	if !ok {
		return fmt.Errorf("asset %d missing from %v", id, sender)
	}
	rcv := ev.st.account(receiver)
	rh, ok := rcv.assets[id]
	if !ok {
		return fmt.Errorf("receiver error: must optin, asset %d missing from %v", id, receiver)
	}
	if sh.Amount < amount {
		return fmt.Errorf("underflow on subtracting %d from sender amount %d", amount, sh.Amount)
	}
	sh.Amount -= amount
	snd.assets[id] = sh
	rh = rcv.assets[id]
	rh.Amount += amount
	rcv.assets[id] = rh
	return nil
}

func (ev *evaluator) appCall(gi int) (ledger.PendingTxn, uint64, error) {
	txn := ev.group[gi].Txn
	if txn.ApplicationID == 0 {
		return ev.createApp(txn)
	}
	ap, ok := ev.st.apps[txn.ApplicationID]
	if !ok {
		return ledger.PendingTxn{}, 0, fmt.Errorf("application %d does not exist", txn.ApplicationID)
	}
	snd := ev.st.account(txn.Sender)
	switch txn.OnCompletion {
	case transactions.OptInOC:
		if _, ok := snd.local[ap.id]; ok {
			return ledger.PendingTxn{}, 0, fmt.Errorf("account %v has already opted in to app %d", txn.Sender, ap.id)
		}
		snd.local[ap.id] = make(basics.TealKeyValue)
		return ledger.PendingTxn{}, 0, nil
	case transactions.CloseOutOC, transactions.ClearStateOC:
		if _, ok := snd.local[ap.id]; !ok {
			return ledger.PendingTxn{}, 0, fmt.Errorf("account %v is not currently opted in to app %d", txn.Sender, ap.id)
		}
		delete(snd.local, ap.id)
		return ledger.PendingTxn{}, 0, nil
	case transactions.NoOpOC:
		if ap.kind == plainApp {
			return ledger.PendingTxn{}, 0, nil
		}
		return ev.callMinting(gi, ap)
	}
	return ledger.PendingTxn{}, 0, fmt.Errorf("%w: on-completion %v", errUnsupported, txn.OnCompletion)
}

func (ev *evaluator) createApp(txn transactions.Transaction) (ledger.PendingTxn, uint64, error) {
	id := basics.AppIndex(ev.st.allocIndex())
	ap := &appData{
		id:           id,
		kind:         plainApp,
		creator:      txn.Sender,
		approval:     append([]byte(nil), txn.ApprovalProgram...),
		clear:        append([]byte(nil), txn.ClearStateProgram...),
		global:       make(basics.TealKeyValue),
		globalSchema: txn.GlobalStateSchema,
		localSchema:  txn.LocalStateSchema,
	}
	if len(txn.ApplicationArgs) > 0 {
		ap.kind = mintingApp
		if err := initMinting(ap, txn.ApplicationArgs); err != nil {
			return ledger.PendingTxn{}, 0, err
		}
	}
	if err := fitsSchema(ap.global, ap.globalSchema); err != nil {
		return ledger.PendingTxn{}, 0, err
	}
	ev.st.apps[id] = ap
	ev.st.account(txn.Sender).createdApps[id] = struct{}{}
	return ledger.PendingTxn{ApplicationIndex: id, GlobalDelta: diffKV(nil, ap.global)}, 0, nil
}

func fitsSchema(kv basics.TealKeyValue, schema basics.StateSchema) error {
	var uints, bytes uint64
	for _, v := range kv {
		if v.Type == basics.TealUintType {
			uints++
		} else {
			bytes++
		}
	}
	if uints > schema.NumUint {
		return fmt.Errorf("store integer count %d exceeds schema integer count %d", uints, schema.NumUint)
	}
	if bytes > schema.NumByteSlice {
		return fmt.Errorf("store bytes count %d exceeds schema bytes count %d", bytes, schema.NumByteSlice)
	}
	return nil
}
