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
	"encoding/binary"
	"fmt"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/protocol"
)

// State keys and constants of the minting application.
const (
	KeySigningKey = "enclave_signing_key"
	KeyCheckHash  = "expected_check_hash"
	KeyNumParams  = "num_params"
	KeyAssetID    = "asa_id"

	AssetName = "SILENTDATA asset ownership token"
	UnitName  = "SD-OWN"
	URLPrefix = "https://defi.silentdata.com/a/"

	fieldInt   = 'i'
	fieldBytes = 'b'

	// appCallBudget is the opcode budget each application call adds to the group.
	appCallBudget = 700
	// DefaultMintCost needs the mint call, the escrow opt-in and eleven fillers.
	DefaultMintCost = 13 * appCallBudget
)

var requiredFields = []string{certificate.FieldCheckHash, certificate.FieldLsigPkey, certificate.FieldInitiatorPkey, certificate.FieldAssetID}

func logicErr(format string, args ...interface{}) error {
	return fmt.Errorf("logic eval error: "+format, args...)
}

func initMinting(ap *appData, args [][]byte) error {
	if len(args) < 3 {
		return logicErr("create needs signing key, check hash and field count")
	}
	if len(args[0]) != len(crypto.PublicKey{}) {
		return logicErr("signing key must be %d bytes", len(crypto.PublicKey{}))
	}
	if len(args[2]) != 8 {
		return logicErr("field count must be 8 bytes")
	}
	n := binary.BigEndian.Uint64(args[2])
	if n != uint64(len(args)-3) {
		return logicErr("field count %d does not match %d field args", n, len(args)-3)
	}
	for _, arg := range args[3:] {
		if len(arg) < 2 || (arg[0] != fieldInt && arg[0] != fieldBytes) {
			return logicErr("bad schema field %q", arg)
		}
		name := string(arg[1:])
		if _, dup := ap.global[name]; dup {
			return logicErr("duplicate schema field %s", name)
		}
		ap.global[name] = basics.TealUint(uint64(arg[0]))
	}
	for _, name := range requiredFields {
		v, ok := ap.global[name]
		if !ok || v.Uint != fieldBytes {
			return logicErr("schema must declare %s as a byte slice", name)
		}
	}

	var ints, bytes uint64
	for _, v := range ap.global {
		if v.Uint == fieldInt {
			ints++
		} else {
			bytes++
		}
	}
	if ap.localSchema.NumUint < ints+1 || ap.localSchema.NumByteSlice < bytes {
		return logicErr("local schema %+v cannot hold %d ints and %d byte slices", ap.localSchema, ints+1, bytes)
	}

	ap.global[KeySigningKey] = basics.TealBytes(args[0])
	ap.global[KeyCheckHash] = basics.TealBytes(args[1])
	ap.global[KeyNumParams] = basics.TealUint(n)
	return nil
}

func isReservedKey(k string) bool {
	return k == KeySigningKey || k == KeyCheckHash || k == KeyNumParams
}

func accountRef(txn transactions.Transaction, i int) (basics.Address, error) {
	if i >= len(txn.Accounts) {
		return basics.Address{}, logicErr("invalid Account reference %d", i+1)
	}
	return txn.Accounts[i], nil
}

func (ev *evaluator) callMinting(gi int, ap *appData) (ledger.PendingTxn, uint64, error) {
	txn := ev.group[gi].Txn
	if len(txn.ApplicationArgs) == 0 {
		return ledger.PendingTxn{}, 0, logicErr("no method")
	}
	switch method := string(txn.ApplicationArgs[0]); method {
	case "fund":
		return ledger.PendingTxn{}, 0, nil
	case "set_key":
		return ev.setKey(txn, ap)
	case "permission":
		escrow, err := accountRef(txn, 0)
		if err != nil {
			return ledger.PendingTxn{}, 0, err
		}
		if _, ok := ev.st.account(escrow).local[ap.id]; !ok {
			return ledger.PendingTxn{}, 0, logicErr("escrow %v is not opted in to app %d", escrow, ap.id)
		}
		return ledger.PendingTxn{}, 0, nil
	case "mint":
		return ev.mint(gi, ap)
	case "claim":
		return ev.claim(txn, ap)
	default:
		return ledger.PendingTxn{}, 0, logicErr("unknown method %q", method)
	}
}

func (ev *evaluator) setKey(txn transactions.Transaction, ap *appData) (ledger.PendingTxn, uint64, error) {
	if txn.Sender != ap.creator {
		return ledger.PendingTxn{}, 0, logicErr("set_key sender %v is not the creator", txn.Sender)
	}
	if len(txn.ApplicationArgs) != 2 || len(txn.ApplicationArgs[1]) != len(crypto.PublicKey{}) {
		return ledger.PendingTxn{}, 0, logicErr("set_key needs one %d byte key", len(crypto.PublicKey{}))
	}
	before := ap.global.Clone()
	ap.global[KeySigningKey] = basics.TealBytes(txn.ApplicationArgs[1])
	return ledger.PendingTxn{GlobalDelta: diffKV(before, ap.global)}, 0, nil
}

func (ev *evaluator) mint(gi int, ap *appData) (ledger.PendingTxn, uint64, error) {
	txn := ev.group[gi].Txn
	args := txn.ApplicationArgs
	if len(args) != 3 {
		return ledger.PendingTxn{}, 0, logicErr("mint needs signature and data")
	}
	escrowAddr, err := accountRef(txn, 0)
	if err != nil {
		return ledger.PendingTxn{}, 0, err
	}

	var calls uint64
	for _, m := range ev.group {
		if m.Txn.Type == protocol.ApplicationCallTx && m.Txn.ApplicationID == ap.id {
			calls++
		}
	}
	if calls*appCallBudget < ev.mintCost {
		return ledger.PendingTxn{}, 0, logicErr("dynamic cost budget exceeded, mint costs %d but the group provides %d", ev.mintCost, calls*appCallBudget)
	}

	key, err := ap.global.GetBytes(KeySigningKey)
	if err != nil {
		return ledger.PendingTxn{}, 0, logicErr("%v", err)
	}
	var pk crypto.PublicKey
	var sig crypto.Signature
	if len(key) != len(pk) || len(args[1]) != len(sig) {
		return ledger.PendingTxn{}, 0, logicErr("bad signing key or signature length")
	}
	copy(pk[:], key)
	copy(sig[:], args[1])
	if !pk.VerifyBytes(certificate.Message(certificate.ProgramHash(ap.approval), args[2]), sig) {
		return ledger.PendingTxn{}, 0, logicErr("ed25519verify failed on certificate data")
	}

	var fields map[string]interface{}
	if err := protocol.DecodeCBOR(args[2], &fields); err != nil {
		return ledger.PendingTxn{}, 0, logicErr("certificate data is not a cbor map: %v", err)
	}

	escrow := ev.st.account(escrowAddr)
	local, ok := escrow.local[ap.id]
	if !ok {
		return ledger.PendingTxn{}, 0, logicErr("escrow %v is not opted in to app %d", escrowAddr, ap.id)
	}
	if _, minted := local[KeyAssetID]; minted {
		return ledger.PendingTxn{}, 0, logicErr("escrow %v already minted an asset", escrowAddr)
	}

	updated := local.Clone()
	for name, typ := range ap.global {
		if isReservedKey(name) {
			continue
		}
		raw, ok := fields[name]
		if !ok {
			return ledger.PendingTxn{}, 0, logicErr("certificate is missing %s", name)
		}
		switch typ.Uint {
		case fieldInt:
			u, ok := asUint(raw)
			if !ok {
				return ledger.PendingTxn{}, 0, logicErr("certificate field %s is not an integer", name)
			}
			updated[name] = basics.TealUint(u)
		case fieldBytes:
			b, ok := asBytes(raw)
			if !ok {
				return ledger.PendingTxn{}, 0, logicErr("certificate field %s is not a byte string", name)
			}
			updated[name] = basics.TealBytes(b)
		}
	}

	expected, _ := ap.global.GetBytes(KeyCheckHash)
	if updated[certificate.FieldCheckHash].Bytes != string(expected) {
		return ledger.PendingTxn{}, 0, logicErr("certificate check hash does not match")
	}
	if updated[certificate.FieldInitiatorPkey].Bytes != string(txn.Sender[:]) {
		return ledger.PendingTxn{}, 0, logicErr("mint sender is not the certificate initiator")
	}
	if updated[certificate.FieldLsigPkey].Bytes != string(escrowAddr[:]) {
		return ledger.PendingTxn{}, 0, logicErr("escrow is not the certificate's logic signature")
	}

	params := basics.AssetParams{
		Total:     2,
		Decimals:  0,
		UnitName:  UnitName,
		AssetName: AssetName,
		URL:       URLPrefix + updated[certificate.FieldID].Bytes,
		Manager:   ap.id.Address(),
		Reserve:   ap.id.Address(),
		Freeze:    ap.id.Address(),
		Clawback:  ap.id.Address(),
	}
	copy(params.MetadataHash[:], escrowAddr[:])
	assetID := ev.createAsset(ap.id.Address(), params)
	updated[KeyAssetID] = basics.TealUint(uint64(assetID))

	if err := fitsSchema(updated, ap.localSchema); err != nil {
		return ledger.PendingTxn{}, 0, logicErr("%v", err)
	}
	escrow.local[ap.id] = updated
	ev.touch(escrowAddr)

	return ledger.PendingTxn{
		LocalDeltas: map[basics.Address]basics.StateDelta{escrowAddr: diffKV(local, updated)},
		InnerTxns:   []ledger.PendingTxn{{AssetIndex: assetID}},
	}, 1, nil
}

func (ev *evaluator) claim(txn transactions.Transaction, ap *appData) (ledger.PendingTxn, uint64, error) {
	escrowAddr, err := accountRef(txn, 0)
	if err != nil {
		return ledger.PendingTxn{}, 0, err
	}
	local, ok := ev.st.account(escrowAddr).local[ap.id]
	if !ok {
		return ledger.PendingTxn{}, 0, logicErr("escrow %v is not opted in to app %d", escrowAddr, ap.id)
	}
	asa, err := local.GetUint(KeyAssetID)
	if err != nil {
		return ledger.PendingTxn{}, 0, logicErr("escrow %v has not minted: %v", escrowAddr, err)
	}
	asset := basics.AssetIndex(asa)
	available := false
	for _, a := range txn.ForeignAssets {
		available = available || a == asset
	}
	if !available {
		return ledger.PendingTxn{}, 0, logicErr("unavailable Asset %d", asset)
	}
	initiator, err := local.GetBytes(certificate.FieldInitiatorPkey)
	if err != nil || string(initiator) != string(txn.Sender[:]) {
		return ledger.PendingTxn{}, 0, logicErr("claim sender %v is not the initiator", txn.Sender)
	}

	appAddr := ap.id.Address()
	if err := ev.transferAsset(appAddr, asset, 1, escrowAddr); err != nil {
		return ledger.PendingTxn{}, 0, logicErr("inner transfer to escrow: %v", err)
	}
	if err := ev.transferAsset(appAddr, asset, 1, txn.Sender); err != nil {
		return ledger.PendingTxn{}, 0, logicErr("inner transfer to initiator: %v", err)
	}
	return ledger.PendingTxn{InnerTxns: make([]ledger.PendingTxn, 2)}, 2, nil
}

func asUint(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint64:
		return x, true
	case int64:
		return uint64(x), x >= 0
	case int:
		return uint64(x), x >= 0
	}
	return 0, false
}

func asBytes(v interface{}) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	}
	return nil, false
}
