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
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/algorand/go-certmint/client/algod"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/serr"
)

// algodClient adapts the algod REST client to Client.
type algodClient struct {
	rest algod.RestClient
}

// MakeAlgodClient returns a Client backed by an algod node.
func MakeAlgodClient(rest algod.RestClient) Client {
	return algodClient{rest: rest}
}

func (c algodClient) Status(ctx context.Context) (NodeStatus, error) {
	resp, err := c.rest.Status(ctx)
	if err != nil {
		return NodeStatus{}, err
	}
	return NodeStatus{LastRound: basics.Round(resp.LastRound)}, nil
}

func (c algodClient) StatusAfterBlock(ctx context.Context, round basics.Round) (NodeStatus, error) {
	resp, err := c.rest.WaitForBlockAfter(ctx, round)
	if err != nil {
		return NodeStatus{}, err
	}
	return NodeStatus{LastRound: basics.Round(resp.LastRound)}, nil
}

func (c algodClient) SuggestedParams(ctx context.Context) (Params, error) {
	resp, err := c.rest.SuggestedParams(ctx)
	if err != nil {
		return Params{}, err
	}
	var gh crypto.Digest
	if len(resp.GenesisHash) != len(gh) {
		return Params{}, serr.Transient(fmt.Errorf("genesis hash has %d bytes", len(resp.GenesisHash)))
	}
	copy(gh[:], resp.GenesisHash)
	return Params{
		Fee:              basics.MicroAlgos{Raw: resp.Fee},
		MinFee:           basics.MicroAlgos{Raw: resp.MinFee},
		LastRound:        basics.Round(resp.LastRound),
		GenesisID:        resp.GenesisID,
		GenesisHash:      gh,
		ConsensusVersion: resp.ConsensusVersion,
	}, nil
}

func (c algodClient) SendRawTransactionGroup(ctx context.Context, group []transactions.SignedTxn) error {
	_, err := c.rest.SendRawTransactionGroup(ctx, group)
	return err
}

func (c algodClient) PendingTransaction(ctx context.Context, txid transactions.Txid) (PendingTxn, error) {
	resp, err := c.rest.PendingTransactionInformation(ctx, txid.String())
	if err != nil {
		var httpErr algod.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return PendingTxn{}, serr.Transient(fmt.Errorf("%w: %w", ErrTxnNotFound, err), "txid", txid.String())
		}
		return PendingTxn{}, err
	}
	p, err := convertPending(resp)
	if err != nil {
		return PendingTxn{}, serr.Transient(err, "txid", txid.String())
	}
	return p, nil
}

func (c algodClient) AccountInformation(ctx context.Context, addr basics.Address) (AccountInfo, error) {
	resp, err := c.rest.AccountInformation(ctx, addr.String())
	if err != nil {
		return AccountInfo{}, err
	}
	info := AccountInfo{
		Address:    addr,
		Amount:     basics.MicroAlgos{Raw: resp.Amount},
		MinBalance: basics.MicroAlgos{Raw: resp.MinBalance},
		Assets:     make(map[basics.AssetIndex]basics.AssetHolding, len(resp.Assets)),
		AppLocal:   make(map[basics.AppIndex]AppLocalState, len(resp.AppsLocalState)),
	}
	for _, h := range resp.Assets {
		info.Assets[basics.AssetIndex(h.AssetID)] = basics.AssetHolding{Amount: h.Amount, Frozen: h.IsFrozen}
	}
	for _, ls := range resp.AppsLocalState {
		kv, err := convertKeyValues(ls.KeyValue)
		if err != nil {
			return AccountInfo{}, serr.Transient(err, "address", addr.String(), "app", ls.ID)
		}
		info.AppLocal[basics.AppIndex(ls.ID)] = AppLocalState{
			Schema:   basics.StateSchema{NumUint: ls.Schema.NumUint, NumByteSlice: ls.Schema.NumByteSlice},
			KeyValue: kv,
		}
	}
	return info, nil
}

func (c algodClient) ApplicationInformation(ctx context.Context, app basics.AppIndex) (AppInfo, error) {
	resp, err := c.rest.ApplicationInformation(ctx, app)
	if err != nil {
		return AppInfo{}, err
	}
	creator, err := optionalAddress(resp.Params.Creator)
	if err != nil {
		return AppInfo{}, serr.Transient(err, "app", app)
	}
	global, err := convertKeyValues(resp.Params.GlobalState)
	if err != nil {
		return AppInfo{}, serr.Transient(err, "app", app)
	}
	return AppInfo{
		ID:              basics.AppIndex(resp.ID),
		Creator:         creator,
		ApprovalProgram: resp.Params.ApprovalProgram,
		ClearProgram:    resp.Params.ClearStateProgram,
		GlobalState:     global,
		GlobalSchema: basics.StateSchema{
			NumUint:      resp.Params.GlobalStateSchema.NumUint,
			NumByteSlice: resp.Params.GlobalStateSchema.NumByteSlice,
		},
		LocalSchema: basics.StateSchema{
			NumUint:      resp.Params.LocalStateSchema.NumUint,
			NumByteSlice: resp.Params.LocalStateSchema.NumByteSlice,
		},
	}, nil
}

func (c algodClient) AssetInformation(ctx context.Context, asset basics.AssetIndex) (AssetInfo, error) {
	resp, err := c.rest.AssetInformation(ctx, asset)
	if err != nil {
		return AssetInfo{}, err
	}
	info, err := convertAsset(resp)
	if err != nil {
		return AssetInfo{}, serr.Transient(err, "asset", asset)
	}
	return info, nil
}

func convertAsset(resp algod.Asset) (AssetInfo, error) {
	p := resp.Params
	info := AssetInfo{
		ID: basics.AssetIndex(resp.Index),
		Params: basics.AssetParams{
			Total:         p.Total,
			Decimals:      uint32(p.Decimals),
			DefaultFrozen: p.DefaultFrozen,
			UnitName:      p.UnitName,
			AssetName:     p.Name,
			URL:           p.URL,
		},
	}
	if len(p.MetadataHash) > 0 {
		if len(p.MetadataHash) != len(info.Params.MetadataHash) {
			return AssetInfo{}, fmt.Errorf("metadata hash has %d bytes", len(p.MetadataHash))
		}
		copy(info.Params.MetadataHash[:], p.MetadataHash)
	}
	var err error
	for _, role := range []struct {
		text string
		dst  *basics.Address
	}{
		{p.Creator, &info.Creator},
		{p.Manager, &info.Params.Manager},
		{p.Reserve, &info.Params.Reserve},
		{p.Freeze, &info.Params.Freeze},
		{p.Clawback, &info.Params.Clawback},
	} {
		if *role.dst, err = optionalAddress(role.text); err != nil {
			return AssetInfo{}, err
		}
	}
	return info, nil
}

func optionalAddress(text string) (basics.Address, error) {
	if text == "" {
		return basics.Address{}, nil
	}
	return basics.UnmarshalChecksumAddress(text)
}

// convertKeyValues decodes algod's base64 keys and typed values.
func convertKeyValues(kvs []algod.TealKeyValue) (basics.TealKeyValue, error) {
	res := make(basics.TealKeyValue, len(kvs))
	for _, kv := range kvs {
		key, err := base64.StdEncoding.DecodeString(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("state key %q: %w", kv.Key, err)
		}
		var b []byte
		if kv.Value.Type == uint64(basics.TealBytesType) {
			if b, err = base64.StdEncoding.DecodeString(kv.Value.Bytes); err != nil {
				return nil, fmt.Errorf("state value of %q: %w", key, err)
			}
		}
		v, err := basics.DecodeTealValue(kv.Value.Type, b, kv.Value.Uint)
		if err != nil {
			return nil, fmt.Errorf("state key %q: %w", key, err)
		}
		res[string(key)] = v
	}
	return res, nil
}

func convertDelta(kvs []algod.EvalDeltaKeyValue) (basics.StateDelta, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	res := make(basics.StateDelta, len(kvs))
	for _, kv := range kvs {
		key, err := base64.StdEncoding.DecodeString(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("delta key %q: %w", kv.Key, err)
		}
		vd := basics.ValueDelta{Action: basics.DeltaAction(kv.Value.Action), Uint: kv.Value.Uint}
		switch vd.Action {
		case basics.SetBytesAction:
			b, err := base64.StdEncoding.DecodeString(kv.Value.Bytes)
			if err != nil {
				return nil, fmt.Errorf("delta value of %q: %w", key, err)
			}
			vd.Bytes = string(b)
		case basics.SetUintAction, basics.DeleteAction:
		default:
			return nil, fmt.Errorf("delta key %q: unknown action %d", key, kv.Value.Action)
		}
		res[string(key)] = vd
	}
	return res, nil
}

func convertPending(resp algod.PendingTransactionResponse) (PendingTxn, error) {
	p := PendingTxn{
		ConfirmedRound:   basics.Round(resp.ConfirmedRound),
		PoolError:        resp.PoolError,
		ApplicationIndex: basics.AppIndex(resp.ApplicationIndex),
		AssetIndex:       basics.AssetIndex(resp.AssetIndex),
		Logs:             resp.Logs,
	}
	var err error
	if p.GlobalDelta, err = convertDelta(resp.GlobalStateDelta); err != nil {
		return PendingTxn{}, err
	}
	for _, ld := range resp.LocalStateDelta {
		addr, err := basics.UnmarshalChecksumAddress(ld.Address)
		if err != nil {
			return PendingTxn{}, err
		}
		delta, err := convertDelta(ld.Delta)
		if err != nil {
			return PendingTxn{}, err
		}
		if p.LocalDeltas == nil {
			p.LocalDeltas = make(map[basics.Address]basics.StateDelta)
		}
		p.LocalDeltas[addr] = delta
	}
	for _, inner := range resp.InnerTxns {
		ip, err := convertPending(inner)
		if err != nil {
			return PendingTxn{}, err
		}
		p.InnerTxns = append(p.InnerTxns, ip)
	}
	return p, nil
}
