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
	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
)

type accountData struct {
	balance     uint64
	assets      map[basics.AssetIndex]basics.AssetHolding
	local       map[basics.AppIndex]basics.TealKeyValue
	createdApps map[basics.AppIndex]struct{}
}

func newAccountData() *accountData {
	return &accountData{
		assets:      make(map[basics.AssetIndex]basics.AssetHolding),
		local:       make(map[basics.AppIndex]basics.TealKeyValue),
		createdApps: make(map[basics.AppIndex]struct{}),
	}
}

func (ad *accountData) clone() *accountData {
	c := newAccountData()
	c.balance = ad.balance
	for id, h := range ad.assets {
		c.assets[id] = h
	}
	for id, kv := range ad.local {
		c.local[id] = kv.Clone()
		if c.local[id] == nil {
			c.local[id] = make(basics.TealKeyValue)
		}
	}
	for id := range ad.createdApps {
		c.createdApps[id] = struct{}{}
	}
	return c
}

// empty accounts do not exist as far as the balance rules are concerned.
func (ad *accountData) empty() bool {
	return ad.balance == 0 && len(ad.assets) == 0 && len(ad.local) == 0 && len(ad.createdApps) == 0
}

type appKind int

const (
	// plainApp approves every call and keeps no state.
	plainApp appKind = iota
	// mintingApp runs the certificate minting methods.
	mintingApp
)

type appData struct {
	id           basics.AppIndex
	kind         appKind
	creator      basics.Address
	approval     []byte
	clear        []byte
	global       basics.TealKeyValue
	globalSchema basics.StateSchema
	localSchema  basics.StateSchema
}

func (ap *appData) clone() *appData {
	c := *ap
	c.global = ap.global.Clone()
	if c.global == nil {
		c.global = make(basics.TealKeyValue)
	}
	return &c
}

type assetData struct {
	id      basics.AssetIndex
	creator basics.Address
	params  basics.AssetParams
}

type state struct {
	accounts  map[basics.Address]*accountData
	apps      map[basics.AppIndex]*appData
	assets    map[basics.AssetIndex]*assetData
	nextIndex uint64
}

func newState() *state {
	return &state{
		accounts:  make(map[basics.Address]*accountData),
		apps:      make(map[basics.AppIndex]*appData),
		assets:    make(map[basics.AssetIndex]*assetData),
		nextIndex: 1000,
	}
}

func (st *state) clone() *state {
	c := newState()
	c.nextIndex = st.nextIndex
	for addr, ad := range st.accounts {
		c.accounts[addr] = ad.clone()
	}
	for id, ap := range st.apps {
		c.apps[id] = ap.clone()
	}
	for id, as := range st.assets {
		cp := *as
		c.assets[id] = &cp
	}
	return c
}

// account returns the record for addr, creating an empty one on first touch.
func (st *state) account(addr basics.Address) *accountData {
	ad, ok := st.accounts[addr]
	if !ok {
		ad = newAccountData()
		st.accounts[addr] = ad
	}
	return ad
}

func (st *state) allocIndex() uint64 {
	st.nextIndex++
	return st.nextIndex
}

func (st *state) minBalance(proto *config.ConsensusParams, addr basics.Address) basics.MicroAlgos {
	ad, ok := st.accounts[addr]
	if !ok {
		return basics.MicroAlgos{Raw: proto.MinBalance}
	}
	var schema basics.StateSchema
	for id := range ad.local {
		if ap, ok := st.apps[id]; ok {
			schema.NumUint = basics.AddSaturate(schema.NumUint, ap.localSchema.NumUint)
			schema.NumByteSlice = basics.AddSaturate(schema.NumByteSlice, ap.localSchema.NumByteSlice)
		}
	}
	for id := range ad.createdApps {
		if ap, ok := st.apps[id]; ok {
			schema.NumUint = basics.AddSaturate(schema.NumUint, ap.globalSchema.NumUint)
			schema.NumByteSlice = basics.AddSaturate(schema.NumByteSlice, ap.globalSchema.NumByteSlice)
		}
	}
	return config.MinBalance(proto, uint64(len(ad.assets)), schema, uint64(len(ad.createdApps)), uint64(len(ad.local)))
}

func diffKV(before, after basics.TealKeyValue) basics.StateDelta {
	delta := make(basics.StateDelta)
	for k, v := range after {
		if old, ok := before[k]; ok && old == v {
			continue
		}
		switch v.Type {
		case basics.TealBytesType:
			delta[k] = basics.ValueDelta{Action: basics.SetBytesAction, Bytes: v.Bytes}
		case basics.TealUintType:
			delta[k] = basics.ValueDelta{Action: basics.SetUintAction, Uint: v.Uint}
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			delta[k] = basics.ValueDelta{Action: basics.DeleteAction}
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}
