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

package lifecycle

import (
	"bytes"
	"context"
	"encoding/hex"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
)

// Placeholders of the escrow program template.
const (
	TemplateAssetID = "SILENTDATA_ASSET_ID"
	TemplateAppID   = "MINTING_APP_ID_BYTES"
)

// Compiler turns TEAL source into program bytes. The algod REST client is one.
type Compiler interface {
	Compile(ctx context.Context, source []byte) ([]byte, crypto.Digest, error)
}

// FillTemplate replaces every <NAME> in source with vars[NAME].
func FillTemplate(source []byte, vars map[string]string) []byte {
	out := source
	for name, value := range vars {
		out = bytes.ReplaceAll(out, []byte("<"+name+">"), []byte(value))
	}
	return out
}

// EscrowSource fills the escrow template for one certificate asset id and
// minting application. Both values are substituted as hex.
func EscrowSource(template []byte, silentdataAssetID []byte, app basics.AppIndex) []byte {
	return FillTemplate(template, map[string]string{
		TemplateAssetID: hex.EncodeToString(silentdataAssetID),
		TemplateAppID:   hex.EncodeToString(txgroup.Uint64Arg(uint64(app))),
	})
}

// EscrowAccount compiles the filled escrow template into the logic
// signature account that holds the asset for silentdataAssetID.
func EscrowAccount(ctx context.Context, c Compiler, template []byte, silentdataAssetID []byte, app basics.AppIndex) (*account.LogicSigAccount, error) {
	program, hash, err := c.Compile(ctx, EscrowSource(template, silentdataAssetID, app))
	if err != nil {
		return nil, err
	}
	escrow, err := account.NewLogicSigAccount(program, nil)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	if basics.Address(hash) != escrow.Address() {
		return nil, serr.Configuration("compiled program hash does not match its address",
			"hash", hash.String(), "address", escrow.Address().String())
	}
	return escrow, nil
}
