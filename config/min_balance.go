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

package config

import (
	"github.com/algorand/go-certmint/data/basics"
)

/* Functions that simplify the ways that ConsensusParams affect minimum balance
   requirements. */

// MinBalance computes the minimum balance requirements for an account based on
// some consensus parameters. MinBalance should correspond roughly to how much
// storage the account is allowed to store on disk.
func MinBalance(
	proto *ConsensusParams,
	totalAssets uint64,
	totalAppSchema basics.StateSchema,
	totalAppParams uint64, totalAppLocalStates uint64,
) basics.MicroAlgos {
	var min uint64

	// First, base MinBalance
	min = proto.MinBalance

	// MinBalance for each Asset
	assetCost := basics.MulSaturate(proto.MinBalance, totalAssets)
	min = basics.AddSaturate(min, assetCost)

	// Base MinBalance for each created application
	appCreationCost := basics.MulSaturate(proto.AppFlatParamsMinBalance, totalAppParams)
	min = basics.AddSaturate(min, appCreationCost)

	// Base MinBalance for each opted in application
	appOptInCost := basics.MulSaturate(proto.AppFlatOptInMinBalance, totalAppLocalStates)
	min = basics.AddSaturate(min, appOptInCost)

	// MinBalance for state usage measured by LocalStateSchemas and
	// GlobalStateSchemas
	schemaCost := proto.MinBalanceForSchema(totalAppSchema)
	min = basics.AddSaturate(min, schemaCost.Raw)

	return basics.MicroAlgos{Raw: min}
}

// MinBalanceForSchema computes the minimum balance requirement for a
// StateSchema based on the consensus parameters
func (proto *ConsensusParams) MinBalanceForSchema(sm basics.StateSchema) basics.MicroAlgos {
	// Flat cost for each key/value pair
	flatCost := basics.MulSaturate(proto.SchemaMinBalancePerEntry, sm.NumEntries())

	// Cost for uints
	uintCost := basics.MulSaturate(proto.SchemaUintMinBalance, sm.NumUint)

	// Cost for byte arrays
	bytesCost := basics.MulSaturate(proto.SchemaBytesMinBalance, sm.NumByteSlice)

	// Sum the separate costs
	var tot uint64
	tot = basics.AddSaturate(tot, flatCost)
	tot = basics.AddSaturate(tot, uintCost)
	tot = basics.AddSaturate(tot, bytesCost)

	return basics.MicroAlgos{Raw: tot}
}

// AppOptInMinBalance is the increase in an account's minimum balance caused
// by opting in to an application with the given local schema.
func (proto *ConsensusParams) AppOptInMinBalance(local basics.StateSchema) basics.MicroAlgos {
	return basics.MicroAlgos{Raw: basics.AddSaturate(proto.AppFlatOptInMinBalance, proto.MinBalanceForSchema(local).Raw)}
}

// AppCreationMinBalance is the increase in the creator's minimum balance
// caused by creating an application with the given global schema.
func (proto *ConsensusParams) AppCreationMinBalance(global basics.StateSchema) basics.MicroAlgos {
	return basics.MicroAlgos{Raw: basics.AddSaturate(proto.AppFlatParamsMinBalance, proto.MinBalanceForSchema(global).Raw)}
}
