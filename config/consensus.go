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

// ConsensusParams holds the protocol limits and balance rules a client needs
// to shape transactions the ledger will accept.
type ConsensusParams struct {
	// MinBalance specifies the minimum balance that can appear in
	// an account, and the additional minimum for each asset held.
	MinBalance uint64

	// MinTxnFee specifies the minimum fee allowed on a transaction.
	MinTxnFee uint64

	// EnableFeePooling specifies that the sum of the fees in a
	// group must exceed one MinTxnFee per Txn, rather than check that
	// each Txn has a MinFee.
	EnableFeePooling bool

	// MaxTxnLife is how long a transaction can be live for:
	// the maximum difference between LastValid and FirstValid.
	MaxTxnLife uint64

	// MaxTxnNoteBytes is the maximum size of a transaction's Note field.
	MaxTxnNoteBytes int

	// MaxTxGroupSize is the maximum number of transactions allowed in a group.
	MaxTxGroupSize int

	// maximum number of application args, and their total length
	MaxAppArgs        int
	MaxAppTotalArgLen int

	// maximum number of each kind of foreign reference on an application call
	MaxAppTxnAccounts        int
	MaxAppTxnForeignApps     int
	MaxAppTxnForeignAssets   int
	MaxAppTotalTxnReferences int

	// MaxInnerTransactions is the number of inner transactions a single
	// application call may issue.
	MaxInnerTransactions int

	// AppFlatParamsMinBalance is the minimum balance requirement for each
	// created application.
	AppFlatParamsMinBalance uint64

	// AppFlatOptInMinBalance is the minimum balance requirement for each
	// application an account is opted in to.
	AppFlatOptInMinBalance uint64

	// SchemaMinBalancePerEntry is the minimum balance requirement for each
	// key/value entry allowed by a schema.
	SchemaMinBalancePerEntry uint64

	// SchemaUintMinBalance is the requirement, on top of the per-entry
	// cost, for each uint entry.
	SchemaUintMinBalance uint64

	// SchemaBytesMinBalance is the requirement, on top of the per-entry
	// cost, for each byte-slice entry.
	SchemaBytesMinBalance uint64

	// Maximum lengths of asset name, unit name and url
	MaxAssetNameBytes     int
	MaxAssetUnitNameBytes int
	MaxAssetURLBytes      int
}

// Consensus holds the parameters of the current protocol version.
var Consensus ConsensusParams

func init() {
	Consensus = ConsensusParams{
		MinBalance:       100000,
		MinTxnFee:        1000,
		EnableFeePooling: true,
		MaxTxnLife:       1000,
		MaxTxnNoteBytes:  1024,
		MaxTxGroupSize:   16,

		MaxAppArgs:        16,
		MaxAppTotalArgLen: 2048,

		MaxAppTxnAccounts:        4,
		MaxAppTxnForeignApps:     8,
		MaxAppTxnForeignAssets:   8,
		MaxAppTotalTxnReferences: 8,
		MaxInnerTransactions:     256,

		AppFlatParamsMinBalance:  100000,
		AppFlatOptInMinBalance:   100000,
		SchemaMinBalancePerEntry: 25000,
		SchemaUintMinBalance:     3500,
		SchemaBytesMinBalance:    25000,

		MaxAssetNameBytes:     32,
		MaxAssetUnitNameBytes: 8,
		MaxAssetURLBytes:      96,
	}
}
