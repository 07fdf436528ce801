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

package algod

// NodeStatusResponse is the subset of /v2/status used by the waiter.
type NodeStatusResponse struct {
	LastRound            uint64 `json:"last-round"`
	LastVersion          string `json:"last-version"`
	TimeSinceLastRound   uint64 `json:"time-since-last-round"`
	CatchupTime          uint64 `json:"catchup-time"`
	StoppedAtUnsupported bool   `json:"stopped-at-unsupported-round"`
}

// TransactionParametersResponse contains the parameters that help a client
// construct a new transaction.
type TransactionParametersResponse struct {
	ConsensusVersion string `json:"consensus-version"`
	// Fee is the suggested fee per byte; zero outside congestion.
	Fee         uint64 `json:"fee"`
	GenesisHash []byte `json:"genesis-hash"`
	GenesisID   string `json:"genesis-id"`
	LastRound   uint64 `json:"last-round"`
	MinFee      uint64 `json:"min-fee"`
}

// PostTransactionsResponse is returned by a successful submission.
type PostTransactionsResponse struct {
	TxID string `json:"txId"`
}

// EvalDelta is a stored value modification.
type EvalDelta struct {
	Action uint64 `json:"action"`
	Bytes  string `json:"bytes,omitempty"`
	Uint   uint64 `json:"uint,omitempty"`
}

// EvalDeltaKeyValue is a keyed value modification. Key and Bytes are base64.
type EvalDeltaKeyValue struct {
	Key   string    `json:"key"`
	Value EvalDelta `json:"value"`
}

// AccountStateDelta is the local state modification of one account.
type AccountStateDelta struct {
	Address string              `json:"address"`
	Delta   []EvalDeltaKeyValue `json:"delta"`
}

// PendingTransactionResponse describes a transaction in the pool or, once
// committed, its apply data.
type PendingTransactionResponse struct {
	ApplicationIndex uint64                       `json:"application-index,omitempty"`
	AssetIndex       uint64                       `json:"asset-index,omitempty"`
	ConfirmedRound   uint64                       `json:"confirmed-round,omitempty"`
	PoolError        string                       `json:"pool-error"`
	GlobalStateDelta []EvalDeltaKeyValue          `json:"global-state-delta,omitempty"`
	LocalStateDelta  []AccountStateDelta          `json:"local-state-delta,omitempty"`
	InnerTxns        []PendingTransactionResponse `json:"inner-txns,omitempty"`
	Logs             [][]byte                     `json:"logs,omitempty"`
	SenderRewards    uint64                       `json:"sender-rewards,omitempty"`
}

// TealValue is a stored value. Type 1 is bytes (base64 in Bytes), type 2 is uint.
type TealValue struct {
	Type  uint64 `json:"type"`
	Bytes string `json:"bytes"`
	Uint  uint64 `json:"uint"`
}

// TealKeyValue is a stored key/value pair; Key is base64.
type TealKeyValue struct {
	Key   string    `json:"key"`
	Value TealValue `json:"value"`
}

// ApplicationStateSchema declares the size of a key/value store.
type ApplicationStateSchema struct {
	NumUint      uint64 `json:"num-uint"`
	NumByteSlice uint64 `json:"num-byte-slice"`
}

// ApplicationLocalState is an account's local state in one application.
type ApplicationLocalState struct {
	ID       uint64                 `json:"id"`
	KeyValue []TealKeyValue         `json:"key-value,omitempty"`
	Schema   ApplicationStateSchema `json:"schema"`
}

// AssetHolding is an account's holding of one asset.
type AssetHolding struct {
	Amount   uint64 `json:"amount"`
	AssetID  uint64 `json:"asset-id"`
	IsFrozen bool   `json:"is-frozen"`
}

// Account is the json form of /v2/accounts/{address}.
type Account struct {
	Address            string                  `json:"address"`
	Amount             uint64                  `json:"amount"`
	MinBalance         uint64                  `json:"min-balance"`
	Assets             []AssetHolding          `json:"assets,omitempty"`
	AppsLocalState     []ApplicationLocalState `json:"apps-local-state,omitempty"`
	AppsTotalSchema    *ApplicationStateSchema `json:"apps-total-schema,omitempty"`
	TotalAppsOptedIn   uint64                  `json:"total-apps-opted-in"`
	TotalAssetsOptedIn uint64                  `json:"total-assets-opted-in"`
	Round              uint64                  `json:"round"`
}

// ApplicationParams are the stored parameters of an application.
type ApplicationParams struct {
	Creator           string                 `json:"creator"`
	ApprovalProgram   []byte                 `json:"approval-program"`
	ClearStateProgram []byte                 `json:"clear-state-program"`
	GlobalState       []TealKeyValue         `json:"global-state,omitempty"`
	GlobalStateSchema ApplicationStateSchema `json:"global-state-schema"`
	LocalStateSchema  ApplicationStateSchema `json:"local-state-schema"`
}

// Application is the json form of /v2/applications/{id}.
type Application struct {
	ID     uint64            `json:"id"`
	Params ApplicationParams `json:"params"`
}

// AssetParams are the stored parameters of an asset.
type AssetParams struct {
	Creator       string `json:"creator"`
	Total         uint64 `json:"total"`
	Decimals      uint64 `json:"decimals"`
	DefaultFrozen bool   `json:"default-frozen,omitempty"`
	Name          string `json:"name,omitempty"`
	UnitName      string `json:"unit-name,omitempty"`
	URL           string `json:"url,omitempty"`
	MetadataHash  []byte `json:"metadata-hash,omitempty"`
	Manager       string `json:"manager,omitempty"`
	Reserve       string `json:"reserve,omitempty"`
	Freeze        string `json:"freeze,omitempty"`
	Clawback      string `json:"clawback,omitempty"`
}

// Asset is the json form of /v2/assets/{id}.
type Asset struct {
	Index  uint64      `json:"index"`
	Params AssetParams `json:"params"`
}

// CompileResponse is returned by /v2/teal/compile.
type CompileResponse struct {
	Hash   string `json:"hash"`
	Result string `json:"result"`
}

// ErrorResponse is the body algod sends with a non-2xx status.
type ErrorResponse struct {
	Message string                  `json:"message"`
	Data    *map[string]interface{} `json:"data,omitempty"`
}
