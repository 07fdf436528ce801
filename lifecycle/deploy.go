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
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
)

// Global state keys of the minting application.
const (
	KeySigningKey = "enclave_signing_key"
	KeyCheckHash  = "expected_check_hash"
	KeyNumParams  = "num_params"
	// KeyAssetID is the escrow local key holding the minted asset.
	KeyAssetID = "asa_id"
)

// DeployRequest describes a minting application to create.
type DeployRequest struct {
	Approval   []byte
	Clear      []byte
	SigningKey crypto.PublicKey
	CheckHash  []byte
	Schema     certificate.Schema
}

// AppMetadata identifies a deployed minting application.
type AppMetadata struct {
	AppID       basics.AppIndex `json:"app_id"`
	ProgramHash crypto.Digest   `json:"program_hash"`
	Address     basics.Address  `json:"address"`
}

// AppState is the decoded global state of a minting application.
type AppState struct {
	Creator    basics.Address
	SigningKey crypto.PublicKey
	CheckHash  []byte
	// Schema is sorted by field name; the ledger does not keep declaration order.
	Schema certificate.Schema
}

// deployArgs are the creation arguments: signing key, check hash, field
// count and one type-tagged name per field.
func deployArgs(req DeployRequest) [][]byte {
	args := [][]byte{req.SigningKey[:], req.CheckHash, txgroup.Uint64Arg(uint64(len(req.Schema)))}
	return append(args, req.Schema.Args()...)
}

// Deploy creates the minting application from creator.
func (o *Orchestrator) Deploy(ctx context.Context, creator account.Signer, req DeployRequest) (meta AppMetadata, err error) {
	ctx, span, end := o.startSpan(ctx, WorkflowDeploy, attribute.String("creator", creator.Address().String()))
	defer end(&err)

	if err := req.Schema.Validate(); err != nil {
		return AppMetadata{}, err
	}
	if len(req.Approval) == 0 || len(req.Clear) == 0 {
		return AppMetadata{}, serr.Configuration("approval and clear programs are required")
	}
	if len(req.CheckHash) == 0 {
		return AppMetadata{}, serr.Configuration("check hash is required")
	}

	create := txgroup.AppCreate(creator.Address(), req.Approval, req.Clear,
		req.Schema.GlobalSchema(), req.Schema.LocalSchema(), deployArgs(req)...)
	conf, err := o.execute(ctx, WorkflowDeploy, []txgroup.Intent{{Txn: create, Signer: creator, Fee: txgroup.FeeSelf}}, 0)
	if err != nil {
		return AppMetadata{}, err
	}
	if conf.ApplicationIndex == 0 {
		return AppMetadata{}, serr.Wrap(serr.KindUnknown, ErrNoApplicationID, "txid", conf.TxID.String())
	}
	meta = AppMetadata{
		AppID:       conf.ApplicationIndex,
		ProgramHash: certificate.ProgramHash(req.Approval),
		Address:     conf.ApplicationIndex.Address(),
	}
	span.SetAttributes(attribute.Int64("app", int64(meta.AppID)))
	return meta, nil
}

// SetSigningKey replaces the enclave key certificates are checked against.
// Only the application's creator may call it.
func (o *Orchestrator) SetSigningKey(ctx context.Context, sender account.Signer, app basics.AppIndex, key crypto.PublicKey) (err error) {
	ctx, _, end := o.startSpan(ctx, WorkflowSetKey, attribute.Int64("app", int64(app)))
	defer end(&err)

	call := txgroup.AppCall(sender.Address(), app, []byte(methodSetKey), key[:])
	_, err = o.execute(ctx, WorkflowSetKey, []txgroup.Intent{{Txn: call, Signer: sender, Fee: txgroup.FeeSelf}}, 0)
	return err
}

// ApplicationState reads and decodes app's global state.
func (o *Orchestrator) ApplicationState(ctx context.Context, app basics.AppIndex) (AppState, error) {
	info, err := o.client.ApplicationInformation(ctx, app)
	if err != nil {
		return AppState{}, serr.Extend(err, "app", uint64(app))
	}
	return decodeAppState(info.Creator, info.GlobalState)
}

func decodeAppState(creator basics.Address, kv basics.TealKeyValue) (AppState, error) {
	st := AppState{Creator: creator}
	key, err := kv.GetBytes(KeySigningKey)
	if err != nil {
		return AppState{}, err
	}
	if len(key) != len(st.SigningKey) {
		return AppState{}, fmt.Errorf("signing key is %d bytes", len(key))
	}
	copy(st.SigningKey[:], key)
	if st.CheckHash, err = kv.GetBytes(KeyCheckHash); err != nil {
		return AppState{}, err
	}
	n, err := kv.GetUint(KeyNumParams)
	if err != nil {
		return AppState{}, err
	}

	for name := range kv {
		if name == KeySigningKey || name == KeyCheckHash || name == KeyNumParams {
			continue
		}
		code, err := kv.GetUint(name)
		if err != nil {
			return AppState{}, fmt.Errorf("schema field %s: %w", name, err)
		}
		ft, err := certificate.FieldTypeFromCode(code)
		if err != nil {
			return AppState{}, fmt.Errorf("schema field %s: %w", name, err)
		}
		st.Schema = append(st.Schema, certificate.Field{Name: name, Type: ft})
	}
	if uint64(len(st.Schema)) != n {
		return AppState{}, fmt.Errorf("%s is %d but %d schema fields are stored", KeyNumParams, n, len(st.Schema))
	}
	sort.Slice(st.Schema, func(i, j int) bool { return st.Schema[i].Name < st.Schema[j].Name })
	return st, nil
}
