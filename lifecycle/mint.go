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
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
)

// MintRequest asks app to mint the asset certified by Certificate into Escrow.
type MintRequest struct {
	AppID       basics.AppIndex
	Sender      account.Signer
	Certificate certificate.Certificate
	Escrow      *account.LogicSigAccount
}

// MintResult is the minted asset and the mint call's confirmation.
type MintResult struct {
	AssetID      basics.AssetIndex
	Confirmation confirm.Confirmation
}

// mintIntents lays out the mint group: fund the application for the asset
// it creates, fund and opt in the escrow, the mint call paying every fee,
// then fillers that add opcode budget.
func (o *Orchestrator) mintIntents(ctx context.Context, req MintRequest) ([]txgroup.Intent, uint64, error) {
	sender := req.Sender.Address()
	escrow := req.Escrow.Address()
	appAddr := req.AppID.Address()

	appTopUp, err := o.balances.RequiredTopUp(ctx, appAddr, o.balances.AssetOptInFloorDelta())
	if err != nil {
		return nil, 0, err
	}
	optInDelta, err := o.balances.ApplicationOptInFloorDelta(ctx, req.AppID)
	if err != nil {
		return nil, 0, err
	}
	escrowTopUp, err := o.balances.RequiredTopUp(ctx, escrow, optInDelta)
	if err != nil {
		return nil, 0, err
	}

	mint := txgroup.AppCall(sender, req.AppID, []byte(methodMint), req.Certificate.Signature[:], req.Certificate.Data)
	mint.Accounts = []basics.Address{escrow}

	intents := []txgroup.Intent{
		{Txn: txgroup.Payment(sender, appAddr, appTopUp), Signer: req.Sender},
		{Txn: txgroup.Payment(sender, escrow, escrowTopUp), Signer: req.Sender},
		{Txn: txgroup.AppOptIn(escrow, req.AppID), Signer: req.Escrow},
		{Txn: mint, Signer: req.Sender, Fee: txgroup.FeePool, InnerTxns: o.cfg.MintInnerTxns},
	}
	for i := 0; i < o.cfg.MintFillerTxns; i++ {
		fund := txgroup.AppCall(sender, req.AppID, []byte(methodFund))
		fund.Note = txgroup.RandomNote()
		intents = append(intents, txgroup.Intent{Txn: fund, Signer: req.Sender})
	}
	return intents, appTopUp + escrowTopUp, nil
}

// mintCallIndex is the position of the mint call in the group.
const mintCallIndex = 3

// Mint creates the asset for req.Escrow in one group and waits for it.
func (o *Orchestrator) Mint(ctx context.Context, req MintRequest) (res MintResult, err error) {
	ctx, span, end := o.startSpan(ctx, WorkflowMint, attribute.Int64("app", int64(req.AppID)))
	defer end(&err)

	if err := checkApps("app", req.AppID); err != nil {
		return MintResult{}, err
	}
	if req.Sender == nil || req.Escrow == nil {
		return MintResult{}, serr.Wrap(serr.KindConfiguration, ErrMissingSigner, "workflow", WorkflowMint)
	}
	if len(req.Certificate.Data) == 0 {
		return MintResult{}, serr.Configuration("certificate data is empty")
	}
	span.SetAttributes(attribute.String("escrow", req.Escrow.Address().String()))
	intents, topUp, err := o.mintIntents(ctx, req)
	if err != nil {
		return MintResult{}, err
	}
	conf, err := o.execute(ctx, WorkflowMint, intents, mintCallIndex)
	if err != nil {
		return MintResult{}, err
	}
	o.metrics.toppedUp(WorkflowMint, topUp)

	asset, ok := conf.CreatedAsset()
	if !ok {
		asset, err = o.AssetForEscrow(ctx, req.Escrow.Address(), req.AppID)
		if err != nil {
			return MintResult{}, err
		}
	}
	span.SetAttributes(attribute.Int64("asset", int64(asset)))
	return MintResult{AssetID: asset, Confirmation: conf}, nil
}

// EscrowState returns escrow's local state in app.
func (o *Orchestrator) EscrowState(ctx context.Context, escrow basics.Address, app basics.AppIndex) (ledger.AppLocalState, error) {
	info, err := o.client.AccountInformation(ctx, escrow)
	if err != nil {
		return ledger.AppLocalState{}, serr.Extend(err, "escrow", escrow.String())
	}
	local, ok := info.AppLocal[app]
	if !ok {
		return ledger.AppLocalState{}, serr.Wrap(serr.KindConfiguration, ErrNotOptedIn, "escrow", escrow.String(), "app", uint64(app))
	}
	return local, nil
}

// AssetForEscrow returns the asset app minted for escrow.
func (o *Orchestrator) AssetForEscrow(ctx context.Context, escrow basics.Address, app basics.AppIndex) (basics.AssetIndex, error) {
	local, err := o.EscrowState(ctx, escrow, app)
	if err != nil {
		return 0, err
	}
	id, err := local.KeyValue.GetUint(KeyAssetID)
	if err != nil || id == 0 {
		return 0, serr.Wrap(serr.KindConfiguration, errors.Join(ErrNotMinted, err), "escrow", escrow.String(), "app", uint64(app))
	}
	return basics.AssetIndex(id), nil
}
