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

	"go.opentelemetry.io/otel/attribute"

	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
)

// permissionGroup is the opt-in layout: the permission call paying for
// itself, the top-up paying for the escrow's opt-in, then the opt-in.
func permissionGroup(feePayer account.Signer, escrow *account.LogicSigAccount, mintApp basics.AppIndex, asset basics.AssetIndex, topUp uint64, optIn txgroup.Intent) []txgroup.Intent {
	perm := txgroup.AppCall(feePayer.Address(), mintApp, []byte(methodPermission))
	perm.Accounts = []basics.Address{escrow.Address()}
	if asset != 0 {
		perm.ForeignAssets = []basics.AssetIndex{asset}
	}
	return []txgroup.Intent{
		{Txn: perm, Signer: feePayer, Fee: txgroup.FeeSelf},
		{Txn: txgroup.Payment(feePayer.Address(), escrow.Address(), topUp), Signer: feePayer, Fee: txgroup.FeePool},
		optIn,
	}
}

// OptIntoAsset opts escrow in to asset with the minting application's
// permission. feePayer funds the escrow's new balance floor and every fee.
func (o *Orchestrator) OptIntoAsset(ctx context.Context, escrow *account.LogicSigAccount, app basics.AppIndex, asset basics.AssetIndex, feePayer account.Signer) (conf confirm.Confirmation, err error) {
	ctx, _, end := o.startSpan(ctx, WorkflowOptInAsset,
		attribute.Int64("app", int64(app)),
		attribute.Int64("asset", int64(asset)),
		attribute.String("escrow", escrow.Address().String()))
	defer end(&err)

	if err := checkApps("app", app); err != nil {
		return confirm.Confirmation{}, err
	}
	if asset == 0 {
		return confirm.Confirmation{}, serr.Wrap(serr.KindConfiguration, ErrZeroAsset)
	}
	info, err := o.client.AccountInformation(ctx, escrow.Address())
	if err != nil {
		return confirm.Confirmation{}, serr.Extend(err, "escrow", escrow.Address().String())
	}
	if info.HoldsAsset(asset) {
		return confirm.Confirmation{}, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: asset %d", ErrAlreadyOptedIn, asset))
	}
	topUp, err := o.balances.RequiredTopUp(ctx, escrow.Address(), o.balances.AssetOptInFloorDelta())
	if err != nil {
		return confirm.Confirmation{}, err
	}
	optIn := txgroup.Intent{Txn: txgroup.AssetOptIn(escrow.Address(), asset), Signer: escrow}
	conf, err = o.execute(ctx, WorkflowOptInAsset, permissionGroup(feePayer, escrow, app, asset, topUp, optIn), 2)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	o.metrics.toppedUp(WorkflowOptInAsset, topUp)
	return conf, nil
}

// OptIntoOwnAsset opts escrow in to the asset app minted for it.
func (o *Orchestrator) OptIntoOwnAsset(ctx context.Context, escrow *account.LogicSigAccount, app basics.AppIndex, feePayer account.Signer) (confirm.Confirmation, error) {
	if err := checkApps("app", app); err != nil {
		return confirm.Confirmation{}, err
	}
	asset, err := o.AssetForEscrow(ctx, escrow.Address(), app)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	return o.OptIntoAsset(ctx, escrow, app, asset, feePayer)
}

// OptIntoApplication opts escrow in to app with the permission of mintApp.
// When escrow already holds a minted asset it is passed to the permission call.
func (o *Orchestrator) OptIntoApplication(ctx context.Context, escrow *account.LogicSigAccount, mintApp, app basics.AppIndex, feePayer account.Signer) (conf confirm.Confirmation, err error) {
	ctx, _, end := o.startSpan(ctx, WorkflowOptInApp,
		attribute.Int64("mint_app", int64(mintApp)),
		attribute.Int64("app", int64(app)),
		attribute.String("escrow", escrow.Address().String()))
	defer end(&err)

	if err := checkApps("mint_app", mintApp, "app", app); err != nil {
		return confirm.Confirmation{}, err
	}
	info, err := o.client.AccountInformation(ctx, escrow.Address())
	if err != nil {
		return confirm.Confirmation{}, serr.Extend(err, "escrow", escrow.Address().String())
	}
	if info.OptedIn(app) {
		return confirm.Confirmation{}, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: app %d", ErrAlreadyOptedIn, app))
	}
	var asset basics.AssetIndex
	if local, ok := info.AppLocal[mintApp]; ok {
		if id, err := local.KeyValue.GetUint(KeyAssetID); err == nil {
			asset = basics.AssetIndex(id)
		}
	}

	delta, err := o.balances.ApplicationOptInFloorDelta(ctx, app)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	topUp, err := o.balances.RequiredTopUp(ctx, escrow.Address(), delta)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	optIn := txgroup.Intent{Txn: txgroup.AppOptIn(escrow.Address(), app), Signer: escrow}
	conf, err = o.execute(ctx, WorkflowOptInApp, permissionGroup(feePayer, escrow, mintApp, asset, topUp, optIn), 2)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	o.metrics.toppedUp(WorkflowOptInApp, topUp)
	return conf, nil
}

// Claim moves the escrow's asset to sender, the certificate's initiator.
// sender opts in to the asset in the same group.
func (o *Orchestrator) Claim(ctx context.Context, app basics.AppIndex, sender account.Signer, escrow basics.Address) (conf confirm.Confirmation, err error) {
	ctx, _, end := o.startSpan(ctx, WorkflowClaim,
		attribute.Int64("app", int64(app)),
		attribute.String("escrow", escrow.String()))
	defer end(&err)

	if err := checkApps("app", app); err != nil {
		return confirm.Confirmation{}, err
	}
	if sender == nil {
		return confirm.Confirmation{}, serr.Wrap(serr.KindConfiguration, ErrMissingSigner, "workflow", WorkflowClaim)
	}
	asset, err := o.AssetForEscrow(ctx, escrow, app)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	claim := txgroup.AppCall(sender.Address(), app, []byte(methodClaim))
	claim.Accounts = []basics.Address{escrow}
	claim.ForeignAssets = []basics.AssetIndex{asset}
	return o.execute(ctx, WorkflowClaim, []txgroup.Intent{
		{Txn: txgroup.AssetOptIn(sender.Address(), asset), Signer: sender},
		{Txn: claim, Signer: sender, Fee: txgroup.FeePool, InnerTxns: o.cfg.ClaimInnerTxns},
	}, 1)
}
