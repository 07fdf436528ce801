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

// Package minbalance computes how much an account must be paid so that it
// stays above its minimum balance after taking on more ledger state.
package minbalance

import (
	"context"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/serr"
)

// TopUp returns the payment that brings balance up to floor plus delta, or
// zero when the balance already covers it.
func TopUp(balance, floor, delta uint64) uint64 {
	return basics.SubSaturate(basics.AddSaturate(floor, delta), balance)
}

// Calculator reads balances and schemas from a node.
type Calculator struct {
	client ledger.Client
	proto  config.ConsensusParams
}

// New returns a Calculator using the current consensus parameters.
func New(client ledger.Client) *Calculator {
	return &Calculator{client: client, proto: config.Consensus}
}

// WithConsensus returns a copy of c using proto instead.
func (c *Calculator) WithConsensus(proto config.ConsensusParams) *Calculator {
	cp := *c
	cp.proto = proto
	return &cp
}

// RequiredTopUp is TopUp over addr's current balance and floor.
func (c *Calculator) RequiredTopUp(ctx context.Context, addr basics.Address, delta uint64) (uint64, error) {
	info, err := c.client.AccountInformation(ctx, addr)
	if err != nil {
		return 0, serr.Extend(err, "account", addr.String())
	}
	return TopUp(info.Amount.Raw, info.MinBalance.Raw, delta), nil
}

// ApplicationOptInFloorDelta is how much an account's floor rises when it
// opts in to app.
func (c *Calculator) ApplicationOptInFloorDelta(ctx context.Context, app basics.AppIndex) (uint64, error) {
	info, err := c.client.ApplicationInformation(ctx, app)
	if err != nil {
		return 0, serr.Extend(err, "app", uint64(app))
	}
	return c.proto.AppOptInMinBalance(info.LocalSchema).Raw, nil
}

// ApplicationCreationFloorDelta is how much the creator's floor rose when
// it created app.
func (c *Calculator) ApplicationCreationFloorDelta(ctx context.Context, app basics.AppIndex) (uint64, error) {
	info, err := c.client.ApplicationInformation(ctx, app)
	if err != nil {
		return 0, serr.Extend(err, "app", uint64(app))
	}
	return c.proto.AppCreationMinBalance(info.GlobalSchema).Raw, nil
}

// AssetOptInFloorDelta is how much an account's floor rises per held asset.
func (c *Calculator) AssetOptInFloorDelta() uint64 {
	return c.proto.MinBalance
}
