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

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/lifecycle"
)

var (
	optinEscrow escrowFlags
	payerFile   string
	assetID     uint64
	targetApp   uint64
)

func init() {
	optinCmd.PersistentFlags().Uint64Var(&appID, "app", 0, "Minting application id")
	optinCmd.PersistentFlags().StringVar(&payerFile, "payer", "", "File holding the fee payer's mnemonic (defaults to $"+envSender+")")
	optinCmd.MarkPersistentFlagRequired("app")
	optinEscrow.registerPersistent(optinCmd)

	optinAssetCmd.Flags().Uint64Var(&assetID, "asset", 0, "Asset to opt the escrow in to")
	optinAssetCmd.MarkFlagRequired("asset")
	optinAppCmd.Flags().Uint64Var(&targetApp, "target-app", 0, "Application to opt the escrow in to")
	optinAppCmd.MarkFlagRequired("target-app")

	optinCmd.AddCommand(optinAssetCmd)
	optinCmd.AddCommand(optinOwnCmd)
	optinCmd.AddCommand(optinAppCmd)
}

var optinCmd = &cobra.Command{
	Use:   "optin",
	Short: "Opt an escrow in to an asset or application with the minting application's permission",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// runOptIn resolves the payer and escrow, then runs fn.
func runOptIn(cmd *cobra.Command, fn func(s *session, escrow *account.LogicSigAccount, payer account.Signer) (confirm.Confirmation, error)) error {
	ctx := cmd.Context()
	return withSession(ctx, func(s *session) error {
		payer, err := loadSigner("payer", "payer", payerFile, envSender)
		if err != nil {
			return err
		}
		lsig, err := optinEscrow.resolve(ctx, s.rest, basics.AppIndex(appID))
		if err != nil {
			return err
		}
		conf, err := fn(s, lsig, payer)
		if errors.Is(err, lifecycle.ErrAlreadyOptedIn) {
			reportWarnf("%v", err)
			return nil
		}
		if err != nil {
			return err
		}
		reportInfof(infoOptedIn, lsig.Address(), conf.Round)
		return nil
	})
}

var optinAssetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Opt the escrow in to an asset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptIn(cmd, func(s *session, escrow *account.LogicSigAccount, payer account.Signer) (confirm.Confirmation, error) {
			return s.orch.OptIntoAsset(cmd.Context(), escrow, basics.AppIndex(appID), basics.AssetIndex(assetID), payer)
		})
	},
}

var optinOwnCmd = &cobra.Command{
	Use:   "own",
	Short: "Opt the escrow in to the asset it minted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptIn(cmd, func(s *session, escrow *account.LogicSigAccount, payer account.Signer) (confirm.Confirmation, error) {
			return s.orch.OptIntoOwnAsset(cmd.Context(), escrow, basics.AppIndex(appID), payer)
		})
	},
}

var optinAppCmd = &cobra.Command{
	Use:   "app",
	Short: "Opt the escrow in to another application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOptIn(cmd, func(s *session, escrow *account.LogicSigAccount, payer account.Signer) (confirm.Confirmation, error) {
			return s.orch.OptIntoApplication(cmd.Context(), escrow, basics.AppIndex(appID), basics.AppIndex(targetApp), payer)
		})
	},
}
