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
	"github.com/spf13/cobra"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
)

var (
	accountCount   int
	accountFunding algosValue
	mnemonicFile   string
)

func init() {
	accountCmd.AddCommand(newAccountCmd)
	accountCmd.AddCommand(addressCmd)

	newAccountCmd.Flags().IntVarP(&accountCount, "count", "n", 1, "Number of accounts to create")
	newAccountCmd.Flags().Var(&accountFunding, "amount", "Algos to fund each account with (defaults to the config's account_pool_funding)")

	addressCmd.Flags().StringVar(&mnemonicFile, "mnemonic", "", "File holding the mnemonic (defaults to $"+envSender+")")
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create funded accounts and inspect mnemonics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

type accountOutput struct {
	Address  basics.Address `json:"address"`
	Mnemonic string         `json:"mnemonic,omitempty"`
	Funding  string         `json:"funding_algos,omitempty"`
}

var newAccountCmd = &cobra.Command{
	Use:   "new",
	Short: "Create accounts funded from the kmd wallet",
	Long:  "Generate fresh accounts and fund them in one group from the accounts of the configured kmd wallet. Intended for private networks.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if accountCount < 1 {
			return serr.Configuration("--count must be at least 1", "count", accountCount)
		}
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			batch := accountCount
			if batch > config.Consensus.MaxTxGroupSize {
				batch = config.Consensus.MaxTxGroupSize
			}
			if accountFunding != 0 {
				s.cfg.AccountPoolFunding = uint64(accountFunding)
			}
			pool, err := s.accountPool(ctx, batch)
			if err != nil {
				return err
			}
			var out []accountOutput
			for i := 0; i < accountCount; i++ {
				a, err := pool.Take(ctx)
				if err != nil {
					return err
				}
				m, err := a.Mnemonic()
				if err != nil {
					return err
				}
				out = append(out, accountOutput{Address: a.Address(), Mnemonic: m, Funding: formatAlgos(s.cfg.AccountPoolFunding)})
			}
			if ok, err := reportJSON(out); ok || err != nil {
				return err
			}
			for _, a := range out {
				reportInfof(infoAccountNew, a.Address, a.Funding)
				reportInfof(infoAccountMnemonic, a.Mnemonic)
			}
			return nil
		})
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of a mnemonic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := loadSigner("account", "mnemonic", mnemonicFile, envSender)
		if err != nil {
			return err
		}
		if ok, err := reportJSON(accountOutput{Address: acct.Address()}); ok || err != nil {
			return err
		}
		reportInfof("%s", acct.Address())
		return nil
	},
}
