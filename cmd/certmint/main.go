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

// certmint deploys minting applications and runs the certificate-bound
// asset workflows against an algod node.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	metricsFile string
	output      = makeChoiceValue("text", "json")
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "datadir", "d", "", "Data directory holding the journal, logs and lock file (defaults to $"+envDataDir+")")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (.json, .yaml or .toml); defaults to config.json in the data directory")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write workflow metrics in the Prometheus text format to this file on exit")
	rootCmd.PersistentFlags().VarP(output, "output", "o", "Output format: "+output.AllowedString())

	// deploy.go
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(setKeyCmd)

	// mint.go
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(escrowCmd)

	// optin.go
	rootCmd.AddCommand(optinCmd)

	// status.go
	rootCmd.AddCommand(statusCmd)

	// account.go
	rootCmd.AddCommand(accountCmd)
}

var rootCmd = &cobra.Command{
	Use:   "certmint",
	Short: "Issue certificate-bound assets on Algorand",
	Long: `certmint deploys a minting application, mints assets whose ownership is certified by an enclave, ` +
		`opts escrows into assets and applications and lets certificate holders claim them. ` +
		`Every submitted group is recorded in a journal in the data directory so that unconfirmed work can be re-checked with "certmint status".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(exitCode(err))
	}
}
