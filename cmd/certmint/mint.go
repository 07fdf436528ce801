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
	"encoding/base64"
	"sort"

	"github.com/spf13/cobra"

	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/lifecycle"
)

var (
	certPath      string
	mintEscrow    escrowFlags
	escrowAddress string
)

func init() {
	mintCmd.Flags().Uint64Var(&appID, "app", 0, "Minting application id")
	mintCmd.Flags().StringVar(&senderFile, "sender", "", "File holding the initiator's mnemonic (defaults to $"+envSender+")")
	mintCmd.Flags().StringVar(&certPath, "certificate", "", "JSON file with the base64 certificate data and signature")
	mintEscrow.register(mintCmd)
	mintCmd.MarkFlagRequired("app")
	mintCmd.MarkFlagRequired("certificate")

	claimCmd.Flags().Uint64Var(&appID, "app", 0, "Minting application id")
	claimCmd.Flags().StringVar(&senderFile, "sender", "", "File holding the initiator's mnemonic (defaults to $"+envSender+")")
	claimCmd.Flags().StringVar(&escrowAddress, "escrow", "", "Address of the escrow holding the asset")
	claimCmd.MarkFlagRequired("app")
	claimCmd.MarkFlagRequired("escrow")

	escrowCmd.Flags().Uint64Var(&appID, "app", 0, "Minting application id")
	escrowCmd.Flags().StringVar(&escrowAddress, "escrow", "", "Address of the escrow")
	escrowCmd.MarkFlagRequired("app")
	escrowCmd.MarkFlagRequired("escrow")
}

type mintOutput struct {
	AssetID basics.AssetIndex `json:"asset_id"`
	Escrow  basics.Address    `json:"escrow"`
	Round   basics.Round      `json:"round"`
	TxID    string            `json:"txid"`
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint the asset a certificate describes into its escrow",
	Long:  "Submit the mint group: fund the application and the escrow, opt the escrow in to the application and call mint with the certificate.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			sender, err := loadSigner("sender", "sender", senderFile, envSender)
			if err != nil {
				return err
			}
			cert, err := readCertificate(certPath)
			if err != nil {
				return err
			}
			app := basics.AppIndex(appID)
			escrow, err := mintEscrow.resolve(ctx, s.rest, app)
			if err != nil {
				return err
			}
			res, err := s.orch.Mint(ctx, lifecycle.MintRequest{AppID: app, Sender: sender, Certificate: cert, Escrow: escrow})
			if err != nil {
				return err
			}
			out := mintOutput{AssetID: res.AssetID, Escrow: escrow.Address(), Round: res.Confirmation.Round, TxID: res.Confirmation.TxID.String()}
			if ok, err := reportJSON(out); ok || err != nil {
				return err
			}
			reportInfof(infoMinted, out.AssetID, out.Escrow, out.Round)
			return nil
		})
	},
}

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Move a minted asset from its escrow to the certificate's initiator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			sender, err := loadSigner("sender", "sender", senderFile, envSender)
			if err != nil {
				return err
			}
			escrow, err := parseAddress("escrow", escrowAddress)
			if err != nil {
				return err
			}
			conf, err := s.orch.Claim(ctx, basics.AppIndex(appID), sender, escrow)
			if err != nil {
				return err
			}
			reportInfof(infoClaimed, escrow, sender.Address(), conf.Round)
			return nil
		})
	},
}

type stateValue struct {
	Key   string `json:"key"`
	Bytes string `json:"bytes,omitempty"`
	Uint  uint64 `json:"uint,omitempty"`
}

type escrowOutput struct {
	Escrow  basics.Address    `json:"escrow"`
	AssetID basics.AssetIndex `json:"asset_id,omitempty"`
	State   []stateValue      `json:"state"`
}

var escrowCmd = &cobra.Command{
	Use:   "escrow",
	Short: "Show an escrow's minted asset and its local state in the minting application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			escrow, err := parseAddress("escrow", escrowAddress)
			if err != nil {
				return err
			}
			local, err := s.orch.EscrowState(ctx, escrow, basics.AppIndex(appID))
			if err != nil {
				return err
			}
			out := escrowOutput{Escrow: escrow}
			if id, err := local.KeyValue.GetUint(lifecycle.KeyAssetID); err == nil {
				out.AssetID = basics.AssetIndex(id)
			}
			for k, v := range local.KeyValue {
				sv := stateValue{Key: k}
				if v.Type == basics.TealBytesType {
					sv.Bytes = base64.StdEncoding.EncodeToString([]byte(v.Bytes))
				} else {
					sv.Uint = v.Uint
				}
				out.State = append(out.State, sv)
			}
			sort.Slice(out.State, func(i, j int) bool { return out.State[i].Key < out.State[j].Key })

			if ok, err := reportJSON(out); ok || err != nil {
				return err
			}
			if out.AssetID == 0 {
				reportWarnf("escrow %s has not minted an asset", escrow)
			} else {
				reportInfof("Escrow %s holds asset %d", escrow, out.AssetID)
			}
			for _, sv := range out.State {
				if sv.Bytes != "" {
					reportInfof("  %s: %s", sv.Key, sv.Bytes)
				} else {
					reportInfof("  %s: %d", sv.Key, sv.Uint)
				}
			}
			return nil
		})
	},
}
