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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/lifecycle"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util"
)

var (
	approvalFile    string
	clearFile       string
	creatorFile     string
	generateCreator bool
	enclaveKeyHex   string
	checkHashHex    string
	schemaFile      string
	dryRun          bool
	recordDir       string

	appID      uint64
	senderFile string
	newKeyHex  string
)

func init() {
	deployCmd.Flags().StringVar(&approvalFile, "approval", "", "TEAL source of the approval program")
	deployCmd.Flags().StringVar(&clearFile, "clear", "", "TEAL source of the clear state program")
	deployCmd.Flags().StringVar(&creatorFile, "creator", "", "File holding the creator's mnemonic (defaults to $"+envCreator+")")
	deployCmd.Flags().BoolVar(&generateCreator, "generate-creator", false, "Create the creator from the kmd-funded account pool")
	deployCmd.Flags().StringVar(&enclaveKeyHex, "enclave-public-key", "", "Hex ed25519 key certificates are signed with (defaults to $"+envEnclaveKey+")")
	deployCmd.Flags().StringVar(&checkHashHex, "check-hash", "", "Hex check hash every certificate must carry (defaults to the config's asset_check_hash)")
	deployCmd.Flags().StringVar(&schemaFile, "schema", "", "JSON or YAML list of certificate fields (defaults to the invoice schema)")
	deployCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compile and validate everything but do not create the application")
	deployCmd.Flags().StringVar(&recordDir, "record-dir", "", "Directory for the deployment record (defaults to the data directory)")
	deployCmd.MarkFlagRequired("approval")
	deployCmd.MarkFlagRequired("clear")

	setKeyCmd.Flags().Uint64Var(&appID, "app", 0, "Minting application id")
	setKeyCmd.Flags().StringVar(&senderFile, "creator", "", "File holding the creator's mnemonic (defaults to $"+envCreator+")")
	setKeyCmd.Flags().StringVar(&newKeyHex, "key", "", "Hex ed25519 key to check certificates against from now on")
	setKeyCmd.MarkFlagRequired("app")
	setKeyCmd.MarkFlagRequired("key")
}

type creatorRecord struct {
	Address     basics.Address `json:"address"`
	IsGenerated bool           `json:"is_generated"`
	Mnemonic    string         `json:"mnemonic,omitempty"`
}

// deploymentRecord is written next to the journal after every deploy,
// dry runs included.
type deploymentRecord struct {
	Timestamp        int64              `json:"timestamp"`
	Algod            string             `json:"algod"`
	Creator          creatorRecord      `json:"creator"`
	EnclavePublicKey string             `json:"enclave_public_key"`
	CheckHash        string             `json:"check_hash"`
	Schema           certificate.Schema `json:"schema"`
	DryRun           bool               `json:"dry_run,omitempty"`
	AppID            basics.AppIndex    `json:"app_id,omitempty"`
	AppAddress       *basics.Address    `json:"app_address,omitempty"`
	ProgramHash      string             `json:"program_hash,omitempty"`
}

func (r deploymentRecord) filename() string {
	name := fmt.Sprintf("%s%d", deploymentPrefix, r.Timestamp)
	if r.DryRun {
		name += "_dry-run"
	}
	return name + ".json"
}

func writeRecord(dir string, r deploymentRecord) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.filename())
	return path, util.WriteFileAtomic(path, data, 0600)
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create a minting application",
	Long:  "Compile the approval and clear programs, create the minting application with the enclave key, check hash and certificate schema, and write a deployment record.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if creatorFile != "" && generateCreator {
			return serr.Configuration(errorBothCreators)
		}
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			rec := deploymentRecord{Timestamp: time.Now().UnixMilli(), Algod: s.cfg.AlgodAddress, DryRun: dryRun}

			if enclaveKeyHex == "" {
				enclaveKeyHex = os.Getenv(envEnclaveKey)
			}
			key, err := parsePublicKey(enclaveKeyHex)
			if err != nil {
				return serr.Extend(err, "flag", "enclave-public-key")
			}
			rec.EnclavePublicKey = hex.EncodeToString(key[:])

			if checkHashHex == "" {
				checkHashHex = s.cfg.AssetCheckHash
			}
			checkHash, err := parseHex("check hash", checkHashHex)
			if err != nil {
				return err
			}
			rec.CheckHash = hex.EncodeToString(checkHash)

			if rec.Schema, err = readSchema(schemaFile); err != nil {
				return err
			}

			approval, err := compileFile(ctx, s.rest, approvalFile)
			if err != nil {
				return err
			}
			clearProg, err := compileFile(ctx, s.rest, clearFile)
			if err != nil {
				return err
			}

			var creator *account.KeyAccount
			switch {
			case generateCreator && dryRun:
				creator = account.GenerateKeyAccount()
			case generateCreator:
				pool, err := s.accountPool(ctx, 1)
				if err != nil {
					return err
				}
				if creator, err = pool.Take(ctx); err != nil {
					return err
				}
			default:
				if creator, err = loadSigner("creator", "creator", creatorFile, envCreator); err != nil {
					return err
				}
			}
			rec.Creator = creatorRecord{Address: creator.Address(), IsGenerated: generateCreator}
			if generateCreator {
				if rec.Creator.Mnemonic, err = creator.Mnemonic(); err != nil {
					return err
				}
			}

			if dryRun {
				reportInfof(infoDryRun)
			} else {
				meta, err := s.orch.Deploy(ctx, creator, lifecycle.DeployRequest{
					Approval:   approval,
					Clear:      clearProg,
					SigningKey: key,
					CheckHash:  checkHash,
					Schema:     rec.Schema,
				})
				if err != nil {
					return err
				}
				rec.AppID = meta.AppID
				rec.AppAddress = &meta.Address
				rec.ProgramHash = hex.EncodeToString(meta.ProgramHash[:])
				reportInfof(infoDeployed, meta.AppID, rec.ProgramHash, meta.Address)
			}

			dir := recordDir
			if dir == "" {
				dir = s.dir
			}
			path, err := writeRecord(dir, rec)
			if err != nil {
				return err
			}
			reportInfof(infoDeploymentFile, path)
			_, err = reportJSON(rec)
			return err
		})
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Rotate the enclave key of a minting application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withSession(ctx, func(s *session) error {
			key, err := parsePublicKey(newKeyHex)
			if err != nil {
				return serr.Extend(err, "flag", "key")
			}
			creator, err := loadSigner("creator", "creator", senderFile, envCreator)
			if err != nil {
				return err
			}
			app := basics.AppIndex(appID)
			if err := s.orch.SetSigningKey(ctx, creator, app, key); err != nil {
				return err
			}
			reportInfof(infoKeyRotated, app, hex.EncodeToString(key[:]))
			return nil
		})
	},
}
