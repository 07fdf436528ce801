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
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/lifecycle"
	"github.com/algorand/go-certmint/serr"
)

// loadSigner reads a 25-word mnemonic from path, or from the environment
// variable env when path is empty.
func loadSigner(role, flag, path, env string) (*account.KeyAccount, error) {
	var mnemonic string
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, serr.Wrap(serr.KindConfiguration, err, role, path)
		}
		mnemonic = string(raw)
	} else {
		mnemonic = os.Getenv(env)
	}
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" {
		return nil, serr.Configuration(fmt.Sprintf(errorNoMnemonic, role, flag, env))
	}
	acct, err := account.KeyAccountFromMnemonic(mnemonic)
	if err != nil {
		return nil, serr.Extend(err, "account", role)
	}
	return acct, nil
}

// parsePublicKey decodes a hex ed25519 public key.
func parsePublicKey(s string) (crypto.PublicKey, error) {
	var key crypto.PublicKey
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return key, serr.Wrap(serr.KindConfiguration, fmt.Errorf("public key is not hex: %w", err))
	}
	if len(raw) != len(key) {
		return key, serr.Configuration("public key has the wrong length", "bytes", len(raw), "want", len(key))
	}
	copy(key[:], raw)
	return key, nil
}

func parseHex(name, s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%s is not hex: %w", name, err))
	}
	return raw, nil
}

func parseAddress(name, s string) (basics.Address, error) {
	addr, err := basics.UnmarshalChecksumAddress(s)
	if err != nil {
		return basics.Address{}, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%s: %w", name, err))
	}
	return addr, nil
}

// certificateFile is the on-disk form of a certificate: base64 data and
// signature, as an enclave returns them.
type certificateFile struct {
	Data      []byte `json:"data"`
	Signature []byte `json:"signature"`
}

func readCertificate(path string) (certificate.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return certificate.Certificate{}, serr.Wrap(serr.KindConfiguration, err, "certificate", path)
	}
	var f certificateFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return certificate.Certificate{}, serr.Wrap(serr.KindConfiguration, err, "certificate", path)
	}
	var cert certificate.Certificate
	if len(f.Signature) != len(cert.Signature) {
		return cert, serr.Configuration("certificate signature has the wrong length", "bytes", len(f.Signature))
	}
	if len(f.Data) == 0 {
		return cert, serr.Configuration("certificate has no data", "certificate", path)
	}
	cert.Data = f.Data
	copy(cert.Signature[:], f.Signature)
	return cert, nil
}

// defaultSchema is the invoice schema deployments use unless a schema file
// is given.
func defaultSchema() certificate.Schema {
	return append(certificate.OwnershipSchema(),
		certificate.Field{Name: "risk_score", Type: certificate.Int},
		certificate.Field{Name: "value", Type: certificate.Int},
		certificate.Field{Name: "currency_code", Type: certificate.ByteSlice},
		certificate.Field{Name: "interest_rate", Type: certificate.Int},
		certificate.Field{Name: "funding_date", Type: certificate.Int},
		certificate.Field{Name: "due_date", Type: certificate.Int},
	)
}

// readSchema loads a list of {name, type} fields from a .json or .yaml file.
func readSchema(path string) (certificate.Schema, error) {
	if path == "" {
		return defaultSchema(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "schema", path)
	}
	var schema certificate.Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &schema)
	default:
		err = json.Unmarshal(raw, &schema)
	}
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "schema", path)
	}
	return schema, schema.Validate()
}

// escrowFlags locate the escrow logic signature of one certificate asset.
type escrowFlags struct {
	template string
	assetID  string
}

func (f *escrowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.template, "escrow-template", "", "TEAL template of the escrow logic signature")
	cmd.Flags().StringVar(&f.assetID, "silentdata-asset-id", "", "Certificate asset id, hex encoded")
	cmd.MarkFlagRequired("escrow-template")
	cmd.MarkFlagRequired("silentdata-asset-id")
}

func (f *escrowFlags) registerPersistent(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.template, "escrow-template", "", "TEAL template of the escrow logic signature")
	cmd.PersistentFlags().StringVar(&f.assetID, "silentdata-asset-id", "", "Certificate asset id, hex encoded")
	cmd.MarkPersistentFlagRequired("escrow-template")
	cmd.MarkPersistentFlagRequired("silentdata-asset-id")
}

// resolve compiles the escrow for the minting application app.
func (f *escrowFlags) resolve(ctx context.Context, c lifecycle.Compiler, app basics.AppIndex) (*account.LogicSigAccount, error) {
	template, err := os.ReadFile(f.template)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "template", f.template)
	}
	assetID, err := parseHex("silentdata asset id", f.assetID)
	if err != nil {
		return nil, err
	}
	return lifecycle.EscrowAccount(ctx, c, template, assetID, app)
}

// compileFile compiles the TEAL source at path.
func compileFile(ctx context.Context, c lifecycle.Compiler, path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "program", path)
	}
	program, _, err := c.Compile(ctx, src)
	if err != nil {
		return nil, serr.Extend(err, "program", path)
	}
	return program, nil
}
