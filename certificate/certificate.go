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

// Package certificate defines the signed data an enclave issues for an
// asset: a CBOR map whose fields follow the minting application's schema,
// and an ed25519 signature binding it to that application's program.
package certificate

import (
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/serr"
)

// Field names every schema must declare as byte slices.
const (
	FieldCheckHash     = "check_hash"
	FieldLsigPkey      = "lsig_pkey"
	FieldInitiatorPkey = "initiator_pkey"
	FieldAssetID       = "asset_id"
	FieldID            = "id"
	FieldTimestamp     = "timestamp"
)

// Errors for certificate contents.
var (
	ErrBadSignature = errors.New("certificate signature does not verify")
	ErrMissingField = errors.New("certificate is missing a schema field")
	ErrFieldType    = errors.New("certificate field has the wrong type")
)

// Certificate is the encoded data and the enclave's signature over it.
type Certificate struct {
	Data      []byte           `json:"data"`
	Signature crypto.Signature `json:"signature"`
}

// Values are certificate fields before encoding: uint64 for int fields and
// []byte for byte-slice fields.
type Values map[string]interface{}

// ProgramHash is the hash the signature binds to: the approval program's
// contract address.
func ProgramHash(approval []byte) crypto.Digest {
	return crypto.Digest(transactions.Program(approval).Address())
}

// Message is what the enclave signs: "ProgData" || programHash || data.
func Message(programHash crypto.Digest, data []byte) []byte {
	msg := make([]byte, 0, len(protocol.ProgramData)+len(programHash)+len(data))
	msg = append(msg, protocol.ProgramData...)
	msg = append(msg, programHash[:]...)
	return append(msg, data...)
}

// ByteSigner signs raw messages. *account.KeyAccount is one.
type ByteSigner interface {
	SignBytes(message []byte) crypto.Signature
}

// Sign produces a certificate over data for the program with programHash.
func Sign(signer ByteSigner, programHash crypto.Digest, data []byte) Certificate {
	return Certificate{
		Data:      append([]byte(nil), data...),
		Signature: signer.SignBytes(Message(programHash, data)),
	}
}

// Verify checks the signature against the enclave key.
func (c Certificate) Verify(key crypto.PublicKey, programHash crypto.Digest) error {
	if !key.VerifyBytes(Message(programHash, c.Data), c.Signature) {
		return serr.Wrap(serr.KindConfiguration, ErrBadSignature)
	}
	return nil
}

// Encode checks values against s and returns their canonical CBOR encoding.
// Values not named by the schema are encoded as given.
func (s Schema) Encode(values Values) ([]byte, error) {
	for _, f := range s {
		v, ok := values[f.Name]
		if !ok {
			return nil, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: %s", ErrMissingField, f.Name))
		}
		if !f.Type.accepts(v) {
			return nil, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: %s is %T, want %v", ErrFieldType, f.Name, v, f.Type))
		}
	}
	data, err := protocol.EncodeCBOR(map[string]interface{}(values))
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	return data, nil
}

// Decode parses certificate data back into values.
func Decode(data []byte) (Values, error) {
	var values map[string]interface{}
	if err := protocol.DecodeCBOR(data, &values); err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	return Values(values), nil
}

// Ownership is the certificate the asset ownership flow issues.
type Ownership struct {
	CheckHash []byte
	ID        string
	Escrow    basics.Address
	Initiator basics.Address
	AssetID   []byte
	Timestamp uint64
}

// Values lays o out under the ownership schema's field names.
func (o Ownership) Values() Values {
	return Values{
		FieldCheckHash:     o.CheckHash,
		FieldID:            []byte(o.ID),
		FieldLsigPkey:      o.Escrow[:],
		FieldInitiatorPkey: o.Initiator[:],
		FieldAssetID:       o.AssetID,
		FieldTimestamp:     o.Timestamp,
	}
}
