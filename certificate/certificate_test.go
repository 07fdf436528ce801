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

package certificate

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/test/partitiontest"
)

var approval = []byte{0x06, 0x81, 0x01, 0x43}

func ownership(t *testing.T) Ownership {
	assetID, err := hex.DecodeString("f3186dc2a5fb61baf41f629c256107e7")
	require.NoError(t, err)
	return Ownership{
		CheckHash: []byte("check"),
		ID:        "123e4567-e89b-12d3-a456-426614174000",
		Escrow:    basics.Address(crypto.Hash([]byte("escrow"))),
		Initiator: basics.Address(crypto.Hash([]byte("initiator"))),
		AssetID:   assetID,
		Timestamp: 1652287366,
	}
}

func TestSignVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	enclave := account.KeyAccountFromSeed(crypto.Seed{})
	data, err := OwnershipSchema().Encode(ownership(t).Values())
	require.NoError(t, err)

	ph := ProgramHash(approval)
	cert := Sign(enclave, ph, data)
	require.NoError(t, cert.Verify(enclave.PublicKey(), ph))

	// bound to the program
	err = cert.Verify(enclave.PublicKey(), ProgramHash([]byte{0x06, 0x81, 0x00}))
	require.ErrorIs(t, err, ErrBadSignature)

	// bound to the key
	err = cert.Verify(account.GenerateKeyAccount().PublicKey(), ph)
	require.ErrorIs(t, err, ErrBadSignature)

	tampered := cert
	tampered.Data = append([]byte(nil), cert.Data...)
	tampered.Data[len(tampered.Data)-1] ^= 1
	require.ErrorIs(t, tampered.Verify(enclave.PublicKey(), ph), ErrBadSignature)
}

func TestMessageLayout(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	ph := ProgramHash(approval)
	msg := Message(ph, []byte{1, 2})
	require.Equal(t, "ProgData", string(msg[:8]))
	require.Equal(t, ph[:], msg[8:40])
	require.Equal(t, []byte{1, 2}, msg[40:])
}

func TestEncodeDecode(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	o := ownership(t)
	data, err := OwnershipSchema().Encode(o.Values())
	require.NoError(t, err)

	again, err := OwnershipSchema().Encode(o.Values())
	require.NoError(t, err)
	require.Equal(t, data, again, "encoding is canonical")

	values, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, uint64(1652287366), values[FieldTimestamp])
	require.Equal(t, []byte(o.ID), values[FieldID])
	require.Equal(t, o.Escrow[:], values[FieldLsigPkey])
}

func TestEncodeChecksSchema(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	values := ownership(t).Values()
	delete(values, FieldAssetID)
	_, err := OwnershipSchema().Encode(values)
	require.ErrorIs(t, err, ErrMissingField)
	require.Equal(t, serr.KindConfiguration, serr.KindOf(err))

	values = ownership(t).Values()
	values[FieldTimestamp] = []byte("soon")
	_, err = OwnershipSchema().Encode(values)
	require.ErrorIs(t, err, ErrFieldType)
}

func TestSchema(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	s := OwnershipSchema()
	require.NoError(t, s.Validate())
	require.Equal(t, basics.StateSchema{NumUint: 2, NumByteSlice: 5}, s.LocalSchema())
	require.Equal(t, basics.StateSchema{NumUint: 7, NumByteSlice: 2}, s.GlobalSchema())

	args := s.Args()
	require.Equal(t, []byte("bcheck_hash"), args[0])
	require.Equal(t, []byte("itimestamp"), args[5])

	bad := []Schema{
		{{Name: FieldCheckHash, Type: ByteSlice}},
		append(OwnershipSchema(), Field{Name: FieldID, Type: ByteSlice}),
		append(OwnershipSchema(), Field{Name: "", Type: Int}),
		append(OwnershipSchema(), Field{Name: "x", Type: FieldType(9)}),
		append(Schema{{Name: FieldCheckHash, Type: Int}}, OwnershipSchema()[1:]...),
	}
	for _, s := range bad {
		err := s.Validate()
		require.Error(t, err)
		require.Equal(t, serr.KindConfiguration, serr.KindOf(err))
	}
}

func TestFieldTypes(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	for _, name := range []string{"int", "byte-slice", "bytes"} {
		_, err := ParseFieldType(name)
		require.NoError(t, err)
	}
	_, err := ParseFieldType("string")
	require.ErrorIs(t, err, ErrUnknownFieldType)

	var ft FieldType
	require.NoError(t, ft.UnmarshalText([]byte("int")))
	require.Equal(t, Int, ft)
	text, err := ByteSlice.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "byte-slice", string(text))

	ft, err = FieldTypeFromCode('b')
	require.NoError(t, err)
	require.Equal(t, ByteSlice, ft)
	_, err = FieldTypeFromCode('x')
	require.Error(t, err)
}
