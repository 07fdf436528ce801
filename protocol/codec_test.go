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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/test/partitiontest"
)

type TestStruct struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`
	A       int      `codec:",omitempty"`
	B       struct {
		B1 bool
		B2 string
	}
	C []byte
	H HelperStruct
}

type HelperStruct struct {
	J byte
	K string
}

func TestOmitEmpty(t *testing.T) {
	partitiontest.PartitionTest(t)

	var x TestStruct
	enc := EncodeReflect(&x)
	require.Equal(t, 1, len(enc))
}

func TestEncodeOrder(t *testing.T) {
	partitiontest.PartitionTest(t)

	var c struct {
		A int    `codec:"x"`
		B string `codec:"y"`
	}
	c.A = 1
	c.B = "foo"

	var d struct {
		A string `codec:"y"`
		B int    `codec:"x"`
	}
	d.B = 1
	d.A = "foo"

	require.Equal(t, EncodeReflect(&c), EncodeReflect(&d))
}

type embeddedType struct {
	TxType
	A uint64
}

func TestEncodeEmbedded(t *testing.T) {
	partitiontest.PartitionTest(t)

	var x embeddedType
	x.TxType = ApplicationCallTx
	x.A = 5

	require.Equal(t, Encode(x), Encode(&x))
	require.NotEqual(t, Encode(&x), Encode(&x.TxType))

	var y embeddedType
	require.NoError(t, Decode(Encode(&x), &y))
	require.Equal(t, x, y)
}

func TestCBORCanonicalMapOrder(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := map[string]interface{}{"id": "abc", "timestamp": uint64(7), "check_hash": []byte{1}}
	b := map[string]interface{}{"check_hash": []byte{1}, "timestamp": uint64(7), "id": "abc"}

	ea, err := EncodeCBOR(a)
	require.NoError(t, err)
	eb, err := EncodeCBOR(b)
	require.NoError(t, err)
	require.Equal(t, ea, eb)

	var back map[string]interface{}
	require.NoError(t, DecodeCBOR(ea, &back))
	require.Len(t, back, 3)
}

func TestEncodeJSON(t *testing.T) {
	partitiontest.PartitionTest(t)

	type mp struct {
		Name  string `codec:"name"`
		Count uint64 `codec:"count"`
	}
	v := mp{Name: "mint", Count: 12}

	var back mp
	require.NoError(t, DecodeJSON(EncodeJSON(&v), &back))
	require.Equal(t, v, back)
}
