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

package basics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/test/partitiontest"
)

func TestChecksumAddress_Unmarshal(t *testing.T) {
	partitiontest.PartitionTest(t)

	address := crypto.Hash([]byte("randomString"))
	shortAddress := Address(address)

	addr, err := UnmarshalChecksumAddress(shortAddress.String())
	require.NoError(t, err)
	require.Equal(t, addr, shortAddress)
}

func TestAddressChecksumMalformed(t *testing.T) {
	partitiontest.PartitionTest(t)

	shortAddress := Address(crypto.Hash([]byte("randomString")))
	for _, s := range []string{
		"",
		shortAddress.String() + "r",
		shortAddress.String() + " ",
		"4" + shortAddress.String(),
		" " + shortAddress.String(),
		shortAddress.String()[:40],
	} {
		_, err := UnmarshalChecksumAddress(s)
		require.Error(t, err, s)
	}
}

func TestAddressTextRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	a := Address(crypto.Hash([]byte("x")))
	text, err := a.MarshalText()
	require.NoError(t, err)

	var b Address
	require.NoError(t, b.UnmarshalText(text))
	require.Equal(t, a, b)
	require.False(t, b.IsZero())
	require.True(t, Address{}.IsZero())
}

func TestAppIndexAddress(t *testing.T) {
	partitiontest.PartitionTest(t)

	app := AppIndex(77)
	expected := crypto.Hash(append([]byte(protocol.AppIndex), 0, 0, 0, 0, 0, 0, 0, 77))
	require.Equal(t, Address(expected), app.Address())
	require.NotEqual(t, app.Address(), AppIndex(78).Address())
}

func TestMicroAlgosEncodesAsInt(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, protocol.Encode(uint64(1000)), protocol.Encode(MicroAlgos{Raw: 1000}))

	var back MicroAlgos
	require.NoError(t, protocol.Decode(protocol.Encode(MicroAlgos{Raw: 17000}), &back))
	require.Equal(t, uint64(17000), back.Raw)
}
