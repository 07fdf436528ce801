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

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/protocol"
	"github.com/algorand/go-certmint/test/partitiontest"
)

type testHashable struct {
	data []byte
}

func (t testHashable) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.TestHashable, t.data
}

func TestSignVerify(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	var seed Seed
	RandBytes(seed[:])
	s := GenerateSignatureSecrets(seed)

	msg := testHashable{data: []byte("certificate")}
	sig := s.Sign(msg)
	require.True(t, s.SignatureVerifier.Verify(msg, sig))
	require.False(t, s.SignatureVerifier.Verify(testHashable{data: []byte("other")}, sig))

	sig[0] ^= 1
	require.False(t, s.SignatureVerifier.Verify(msg, sig))
}

func TestSignDeterministic(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	var seed Seed
	a := GenerateSignatureSecrets(seed)
	b := GenerateSignatureSecrets(seed)
	require.Equal(t, a.SignatureVerifier, b.SignatureVerifier)
	require.Equal(t, a.SignBytes([]byte("x")), b.SignBytes([]byte("x")))
	require.Equal(t, seed, a.Seed())
}

func TestSecretsFromPrivateKey(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	s := GenerateRandomSignatureSecrets()
	back, err := SecretsFromPrivateKey(s.SK[:])
	require.NoError(t, err)
	require.Equal(t, s.SignatureVerifier, back.SignatureVerifier)

	_, err = SecretsFromPrivateKey(s.SK[:10])
	require.ErrorIs(t, err, errWrongPrivateKeyLen)
}

func TestSmallOrderKeysRejected(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	for _, p := range smallOrderPoints {
		require.True(t, hasSmallOrder(p))
		var sig Signature
		require.False(t, SignatureVerifier(p).VerifyBytes([]byte("msg"), sig))
	}
	require.False(t, isCanonicalPoint(negZeroOne))
}

func TestDigestString(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	d := Hash([]byte("Program"))
	back, err := DigestFromString(d.String())
	require.NoError(t, err)
	require.Equal(t, d, back)
	require.False(t, d.IsZero())

	_, err = DigestFromString("AAAA")
	require.Error(t, err)
}
