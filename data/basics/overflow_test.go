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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/test/partitiontest"
)

func TestOverflow(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, overflowed := OAdd(uint64(math.MaxUint64), 1)
	require.True(t, overflowed)
	_, overflowed = OSub(uint64(0), 1)
	require.True(t, overflowed)
	_, overflowed = OMul(uint64(1<<32), 1<<32)
	require.True(t, overflowed)

	require.Equal(t, uint64(math.MaxUint64), AddSaturate(uint64(math.MaxUint64), 5))
	require.Equal(t, uint64(math.MaxUint64), MulSaturate(uint64(1<<63), 4))
	require.Equal(t, uint64(0), SubSaturate(uint64(3), 5))
	require.Equal(t, uint64(2), SubSaturate(uint64(5), 3))
}

func TestSaturateSmallTypes(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, uint8(255), AddSaturate(uint8(200), 100))
	require.Equal(t, uint8(255), MulSaturate(uint8(16), 16))
	require.Equal(t, uint8(225), MulSaturate(uint8(15), 15))
	require.Equal(t, uint16(0), SubSaturate(uint16(1), 2))

	prod, over := OMul(uint32(0), math.MaxUint32)
	require.False(t, over)
	require.Zero(t, prod)
}
