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

package partitiontest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignedPartitionStable(t *testing.T) {
	a := assignedPartition("x.go", "TestA", 4)
	require.Equal(t, a, assignedPartition("x.go", "TestA", 4))
	require.GreaterOrEqual(t, a, 0)
	require.Less(t, a, 4)
}

func TestPartitionTestNoEnv(t *testing.T) {
	t.Setenv(totalEnv, "")
	PartitionTest(t)
}

func TestPartitionTestSkipsOtherPartitions(t *testing.T) {
	t.Setenv(totalEnv, "1")
	t.Setenv(idEnv, "0")
	// with a single partition every test is assigned to partition 0
	PartitionTest(t)
}
