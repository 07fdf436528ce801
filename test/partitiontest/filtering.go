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

// Package partitiontest splits a package's tests across CI runners.
// Each runner sets PARTITION_TOTAL and its own PARTITION_ID; a test runs on
// exactly one runner, chosen by hashing its source file and name.
package partitiontest

import (
	"hash/fnv"
	"os"
	"runtime"
	"strconv"
	"testing"
)

const (
	totalEnv = "PARTITION_TOTAL"
	idEnv    = "PARTITION_ID"
)

// PartitionTest checks if the current partition should run this test, and skips it if not.
func PartitionTest(t testing.TB) {
	t.Helper()
	total, ok := envInt(totalEnv)
	if !ok || total <= 0 {
		return
	}
	id, ok := envInt(idEnv)
	if !ok {
		return
	}
	_, file, _, _ := runtime.Caller(1)
	if idx := assignedPartition(file, t.Name(), total); idx != id {
		t.Skipf("skipping due to partitioning, assigned to partition %d", idx)
	}
}

func assignedPartition(file, name string, total int) int {
	h := fnv.New64a()
	h.Write([]byte(file + ":" + name))
	return int(h.Sum64() % uint64(total))
}

func envInt(name string) (int, bool) {
	v, found := os.LookupEnv(name)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
