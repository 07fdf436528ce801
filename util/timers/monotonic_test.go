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

package timers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/test/partitiontest"
)

func polled(ch <-chan time.Time) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestMonotonicDelta(t *testing.T) {
	partitiontest.PartitionTest(t)

	var m Monotonic
	d := time.Millisecond * 100

	c := m.Zero()
	ch := c.TimeoutAt(d)
	require.False(t, polled(ch), "channel fired ~100ms early")

	<-time.After(d * 2)
	require.True(t, polled(ch), "channel failed to fire at 100ms")
	require.GreaterOrEqual(t, c.Since(), d)

	ch = c.TimeoutAt(d / 2)
	require.True(t, polled(ch), "channel failed to fire at 50ms")
}

func TestMonotonicZeroDelta(t *testing.T) {
	partitiontest.PartitionTest(t)

	var m Monotonic
	require.True(t, polled(m.Zero().TimeoutAt(0)))
	require.True(t, polled(m.Zero().TimeoutAt(-time.Second)))
}

func TestFrozenNeverFires(t *testing.T) {
	partitiontest.PartitionTest(t)

	c := MakeFrozenClock().Zero()
	require.False(t, polled(c.TimeoutAt(0)))
	require.Zero(t, c.Since())
}

func TestRecordingClock(t *testing.T) {
	partitiontest.PartitionTest(t)

	r := MakeRecordingClock()
	require.True(t, polled(r.Zero().TimeoutAt(time.Second)))
	require.True(t, polled(r.Zero().TimeoutAt(2*time.Second)))
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, r.Deltas())
	require.Zero(t, r.Since())
}
