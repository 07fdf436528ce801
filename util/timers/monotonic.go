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
	"time"
)

// Monotonic emits timeouts from the system's monotonic clock, measured from
// the instant it was made.
type Monotonic struct {
	zero time.Time
}

// MakeMonotonicClock creates a new monotonic clock with a given zero point.
func MakeMonotonicClock(zero time.Time) Clock {
	return &Monotonic{zero: zero}
}

// Zero returns a new Clock reset to the current time.
func (m *Monotonic) Zero() Clock {
	return MakeMonotonicClock(time.Now())
}

// TimeoutAt returns a channel that fires once delta has elapsed since zero.
// A delta already in the past yields a closed channel.
func (m *Monotonic) TimeoutAt(delta time.Duration) <-chan time.Time {
	left := time.Until(m.zero.Add(delta))
	if left > 0 {
		return time.After(left)
	}
	fired := make(chan time.Time)
	close(fired)
	return fired
}

// Since implements Clock.
func (m *Monotonic) Since() time.Duration {
	return time.Since(m.zero)
}
