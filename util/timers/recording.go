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
	"sync"
	"time"
)

// Recording is a test clock whose timeouts fire at once. It remembers every
// delta it was asked to wait, so callers can assert a backoff schedule.
type Recording struct {
	mu     sync.Mutex
	deltas []time.Duration
}

// MakeRecordingClock creates a clock with no recorded timeouts.
func MakeRecordingClock() *Recording {
	return &Recording{}
}

// Zero returns the same clock; recorded deltas accumulate across resets.
func (r *Recording) Zero() Clock {
	return r
}

// TimeoutAt records delta and returns a channel that has already fired.
func (r *Recording) TimeoutAt(delta time.Duration) <-chan time.Time {
	r.mu.Lock()
	r.deltas = append(r.deltas, delta)
	r.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

// Since always reports that no time has passed.
func (r *Recording) Since() time.Duration {
	return 0
}

// Deltas returns the timeouts requested so far, in order.
func (r *Recording) Deltas() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.deltas...)
}
