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

// Frozen never fires. Tests use it to hold a caller in its wait until the
// context is cancelled.
type Frozen struct{}

// MakeFrozenClock creates a new frozen clock.
func MakeFrozenClock() Clock {
	return Frozen{}
}

// Zero implements Clock.
func (Frozen) Zero() Clock {
	return Frozen{}
}

// TimeoutAt returns a channel nothing is ever sent on.
func (Frozen) TimeoutAt(time.Duration) <-chan time.Time {
	return nil
}

// Since always reports that no time has passed.
func (Frozen) Since() time.Duration {
	return 0
}
