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
	"golang.org/x/exp/constraints"
)

// OAdd returns a+b and whether the sum wrapped.
func OAdd[T constraints.Unsigned](a, b T) (T, bool) {
	sum := a + b
	return sum, sum < a
}

// OSub returns a-b and whether it went below zero.
func OSub[T constraints.Unsigned](a, b T) (T, bool) {
	return a - b, b > a
}

// OMul returns a*b, or zero and true when the product does not fit.
func OMul[T constraints.Unsigned](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	prod := a * b
	if prod/b != a {
		return 0, true
	}
	return prod, false
}

func maxOf[T constraints.Unsigned]() T {
	var zero T
	return ^zero
}

// AddSaturate is a+b, clamped to the largest T.
func AddSaturate[T constraints.Unsigned](a, b T) T {
	if sum, over := OAdd(a, b); !over {
		return sum
	}
	return maxOf[T]()
}

// MulSaturate is a*b, clamped to the largest T.
func MulSaturate[T constraints.Unsigned](a, b T) T {
	if prod, over := OMul(a, b); !over {
		return prod
	}
	return maxOf[T]()
}

// SubSaturate is a-b, clamped at zero.
func SubSaturate[T constraints.Unsigned](a, b T) T {
	if diff, under := OSub(a, b); !under {
		return diff
	}
	return 0
}
