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

package main

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

const algoDecimals = 6

var maxMicroAlgos = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// formatAlgos renders microAlgos as a decimal Algo amount with all six places.
func formatAlgos(micro uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(micro), -algoDecimals).StringFixed(algoDecimals)
}

// parseAlgos converts a decimal Algo amount to microAlgos. Amounts finer
// than one microAlgo are refused rather than rounded.
func parseAlgos(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid Algo amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("invalid Algo amount %q: negative", s)
	}
	micro := d.Shift(algoDecimals)
	if !micro.Equal(micro.Truncate(0)) {
		return 0, fmt.Errorf("invalid Algo amount %q: more than %d decimal places", s, algoDecimals)
	}
	if micro.GreaterThan(maxMicroAlgos) {
		return 0, fmt.Errorf("invalid Algo amount %q: too large", s)
	}
	return micro.BigInt().Uint64(), nil
}

// algosValue is a flag holding microAlgos, written in Algos on the command line.
type algosValue uint64

func (a *algosValue) String() string { return formatAlgos(uint64(*a)) }
func (a *algosValue) Type() string   { return "algos" }

func (a *algosValue) Set(s string) error {
	micro, err := parseAlgos(s)
	if err != nil {
		return err
	}
	*a = algosValue(micro)
	return nil
}
