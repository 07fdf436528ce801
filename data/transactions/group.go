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

package transactions

import (
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/crypto"
)

// ErrGroupAlreadySet is returned when a member already belongs to a group.
var ErrGroupAlreadySet = errors.New("transaction already has a group id")

// ComputeGroupID hashes the ids of txns, each taken with its Group field
// cleared, into the group id shared by all of them.
func ComputeGroupID(txns []Transaction) crypto.Digest {
	var group TxGroup
	group.TxGroupHashes = make([]crypto.Digest, len(txns))
	for i, tx := range txns {
		tx.Group = crypto.Digest{}
		group.TxGroupHashes[i] = crypto.Digest(tx.ID())
	}
	return crypto.HashObj(group)
}

// AssignGroupID computes the group id of txns and writes it into each member.
func AssignGroupID(txns []Transaction, maxGroupSize int) (crypto.Digest, error) {
	if len(txns) == 0 {
		return crypto.Digest{}, errors.New("cannot group zero transactions")
	}
	if len(txns) > maxGroupSize {
		return crypto.Digest{}, fmt.Errorf("group of %d transactions exceeds the maximum of %d", len(txns), maxGroupSize)
	}
	for i := range txns {
		if !txns[i].Group.IsZero() {
			return crypto.Digest{}, fmt.Errorf("member %d: %w", i, ErrGroupAlreadySet)
		}
	}
	gid := ComputeGroupID(txns)
	for i := range txns {
		txns[i].Group = gid
	}
	return gid, nil
}
