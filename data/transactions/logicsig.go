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

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/protocol"
)

// LogicSig contains logic for validating a transaction.
// Here it only ever defines a contract account: the address is the hash of
// the program and no key signs for it.
type LogicSig struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	// Logic is the compiled program, hashed to be the Address of a contract account.
	Logic []byte `codec:"l"`

	Sig crypto.Signature `codec:"sig"`

	// Args are not signed, but checked by Logic
	Args [][]byte `codec:"arg"`
}

// Program wraps compiled bytecode so it can be hashed.
type Program []byte

// ToBeHashed implements crypto.Hashable
func (lsl Program) ToBeHashed() (protocol.HashID, []byte) {
	return protocol.Program, []byte(lsl)
}

// Address returns the contract account address of the program.
func (lsl Program) Address() basics.Address {
	return basics.Address(crypto.HashObj(lsl))
}

// Blank returns true if there is no content in this LogicSig
func (lsig *LogicSig) Blank() bool {
	return len(lsig.Logic) == 0
}

// Address returns the contract account the logic controls.
func (lsig *LogicSig) Address() basics.Address {
	return Program(lsig.Logic).Address()
}

// Verify checks that the logic is an escrow for the sender. It does not evaluate the logic.
func (lsig *LogicSig) Verify(txn *Transaction) error {
	if lsig.Blank() {
		return errors.New("LogicSig has no program")
	}
	if lsig.Sig != (crypto.Signature{}) {
		return errors.New("delegated LogicSig is not supported")
	}
	if lsig.Address() != txn.Sender {
		return errors.New("LogicNot signed and not a Logic-only account")
	}
	return nil
}
