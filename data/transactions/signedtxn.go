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
)

// SignedTxn wraps a transaction and a signature.
// It exposes a Verify() method that verifies the signature and checks that the
// underlying transaction is well-formed.
type SignedTxn struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	Sig      crypto.Signature `codec:"sig"`
	Lsig     LogicSig         `codec:"lsig"`
	Txn      Transaction      `codec:"txn"`
	AuthAddr basics.Address   `codec:"sgnr"`
}

// ID returns the Txid (i.e., hash) of the underlying transaction.
func (s SignedTxn) ID() Txid {
	return s.Txn.ID()
}

// Authorizer returns the address against which the signature/lsig must be checked.
func (s SignedTxn) Authorizer() basics.Address {
	if (s.AuthAddr == basics.Address{}) {
		return s.Txn.Sender
	}
	return s.AuthAddr
}

var (
	errNoAuthorization   = errors.New("signed transaction carries neither a signature nor a logic proof")
	errTwoAuthorizations = errors.New("signed transaction carries both a signature and a logic proof")
	errBadSignature      = errors.New("signature validation failed")
)

// Verify checks the signature or the logic proof. The logic itself is not evaluated.
func (s SignedTxn) Verify() error {
	hasSig := s.Sig != (crypto.Signature{})
	hasLsig := !s.Lsig.Blank()
	switch {
	case hasSig && hasLsig:
		return errTwoAuthorizations
	case hasSig:
		if !crypto.SignatureVerifier(s.Authorizer()).Verify(s.Txn, s.Sig) {
			return errBadSignature
		}
		return nil
	case hasLsig:
		return s.Lsig.Verify(&s.Txn)
	}
	return errNoAuthorization
}
