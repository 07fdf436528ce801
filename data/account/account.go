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

// Package account holds the two kinds of transaction authorizer the
// workflows use: key-backed accounts and logic-signature escrow accounts.
package account

import (
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/crypto/passphrase"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/serr"
)

// ErrSenderMismatch is returned when asked to sign a transaction whose
// sender is not the signer's own address.
var ErrSenderMismatch = errors.New("transaction sender does not match signer")

// Signer authorizes transactions sent from a single address. The only
// implementations are *KeyAccount and *LogicSigAccount.
type Signer interface {
	// Address is the account this signer authorizes.
	Address() basics.Address

	// SignTransaction produces the signed form of txn. It fails when
	// txn.Sender is not Address(). txn is not modified.
	SignTransaction(txn transactions.Transaction) (transactions.SignedTxn, error)

	sealed()
}

func checkSender(s Signer, txn transactions.Transaction) error {
	if txn.Sender != s.Address() {
		err := fmt.Errorf("%w: sender %v, signer %v", ErrSenderMismatch, txn.Sender, s.Address())
		return serr.Wrap(serr.KindConfiguration, err, "sender", txn.Sender.String(), "signer", s.Address().String())
	}
	return nil
}

// KeyAccount signs with an ed25519 key pair.
type KeyAccount struct {
	secrets *crypto.SignatureSecrets
}

// NewKeyAccount wraps existing secrets.
func NewKeyAccount(secrets *crypto.SignatureSecrets) *KeyAccount {
	return &KeyAccount{secrets: secrets}
}

// GenerateKeyAccount uses the system's source of randomness to generate an
// account.
func GenerateKeyAccount() *KeyAccount {
	return NewKeyAccount(crypto.GenerateRandomSignatureSecrets())
}

// KeyAccountFromSeed derives an account from a 32-byte seed.
func KeyAccountFromSeed(seed crypto.Seed) *KeyAccount {
	return NewKeyAccount(crypto.GenerateSignatureSecrets(seed))
}

// KeyAccountFromPrivateKey wraps a 64-byte ed25519 private key, as exported by kmd.
func KeyAccountFromPrivateKey(sk []byte) (*KeyAccount, error) {
	secrets, err := crypto.SecretsFromPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	return NewKeyAccount(secrets), nil
}

// KeyAccountFromMnemonic derives an account from its 25-word mnemonic.
func KeyAccountFromMnemonic(mnemonic string) (*KeyAccount, error) {
	key, err := passphrase.MnemonicToKey(mnemonic)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	var seed crypto.Seed
	copy(seed[:], key)
	return KeyAccountFromSeed(seed), nil
}

// Address implements Signer
func (a *KeyAccount) Address() basics.Address {
	return basics.Address(a.secrets.SignatureVerifier)
}

// PublicKey returns the account's verification key.
func (a *KeyAccount) PublicKey() crypto.SignatureVerifier {
	return a.secrets.SignatureVerifier
}

// Mnemonic returns the 25-word form of the account's seed.
func (a *KeyAccount) Mnemonic() (string, error) {
	seed := a.secrets.Seed()
	return passphrase.KeyToMnemonic(seed[:])
}

// SignBytes signs message as is. Callers supply their own domain separation.
func (a *KeyAccount) SignBytes(message []byte) crypto.Signature {
	return a.secrets.SignBytes(message)
}

// SignTransaction implements Signer
func (a *KeyAccount) SignTransaction(txn transactions.Transaction) (transactions.SignedTxn, error) {
	if err := checkSender(a, txn); err != nil {
		return transactions.SignedTxn{}, err
	}
	return txn.Sign(a.secrets), nil
}

func (a *KeyAccount) sealed() {}

// LogicSigAccount is a contract account: its address is the hash of its
// program, and transactions from it carry the program as their proof.
type LogicSigAccount struct {
	program []byte
	args    [][]byte
	addr    basics.Address
}

// NewLogicSigAccount builds the contract account for compiled program.
func NewLogicSigAccount(program []byte, args [][]byte) (*LogicSigAccount, error) {
	if len(program) == 0 {
		return nil, serr.Configuration("logic signature program is empty")
	}
	if _, _, err := transactions.ProgramVersion(program); err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	p := append([]byte(nil), program...)
	return &LogicSigAccount{
		program: p,
		args:    cloneArgs(args),
		addr:    transactions.Program(p).Address(),
	}, nil
}

func cloneArgs(args [][]byte) [][]byte {
	if args == nil {
		return nil
	}
	out := make([][]byte, len(args))
	for i, a := range args {
		out[i] = append([]byte(nil), a...)
	}
	return out
}

// Address implements Signer
func (l *LogicSigAccount) Address() basics.Address {
	return l.addr
}

// Program returns the compiled program.
func (l *LogicSigAccount) Program() []byte {
	return l.program
}

// Args returns the arguments passed to the program.
func (l *LogicSigAccount) Args() [][]byte {
	return l.args
}

// SignTransaction implements Signer
func (l *LogicSigAccount) SignTransaction(txn transactions.Transaction) (transactions.SignedTxn, error) {
	if err := checkSender(l, txn); err != nil {
		return transactions.SignedTxn{}, err
	}
	return transactions.SignedTxn{
		Txn: txn,
		Lsig: transactions.LogicSig{
			Logic: l.program,
			Args:  cloneArgs(l.args),
		},
	}, nil
}

func (l *LogicSigAccount) sealed() {}
