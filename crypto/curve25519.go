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

package crypto

import (
	"errors"

	"golang.org/x/crypto/ed25519"
)

// Seed holds the entropy needed to generate cryptographic keys.
type Seed [32]byte

// PublicKey is an exported ed25519PublicKey
type PublicKey [ed25519.PublicKeySize]byte

// PrivateKey is an exported ed25519PrivateKey
type PrivateKey [ed25519.PrivateKeySize]byte

// A Signature is a cryptographic signature. It proves that a message was
// produced by a holder of a cryptographic secret.
type Signature [ed25519.SignatureSize]byte

// BlankSignature is an empty signature structure, containing nothing but zeroes
var BlankSignature = Signature{}

// Blank tests to see if the given signature contains only zeros
func (s *Signature) Blank() bool {
	return (*s) == BlankSignature
}

// A SignatureVerifier is used to identify the holder of SignatureSecrets
// and verify the authenticity of Signatures.
type SignatureVerifier = PublicKey

// SignatureSecrets are used by an entity to produce unforgeable signatures over
// a message.
type SignatureSecrets struct {
	SignatureVerifier
	SK PrivateKey
}

var errWrongPrivateKeyLen = errors.New("private key has the wrong length")

// GenerateSignatureSecrets creates SignatureSecrets from a source of entropy.
func GenerateSignatureSecrets(seed Seed) *SignatureSecrets {
	sk := ed25519.NewKeyFromSeed(seed[:])
	s := &SignatureSecrets{}
	copy(s.SK[:], sk)
	copy(s.SignatureVerifier[:], sk.Public().(ed25519.PublicKey))
	return s
}

// GenerateRandomSignatureSecrets creates SignatureSecrets from fresh randomness.
func GenerateRandomSignatureSecrets() *SignatureSecrets {
	var seed Seed
	RandBytes(seed[:])
	return GenerateSignatureSecrets(seed)
}

// SecretsFromPrivateKey rebuilds SignatureSecrets from a 64-byte expanded private key,
// the form kmd exports.
func SecretsFromPrivateKey(sk []byte) (*SignatureSecrets, error) {
	if len(sk) != ed25519.PrivateKeySize {
		return nil, errWrongPrivateKeyLen
	}
	var seed Seed
	copy(seed[:], ed25519.PrivateKey(sk).Seed())
	return GenerateSignatureSecrets(seed), nil
}

// Seed returns the 32-byte seed these secrets were derived from.
func (s *SignatureSecrets) Seed() Seed {
	var seed Seed
	copy(seed[:], ed25519.PrivateKey(s.SK[:]).Seed())
	return seed
}

// Sign produces a cryptographic Signature of a Hashable message, given
// cryptographic secrets.
func (s *SignatureSecrets) Sign(message Hashable) Signature {
	return s.SignBytes(HashRep(message))
}

// SignBytes signs a message directly, without first hashing.
// Caller is responsible for domain separation.
func (s *SignatureSecrets) SignBytes(message []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(ed25519.PrivateKey(s.SK[:]), message))
	return sig
}

// Verify verifies that some holder of a cryptographic secret authentically
// signed a Hashable message.
func (v SignatureVerifier) Verify(message Hashable, sig Signature) bool {
	return ed25519ConsensusVerifySingle(v, HashRep(message), sig)
}

// VerifyBytes verifies a signature, where the message is not hashed first.
// Caller is responsible for domain separation.
func (v SignatureVerifier) VerifyBytes(message []byte, sig Signature) bool {
	return ed25519ConsensusVerifySingle(v, message, sig)
}
