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

// Package passphrase converts 32-byte account seeds to and from the 25-word
// mnemonic form that wallets and kmd exchange.
package passphrase

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
)

const (
	bitsPerWord      = 11
	checksumLenBits  = 11
	keyLenBytes      = 32
	mnemonicLenWords = 25
	paddingZeros     = bitsPerWord - ((keyLenBytes * 8) % bitsPerWord)
)

var (
	errWrongKeyLen      = errors.New("key length must be 32 bytes")
	errWrongMnemonicLen = fmt.Errorf("mnemonic must be %d words", mnemonicLenWords)
	errWrongChecksum    = errors.New("checksum failed to validate")
)

var wordlist = wordlists.English

var wordIndex map[string]uint32

func init() {
	// Verify expected relationship between constants
	if mnemonicLenWords*bitsPerWord-checksumLenBits != keyLenBytes*8+paddingZeros {
		panic("cannot initialize passphrase library: invalid constants")
	}
	wordIndex = make(map[string]uint32, len(wordlist))
	for i, w := range wordlist {
		wordIndex[w] = uint32(i)
	}
}

// KeyToMnemonic converts a 32-byte key into a 25 word mnemonic. The generated
// mnemonic includes a checksum. Each word in the mnemonic represents 11 bits
// of data, and the last 11 bits are reserved for the checksum.
func KeyToMnemonic(key []byte) (string, error) {
	if len(key) != keyLenBytes {
		return "", errWrongKeyLen
	}

	words := applyWords(toUint11Array(key))
	return strings.Join(append(words, checksum(key)), " "), nil
}

// MnemonicToKey converts a mnemonic generated using this library into the
// source key used to create it. It returns an error if the passed mnemonic
// has an incorrect checksum, if the number of words is unexpected, or if one
// of the passed words is not found in the words list.
func MnemonicToKey(mnemonic string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	if len(words) != mnemonicLenWords {
		return nil, errWrongMnemonicLen
	}

	uint11Array := make([]uint32, 0, len(words)-1)
	for _, w := range words[:len(words)-1] {
		idx, ok := wordIndex[w]
		if !ok {
			return nil, fmt.Errorf("%s is not in the words list", w)
		}
		uint11Array = append(uint11Array, idx)
	}
	if _, ok := wordIndex[words[len(words)-1]]; !ok {
		return nil, fmt.Errorf("%s is not in the words list", words[len(words)-1])
	}

	// 256 bits do not split evenly into 11-bit words, so the 24th word
	// carries padding that decodes to one trailing zero byte.
	byteArr := toByteArray(uint11Array)
	if len(byteArr) != keyLenBytes+1 {
		return nil, errWrongKeyLen
	}
	if byteArr[keyLenBytes] != 0 {
		return nil, errWrongChecksum
	}
	byteArr = byteArr[:keyLenBytes]

	if checksum(byteArr) != words[len(words)-1] {
		return nil, errWrongChecksum
	}
	return byteArr, nil
}

// checksum is the word for the first 11 bits of the key's SHA-512/256.
func checksum(data []byte) string {
	d := sha512.Sum512_256(data)
	return applyWords(toUint11Array(d[:2]))[0]
}

func toUint11Array(arr []byte) []uint32 {
	var buffer uint32
	var numberOfBit uint32
	var output []uint32

	for _, b := range arr {
		buffer |= uint32(b) << numberOfBit
		numberOfBit += 8

		if numberOfBit >= bitsPerWord {
			output = append(output, buffer&0x7ff)
			buffer >>= bitsPerWord
			numberOfBit -= bitsPerWord
		}
	}

	if numberOfBit != 0 {
		output = append(output, buffer&0x7ff)
	}
	return output
}

// toByteArray may leave an extra trailing byte of padding.
func toByteArray(arr []uint32) []byte {
	var buffer uint32
	var numberOfBits uint32
	var output []byte

	for _, v := range arr {
		buffer |= v << numberOfBits
		numberOfBits += bitsPerWord

		for numberOfBits >= 8 {
			output = append(output, byte(buffer&0xff))
			buffer >>= 8
			numberOfBits -= 8
		}
	}

	if numberOfBits != 0 {
		output = append(output, byte(buffer))
	}
	return output
}

func applyWords(arr []uint32) []string {
	res := make([]string, len(arr))
	for i, v := range arr {
		res[i] = wordlist[v]
	}
	return res
}
