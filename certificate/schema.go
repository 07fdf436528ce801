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

package certificate

import (
	"errors"
	"fmt"

	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
)

// FieldType is the storage type of a schema field.
type FieldType int

const (
	// Int fields hold a uint64.
	Int FieldType = iota + 1
	// ByteSlice fields hold raw bytes.
	ByteSlice
)

// Errors for schema definitions.
var (
	ErrUnknownFieldType = errors.New("unknown schema field type")
	ErrBadSchema        = errors.New("invalid certificate schema")
)

// ParseFieldType accepts "int" and "byte-slice".
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "int":
		return Int, nil
	case "byte-slice", "bytes":
		return ByteSlice, nil
	}
	return 0, serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: %q", ErrUnknownFieldType, s))
}

func (t FieldType) String() string {
	switch t {
	case Int:
		return "int"
	case ByteSlice:
		return "byte-slice"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Code is the one-byte tag the application stores for the type.
func (t FieldType) Code() byte {
	if t == Int {
		return 'i'
	}
	return 'b'
}

// FieldTypeFromCode is the inverse of Code.
func FieldTypeFromCode(code uint64) (FieldType, error) {
	switch code {
	case 'i':
		return Int, nil
	case 'b':
		return ByteSlice, nil
	}
	return 0, fmt.Errorf("%w: code %d", ErrUnknownFieldType, code)
}

// MarshalText implements encoding.TextMarshaler
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *FieldType) UnmarshalText(text []byte) error {
	ft, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*t = ft
	return nil
}

func (t FieldType) accepts(v interface{}) bool {
	switch v.(type) {
	case uint64, uint32, uint, int, int64:
		return t == Int
	case []byte, string:
		return t == ByteSlice
	}
	return false
}

// Field is one named, typed schema entry.
type Field struct {
	Name string    `json:"name" yaml:"name"`
	Type FieldType `json:"type" yaml:"type"`
}

// Schema is the ordered list of certificate fields.
type Schema []Field

// OwnershipSchema is the schema the ownership certificate uses.
func OwnershipSchema() Schema {
	return Schema{
		{Name: FieldCheckHash, Type: ByteSlice},
		{Name: FieldID, Type: ByteSlice},
		{Name: FieldLsigPkey, Type: ByteSlice},
		{Name: FieldInitiatorPkey, Type: ByteSlice},
		{Name: FieldAssetID, Type: ByteSlice},
		{Name: FieldTimestamp, Type: Int},
	}
}

var requiredFields = []string{FieldCheckHash, FieldLsigPkey, FieldInitiatorPkey, FieldAssetID}

// Validate checks names, types and the fields the application requires.
func (s Schema) Validate() error {
	seen := make(map[string]FieldType, len(s))
	for i, f := range s {
		if f.Name == "" {
			return serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: field %d has no name", ErrBadSchema, i))
		}
		if f.Type != Int && f.Type != ByteSlice {
			return serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: field %s", ErrUnknownFieldType, f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			return serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: field %s declared twice", ErrBadSchema, f.Name))
		}
		seen[f.Name] = f.Type
	}
	for _, name := range requiredFields {
		if seen[name] != ByteSlice {
			return serr.Wrap(serr.KindConfiguration, fmt.Errorf("%w: %s must be a byte-slice field", ErrBadSchema, name))
		}
	}
	return nil
}

// Counts returns the number of int and byte-slice fields.
func (s Schema) Counts() (ints, bytes uint64) {
	for _, f := range s {
		if f.Type == Int {
			ints++
		} else {
			bytes++
		}
	}
	return
}

// LocalSchema is the per-escrow storage the application needs: every field
// plus the minted asset id.
func (s Schema) LocalSchema() basics.StateSchema {
	ints, bytes := s.Counts()
	return basics.StateSchema{NumUint: ints + 1, NumByteSlice: bytes}
}

// GlobalSchema is the application's own storage: a type tag per field, the
// field count, the signing key and the check hash.
func (s Schema) GlobalSchema() basics.StateSchema {
	return basics.StateSchema{NumUint: 1 + uint64(len(s)), NumByteSlice: 2}
}

// Args encodes each field as its type code followed by its name.
func (s Schema) Args() [][]byte {
	args := make([][]byte, len(s))
	for i, f := range s {
		args[i] = append([]byte{f.Type.Code()}, f.Name...)
	}
	return args
}
