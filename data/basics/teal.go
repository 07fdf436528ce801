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
	"errors"
	"fmt"
)

// StateSchema sets maximums on the number of each type that may be stored
type StateSchema struct {
	_struct struct{} `codec:",omitempty,omitemptyarray"`

	NumUint      uint64 `codec:"nui"`
	NumByteSlice uint64 `codec:"nbs"`
}

// NumEntries counts the total number of values that may be stored for particular schema
func (sm StateSchema) NumEntries() (tot uint64) {
	return AddSaturate(sm.NumUint, sm.NumByteSlice)
}

// TealType is an enum of the types in a TEAL program: Bytes and Uint.
// The numeric values are the ones algod reports over its REST API.
type TealType uint64

const (
	// TealBytesType represents the type of a byte slice in a TEAL program
	TealBytesType TealType = 1

	// TealUintType represents the type of a uint in a TEAL program
	TealUintType TealType = 2
)

func (tt TealType) String() string {
	switch tt {
	case TealBytesType:
		return "b"
	case TealUintType:
		return "u"
	}
	return "?"
}

// ErrUnknownTealType is returned when a stored value carries a type tag
// other than bytes or uint.
var ErrUnknownTealType = errors.New("unknown teal value type")

// TealValue contains type information and a value. It is either a byte slice
// or a uint; only the field matching Type is meaningful.
type TealValue struct {
	Type  TealType
	Bytes string
	Uint  uint64
}

// TealBytes builds a byte-slice TealValue.
func TealBytes(b []byte) TealValue {
	return TealValue{Type: TealBytesType, Bytes: string(b)}
}

// TealUint builds a uint TealValue.
func TealUint(u uint64) TealValue {
	return TealValue{Type: TealUintType, Uint: u}
}

// DecodeTealValue builds a TealValue from a type tag and both candidate
// payloads, failing on any tag other than bytes or uint.
func DecodeTealValue(tag uint64, b []byte, u uint64) (TealValue, error) {
	switch TealType(tag) {
	case TealBytesType:
		return TealBytes(b), nil
	case TealUintType:
		return TealUint(u), nil
	}
	return TealValue{}, fmt.Errorf("%w: %d", ErrUnknownTealType, tag)
}

func (tv TealValue) String() string {
	if tv.Type == TealBytesType {
		return fmt.Sprintf("%x", tv.Bytes)
	}
	return fmt.Sprintf("%d", tv.Uint)
}

// TealKeyValue represents a key/value store for use in an application's
// global or local state.
type TealKeyValue map[string]TealValue

// ErrKeyNotFound is returned by the typed getters when a key is absent.
var ErrKeyNotFound = errors.New("state key not found")

// GetUint returns the uint stored under key.
func (tk TealKeyValue) GetUint(key string) (uint64, error) {
	v, ok := tk[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if v.Type != TealUintType {
		return 0, fmt.Errorf("state key %s holds %s, not a uint", key, v.Type)
	}
	return v.Uint, nil
}

// GetBytes returns the byte slice stored under key.
func (tk TealKeyValue) GetBytes(key string) ([]byte, error) {
	v, ok := tk[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if v.Type != TealBytesType {
		return nil, fmt.Errorf("state key %s holds %s, not a byte slice", key, v.Type)
	}
	return []byte(v.Bytes), nil
}

// Clone returns a copy of the key/value store.
func (tk TealKeyValue) Clone() TealKeyValue {
	if tk == nil {
		return nil
	}
	res := make(TealKeyValue, len(tk))
	for k, v := range tk {
		res[k] = v
	}
	return res
}

// DeltaAction is an enum of actions that may be performed when applying a
// delta to a TEAL key/value store. Values match algod's REST API.
type DeltaAction uint64

const (
	// SetBytesAction indicates that a TEAL byte slice should be stored at a key
	SetBytesAction DeltaAction = 1

	// SetUintAction indicates that a Uint should be stored at a key
	SetUintAction DeltaAction = 2

	// DeleteAction indicates that the value for a particular key should be deleted
	DeleteAction DeltaAction = 3
)

// ValueDelta links a DeltaAction with a value to be set
type ValueDelta struct {
	Action DeltaAction
	Bytes  string
	Uint   uint64
}

// StateDelta is a map from key/value store keys to ValueDeltas, indicating
// what should happen for that key
type StateDelta map[string]ValueDelta

// Apply returns a copy of kv with the delta applied.
func (sd StateDelta) Apply(kv TealKeyValue) TealKeyValue {
	res := kv.Clone()
	if res == nil {
		res = make(TealKeyValue)
	}
	for k, d := range sd {
		switch d.Action {
		case SetBytesAction:
			res[k] = TealValue{Type: TealBytesType, Bytes: d.Bytes}
		case SetUintAction:
			res[k] = TealUint(d.Uint)
		case DeleteAction:
			delete(res, k)
		}
	}
	return res
}
