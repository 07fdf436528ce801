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

// Package serr provides structured errors: a message, key/value attributes
// for logging, an optional wrapped cause and a Kind that tells callers how a
// failure may be handled.
package serr

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"
)

// Kind classifies an error by what a caller can do about it.
type Kind int

const (
	// KindUnknown is the zero Kind; KindOf keeps looking down the chain past it.
	KindUnknown Kind = iota

	// KindConfiguration marks caller mistakes caught before anything was
	// submitted. Fix the input; retrying is pointless.
	KindConfiguration

	// KindTransient marks network or node failures. The operation may be
	// retried, after checking whether an earlier submission already landed.
	KindTransient

	// KindRejection marks a group the ledger refused. Nothing was applied.
	KindRejection

	// KindTimeout marks a submission whose outcome is unknown. Re-query by
	// transaction id instead of resubmitting.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindRejection:
		return "rejection"
	case KindTimeout:
		return "timeout"
	}
	return "unknown"
}

// Error is a structured error.
type Error struct {
	Msg     string
	Kind    Kind
	Attrs   map[string]any
	Wrapped error
}

// New creates a new structured error object using the supplied message and attributes.
func New(msg string, pairs ...any) *Error {
	attrs := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return &Error{Msg: msg, Attrs: attrs}
}

// NewKind creates a structured error of the given kind.
func NewKind(kind Kind, msg string, pairs ...any) *Error {
	e := New(msg, pairs...)
	e.Kind = kind
	return e
}

// Configuration reports invalid input detected before any submission.
func Configuration(msg string, pairs ...any) *Error {
	return NewKind(KindConfiguration, msg, pairs...)
}

// Rejection reports a group the ledger rejected.
func Rejection(msg string, pairs ...any) *Error {
	return NewKind(KindRejection, msg, pairs...)
}

// Timeout reports a submission that was not seen confirmed in time.
func Timeout(msg string, pairs ...any) *Error {
	return NewKind(KindTimeout, msg, pairs...)
}

// Wrap creates a structured error of the given kind around err, keeping its
// message. A nil err stays nil.
func Wrap(kind Kind, err error, pairs ...any) error {
	if err == nil {
		return nil
	}
	e := NewKind(kind, err.Error(), pairs...)
	e.Wrapped = err
	return e
}

// Transient wraps a network or node failure.
func Transient(err error, pairs ...any) error {
	return Wrap(KindTransient, err, pairs...)
}

// Error returns error message. It is either the exact supplied message, or the
// serialized attributes if the supplied message was blank.
func (e *Error) Error() string {
	if e.Msg == "" {
		var buf strings.Builder
		args := make([]any, 0, 2*len(e.Attrs))
		for key, val := range e.Attrs {
			args = append(args, key)
			args = append(args, val)
		}
		l := slog.New(slog.NewTextHandler(&buf, nil))
		l.Info("", args...)
		return strings.TrimSpace(buf.String())
	}
	return e.Msg
}

// Extend adds additional attributes to an existing error. If the supplied error
// is nil, a new structured error is created with the given attributes and no
// message. If the error is not a structured error, it is wrapped in one using
// its existing message and the new attributes.
func Extend(err error, pairs ...any) error {
	if err == nil {
		return New("", pairs...)
	}
	var serr *Error
	if ok := errors.As(err, &serr); ok {
		for i := 0; i+1 < len(pairs); i += 2 {
			serr.Attrs[fmt.Sprint(pairs[i])] = pairs[i+1]
		}
		return err
	}
	return Wrap(KindUnknown, err, pairs...)
}

// Unwrap returns the inner error, if it exists.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// KindOf returns the first non-unknown Kind found walking err's wrap chain.
func KindOf(err error) Kind {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return KindUnknown
		}
		if e.Kind != KindUnknown {
			return e.Kind
		}
		err = e.Wrapped
	}
	return KindUnknown
}

// IsKind reports whether err is of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Attr returns the attribute stored under key by the outermost structured
// error in err's chain that has it.
func Attr(err error, key string) (any, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil, false
		}
		if v, ok := e.Attrs[key]; ok {
			return v, true
		}
		err = e.Wrapped
	}
	return nil, false
}
