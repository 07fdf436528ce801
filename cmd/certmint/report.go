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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/fatih/color"

	"github.com/algorand/go-certmint/serr"
)

var (
	stdout io.Writer = color.Output
	stderr io.Writer = color.Error

	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func reportInfof(format string, args ...interface{}) {
	infoColor.Fprintf(stdout, format+"\n", args...)
}

func reportWarnf(format string, args ...interface{}) {
	warnColor.Fprintf(stderr, "Warning: "+format+"\n", args...)
}

// reportError prints err and the attributes serr attached to it.
func reportError(err error) {
	errorColor.Fprintf(stderr, "Error: %v\n", err)
	var e *serr.Error
	if errors.As(err, &e) {
		for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
			fmt.Fprintf(stderr, "  %s: %v\n", k, e.Attrs[k])
		}
	}
}

// reportJSON writes v to stdout when the json output format is selected and
// reports whether it did.
func reportJSON(v interface{}) (bool, error) {
	if output.String() != "json" {
		return false, nil
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

// Exit codes by error kind, so scripts can tell a rejected group from a
// wait that should be re-checked later.
const (
	exitFailure       = 1
	exitConfiguration = 2
	exitRejected      = 3
	exitTimeout       = 4
	exitTransient     = 5
)

func exitCode(err error) int {
	switch serr.KindOf(err) {
	case serr.KindConfiguration:
		return exitConfiguration
	case serr.KindRejection:
		return exitRejected
	case serr.KindTimeout:
		return exitTimeout
	case serr.KindTransient:
		return exitTransient
	}
	return exitFailure
}

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}
