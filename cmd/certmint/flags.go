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
	"fmt"
	"strings"
)

// choiceValue is a pflag.Value restricted to a fixed set of strings. The
// first allowed value is the default.
type choiceValue struct {
	value   string
	allowed []string
	isSet   bool
}

func makeChoiceValue(value string, others ...string) *choiceValue {
	c := &choiceValue{value: value}
	c.allowed = append(c.allowed, value)
	c.allowed = append(c.allowed, others...)
	return c
}

func (c *choiceValue) String() string { return c.value }
func (c *choiceValue) Type() string   { return "string" }
func (c *choiceValue) IsSet() bool    { return c.isSet }

// Set fails for values outside the allowed set.
func (c *choiceValue) Set(other string) error {
	for _, s := range c.allowed {
		if other == s {
			c.value = other
			c.isSet = true
			return nil
		}
	}
	return fmt.Errorf("value %s not allowed, use one of %s", other, c.AllowedString())
}

// AllowedString returns the allowed values, comma separated.
func (c *choiceValue) AllowedString() string {
	return strings.Join(c.allowed, ", ")
}
