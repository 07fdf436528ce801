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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/test/partitiontest"
)

func TestChoiceValue(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	c := makeChoiceValue("text", "json")
	require.Equal(t, "text", c.String())
	require.False(t, c.IsSet())
	require.Equal(t, "text, json", c.AllowedString())

	require.Error(t, c.Set("xml"))
	require.False(t, c.IsSet())
	require.NoError(t, c.Set("json"))
	require.True(t, c.IsSet())
	require.Equal(t, "json", c.String())
}

func TestExitCode(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.Equal(t, exitConfiguration, exitCode(serr.Configuration("bad flag")))
	require.Equal(t, exitRejected, exitCode(serr.Rejection("overspend")))
	require.Equal(t, exitTimeout, exitCode(serr.Timeout("not confirmed")))
	require.Equal(t, exitTransient, exitCode(serr.Transient(serr.New("connection refused"))))
	require.Equal(t, exitFailure, exitCode(serr.New("boom")))
}

func TestCommandTree(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	for _, path := range [][]string{
		{"deploy"}, {"set-key"}, {"mint"}, {"claim"}, {"escrow"}, {"status"},
		{"optin", "asset"}, {"optin", "app"}, {"optin", "own"},
		{"account", "new"}, {"account", "address"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		require.Empty(t, rest, path)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}
}
