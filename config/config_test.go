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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/test/partitiontest"
)

func TestDefaultLocalIsValid(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.NoError(t, GetDefaultLocal().Validate())
}

func TestSaveThenLoad(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	c1 := GetDefaultLocal()
	c1.AlgodAddress = "http://algod:8080"
	c1.MintFillerTxns = 10
	c1.PollBackoff = 250 * time.Millisecond
	require.NoError(t, c1.SaveToDisk(dir))

	c2, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, c1, c2)
}

func TestLoadMissingConfigUsesDefaults(t *testing.T) {
	partitiontest.PartitionTest(t)

	t.Setenv(EnvAlgodAddress, "http://override:4001")
	t.Setenv(EnvAlgodToken, "secret")

	c, err := LoadConfigFromDisk(t.TempDir())
	require.NoError(t, err)

	expected := GetDefaultLocal()
	expected.AlgodAddress = "http://override:4001"
	expected.AlgodToken = "secret"
	require.Equal(t, expected, c)
}

func TestLoadYAMLAndTOML(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "certmint.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("algod_address: http://yaml:4001\nwait_rounds: 20\npoll_backoff: 2s\n"), 0600))
	tomlPath := filepath.Join(dir, "certmint.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("algod_address = \"http://toml:4001\"\nmint_filler_txns = 8\npoll_backoff = \"500ms\"\n"), 0600))

	c, err := LoadConfigFromFile(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "http://yaml:4001", c.AlgodAddress)
	require.Equal(t, uint64(20), c.WaitRounds)
	require.Equal(t, 2*time.Second, c.PollBackoff)
	require.Equal(t, defaultLocal.MintFillerTxns, c.MintFillerTxns)

	c, err = LoadConfigFromFile(tomlPath)
	require.NoError(t, err)
	require.Equal(t, "http://toml:4001", c.AlgodAddress)
	require.Equal(t, 8, c.MintFillerTxns)
	require.Equal(t, 500*time.Millisecond, c.PollBackoff)
	require.Equal(t, defaultLocal.Version, c.Version)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	_, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "config.ini"))
	require.True(t, serr.IsKind(err, serr.KindConfiguration))

	bad := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0600))
	_, err = LoadConfigFromFile(bad)
	require.True(t, serr.IsKind(err, serr.KindConfiguration))
}

func TestValidate(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	mutate := map[string]func(*Local){
		"no algod":        func(c *Local) { c.AlgodAddress = "" },
		"zero rounds":     func(c *Local) { c.WaitRounds = 0 },
		"zero attempts":   func(c *Local) { c.PollAttempts = 0 },
		"too many filler": func(c *Local) { c.MintFillerTxns = 13 },
		"negative rate":   func(c *Local) { c.MaxRequestsPerSecond = -1 },
		"huge batch":      func(c *Local) { c.AccountPoolBatch = 17 },
		"negative round":  func(c *Local) { c.RoundTimeout = -time.Second },
	}
	for name, m := range mutate {
		c := GetDefaultLocal()
		m(&c)
		err := c.Validate()
		require.Error(t, err, name)
		require.Equal(t, serr.KindConfiguration, serr.KindOf(err), name)
	}
}

func TestResolvePaths(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	c := GetDefaultLocal()
	live, archive := c.ResolveLogPaths("/data")
	require.Equal(t, "/data/certmint.log", live)
	require.Equal(t, "/data/certmint.archive.log", archive)
	require.Equal(t, "/data/journal.sqlite", c.ResolveJournalPath("/data"))
	c.JournalFile = "/var/lib/journal.sqlite"
	require.Equal(t, "/var/lib/journal.sqlite", c.ResolveJournalPath("/data"))
}

func TestMinBalanceForSchema(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	proto := Consensus
	local := basics.StateSchema{NumUint: 7, NumByteSlice: 5}
	require.Equal(t, uint64(100000+7*28500+5*50000), proto.AppOptInMinBalance(local).Raw)
	global := basics.StateSchema{NumUint: 7, NumByteSlice: 2}
	require.Equal(t, uint64(100000+7*28500+2*50000), proto.AppCreationMinBalance(global).Raw)
	require.Equal(t, uint64(100000+100000*2+100000+28500), MinBalance(&proto, 2, basics.StateSchema{NumUint: 1}, 0, 1).Raw)
}
