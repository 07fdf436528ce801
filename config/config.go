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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util/codecs"
)

// ConfigFilename is the name of the config file within a data dir.
const ConfigFilename = "config.json"

// Environment variables that override the endpoints of a loaded config.
const (
	EnvAlgodAddress = "CERTMINT_ALGOD_ADDRESS"
	EnvAlgodToken   = "CERTMINT_ALGOD_TOKEN"
	EnvKMDAddress   = "CERTMINT_KMD_ADDRESS"
	EnvKMDToken     = "CERTMINT_KMD_TOKEN"
)

// GetDefaultLocal returns a copy of the current defaultLocal config
func GetDefaultLocal() Local {
	return defaultLocal
}

// LoadConfigFromDisk loads config.json from the data dir. A missing file
// yields the defaults. Environment overrides are applied either way.
func LoadConfigFromDisk(custom string) (c Local, err error) {
	c, err = LoadConfigFromFile(filepath.Join(custom, ConfigFilename))
	if os.IsNotExist(err) {
		c = defaultLocal
		err = nil
	}
	if err != nil {
		return
	}
	c.ApplyEnv(os.LookupEnv)
	err = c.Validate()
	return
}

// LoadConfigFromFile reads a config file, picking the format from the
// extension: .json, .yaml/.yml or .toml. Fields absent from the file keep
// their default values.
func LoadConfigFromFile(configFile string) (c Local, err error) {
	c = defaultLocal
	c.Version = 0 // Reset to 0 so we get the version from the loaded file.

	decode, err := decoderFor(configFile)
	if err != nil {
		return
	}

	f, err := os.Open(configFile)
	if err != nil {
		return
	}
	defer f.Close()

	if err = decode(f, &c); err != nil {
		return c, serr.Wrap(serr.KindConfiguration, fmt.Errorf("cannot parse %s: %w", configFile, err))
	}
	if c.Version == 0 {
		c.Version = defaultLocal.Version
	}
	return c, nil
}

func decoderFor(configFile string) (func(io.Reader, *Local) error, error) {
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".json":
		return func(r io.Reader, c *Local) error {
			return json.NewDecoder(r).Decode(c)
		}, nil
	case ".yaml", ".yml":
		return func(r io.Reader, c *Local) error {
			err := yaml.NewDecoder(r).Decode(c)
			if err == io.EOF {
				// empty document
				return nil
			}
			return err
		}, nil
	case ".toml":
		return func(r io.Reader, c *Local) error {
			_, err := toml.NewDecoder(r).Decode(c)
			return err
		}, nil
	default:
		return nil, serr.Configuration("unsupported config file extension", "file", configFile)
	}
}

// ApplyEnv overrides the daemon endpoints from the environment.
func (cfg *Local) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAlgodAddress); ok {
		cfg.AlgodAddress = v
	}
	if v, ok := lookup(EnvAlgodToken); ok {
		cfg.AlgodToken = v
	}
	if v, ok := lookup(EnvKMDAddress); ok {
		cfg.KMDAddress = v
	}
	if v, ok := lookup(EnvKMDToken); ok {
		cfg.KMDToken = v
	}
}

// Validate checks the bounds the workflows rely on.
func (cfg Local) Validate() error {
	switch {
	case cfg.AlgodAddress == "":
		return serr.Configuration("algod address is not set")
	case cfg.WaitRounds == 0:
		return serr.Configuration("wait rounds must be positive")
	case cfg.PollAttempts <= 0:
		return serr.Configuration("poll attempts must be positive", "attempts", cfg.PollAttempts)
	case cfg.PollBackoff < 0:
		return serr.Configuration("poll backoff cannot be negative", "backoff", cfg.PollBackoff)
	case cfg.RoundTimeout < 0:
		return serr.Configuration("round timeout cannot be negative", "timeout", cfg.RoundTimeout)
	case cfg.MintFillerTxns < 0 || 4+cfg.MintFillerTxns > Consensus.MaxTxGroupSize:
		return serr.Configuration("mint group does not fit in a transaction group",
			"fillers", cfg.MintFillerTxns, "max", Consensus.MaxTxGroupSize)
	case cfg.MintInnerTxns > uint64(Consensus.MaxInnerTransactions) || cfg.ClaimInnerTxns > uint64(Consensus.MaxInnerTransactions):
		return serr.Configuration("inner transaction count exceeds the protocol limit")
	case cfg.MaxRequestsPerSecond < 0:
		return serr.Configuration("request rate cannot be negative")
	case cfg.AccountPoolBatch <= 0 || cfg.AccountPoolBatch > Consensus.MaxTxGroupSize:
		return serr.Configuration("account pool batch must fit in a transaction group",
			"batch", cfg.AccountPoolBatch, "max", Consensus.MaxTxGroupSize)
	}
	return nil
}

// SaveToDisk writes the config to config.json in the data dir.
func (cfg Local) SaveToDisk(root string) error {
	configpath := filepath.Join(root, ConfigFilename)
	filename := os.ExpandEnv(configpath)
	return cfg.SaveToFile(filename)
}

// SaveToFile saves the config to a specific filename as formatted JSON,
// omitting values equal to the defaults.
func (cfg Local) SaveToFile(filename string) error {
	var alwaysInclude []string
	alwaysInclude = append(alwaysInclude, "Version")
	return codecs.SaveNonDefaultValuesToFile(filename, cfg, defaultLocal, alwaysInclude, true)
}
