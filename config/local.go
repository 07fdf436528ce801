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
	"path/filepath"
	"time"
)

// Local holds the per-installation settings of the certmint client: where the
// algod and kmd daemons live, and how workflows size, fund and await their groups.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new.
	Version uint32 `yaml:"version" toml:"version"`

	// AlgodAddress is the base URL of the algod REST API, e.g. http://127.0.0.1:4001.
	AlgodAddress string `yaml:"algod_address" toml:"algod_address"`
	// AlgodToken is sent in the X-Algo-API-Token header.
	AlgodToken string `yaml:"algod_token" toml:"algod_token"`

	// KMDAddress is the base URL of the kmd REST API. Only the account pool uses it.
	KMDAddress        string `yaml:"kmd_address" toml:"kmd_address"`
	KMDToken          string `yaml:"kmd_token" toml:"kmd_token"`
	KMDWalletName     string `yaml:"kmd_wallet_name" toml:"kmd_wallet_name"`
	KMDWalletPassword string `yaml:"kmd_wallet_password" toml:"kmd_wallet_password"`

	// WaitRounds bounds how many rounds a confirmation wait may observe.
	WaitRounds uint64 `yaml:"wait_rounds" toml:"wait_rounds"`
	// PollAttempts is the number of failed pending-transaction queries
	// tolerated before a wait gives up.
	PollAttempts int `yaml:"poll_attempts" toml:"poll_attempts"`
	// PollBackoff is multiplied by the attempt number between failed queries.
	PollBackoff time.Duration `yaml:"poll_backoff" toml:"poll_backoff"`
	// RoundTimeout is the wall-clock allowance per awaited round. A wait that
	// observes no progress gives up after WaitRounds x RoundTimeout. Zero
	// bounds waits by observed rounds only.
	RoundTimeout time.Duration `yaml:"round_timeout" toml:"round_timeout"`

	// MintFillerTxns is the number of fund calls appended to a mint group.
	MintFillerTxns int `yaml:"mint_filler_txns" toml:"mint_filler_txns"`
	// MintInnerTxns and ClaimInnerTxns are the inner transactions the mint and
	// claim calls issue; their fees are pooled onto the calling transaction.
	MintInnerTxns  uint64 `yaml:"mint_inner_txns" toml:"mint_inner_txns"`
	ClaimInnerTxns uint64 `yaml:"claim_inner_txns" toml:"claim_inner_txns"`

	// MaxRequestsPerSecond throttles REST calls to algod and kmd. Zero disables the limit.
	MaxRequestsPerSecond float64 `yaml:"max_requests_per_second" toml:"max_requests_per_second"`

	// LogLevel uses the logging.Level numbering: 0 panic through 5 debug.
	LogLevel uint32 `yaml:"log_level" toml:"log_level"`
	// LogSizeLimit is the size at which the live log file is archived.
	LogSizeLimit uint64 `yaml:"log_size_limit" toml:"log_size_limit"`
	// LogArchiveName is the file name of the archived log, relative to the data dir.
	LogArchiveName string `yaml:"log_archive_name" toml:"log_archive_name"`

	// JournalFile is the submission journal database, relative to the data dir.
	JournalFile string `yaml:"journal_file" toml:"journal_file"`

	// AssetCheckHash is the integrity hash deployed alongside the issuer key.
	AssetCheckHash string `yaml:"asset_check_hash" toml:"asset_check_hash"`

	// AccountPoolBatch is how many accounts one refill creates and funds.
	AccountPoolBatch int `yaml:"account_pool_batch" toml:"account_pool_batch"`
	// AccountPoolFunding is the amount, in microAlgos, paid to each pooled account.
	AccountPoolFunding uint64 `yaml:"account_pool_funding" toml:"account_pool_funding"`
}

// LogFilename is the name of the live log file within the data dir.
const LogFilename = "certmint.log"

var defaultLocal = Local{
	Version:              1,
	AlgodAddress:         "http://127.0.0.1:4001",
	AlgodToken:           "",
	KMDAddress:           "http://127.0.0.1:4002",
	KMDToken:             "",
	KMDWalletName:        "unencrypted-default-wallet",
	KMDWalletPassword:    "",
	WaitRounds:           10,
	PollAttempts:         5,
	PollBackoff:          time.Second,
	RoundTimeout:         30 * time.Second,
	MintFillerTxns:       12,
	MintInnerTxns:        1,
	ClaimInnerTxns:       2,
	MaxRequestsPerSecond: 0,
	LogLevel:             4,
	LogSizeLimit:         1073741824,
	LogArchiveName:       "certmint.archive.log",
	JournalFile:          "journal.sqlite",
	AssetCheckHash:       "",
	AccountPoolBatch:     16,
	AccountPoolFunding:   100000000,
}

// ResolveLogPaths returns the live log and archive locations under rootDir.
func (cfg *Local) ResolveLogPaths(rootDir string) (liveLog, archive string) {
	liveLog = filepath.Join(rootDir, LogFilename)
	archive = filepath.Join(rootDir, cfg.LogArchiveName)
	return liveLog, archive
}

// ResolveJournalPath returns the journal database location under rootDir.
// An absolute JournalFile is used as is.
func (cfg *Local) ResolveJournalPath(rootDir string) string {
	if filepath.IsAbs(cfg.JournalFile) {
		return cfg.JournalFile
	}
	return filepath.Join(rootDir, cfg.JournalFile)
}
