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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/algorand/go-certmint/accountpool"
	"github.com/algorand/go-certmint/client/algod"
	"github.com/algorand/go-certmint/client/kmd"
	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/journal"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/lifecycle"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util/metrics"
)

// session is everything one command needs: the locked data directory, its
// config and log, the algod client and the orchestrator journaling into the
// data directory.
type session struct {
	dir      string
	cfg      config.Local
	log      logging.Logger
	lock     *flock.Flock
	logFile  *logging.CyclicFileWriter
	rest     algod.RestClient
	client   ledger.Client
	journal  *journal.Journal
	orch     *lifecycle.Orchestrator
	registry *prometheus.Registry
}

func resolveDataDir() (string, error) {
	dir := dataDir
	if dir == "" {
		dir = os.Getenv(envDataDir)
	}
	if dir == "" {
		return "", serr.Configuration(errorNoDataDirectory)
	}
	return filepath.Abs(dir)
}

func loadConfig(dir string) (config.Local, error) {
	if configFile == "" {
		return config.LoadConfigFromDisk(dir)
	}
	cfg, err := config.LoadConfigFromFile(configFile)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// openSession locks the data directory and wires the workflow stack. The
// caller must close the session.
func openSession(ctx context.Context) (s *session, err error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "datadir", dir)
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}

	s = &session{dir: dir, cfg: cfg, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			s.close()
			s = nil
		}
	}()

	lockPath := filepath.Join(dir, lockFilename)
	s.lock = flock.New(lockPath)
	locked, err := s.lock.TryLock()
	if err != nil {
		return s, fmt.Errorf("unexpected failure in establishing %s: %w", lockFilename, err)
	}
	if !locked {
		s.lock = nil
		return s, serr.Configuration(fmt.Sprintf(errorDataDirLocked, lockPath))
	}

	liveLog, archive := cfg.ResolveLogPaths(dir)
	if s.logFile, err = logging.MakeCyclicFileWriter(liveLog, archive, cfg.LogSizeLimit); err != nil {
		return s, err
	}
	s.log = logging.NewLogger()
	s.log.SetOutput(s.logFile)
	s.log.SetJSONFormatter()
	s.log.SetLevel(logging.Level(cfg.LogLevel))
	metrics.SetupTracing(s.log)

	if s.rest, err = algod.ParseRestClient(cfg.AlgodAddress, cfg.AlgodToken, cfg.MaxRequestsPerSecond); err != nil {
		return s, serr.Wrap(serr.KindConfiguration, err, "algod", cfg.AlgodAddress)
	}
	s.client = ledger.MakeAlgodClient(s.rest)

	if s.journal, err = journal.Open(ctx, cfg.ResolveJournalPath(dir), false); err != nil {
		return s, err
	}
	s.journal.SetLogger(s.log)

	s.orch, err = lifecycle.New(s.client, cfg,
		lifecycle.WithLogger(s.log),
		lifecycle.WithJournal(s.journal),
		lifecycle.WithRegisterer(s.registry),
		lifecycle.WithTracer(metrics.Tracer()),
	)
	if err != nil {
		return s, err
	}
	s.log.Infof("session opened on %s against %s", dir, cfg.AlgodAddress)
	return s, nil
}

// accountPool builds a pool funded by the kmd wallet's accounts.
func (s *session) accountPool(ctx context.Context, batch int) (*accountpool.Pool, error) {
	kcl, err := kmd.MakeKMDClient(s.cfg.KMDAddress, s.cfg.KMDToken, s.cfg.MaxRequestsPerSecond)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "kmd", s.cfg.KMDAddress)
	}
	keys, err := kcl.GenesisAccounts(ctx, s.cfg.KMDWalletName, s.cfg.KMDWalletPassword)
	if err != nil {
		return nil, err
	}
	funders := make([]account.Signer, len(keys))
	for i, k := range keys {
		funders[i] = k
	}
	cfg := s.cfg
	cfg.AccountPoolBatch = batch
	return accountpool.New(s.client, cfg, funders,
		accountpool.WithLogger(s.log),
		accountpool.WithRegisterer(s.registry))
}

// close releases everything openSession acquired and writes the metrics
// file when one was requested.
func (s *session) close() {
	if metricsFile != "" && s.registry != nil {
		if err := prometheus.WriteToTextfile(metricsFile, s.registry); err != nil {
			reportWarnf("cannot write metrics to %s: %v", metricsFile, err)
		}
	}
	if s.journal != nil {
		s.journal.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
	if s.lock != nil {
		s.lock.Unlock()
	}
}

// withSession runs fn inside an open session.
func withSession(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s); err != nil {
		s.log.WithError(err).Error("command failed")
		return err
	}
	return nil
}
