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

// Package journal records every submitted group so that a wait which ran
// out of rounds can be resumed by transaction id instead of resubmitting.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/algorand/go-certmint/crypto"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/data/transactions"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util/db"
)

// Status is the last known outcome of a submission.
type Status string

const (
	// Submitted groups were accepted by the node and not yet resolved.
	Submitted Status = "submitted"
	// Confirmed groups are in a block.
	Confirmed Status = "confirmed"
	// Rejected groups were refused by the node or dropped from the pool.
	Rejected Status = "rejected"
	// TimedOut groups were still pending when the wait gave up.
	TimedOut Status = "timed-out"
	// Failed covers every other error after submission.
	Failed Status = "failed"
	// Expired groups passed their last valid round without being seen
	// confirmed. They can no longer be applied.
	Expired Status = "expired"
)

// Pending reports whether the submission may still confirm.
func (s Status) Pending() bool {
	return s == Submitted || s == TimedOut
}

// ErrNotFound is returned for unknown entry ids.
var ErrNotFound = errors.New("journal entry not found")

const schemaVersion = 1

var schema = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		workflow TEXT NOT NULL,
		group_id TEXT NOT NULL,
		txids TEXT NOT NULL,
		await_txid TEXT NOT NULL,
		first_valid INTEGER NOT NULL,
		last_valid INTEGER NOT NULL,
		status TEXT NOT NULL,
		confirmed_round INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL)`,
	`CREATE INDEX IF NOT EXISTS submissions_status ON submissions (status)`,
}

// Entry is one recorded submission.
type Entry struct {
	ID             uuid.UUID
	Workflow       string
	GroupID        crypto.Digest
	TxIDs          []transactions.Txid
	AwaitTxID      transactions.Txid
	FirstValid     basics.Round
	LastValid      basics.Round
	Status         Status
	ConfirmedRound basics.Round
	Error          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type row struct {
	ID             string `db:"id"`
	Workflow       string `db:"workflow"`
	GroupID        string `db:"group_id"`
	TxIDs          string `db:"txids"`
	AwaitTxID      string `db:"await_txid"`
	FirstValid     uint64 `db:"first_valid"`
	LastValid      uint64 `db:"last_valid"`
	Status         string `db:"status"`
	ConfirmedRound uint64 `db:"confirmed_round"`
	Error          string `db:"error"`
	CreatedAt      int64  `db:"created_at"`
	UpdatedAt      int64  `db:"updated_at"`
}

func (e Entry) row() row {
	txids := make([]string, len(e.TxIDs))
	for i, id := range e.TxIDs {
		txids[i] = id.String()
	}
	var group string
	if !e.GroupID.IsZero() {
		group = e.GroupID.String()
	}
	return row{
		ID:             e.ID.String(),
		Workflow:       e.Workflow,
		GroupID:        group,
		TxIDs:          strings.Join(txids, ","),
		AwaitTxID:      e.AwaitTxID.String(),
		FirstValid:     uint64(e.FirstValid),
		LastValid:      uint64(e.LastValid),
		Status:         string(e.Status),
		ConfirmedRound: uint64(e.ConfirmedRound),
		Error:          e.Error,
		CreatedAt:      e.CreatedAt.UnixNano(),
		UpdatedAt:      e.UpdatedAt.UnixNano(),
	}
}

func (r row) entry() (e Entry, err error) {
	e.ID, err = uuid.Parse(r.ID)
	if err != nil {
		return Entry{}, err
	}
	if r.GroupID != "" {
		e.GroupID, err = crypto.DigestFromString(r.GroupID)
		if err != nil {
			return Entry{}, fmt.Errorf("entry %s: group id: %w", r.ID, err)
		}
	}
	if r.TxIDs != "" {
		for _, s := range strings.Split(r.TxIDs, ",") {
			var id transactions.Txid
			if err := id.FromString(s); err != nil {
				return Entry{}, fmt.Errorf("entry %s: %w", r.ID, err)
			}
			e.TxIDs = append(e.TxIDs, id)
		}
	}
	if err := e.AwaitTxID.FromString(r.AwaitTxID); err != nil {
		return Entry{}, fmt.Errorf("entry %s: awaited txid: %w", r.ID, err)
	}
	e.Workflow = r.Workflow
	e.FirstValid = basics.Round(r.FirstValid)
	e.LastValid = basics.Round(r.LastValid)
	e.Status = Status(r.Status)
	e.ConfirmedRound = basics.Round(r.ConfirmedRound)
	e.Error = r.Error
	e.CreatedAt = time.Unix(0, r.CreatedAt)
	e.UpdatedAt = time.Unix(0, r.UpdatedAt)
	return e, nil
}

// Journal is a sqlite-backed submission log. It is safe for concurrent use.
type Journal struct {
	dbs db.Pair
	log logging.Logger
	now func() time.Time
}

// Open opens or creates the journal at path. An in-memory journal lives for
// as long as it stays open.
func Open(ctx context.Context, path string, inMemory bool) (*Journal, error) {
	dbs, err := db.OpenPair(path, inMemory)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err, "path", path)
	}
	j := &Journal{dbs: dbs, log: logging.Base(), now: time.Now}
	err = dbs.Wdb.Atomic(ctx, "journal schema", func(ctx context.Context, tx *sqlx.Tx) error {
		var version int
		if err := tx.GetContext(ctx, &version, "PRAGMA user_version"); err != nil {
			return err
		}
		if version > schemaVersion {
			return fmt.Errorf("journal schema version %d is newer than %d", version, schemaVersion)
		}
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
		return err
	})
	if err != nil {
		dbs.Close()
		return nil, serr.Wrap(serr.KindConfiguration, err, "path", path)
	}
	return j, nil
}

// SetLogger replaces the journal's logger.
func (j *Journal) SetLogger(log logging.Logger) {
	j.log = log
}

// Close closes the database handles.
func (j *Journal) Close() {
	j.dbs.Close()
}

// Record stores a new submission with status Submitted and returns its id.
func (j *Journal) Record(ctx context.Context, e Entry) (uuid.UUID, error) {
	e.ID = uuid.New()
	e.Status = Submitted
	e.CreatedAt = j.now()
	e.UpdatedAt = e.CreatedAt
	r := e.row()
	err := j.dbs.Wdb.Atomic(ctx, "journal record", func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO submissions
			(id, workflow, group_id, txids, await_txid, first_valid, last_valid, status, confirmed_round, error, created_at, updated_at)
			VALUES (:id, :workflow, :group_id, :txids, :await_txid, :first_valid, :last_valid, :status, :confirmed_round, :error, :created_at, :updated_at)`, r)
		return err
	})
	if err != nil {
		return uuid.Nil, err
	}
	j.log.With("journal", r.ID).Debugf("recorded %s submission awaiting %s", e.Workflow, r.AwaitTxID)
	return e.ID, nil
}

// Update sets the outcome of a submission. A non-nil cause is stored as the
// entry's error text.
func (j *Journal) Update(ctx context.Context, id uuid.UUID, status Status, round basics.Round, cause error) error {
	var msg string
	if cause != nil {
		msg = cause.Error()
	}
	return j.dbs.Wdb.Atomic(ctx, "journal update", func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE submissions SET status = ?, confirmed_round = ?, error = ?, updated_at = ? WHERE id = ?`,
			string(status), uint64(round), msg, j.now().UnixNano(), id.String())
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// Get returns one entry.
func (j *Journal) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	var r row
	err := j.dbs.Rdb.Atomic(ctx, "journal get", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &r, `SELECT * FROM submissions WHERE id = ?`, id.String())
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, err
	}
	return r.entry()
}

// Pending returns the entries that may still confirm, oldest first.
func (j *Journal) Pending(ctx context.Context) ([]Entry, error) {
	return j.selectEntries(ctx, `SELECT * FROM submissions WHERE status IN (?, ?) ORDER BY created_at`, string(Submitted), string(TimedOut))
}

// List returns the most recent entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	return j.selectEntries(ctx, `SELECT * FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
}

func (j *Journal) selectEntries(ctx context.Context, query string, args ...interface{}) ([]Entry, error) {
	var rows []row
	err := j.dbs.Rdb.Atomic(ctx, "journal select", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		e, err := r.entry()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
