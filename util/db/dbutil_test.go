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

package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-certmint/test/partitiontest"
)

func exec(stmt string, args ...interface{}) func(context.Context, *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, stmt, args...)
		return err
	}
}

func countRows(ctx context.Context, acc Accessor, table string) (n int64, err error) {
	err = acc.Atomic(ctx, "count", func(ctx context.Context, tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table)
	})
	return
}

func TestInMemoryDisposal(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	name := t.Name() + "-" + uuid.NewString() + ".db"
	acc, err := MakeAccessor(name, false, true)
	require.NoError(t, err)
	require.NoError(t, acc.Atomic(ctx, "create", exec("create table Service (data blob)")))
	require.NoError(t, acc.Atomic(ctx, "insert", exec("insert or replace into Service (rowid, data) values (1, ?)", []byte{0, 1, 2})))

	anotherAcc, err := MakeAccessor(name, false, true)
	require.NoError(t, err)
	n, err := countRows(ctx, anotherAcc, "Service")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	anotherAcc.Close()
	acc.Close()

	acc, err = MakeAccessor(name, false, true)
	require.NoError(t, err)
	defer acc.Close()
	_, err = countRows(ctx, acc, "Service")
	require.Error(t, err, "table Service survived closing every handle")
}

func TestInMemoryUniqueDB(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	acc, err := MakeAccessor(t.Name()+"-1.db", false, true)
	require.NoError(t, err)
	defer acc.Close()
	require.NoError(t, acc.Atomic(ctx, "create", exec("create table Service (data blob)")))

	anotherAcc, err := MakeAccessor(t.Name()+"-2.db", false, true)
	require.NoError(t, err)
	defer anotherAcc.Close()
	_, err = countRows(ctx, anotherAcc, "Service")
	require.Error(t, err)
}

func TestAtomicRollsBack(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	acc, err := MakeAccessor(t.Name()+".db", false, true)
	require.NoError(t, err)
	defer acc.Close()
	require.NoError(t, acc.Atomic(ctx, "create", exec("CREATE TABLE foo (a INTEGER)")))

	boom := errors.New("boom")
	err = acc.Atomic(ctx, "fail", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO foo (a) VALUES (1)"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = acc.Atomic(ctx, "panic", func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO foo (a) VALUES (2)"); err != nil {
			return err
		}
		panic("kaboom")
	})
	require.EqualError(t, err, "kaboom")

	n, err := countRows(ctx, acc, "foo")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestAtomicCancelled(t *testing.T) {
	partitiontest.PartitionTest(t)

	acc, err := MakeAccessor(t.Name()+".db", false, true)
	require.NoError(t, err)
	defer acc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = acc.Atomic(ctx, "noop", func(context.Context, *sqlx.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestRetry(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	calls := 0
	err := Retry(func() error {
		calls++
		if calls < 3 {
			return sqlite3.Error{Code: sqlite3.ErrBusy}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)

	other := errors.New("other")
	calls = 0
	require.ErrorIs(t, Retry(func() error { calls++; return other }), other)
	require.Equal(t, 1, calls)
}

func TestURI(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.Equal(t, "file:x.db?_busy_timeout=1000&_synchronous=full&_txlock=immediate", URI("x.db", false, false))
	require.Equal(t, "file:x.db?_busy_timeout=1000&_synchronous=full&mode=memory&cache=shared", URI("x.db", true, true))
}

func TestPairConcurrencyRW(t *testing.T) {
	partitiontest.PartitionTest(t)

	ctx := context.Background()
	fn := filepath.Join(t.TempDir(), t.Name()+".sqlite3")
	pair, err := OpenPair(fn, false)
	require.NoError(t, err)
	defer pair.Close()
	require.True(t, pair.Rdb.ReadOnly())
	require.False(t, pair.Wdb.ReadOnly())

	require.NoError(t, pair.Wdb.Atomic(ctx, "create", exec("CREATE TABLE t (a INTEGER PRIMARY KEY)")))

	const inserts = 500
	var lastInsert int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer atomic.StoreInt64(&lastInsert, -1)
		for i := int64(1); i <= inserts; i++ {
			errw := pair.Wdb.Atomic(ctx, "insert", exec("INSERT INTO t (a) VALUES (?)", i))
			if errw != nil {
				t.Errorf("inserting %d: %v", i, errw)
				return
			}
			atomic.StoreInt64(&lastInsert, i)
		}
	}()

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				id := atomic.LoadInt64(&lastInsert)
				if id == 0 {
					continue
				}
				if id < 0 {
					return
				}
				var x int64
				errsel := pair.Rdb.Atomic(ctx, "select", func(ctx context.Context, tx *sqlx.Tx) error {
					return tx.GetContext(ctx, &x, "SELECT a FROM t WHERE a=?", id)
				})
				if errsel != nil {
					t.Errorf("selecting %d: %v", id, errsel)
					return
				}
				if x != id {
					t.Errorf("selected %d, want %d", x, id)
					return
				}
			}
		}()
	}
	wg.Wait()

	n, err := countRows(ctx, pair.Rdb, "t")
	require.NoError(t, err)
	require.Equal(t, int64(inserts), n)
}
