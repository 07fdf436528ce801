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

package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/algorand/go-certmint/journal"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/serr"
)

// ErrExpired is returned for journal entries whose validity window closed
// without the node reporting them confirmed.
var ErrExpired = errors.New("validity window passed without confirmation")

// Resolution is the outcome of re-querying one journal entry.
type Resolution struct {
	Entry  journal.Entry
	Status journal.Status
	Err    error
}

// ResumePending re-awaits every journal entry that may still confirm, by
// its awaited transaction id, and records the outcome. Nothing is
// resubmitted. An entry whose last valid round is behind the node is
// queried once instead: unless the node reports it confirmed or dropped,
// it is marked expired. Entries are checked in order; a cancelled ctx stops
// the scan.
func (o *Orchestrator) ResumePending(ctx context.Context, maxRounds uint64) (out []Resolution, err error) {
	ctx, span, end := o.startSpan(ctx, WorkflowJournalCheck)
	defer end(&err)

	if o.journal == nil {
		return nil, serr.Configuration("no journal configured")
	}
	pending, err := o.journal.Pending(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("pending", len(pending)))
	if len(pending) == 0 {
		return nil, nil
	}
	status, err := o.client.Status(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range pending {
		if status.LastRound > e.LastValid {
			r, err := o.resolveExpired(ctx, e, status)
			if err != nil {
				return out, err
			}
			out = append(out, r)
			continue
		}
		conf, werr := o.waiter.Await(ctx, e.AwaitTxID, maxRounds)
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		o.settle(ctx, e.ID, conf.Round, werr)
		out = append(out, Resolution{Entry: e, Status: journalStatus(werr), Err: werr})
	}
	return out, nil
}

// resolveExpired settles an entry whose validity window has closed from a
// single pending-transaction query.
func (o *Orchestrator) resolveExpired(ctx context.Context, e journal.Entry, status ledger.NodeStatus) (Resolution, error) {
	p, err := o.client.PendingTransaction(ctx, e.AwaitTxID)
	switch {
	case ctx.Err() != nil:
		return Resolution{}, ctx.Err()
	case err != nil && !errors.Is(err, ledger.ErrTxnNotFound):
		return Resolution{Entry: e, Status: e.Status, Err: err}, nil
	case err == nil && p.ConfirmedRound > 0:
		o.settle(ctx, e.ID, p.ConfirmedRound, nil)
		return Resolution{Entry: e, Status: journal.Confirmed}, nil
	case err == nil && p.PoolError != "":
		cause := serr.Rejection(p.PoolError, "txid", e.AwaitTxID.String())
		o.settle(ctx, e.ID, 0, cause)
		return Resolution{Entry: e, Status: journal.Rejected, Err: cause}, nil
	}
	cause := serr.Extend(fmt.Errorf("%w: %v last valid at round %d, node at round %d", ErrExpired, e.AwaitTxID, e.LastValid, status.LastRound),
		"txid", e.AwaitTxID.String(), "last_valid", uint64(e.LastValid))
	if uerr := o.journal.Update(context.WithoutCancel(ctx), e.ID, journal.Expired, 0, cause); uerr != nil {
		o.log.With("journal", e.ID.String()).WithError(uerr).Warn("could not update journal entry")
	}
	return Resolution{Entry: e, Status: journal.Expired, Err: cause}, nil
}
