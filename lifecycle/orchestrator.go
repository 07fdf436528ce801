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

// Package lifecycle runs the certificate-bound asset workflows against an
// algod node: deploying the minting application, rotating its signing key,
// minting an asset for an escrow, opting the escrow in to assets and
// applications, and claiming the asset. Each workflow is one atomic group,
// submitted once and awaited. Nothing is retried here.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/journal"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/minbalance"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/txgroup"
)

// Workflow names, used for the journal, metrics and spans.
const (
	WorkflowDeploy       = "deploy"
	WorkflowSetKey       = "set-key"
	WorkflowMint         = "mint"
	WorkflowOptInAsset   = "optin-asset"
	WorkflowOptInApp     = "optin-app"
	WorkflowClaim        = "claim"
	WorkflowJournalCheck = "journal-check"
)

// Method names of the minting application.
const (
	methodFund       = "fund"
	methodSetKey     = "set_key"
	methodPermission = "permission"
	methodMint       = "mint"
	methodClaim      = "claim"
)

// Errors reported before anything is submitted.
var (
	ErrAlreadyOptedIn  = errors.New("escrow is already opted in")
	ErrNotOptedIn      = errors.New("escrow is not opted in to the application")
	ErrNotMinted       = errors.New("escrow has not minted an asset")
	ErrNoApplicationID = errors.New("confirmed deployment reports no application id")
	ErrZeroApplication = errors.New("application id is zero")
	ErrZeroAsset       = errors.New("asset id is zero")
	ErrMissingSigner   = errors.New("signer is required")
)

// checkApps rejects zero application ids, naming each by its role.
func checkApps(pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if app, _ := pairs[i+1].(basics.AppIndex); app == 0 {
			return serr.Wrap(serr.KindConfiguration, ErrZeroApplication, "param", pairs[i])
		}
	}
	return nil
}

// Orchestrator runs workflows against one node.
type Orchestrator struct {
	client   ledger.Client
	cfg      config.Local
	proto    config.ConsensusParams
	builder  *txgroup.Builder
	balances *minbalance.Calculator
	waiter   *confirm.Waiter
	journal  *journal.Journal
	metrics  *workflowMetrics
	tracer   trace.Tracer
	log      logging.Logger

	registerer  prometheus.Registerer
	waiterOpts  []confirm.Option
	builderOpts []txgroup.Option
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger of the orchestrator and the components it builds.
func WithLogger(log logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithJournal records every submission in j.
func WithJournal(j *journal.Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithRegisterer registers the workflow metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *Orchestrator) { o.registerer = reg }
}

// WithTracer sets the tracer workflow spans are started on.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = tracer }
}

// WithConsensus replaces the consensus parameters used for fees, group
// limits and balance floors.
func WithConsensus(proto config.ConsensusParams) Option {
	return func(o *Orchestrator) { o.proto = proto }
}

// WithWaiterOptions passes options to the confirmation waiter.
func WithWaiterOptions(opts ...confirm.Option) Option {
	return func(o *Orchestrator) { o.waiterOpts = append(o.waiterOpts, opts...) }
}

// WithBuilderOptions passes options to the group builder.
func WithBuilderOptions(opts ...txgroup.Option) Option {
	return func(o *Orchestrator) { o.builderOpts = append(o.builderOpts, opts...) }
}

// New returns an orchestrator for client. cfg supplies the wait, filler and
// inner-transaction settings.
func New(client ledger.Client, cfg config.Local, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		client: client,
		cfg:    cfg,
		proto:  config.Consensus,
		tracer: noop.NewTracerProvider().Tracer("certmint.noop"),
		log:    logging.Base(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if 4+o.cfg.MintFillerTxns > o.proto.MaxTxGroupSize {
		return nil, serr.Configuration(fmt.Sprintf("mint group of %d fillers exceeds the group size limit", o.cfg.MintFillerTxns),
			"fillers", o.cfg.MintFillerTxns, "max_group", o.proto.MaxTxGroupSize)
	}

	m, err := newWorkflowMetrics(o.registerer)
	if err != nil {
		return nil, serr.Wrap(serr.KindConfiguration, err)
	}
	o.metrics = m
	o.builder = txgroup.NewBuilder(client, append([]txgroup.Option{txgroup.WithLogger(o.log), txgroup.WithConsensus(o.proto)}, o.builderOpts...)...)
	o.balances = minbalance.New(client).WithConsensus(o.proto)
	o.waiter = confirm.NewWaiter(client, cfg, append([]confirm.Option{confirm.WithLogger(o.log)}, o.waiterOpts...)...)
	return o, nil
}

// Waiter returns the confirmation waiter the orchestrator uses.
func (o *Orchestrator) Waiter() *confirm.Waiter {
	return o.waiter
}

// startSpan starts a workflow span and returns a function that ends it and
// records the outcome.
func (o *Orchestrator) startSpan(ctx context.Context, workflow string, attrs ...attribute.KeyValue) (context.Context, trace.Span, func(*error)) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "certmint."+workflow, trace.WithAttributes(attrs...))
	return ctx, span, func(errp *error) {
		err := *errp
		o.metrics.finish(workflow, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String("outcome", outcome(err)))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// execute builds, submits and awaits one group. The awaited member's
// confirmation is returned.
func (o *Orchestrator) execute(ctx context.Context, workflow string, intents []txgroup.Intent, await int) (confirm.Confirmation, error) {
	span := trace.SpanFromContext(ctx)
	g, err := o.builder.Build(ctx, intents)
	if err != nil {
		return confirm.Confirmation{}, err
	}
	txid := g.TxID(await)
	log := o.log.With("workflow", workflow).With("txid", txid.String())
	span.SetAttributes(
		attribute.String("group", g.ID().String()),
		attribute.String("txid", txid.String()),
		attribute.Int("members", g.Len()),
		attribute.Int64("fee", int64(g.TotalFee().Raw)),
	)

	// recorded before submission so that an interrupted run leaves a pending entry
	var entry uuid.UUID
	if o.journal != nil {
		entry, err = o.journal.Record(ctx, journal.Entry{
			Workflow:   workflow,
			GroupID:    g.ID(),
			TxIDs:      g.TxIDs(),
			AwaitTxID:  txid,
			FirstValid: g.FirstValid(),
			LastValid:  g.LastValid(),
		})
		if err != nil {
			return confirm.Confirmation{}, serr.Wrap(serr.KindConfiguration, fmt.Errorf("journal: %w", err))
		}
	}

	if err := o.builder.Submit(ctx, g); err != nil {
		o.settle(ctx, entry, 0, err)
		log.WithError(err).Warn("submit failed")
		return confirm.Confirmation{}, err
	}
	o.metrics.submitted(workflow, g.TotalFee())
	log.Debugf("submitted %d members, fee %d", g.Len(), g.TotalFee().Raw)

	conf, err := o.waiter.Await(ctx, txid, 0)
	o.settle(ctx, entry, conf.Round, err)
	if err != nil {
		log.WithError(err).Infof("%s did not confirm", workflow)
		return confirm.Confirmation{}, err
	}
	o.metrics.confirmed(workflow, basics.SubSaturate(conf.Round, g.FirstValid()))
	log.Infof("%s confirmed in round %d", workflow, conf.Round)
	return conf, nil
}

// journalStatus maps a submission or wait error to the journal status.
// Errors that leave the outcome unknown keep the entry pending.
func journalStatus(err error) journal.Status {
	if err == nil {
		return journal.Confirmed
	}
	switch serr.KindOf(err) {
	case serr.KindRejection:
		return journal.Rejected
	case serr.KindTimeout:
		return journal.TimedOut
	case serr.KindTransient:
		return journal.Submitted
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return journal.Submitted
	}
	return journal.Failed
}

func (o *Orchestrator) settle(ctx context.Context, entry uuid.UUID, round basics.Round, cause error) {
	if o.journal == nil || entry == uuid.Nil {
		return
	}
	if err := o.journal.Update(context.WithoutCancel(ctx), entry, journalStatus(cause), round, cause); err != nil {
		o.log.With("journal", entry.String()).WithError(err).Warn("could not update journal entry")
	}
}
