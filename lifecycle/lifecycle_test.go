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
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/algorand/go-certmint/certificate"
	"github.com/algorand/go-certmint/config"
	"github.com/algorand/go-certmint/confirm"
	"github.com/algorand/go-certmint/data/account"
	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/journal"
	"github.com/algorand/go-certmint/ledger"
	"github.com/algorand/go-certmint/ledger/ledgertest"
	"github.com/algorand/go-certmint/logging"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/test/partitiontest"
	"github.com/algorand/go-certmint/txgroup"
)

var (
	approval      = []byte{0x06, 0x81, 0x01, 0x43}
	clearProgram  = []byte{0x06, 0x81, 0x01}
	escrowProgram = []byte{0x06, 0x20, 0x01, 0x01, 0x22}
	checkHash     = []byte("expected-check-hash")
)

type fixture struct {
	l         *ledgertest.Ledger
	o         *Orchestrator
	j         *journal.Journal
	spans     *tracetest.SpanRecorder
	creator   *account.KeyAccount
	initiator *account.KeyAccount
	enclave   *account.KeyAccount
	escrow    *account.LogicSigAccount
}

func testConfig() config.Local {
	cfg := config.GetDefaultLocal()
	cfg.PollBackoff = time.Millisecond
	return cfg
}

func newFixture(t *testing.T, cfg config.Local) *fixture {
	t.Helper()
	l := ledgertest.New()
	j, err := journal.Open(context.Background(), t.Name()+"-"+uuid.NewString(), true)
	require.NoError(t, err)
	t.Cleanup(j.Close)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })

	o, err := New(l, cfg,
		WithLogger(logging.TestingLog(t)),
		WithJournal(j),
		WithRegisterer(prometheus.NewRegistry()),
		WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	escrow, err := account.NewLogicSigAccount(escrowProgram, nil)
	require.NoError(t, err)
	return &fixture{
		l:         l,
		o:         o,
		j:         j,
		spans:     spans,
		creator:   l.NewFundedAccount(10000000),
		initiator: l.NewFundedAccount(10000000),
		enclave:   account.GenerateKeyAccount(),
		escrow:    escrow,
	}
}

func (f *fixture) deploy(t *testing.T) AppMetadata {
	t.Helper()
	meta, err := f.o.Deploy(context.Background(), f.creator, DeployRequest{
		Approval:   approval,
		Clear:      clearProgram,
		SigningKey: f.enclave.PublicKey(),
		CheckHash:  checkHash,
		Schema:     certificate.OwnershipSchema(),
	})
	require.NoError(t, err)
	return meta
}

func (f *fixture) certificate(t *testing.T, meta AppMetadata) certificate.Certificate {
	t.Helper()
	data, err := certificate.OwnershipSchema().Encode(certificate.Ownership{
		CheckHash: checkHash,
		ID:        "123e4567-e89b-12d3-a456-426614174000",
		Escrow:    f.escrow.Address(),
		Initiator: f.initiator.Address(),
		AssetID:   []byte{0xf3, 0x18},
		Timestamp: 1652287366,
	}.Values())
	require.NoError(t, err)
	return certificate.Sign(f.enclave, meta.ProgramHash, data)
}

func (f *fixture) mint(t *testing.T, meta AppMetadata) MintResult {
	t.Helper()
	res, err := f.o.Mint(context.Background(), MintRequest{
		AppID:       meta.AppID,
		Sender:      f.initiator,
		Certificate: f.certificate(t, meta),
		Escrow:      f.escrow,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) spanNames() []string {
	var names []string
	for _, s := range f.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestDeployAndReadState(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	meta := f.deploy(t)
	require.NotZero(t, meta.AppID)
	require.Equal(t, certificate.ProgramHash(approval), meta.ProgramHash)
	require.Equal(t, meta.AppID.Address(), meta.Address)

	st, err := f.o.ApplicationState(context.Background(), meta.AppID)
	require.NoError(t, err)
	require.Equal(t, f.creator.Address(), st.Creator)
	require.Equal(t, f.enclave.PublicKey(), st.SigningKey)
	require.Equal(t, checkHash, st.CheckHash)
	require.ElementsMatch(t, certificate.OwnershipSchema(), st.Schema)

	require.Equal(t, []string{"certmint.deploy"}, f.spanNames())
	require.Equal(t, 1.0, testutil.ToFloat64(f.o.metrics.workflows.WithLabelValues(WorkflowDeploy, outcomeConfirmed)))
}

func TestDeployValidation(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	good := DeployRequest{Approval: approval, Clear: clearProgram, SigningKey: f.enclave.PublicKey(), CheckHash: checkHash, Schema: certificate.OwnershipSchema()}

	noCheck := good
	noCheck.CheckHash = nil
	noProgram := good
	noProgram.Approval = nil
	badSchema := good
	badSchema.Schema = certificate.Schema{{Name: "id", Type: certificate.ByteSlice}}
	badType := good
	badType.Schema = append(certificate.OwnershipSchema(), certificate.Field{Name: "x", Type: certificate.FieldType(9)})

	for name, req := range map[string]DeployRequest{"no check hash": noCheck, "no program": noProgram, "missing fields": badSchema, "bad type": badType} {
		_, err := f.o.Deploy(context.Background(), f.creator, req)
		require.Error(t, err, name)
		require.Equal(t, serr.KindConfiguration, serr.KindOf(err), name)
	}
	require.Zero(t, f.l.Submissions())
	require.Equal(t, 4.0, testutil.ToFloat64(f.o.metrics.workflows.WithLabelValues(WorkflowDeploy, outcomeConfiguration)))
}

func TestMintGroupLayout(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	meta := f.deploy(t)
	ctx := context.Background()
	intents, topUp, err := f.o.mintIntents(ctx, MintRequest{AppID: meta.AppID, Sender: f.initiator, Certificate: f.certificate(t, meta), Escrow: f.escrow})
	require.NoError(t, err)
	require.Len(t, intents, 16)

	g, err := f.o.builder.Build(ctx, intents)
	require.NoError(t, err)
	txns := g.Txns()

	// the application pays its floor plus one held asset
	require.Equal(t, meta.Address, txns[0].Receiver)
	require.Equal(t, uint64(200000), txns[0].Amount.Raw)
	// the escrow pays its floor plus the opt-in: 100000 + 2*28500 + 5*50000
	require.Equal(t, f.escrow.Address(), txns[1].Receiver)
	require.Equal(t, uint64(507000), txns[1].Amount.Raw)
	require.Equal(t, uint64(707000), topUp)
	require.Equal(t, f.escrow.Address(), txns[2].Sender)

	require.Equal(t, []byte(methodMint), txns[mintCallIndex].ApplicationArgs[0])
	require.Equal(t, []basics.Address{f.escrow.Address()}, txns[mintCallIndex].Accounts)
	require.Equal(t, uint64(17000), txns[mintCallIndex].Fee.Raw)
	for i, txn := range txns {
		if i != mintCallIndex {
			require.Zero(t, txn.Fee.Raw, "member %d", i)
		}
		if i > mintCallIndex {
			require.Equal(t, []byte(methodFund), txn.ApplicationArgs[0])
			require.Len(t, txn.Note, 32)
		}
	}
}

func TestMintOptInClaim(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)

	res := f.mint(t, meta)
	require.NotZero(t, res.AssetID)
	require.NotZero(t, res.Confirmation.Round)
	asset, err := f.o.AssetForEscrow(ctx, f.escrow.Address(), meta.AppID)
	require.NoError(t, err)
	require.Equal(t, res.AssetID, asset)

	local, err := f.o.EscrowState(ctx, f.escrow.Address(), meta.AppID)
	require.NoError(t, err)
	initiator := f.initiator.Address()
	got, err := local.KeyValue.GetBytes(certificate.FieldInitiatorPkey)
	require.NoError(t, err)
	require.Equal(t, initiator[:], got)

	info, err := f.l.AssetInformation(ctx, asset)
	require.NoError(t, err)
	require.Equal(t, meta.Address, info.Creator)
	require.Equal(t, uint64(2), info.Params.Total)
	require.Zero(t, info.Params.Decimals)
	for role, addr := range map[string]basics.Address{
		"manager":  info.Params.Manager,
		"reserve":  info.Params.Reserve,
		"freeze":   info.Params.Freeze,
		"clawback": info.Params.Clawback,
	} {
		require.Equal(t, meta.Address, addr, role)
	}
	slot, err := local.KeyValue.GetUint(KeyAssetID)
	require.NoError(t, err)
	require.Equal(t, uint64(asset), slot)

	_, err = f.o.OptIntoOwnAsset(ctx, f.escrow, meta.AppID, f.initiator)
	require.NoError(t, err)

	before := f.l.Submissions()
	_, err = f.o.OptIntoOwnAsset(ctx, f.escrow, meta.AppID, f.initiator)
	require.ErrorIs(t, err, ErrAlreadyOptedIn)
	require.Equal(t, before, f.l.Submissions())

	conf, err := f.o.Claim(ctx, meta.AppID, f.initiator, f.escrow.Address())
	require.NoError(t, err)
	require.Len(t, conf.InnerTxns, 2)
	for _, addr := range []basics.Address{f.escrow.Address(), initiator} {
		ai, err := f.l.AccountInformation(ctx, addr)
		require.NoError(t, err)
		require.Equal(t, uint64(1), ai.Assets[asset].Amount)
	}

	pending, err := f.j.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
	entries, err := f.j.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, e := range entries {
		require.Equal(t, journal.Confirmed, e.Status, e.Workflow)
		require.NotZero(t, e.ConfirmedRound)
	}

	m := f.o.metrics
	require.Equal(t, 1.0, testutil.ToFloat64(m.workflows.WithLabelValues(WorkflowMint, outcomeConfirmed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.workflows.WithLabelValues(WorkflowOptInAsset, outcomeSkipped)))
	require.Equal(t, 17000.0, testutil.ToFloat64(m.fees.WithLabelValues(WorkflowMint)))
	require.Equal(t, 4000.0, testutil.ToFloat64(m.fees.WithLabelValues(WorkflowClaim)))
	require.Equal(t, 707000.0, testutil.ToFloat64(m.topUps.WithLabelValues(WorkflowMint)))
	require.Equal(t, []string{"certmint.deploy", "certmint.mint", "certmint.optin-asset", "certmint.optin-asset", "certmint.claim"}, f.spanNames())
}

func TestClaimByStrangerIsRejected(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)
	f.mint(t, meta)
	_, err := f.o.OptIntoOwnAsset(ctx, f.escrow, meta.AppID, f.initiator)
	require.NoError(t, err)

	stranger := f.l.NewFundedAccount(1000000)
	holders := []basics.Address{f.escrow.Address(), f.initiator.Address(), stranger.Address()}
	balances := func() []ledger.AccountInfo {
		var out []ledger.AccountInfo
		for _, addr := range holders {
			ai, err := f.l.AccountInformation(ctx, addr)
			require.NoError(t, err)
			out = append(out, ai)
		}
		return out
	}
	before := balances()

	_, err = f.o.Claim(ctx, meta.AppID, stranger, f.escrow.Address())
	require.Error(t, err)
	require.Equal(t, serr.KindRejection, serr.KindOf(err))
	require.Contains(t, err.Error(), "not the initiator")
	require.Equal(t, before, balances(), "a rejected claim changes no balance")

	entries, err := f.j.List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, journal.Rejected, entries[0].Status)
	require.Contains(t, entries[0].Error, "not the initiator")
}

func TestMintRejections(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)

	cert := f.certificate(t, meta)
	cert.Signature[0] ^= 1
	_, err := f.o.Mint(ctx, MintRequest{AppID: meta.AppID, Sender: f.initiator, Certificate: cert, Escrow: f.escrow})
	require.Equal(t, serr.KindRejection, serr.KindOf(err))
	require.Contains(t, err.Error(), "ed25519verify")

	_, err = f.o.AssetForEscrow(ctx, f.escrow.Address(), meta.AppID)
	require.ErrorIs(t, err, ErrNotOptedIn)

	_, err = f.o.Mint(ctx, MintRequest{AppID: meta.AppID, Sender: f.initiator, Escrow: f.escrow})
	require.Equal(t, serr.KindConfiguration, serr.KindOf(err))

	f.mint(t, meta)
	_, err = f.o.Mint(ctx, MintRequest{AppID: meta.AppID, Sender: f.initiator, Certificate: f.certificate(t, meta), Escrow: f.escrow})
	require.Equal(t, serr.KindRejection, serr.KindOf(err), "an escrow mints once")
	require.Equal(t, 2.0, testutil.ToFloat64(f.o.metrics.workflows.WithLabelValues(WorkflowMint, outcomeRejected)))
}

// offlineClient panics on any call, so a workflow that reaches the node fails
// the test.
type offlineClient struct {
	ledger.Client
}

func TestZeroIDsRejectedBeforeNetwork(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	o, err := New(offlineClient{}, testConfig(), WithLogger(logging.TestingLog(t)), WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	ctx := context.Background()
	escrow, err := account.NewLogicSigAccount(escrowProgram, nil)
	require.NoError(t, err)
	sender := account.GenerateKeyAccount()
	cert := certificate.Certificate{Data: []byte{0xa0}}

	calls := map[string]func() error{
		"mint": func() error {
			_, err := o.Mint(ctx, MintRequest{Sender: sender, Certificate: cert, Escrow: escrow})
			return err
		},
		"claim": func() error {
			_, err := o.Claim(ctx, 0, sender, escrow.Address())
			return err
		},
		"optin own asset": func() error {
			_, err := o.OptIntoOwnAsset(ctx, escrow, 0, sender)
			return err
		},
		"optin asset": func() error {
			_, err := o.OptIntoAsset(ctx, escrow, 0, 7, sender)
			return err
		},
		"optin app": func() error {
			_, err := o.OptIntoApplication(ctx, escrow, 0, 9, sender)
			return err
		},
		"optin app target": func() error {
			_, err := o.OptIntoApplication(ctx, escrow, 9, 0, sender)
			return err
		},
	}
	for name, call := range calls {
		var err error
		require.NotPanics(t, func() { err = call() }, name)
		require.ErrorIs(t, err, ErrZeroApplication, name)
		require.Equal(t, serr.KindConfiguration, serr.KindOf(err), name)
	}

	var err2 error
	require.NotPanics(t, func() { _, err2 = o.OptIntoAsset(ctx, escrow, 9, 0, sender) })
	require.ErrorIs(t, err2, ErrZeroAsset)
	require.NotPanics(t, func() { _, err2 = o.Mint(ctx, MintRequest{AppID: 9, Sender: sender, Certificate: cert}) })
	require.ErrorIs(t, err2, ErrMissingSigner)
}

func TestTooFewFillersExhaustBudget(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cfg := testConfig()
	cfg.MintFillerTxns = 4
	f := newFixture(t, cfg)
	meta := f.deploy(t)
	_, err := f.o.Mint(context.Background(), MintRequest{AppID: meta.AppID, Sender: f.initiator, Certificate: f.certificate(t, meta), Escrow: f.escrow})
	require.Equal(t, serr.KindRejection, serr.KindOf(err))
	require.Contains(t, err.Error(), "budget")
}

func TestRotateKey(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)
	oldCert := f.certificate(t, meta)

	f.enclave = account.GenerateKeyAccount()
	require.NoError(t, f.o.SetSigningKey(ctx, f.creator, meta.AppID, f.enclave.PublicKey()))
	st, err := f.o.ApplicationState(ctx, meta.AppID)
	require.NoError(t, err)
	require.Equal(t, f.enclave.PublicKey(), st.SigningKey)

	_, err = f.o.Mint(ctx, MintRequest{AppID: meta.AppID, Sender: f.initiator, Certificate: oldCert, Escrow: f.escrow})
	require.Equal(t, serr.KindRejection, serr.KindOf(err))
	f.mint(t, meta)

	err = f.o.SetSigningKey(ctx, f.initiator, meta.AppID, f.enclave.PublicKey())
	require.Equal(t, serr.KindRejection, serr.KindOf(err))
}

func TestTimeoutThenResume(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cfg := testConfig()
	cfg.WaitRounds = 2
	f := newFixture(t, cfg)
	ctx := context.Background()
	meta := f.deploy(t)

	f.l.HoldBlocks(true)
	newKey := account.GenerateKeyAccount().PublicKey()
	err := f.o.SetSigningKey(ctx, f.creator, meta.AppID, newKey)
	require.ErrorIs(t, err, confirm.ErrNotConfirmed)
	require.Equal(t, serr.KindTimeout, serr.KindOf(err))

	pending, err := f.j.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, journal.TimedOut, pending[0].Status)
	require.Equal(t, WorkflowSetKey, pending[0].Workflow)

	submissions := f.l.Submissions()
	f.l.HoldBlocks(false)
	resolved, err := f.o.ResumePending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, journal.Confirmed, resolved[0].Status)
	require.NoError(t, resolved[0].Err)
	require.Equal(t, submissions, f.l.Submissions(), "resuming never resubmits")

	pending, err = f.j.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestSubmitFailureKeepsEntryPending(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)

	f.l.FailNextSubmit(serr.Transient(errors.New("connection reset")))
	err := f.o.SetSigningKey(ctx, f.creator, meta.AppID, f.enclave.PublicKey())
	require.Equal(t, serr.KindTransient, serr.KindOf(err))

	pending, err := f.j.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, journal.Submitted, pending[0].Status)
	require.Contains(t, pending[0].Error, "connection reset")
}

func TestResumeExpiresUnseenSubmission(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)

	f.l.FailNextSubmit(serr.Transient(errors.New("connection reset")))
	err := f.o.SetSigningKey(ctx, f.creator, meta.AppID, f.enclave.PublicKey())
	require.Equal(t, serr.KindTransient, serr.KindOf(err))
	pending, err := f.j.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	entry := pending[0]

	_, err = f.l.StatusAfterBlock(ctx, entry.LastValid+9)
	require.NoError(t, err)
	submissions := f.l.Submissions()

	resolved, err := f.o.ResumePending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, journal.Expired, resolved[0].Status)
	require.ErrorIs(t, resolved[0].Err, ErrExpired)
	require.Equal(t, submissions, f.l.Submissions())

	pending, err = f.j.Pending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
	e, err := f.j.Get(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, journal.Expired, e.Status)
	require.Contains(t, e.Error, "validity window")

	resolved, err = f.o.ResumePending(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, resolved)
}

func TestResumeConfirmsLateEntryPastValidity(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	cfg := testConfig()
	cfg.WaitRounds = 1
	f := newFixture(t, cfg)
	ctx := context.Background()
	meta := f.deploy(t)

	f.l.HoldBlocks(true)
	err := f.o.SetSigningKey(ctx, f.creator, meta.AppID, f.enclave.PublicKey())
	require.Equal(t, serr.KindTimeout, serr.KindOf(err))
	pending, err := f.j.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// the group lands in the next block, after which the window closes
	f.l.HoldBlocks(false)
	_, err = f.l.StatusAfterBlock(ctx, f.l.Round())
	require.NoError(t, err)
	_, err = f.l.StatusAfterBlock(ctx, pending[0].LastValid+1)
	require.NoError(t, err)

	resolved, err := f.o.ResumePending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, journal.Confirmed, resolved[0].Status)
	require.NoError(t, resolved[0].Err)
}

func TestPoolDropIsRejection(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	meta := f.deploy(t)
	f.l.DropNextGroup("transaction dead: round passed")
	err := f.o.SetSigningKey(context.Background(), f.creator, meta.AppID, f.enclave.PublicKey())
	require.ErrorIs(t, err, confirm.ErrRejected)
	require.Contains(t, err.Error(), "round passed")
}

func TestOptIntoApplication(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	ctx := context.Background()
	meta := f.deploy(t)
	f.mint(t, meta)

	// a second, plain application the escrow joins with the minter's permission
	other := f.l.NewFundedAccount(5000000)
	create := txgroup.AppCreate(other.Address(), approval, clearProgram,
		basics.StateSchema{}, basics.StateSchema{NumUint: 1, NumByteSlice: 1})
	conf, err := f.o.execute(ctx, "create-plain", []txgroup.Intent{{Txn: create, Signer: other, Fee: txgroup.FeeSelf}}, 0)
	require.NoError(t, err)
	plain := conf.ApplicationIndex
	require.NotZero(t, plain)

	_, err = f.o.OptIntoApplication(ctx, f.escrow, meta.AppID, plain, f.initiator)
	require.NoError(t, err)
	info, err := f.l.AccountInformation(ctx, f.escrow.Address())
	require.NoError(t, err)
	require.True(t, info.OptedIn(plain))
	require.GreaterOrEqual(t, info.Amount.Raw, info.MinBalance.Raw)

	_, err = f.o.OptIntoApplication(ctx, f.escrow, meta.AppID, plain, f.initiator)
	require.ErrorIs(t, err, ErrAlreadyOptedIn)
	require.Equal(t, serr.KindConfiguration, serr.KindOf(err))
}

func TestOptInBeforeMint(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	f := newFixture(t, testConfig())
	meta := f.deploy(t)
	_, err := f.o.OptIntoOwnAsset(context.Background(), f.escrow, meta.AppID, f.initiator)
	require.ErrorIs(t, err, ErrNotOptedIn)
	require.Equal(t, serr.KindConfiguration, serr.KindOf(err))
}

func TestNewRejectsOversizedMintGroup(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	proto := config.Consensus
	proto.MaxTxGroupSize = 8
	_, err := New(ledgertest.New(), testConfig(), WithConsensus(proto))
	require.Equal(t, serr.KindConfiguration, serr.KindOf(err))
}

func TestJournalStatus(t *testing.T) {
	partitiontest.PartitionTest(t)
	t.Parallel()

	require.Equal(t, journal.Confirmed, journalStatus(nil))
	require.Equal(t, journal.Rejected, journalStatus(serr.Rejection("overspend")))
	require.Equal(t, journal.TimedOut, journalStatus(serr.Timeout("pending")))
	require.Equal(t, journal.Submitted, journalStatus(serr.Transient(errors.New("eof"))))
	require.Equal(t, journal.Submitted, journalStatus(context.Canceled))
	require.Equal(t, journal.Failed, journalStatus(errors.New("other")))
}
