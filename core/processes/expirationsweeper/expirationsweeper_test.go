package expirationsweeper

import (
	"testing"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
)

type fakeLedger struct {
	credited map[model.AccountID]fixedmath.Asset
}

func newFakeLedger() *fakeLedger { return &fakeLedger{credited: map[model.AccountID]fixedmath.Asset{}} }

func (l *fakeLedger) Credit(account model.AccountID, amount fixedmath.Asset) error {
	prev := l.credited[account]
	l.credited[account] = fixedmath.NewAsset(prev.Amount+amount.Amount, amount.ID)
	return nil
}

func (l *fakeLedger) Debit(account model.AccountID, amount fixedmath.Asset) error { return nil }

type fakeSink struct {
	ops []model.VirtualOperation
}

func (s *fakeSink) PushAppliedOperation(op model.VirtualOperation) { s.ops = append(s.ops, op) }

type fakeExecutor struct {
	calls int
	fail  bool
}

func (e *fakeExecutor) Execute(_ []byte) error {
	e.calls++
	if e.fail {
		return errTest
	}
	return nil
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")

const core fixedmath.AssetID = fixedmath.CoreAssetID

// TestSweepWithdrawPermissionsAndHTLCsRefundsExpired is scenario S6.
func TestSweepWithdrawPermissionsAndHTLCsRefundsExpired(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	store.PutHTLC(session, model.HTLC{
		ID:         1,
		From:       10,
		To:         20,
		Amount:     fixedmath.NewAsset(100, core),
		Expiration: 100,
		Status:     model.HTLCPending,
	})
	session.Commit()

	ledger := newFakeLedger()
	sink := &fakeSink{}
	sweeper := New(ledger, sink, &fakeExecutor{})

	session = store.NewSession()
	if err := sweeper.SweepWithdrawPermissionsAndHTLCs(session, store, 101); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Commit()

	if got := ledger.credited[10]; got.Amount != 100 {
		t.Fatalf("expected account 10 credited 100, got %+v", got)
	}
	if store.HTLC(1) != nil {
		t.Fatalf("expected HTLC to be removed")
	}
	if len(sink.ops) != 1 {
		t.Fatalf("expected exactly one virtual op, got %d", len(sink.ops))
	}
	if _, ok := sink.ops[0].(model.HTLCRefundOp); !ok {
		t.Fatalf("expected an HTLCRefundOp, got %T", sink.ops[0])
	}
}

func TestSweepDedupeUsesStrictLessThan(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	store.PutDedupeRecord(session, model.DedupeRecord{ID: 1, Expiration: 100})
	session.Commit()

	sweeper := New(newFakeLedger(), &fakeSink{}, &fakeExecutor{})

	session = store.NewSession()
	sweeper.sweepDedupe(session, store, 100)
	session.Commit()
	if !store.HasDedupeRecord(1) {
		t.Fatalf("expected record to survive at exact expiration (strict <)")
	}

	session = store.NewSession()
	sweeper.sweepDedupe(session, store, 101)
	session.Commit()
	if store.HasDedupeRecord(1) {
		t.Fatalf("expected record to be evicted once head_time passes expiration")
	}
}

func TestSweepLimitOrdersReturnsBalanceAndEmitsOp(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	usd := fixedmath.AssetID(1)
	store.PutLimitOrder(session, model.LimitOrder{
		ID:         1,
		Seller:     7,
		ForSale:    50,
		SellPrice:  fixedmath.NewPrice(fixedmath.NewAsset(1, core), fixedmath.NewAsset(1, usd)),
		Expiration: 10,
	})
	session.Commit()

	ledger := newFakeLedger()
	sink := &fakeSink{}
	sweeper := New(ledger, sink, &fakeExecutor{})

	session = store.NewSession()
	if err := sweeper.SweepLimitOrders(session, store, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Commit()

	if got := ledger.credited[7]; got.Amount != 50 {
		t.Fatalf("expected seller credited 50, got %+v", got)
	}
	if store.LimitOrder(1) != nil {
		t.Fatalf("expected the order to be removed")
	}
}

func TestSweepDedupeAndProposalsRemovesRegardlessOfExecutionOutcome(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()
	store.PutProposal(session, model.Proposal{ID: 1, ExpirationTime: 5})
	session.Commit()

	exec := &fakeExecutor{fail: true}
	sweeper := New(newFakeLedger(), &fakeSink{}, exec)

	session = store.NewSession()
	sweeper.SweepDedupeAndProposals(session, store, 5)
	session.Commit()

	if exec.calls != 1 {
		t.Fatalf("expected exactly one execution attempt, got %d", exec.calls)
	}
	if store.Proposal(1) != nil {
		t.Fatalf("expected proposal removed even after a failed execution")
	}
}
