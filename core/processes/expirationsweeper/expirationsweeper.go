// Package expirationsweeper implements spec §4.5's simpler expiration
// passes: deduplication, proposals, limit orders, withdraw permissions,
// and HTLCs. Forced settlement (§4.6) and tickets (§4.7) are involved
// enough to warrant their own packages; the core orchestrator sequences
// all of them together in the order spec §2's control-flow line names.
package expirationsweeper

import (
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
)

// ProposalExecutor is the external collaborator that interprets and
// attempts to push an expired proposal's staged transaction (spec §4.5:
// the core only knows ProposedOperations as an opaque blob).
type ProposalExecutor interface {
	Execute(proposedOperations []byte) error
}

// Sweeper runs the expiration passes it owns directly.
type Sweeper struct {
	ledger    model.Ledger
	sink      model.OperationSink
	proposals ProposalExecutor
}

// New constructs a Sweeper bound to its external collaborators.
func New(ledger model.Ledger, sink model.OperationSink, proposals ProposalExecutor) *Sweeper {
	return &Sweeper{ledger: ledger, sink: sink, proposals: proposals}
}

// SweepDedupeAndProposals runs spec §2's "expired transactions, proposals"
// step: neither can fail the block, so both are unconditional.
func (s *Sweeper) SweepDedupeAndProposals(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) {
	s.sweepDedupe(session, store, headTime)
	s.sweepProposals(session, store, headTime)
}

// SweepWithdrawPermissionsAndHTLCs runs spec §2's "withdraw permissions,
// HTLCs" step.
func (s *Sweeper) SweepWithdrawPermissionsAndHTLCs(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	s.sweepWithdrawPermissions(session, store, headTime)
	return s.sweepHTLCs(session, store, headTime)
}

// sweepDedupe evicts markers whose expiration is strictly before
// head_time (spec §4.5: dedupe is the one sweep using strict `<`, so
// markers survive at least one extra block past their nominal window).
func (s *Sweeper) sweepDedupe(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) {
	for _, id := range store.DedupeRecordsExpiredBy(headTime) {
		if rec := store.DedupeRecord(id); rec != nil && rec.Expiration.Before(headTime) {
			store.RemoveDedupeRecord(session, id)
		}
	}
}

// sweepProposals attempts to push every expired proposal's staged
// transaction, removing it regardless of the outcome (spec §4.5). An
// execution failure never aborts the block; it is discarded without
// being logged.
func (s *Sweeper) sweepProposals(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) {
	for _, id := range store.ProposalsExpiredBy(headTime) {
		p := store.Proposal(id)
		if p == nil {
			continue
		}
		// Execution failures are intentionally swallowed: spec §4.5 removes
		// the proposal either way and never aborts the block over it.
		_ = s.proposals.Execute(p.ProposedOperations)
		store.RemoveProposal(session, id)
	}
}

// SweepLimitOrders cancels every expired order, returning its remaining
// balance to the seller and emitting a LimitOrderExpireOp (spec §4.5,
// part of spec §2's "orders" step).
func (s *Sweeper) SweepLimitOrders(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	for _, id := range store.LimitOrdersExpiredBy(headTime) {
		o := store.LimitOrder(id)
		if o == nil {
			continue
		}
		returned := o.AmountForSale()
		if returned.Amount > 0 {
			if err := s.ledger.Credit(o.Seller, returned); err != nil {
				return err
			}
		}
		s.sink.PushAppliedOperation(model.LimitOrderExpireOp{OrderID: id, Seller: o.Seller, Returned: returned})
		store.RemoveLimitOrder(session, id)
	}
	return nil
}

// sweepWithdrawPermissions simply removes every lapsed permission (spec
// §4.5: no balance is held by a permission itself).
func (s *Sweeper) sweepWithdrawPermissions(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) {
	for _, id := range store.WithdrawPermissionsExpiredBy(headTime) {
		store.RemoveWithdrawPermission(session, id)
	}
}

// sweepHTLCs refunds every still-pending, now-expired contract to its
// sender, emitting an HTLCRefundOp (spec §4.5, scenario S6).
func (s *Sweeper) sweepHTLCs(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	for _, id := range store.HTLCsExpiredBy(headTime) {
		h := store.HTLC(id)
		if h == nil {
			continue
		}
		if err := s.ledger.Credit(h.From, h.Amount); err != nil {
			return err
		}
		s.sink.PushAppliedOperation(model.HTLCRefundOp{HTLCID: id, From: h.From, Amount: h.Amount})
		updated := *h
		updated.Status = model.HTLCExpired
		store.PutHTLC(session, updated)
		store.RemoveHTLC(session, id)
	}
	return nil
}
