package model

import "github.com/graphenechain/ledgercore/core/fixedmath"

// VirtualOperation is a record of a state change the core performed on an
// account's behalf rather than by direct transaction — order expiration,
// HTLC refunds, and the like (spec §6: push_applied_operation).
type VirtualOperation interface {
	isVirtualOperation()
}

// LimitOrderExpireOp records a limit order cancelled by the expiration
// sweeper, with the balance returned to its seller (spec §4.5).
type LimitOrderExpireOp struct {
	OrderID LimitOrderID
	Seller  AccountID
	Returned fixedmath.Asset
}

func (LimitOrderExpireOp) isVirtualOperation() {}

// HTLCRefundOp records an HTLC refunded to its sender after expiring
// unredeemed (spec §4.5, scenario S6).
type HTLCRefundOp struct {
	HTLCID HTLCID
	From   AccountID
	Amount fixedmath.Asset
}

func (HTLCRefundOp) isVirtualOperation() {}

// FillOrderOp records a margin-call trade the margin engine executed
// against a resting limit order (spec §4.4). Forced-settlement matches
// emit no FillOrderOp.
type FillOrderOp struct {
	OrderID  LimitOrderID
	Pays     fixedmath.Asset
	Receives fixedmath.Asset
	IsMaker  bool
}

func (FillOrderOp) isVirtualOperation() {}

// AssetSettleCancelOp records a forced-settlement request cancelled
// without a match (100% offset, already-settled asset, or a black swan
// during matching) (spec §4.6, scenario S5).
type AssetSettleCancelOp struct {
	RequestID ForceSettlementID
	Owner     AccountID
	Returned  fixedmath.Asset
}

func (AssetSettleCancelOp) isVirtualOperation() {}

// OperationSink is the external collaborator that records virtual
// operations emitted while applying a block (spec §6).
type OperationSink interface {
	PushAppliedOperation(op VirtualOperation)
}

// Ledger is the external collaborator responsible for account balances:
// crediting refunds, debiting witness pay, and so on. The core never
// holds balances itself — only the entities in this package.
type Ledger interface {
	Credit(account AccountID, amount fixedmath.Asset) error
	Debit(account AccountID, amount fixedmath.Asset) error
}
