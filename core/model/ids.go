// Package model defines the entities of spec §3 and the small set of
// external-collaborator interfaces the core consumes (spec §6): an
// applied-operation sink and a block header. It intentionally carries no
// behavior — that lives in core/objectstore and core/processes/*.
package model

import "github.com/graphenechain/ledgercore/core/fixedmath"

// AssetID is re-exported from fixedmath so callers of model rarely need
// to import fixedmath directly for plain identifiers.
type AssetID = fixedmath.AssetID

// WitnessID identifies an active witness (spec §3, GLOSSARY).
type WitnessID uint64

// AccountID identifies an account (spec §3: CallOrder/LimitOrder/etc all
// carry an owning account).
type AccountID uint64

// CallOrderID, LimitOrderID, ForceSettlementID, ProposalID, DedupeID,
// WithdrawPermissionID, HTLCID and TicketID are the strongly-typed
// per-type identifiers spec §3 requires of the object store.
type (
	CallOrderID          uint64
	LimitOrderID         uint64
	ForceSettlementID    uint64
	ProposalID           uint64
	DedupeID             uint64
	WithdrawPermissionID uint64
	HTLCID               uint64
	TicketID             uint64
)
