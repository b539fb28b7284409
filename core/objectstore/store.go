// Package objectstore is the core's in-memory working set (spec §6): one
// map plus zero or more secondary indices per entity type named in
// core/model, an UndoSession that lets a failed block's mutations be
// rolled back wholesale, and nothing about persistence or wire formats —
// those belong to an external collaborator.
package objectstore

import (
	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
)

// callOrderKey orders CallOrders by debt asset, then ascending call price,
// matching the original's per-market collateralization ordering.
type callOrderKey struct {
	debtAssetID fixedmath.AssetID
	callPrice   fixedmath.Price
}

func lessCallOrderKey(a, b callOrderKey) bool {
	if a.debtAssetID != b.debtAssetID {
		return a.debtAssetID < b.debtAssetID
	}
	return a.callPrice.Less(b.callPrice)
}

// limitOrderKey orders LimitOrders within a (base,quote) market by
// descending sell price, so Front() on the opposite market's index yields
// the best available match first.
type limitOrderKey struct {
	baseAssetID, quoteAssetID fixedmath.AssetID
	sellPrice                 fixedmath.Price
}

func lessLimitOrderKeyDescending(a, b limitOrderKey) bool {
	if a.baseAssetID != b.baseAssetID {
		return a.baseAssetID < b.baseAssetID
	}
	if a.quoteAssetID != b.quoteAssetID {
		return a.quoteAssetID < b.quoteAssetID
	}
	return b.sellPrice.Less(a.sellPrice)
}

func lessAssetID(a, b fixedmath.AssetID) bool { return a < b }
func lessDomainTime(a, b model.DomainTime) bool { return a < b }

// Store holds every live entity and its secondary indices. The zero value
// is not usable; construct with New.
type Store struct {
	assets     map[fixedmath.AssetID]*model.Asset
	bitassets  map[fixedmath.AssetID]*model.BitassetData
	byFeedExpiration *OrderedIndex[model.DomainTime, fixedmath.AssetID]
	byCERUpdate      *OrderedIndex[fixedmath.AssetID, fixedmath.AssetID]

	callOrders   map[model.CallOrderID]*model.CallOrder
	byCollateral *OrderedIndex[callOrderKey, model.CallOrderID]

	limitOrders          map[model.LimitOrderID]*model.LimitOrder
	byPrice              *OrderedIndex[limitOrderKey, model.LimitOrderID]
	limitOrderExpiration *OrderedIndex[model.DomainTime, model.LimitOrderID]

	forceSettlements          map[model.ForceSettlementID]*model.ForceSettlement
	forceSettlementExpiration *OrderedIndex[model.DomainTime, model.ForceSettlementID]

	proposals          map[model.ProposalID]*model.Proposal
	proposalExpiration *OrderedIndex[model.DomainTime, model.ProposalID]

	dedupes          map[model.DedupeID]*model.DedupeRecord
	dedupeExpiration *OrderedIndex[model.DomainTime, model.DedupeID]

	withdrawPermissions          map[model.WithdrawPermissionID]*model.WithdrawPermission
	withdrawPermissionExpiration *OrderedIndex[model.DomainTime, model.WithdrawPermissionID]

	htlcs          map[model.HTLCID]*model.HTLC
	htlcExpiration *OrderedIndex[model.DomainTime, model.HTLCID]

	tickets        map[model.TicketID]*model.Ticket
	byNextUpdate   *OrderedIndex[model.DomainTime, model.TicketID]

	accountStats map[model.AccountID]*model.AccountStatistics

	witnesses map[model.WitnessID]*model.Witness

	dynamicGlobalProperties model.DynamicGlobalProperties
	globalProperties        model.GlobalProperties
}

// New returns an empty Store with every index initialized.
func New() *Store {
	return &Store{
		assets:    make(map[fixedmath.AssetID]*model.Asset),
		bitassets: make(map[fixedmath.AssetID]*model.BitassetData),
		byFeedExpiration: NewOrderedIndex[model.DomainTime, fixedmath.AssetID](lessDomainTime),
		byCERUpdate:      NewOrderedIndex[fixedmath.AssetID, fixedmath.AssetID](lessAssetID),

		callOrders:   make(map[model.CallOrderID]*model.CallOrder),
		byCollateral: NewOrderedIndex[callOrderKey, model.CallOrderID](lessCallOrderKey),

		limitOrders:          make(map[model.LimitOrderID]*model.LimitOrder),
		byPrice:              NewOrderedIndex[limitOrderKey, model.LimitOrderID](lessLimitOrderKeyDescending),
		limitOrderExpiration: NewOrderedIndex[model.DomainTime, model.LimitOrderID](lessDomainTime),

		forceSettlements:          make(map[model.ForceSettlementID]*model.ForceSettlement),
		forceSettlementExpiration: NewOrderedIndex[model.DomainTime, model.ForceSettlementID](lessDomainTime),

		proposals:          make(map[model.ProposalID]*model.Proposal),
		proposalExpiration: NewOrderedIndex[model.DomainTime, model.ProposalID](lessDomainTime),

		dedupes:          make(map[model.DedupeID]*model.DedupeRecord),
		dedupeExpiration: NewOrderedIndex[model.DomainTime, model.DedupeID](lessDomainTime),

		withdrawPermissions:          make(map[model.WithdrawPermissionID]*model.WithdrawPermission),
		withdrawPermissionExpiration: NewOrderedIndex[model.DomainTime, model.WithdrawPermissionID](lessDomainTime),

		htlcs:          make(map[model.HTLCID]*model.HTLC),
		htlcExpiration: NewOrderedIndex[model.DomainTime, model.HTLCID](lessDomainTime),

		tickets:      make(map[model.TicketID]*model.Ticket),
		byNextUpdate: NewOrderedIndex[model.DomainTime, model.TicketID](lessDomainTime),

		accountStats: make(map[model.AccountID]*model.AccountStatistics),

		witnesses: make(map[model.WitnessID]*model.Witness),
	}
}

// NewSession opens an UndoSession over s. Exactly one of Commit or
// Rollback must eventually be called on the result.
func (s *Store) NewSession() *UndoSession {
	return &UndoSession{store: s}
}
