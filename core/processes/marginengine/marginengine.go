// Package marginengine implements spec §4.4: detecting and resolving a
// black swan for a market-issued asset, and otherwise matching its
// least-collateralized call orders against resting limit orders once
// their call price crosses margin_call_order_price.
package marginengine

import (
	"math/big"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/params"
	"github.com/graphenechain/ledgercore/ruleerrors"
)

// MarginEngine checks a bitasset's call orders against its feed, settling
// the market globally on a black swan or matching margin calls against
// the resting order book otherwise.
type MarginEngine struct {
	params *params.Parameters
	ledger model.Ledger
	sink   model.OperationSink
}

// New constructs a MarginEngine bound to the ledger it credits collateral
// through and the sink it reports fills to.
func New(p *params.Parameters, ledger model.Ledger, sink model.OperationSink) *MarginEngine {
	return &MarginEngine{params: p, ledger: ledger, sink: sink}
}

// CheckCallOrders is the entry point the feed aggregator and Core's
// per-block orders step call into (spec §4.3 ⇒ §4.4): check the asset
// for a black swan, then run margin-call matching if none was found.
// enableBlackSwan mirrors the original's parameter of the same name;
// when it is false a triggered black swan is returned as
// ErrBlackSwanDuringMarginOp. Both callers pass true. The forced-
// settlement matcher does not call this; it uses DetectBlackSwan.
func (m *MarginEngine) CheckCallOrders(session *objectstore.UndoSession, store *objectstore.Store, assetID fixedmath.AssetID, enableBlackSwan bool) error {
	asset := store.Asset(assetID)
	if asset == nil || !asset.IsMarketIssued {
		return nil
	}
	bitasset := store.Bitasset(assetID)
	if bitasset == nil || bitasset.IsGlobalSettled {
		return nil
	}
	if bitasset.CurrentFeed.SettlementPrice.IsNull() {
		return nil
	}

	swan, err := m.checkForBlackSwan(session, store, asset, bitasset, enableBlackSwan)
	if err != nil {
		return err
	}
	if swan {
		return nil
	}

	return m.matchMarginCalls(session, store, asset, bitasset)
}

// leastCollateralized returns the call order sharing debtAssetID with the
// smallest call_price (spec §4.4: "the call order with the least
// collateral backing its debt"), or nil if the debt asset has none. A
// call_price's base leg is the collateral and the by_collateral index
// sorts ascending, so the first entry under the ceiling key is the one
// wanted.
func leastCollateralized(store *objectstore.Store, debtAssetID, backingAssetID fixedmath.AssetID) *model.CallOrder {
	ceiling := objectstore.NewCallOrderKey(debtAssetID, fixedmath.PriceMax(backingAssetID, debtAssetID))
	ids := store.CallOrdersBelow(ceiling)
	if len(ids) == 0 {
		return nil
	}
	order := store.CallOrder(ids[0])
	if order == nil || order.Debt.ID != debtAssetID {
		return nil
	}
	return order
}

// DetectBlackSwan is the read-only half of spec §4.4 steps 4–6: it
// reports whether M's least-collateralized call order currently
// satisfies the black-swan test, without settling anything. The forced-
// settlement matcher (spec §4.6) uses this to probe a tentative match
// before committing it, since that sweep must cancel-and-continue on a
// would-be black swan rather than trigger one.
func (m *MarginEngine) DetectBlackSwan(store *objectstore.Store, assetID fixedmath.AssetID) (bool, error) {
	asset := store.Asset(assetID)
	bitasset := store.Bitasset(assetID)
	if asset == nil || bitasset == nil || bitasset.IsGlobalSettled || bitasset.CurrentFeed.SettlementPrice.IsNull() {
		return false, nil
	}
	_, triggered, err := m.evaluateBlackSwan(store, asset, bitasset)
	return triggered, err
}

// evaluateBlackSwan implements spec §4.4 steps 4–6's predicate: the
// least-collateralized call order's inverted collateralization (lc) must
// reach or exceed the higher of max_short_squeeze_price and the best
// resting bid for the debt asset (grounded on
// original_source/libraries/chain/db_update.cpp's check_for_blackswan).
func (m *MarginEngine) evaluateBlackSwan(store *objectstore.Store, asset *model.Asset, bitasset *model.BitassetData) (fixedmath.Price, bool, error) {
	backingAssetID := bitasset.Options.ShortBackingAssetID

	order := leastCollateralized(store, asset.ID, backingAssetID)
	if order == nil {
		return fixedmath.Price{}, false, nil
	}

	highest, err := fixedmath.MaxShortSqueezePrice(bitasset.CurrentFeed, m.params.CollateralRatioDenom)
	if err != nil {
		return fixedmath.Price{}, false, err
	}
	if bidID, ok := store.BestLimitOrder(asset.ID, backingAssetID); ok {
		if bid := store.LimitOrder(bidID); bid != nil && highest.Less(bid.SellPrice) {
			highest = bid.SellPrice
		}
	}

	lc := fixedmath.NewPrice(order.Collateral, order.Debt).Invert()
	return lc, !lc.Less(highest), nil
}

// checkForBlackSwan implements spec §4.4's mutating half: on a triggered
// black swan it globally settles M, or fails fatally when the caller
// forbids it.
func (m *MarginEngine) checkForBlackSwan(session *objectstore.UndoSession, store *objectstore.Store, asset *model.Asset, bitasset *model.BitassetData, enableBlackSwan bool) (bool, error) {
	lc, triggered, err := m.evaluateBlackSwan(store, asset, bitasset)
	if err != nil {
		return false, err
	}
	if !triggered {
		return false, nil
	}

	if !enableBlackSwan {
		return false, ruleerrors.ErrBlackSwanDuringMarginOp
	}

	settleAt := bitasset.CurrentFeed.SettlementPrice
	if !lc.Less(settleAt) && !lc.Equal(settleAt) {
		settleAt = lc
	}
	return true, m.globallySettle(session, store, asset, bitasset, settleAt)
}

// globallySettle marks the bitasset settled, sweeps every remaining call
// order for it into the settlement fund, and cancels them (spec §4.4:
// once IsGlobalSettled is true it can never be unset).
func (m *MarginEngine) globallySettle(session *objectstore.UndoSession, store *objectstore.Store, asset *model.Asset, bitasset *model.BitassetData, settleAt fixedmath.Price) error {
	ceiling := objectstore.NewCallOrderKey(asset.ID, fixedmath.PriceMax(bitasset.Options.ShortBackingAssetID, asset.ID))
	var fund int64
	for _, id := range store.CallOrdersBelow(ceiling) {
		order := store.CallOrder(id)
		if order == nil || order.Debt.ID != asset.ID {
			continue
		}
		fund += order.Collateral.Amount
		store.RemoveCallOrder(session, id)
	}

	updated := *bitasset
	updated.IsGlobalSettled = true
	updated.SettlementPrice = settleAt
	updated.SettlementFund = fund
	store.PutBitasset(session, updated)
	return nil
}

// matchMarginCalls repeatedly matches the least-collateralized call order
// against the best resting bid at margin_call_order_price or better,
// stopping once no order qualifies or no bid can fill it (spec §4.4).
func (m *MarginEngine) matchMarginCalls(session *objectstore.UndoSession, store *objectstore.Store, asset *model.Asset, bitasset *model.BitassetData) error {
	backingAssetID := bitasset.Options.ShortBackingAssetID
	denom := m.params.CollateralRatioDenom

	mcop, err := fixedmath.MarginCallOrderPrice(bitasset.CurrentFeed, bitasset.Options.MarginCallFeeRatio, denom)
	if err != nil {
		return err
	}
	payRatio := fixedmath.MarginCallPaysRatio(bitasset.CurrentFeed, bitasset.Options.MarginCallFeeRatio, denom)
	// mcop is Base=debt/Quote=collateral (Feed.SettlementPrice's convention);
	// a call order's own call_price is Base=collateral/Quote=debt, so invert
	// mcop once to compare them directly.
	threshold := mcop.Invert()

	for {
		order := leastCollateralized(store, asset.ID, backingAssetID)
		if order == nil {
			return nil
		}
		if order.CallPrice.Less(threshold) {
			return nil
		}

		bidID, ok := store.BestLimitOrder(asset.ID, backingAssetID)
		if !ok {
			return nil
		}
		bid := store.LimitOrder(bidID)
		if bid == nil || (!mcop.Less(bid.SellPrice) && !mcop.Equal(bid.SellPrice)) {
			return nil
		}

		if err := m.fillMarginCall(session, store, asset, bitasset, order, bid, mcop, payRatio); err != nil {
			return err
		}
	}
}

// fillMarginCall executes one match between a callable order and the
// resting bid it clears against, splitting the collateral payout by
// payRatio and returning any leftover collateral to the borrower once
// the order's debt is fully repaid (spec §4.4/§4.1: margin_call_pays_ratio).
func (m *MarginEngine) fillMarginCall(
	session *objectstore.UndoSession,
	store *objectstore.Store,
	asset *model.Asset,
	bitasset *model.BitassetData,
	order *model.CallOrder,
	bid *model.LimitOrder,
	mcop fixedmath.Price,
	payRatio fixedmath.Ratio,
) error {
	debtFilled := order.Debt.Amount
	if bid.ForSale < debtFilled {
		debtFilled = bid.ForSale
	}
	if debtFilled <= 0 {
		return ruleerrors.ErrInvariantViolation
	}

	collateralPaid, err := fixedmath.NewAsset(debtFilled, asset.ID).Multiply(mcop)
	if err != nil {
		return err
	}

	bidderShare := new(big.Int).Mul(big.NewInt(collateralPaid.Amount), big.NewInt(int64(payRatio.Num)))
	bidderShare.Div(bidderShare, big.NewInt(int64(payRatio.Den)))
	fee := collateralPaid.Amount - bidderShare.Int64()

	if err := m.ledger.Credit(bid.Seller, fixedmath.NewAsset(bidderShare.Int64(), bitasset.Options.ShortBackingAssetID)); err != nil {
		return err
	}
	if fee > 0 {
		if err := m.ledger.Credit(asset.Issuer, fixedmath.NewAsset(fee, bitasset.Options.ShortBackingAssetID)); err != nil {
			return err
		}
	}

	m.sink.PushAppliedOperation(model.FillOrderOp{
		OrderID:  bid.ID,
		Pays:     fixedmath.NewAsset(debtFilled, asset.ID),
		Receives: fixedmath.NewAsset(bidderShare.Int64(), bitasset.Options.ShortBackingAssetID),
		IsMaker:  true,
	})

	remainingBid := *bid
	remainingBid.ForSale -= debtFilled
	if remainingBid.ForSale <= 0 {
		store.RemoveLimitOrder(session, bid.ID)
	} else {
		store.PutLimitOrder(session, remainingBid)
	}

	updated := *order
	updated.Debt.Amount -= debtFilled
	updated.Collateral.Amount -= collateralPaid.Amount

	if updated.Debt.Amount <= 0 {
		if updated.Collateral.Amount > 0 {
			if err := m.ledger.Credit(order.Borrower, fixedmath.NewAsset(updated.Collateral.Amount, bitasset.Options.ShortBackingAssetID)); err != nil {
				return err
			}
		}
		store.RemoveCallOrder(session, order.ID)
		return nil
	}

	cr := bitasset.CurrentFeed.MaintenanceCollateralRatio
	if updated.TargetCollateralRatio != nil {
		cr = *updated.TargetCollateralRatio
	}
	newCallPrice, err := fixedmath.CallPrice(updated.Debt, updated.Collateral, cr, m.params.CollateralRatioDenom)
	if err != nil {
		return err
	}
	updated.CallPrice = newCallPrice
	store.PutCallOrder(session, updated)
	return nil
}
