// Package settlementmatcher implements spec §4.6: matching pending
// forced-settlement requests against the least-collateralized call order
// of their asset, at a discount off the current feed price, up to a
// per-maintenance-period volume cap.
package settlementmatcher

import (
	"math/big"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/params"
)

// BlackSwanDetector is the margin engine's read-only predicate (spec
// §4.4 steps 4–6), used here to probe a tentative match before
// committing it.
type BlackSwanDetector interface {
	DetectBlackSwan(store *objectstore.Store, assetID fixedmath.AssetID) (bool, error)
}

// Matcher sweeps due forced-settlement requests, one asset at a time.
type Matcher struct {
	params    *params.Parameters
	ledger    model.Ledger
	sink      model.OperationSink
	blackSwan BlackSwanDetector
}

// New constructs a Matcher bound to its external collaborators.
func New(p *params.Parameters, ledger model.Ledger, sink model.OperationSink, blackSwan BlackSwanDetector) *Matcher {
	return &Matcher{params: p, ledger: ledger, sink: sink, blackSwan: blackSwan}
}

// SweepForceSettlements processes every due request, grouped by asset in
// the order their asset was first seen (spec §4.6).
func (m *Matcher) SweepForceSettlements(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	due := store.ForceSettlementsDueBy(headTime)
	if len(due) == 0 {
		return nil
	}

	seen := map[fixedmath.AssetID]bool{}
	var assetIDs []fixedmath.AssetID
	for _, id := range due {
		fs := store.ForceSettlement(id)
		if fs == nil || seen[fs.Balance.ID] {
			continue
		}
		seen[fs.Balance.ID] = true
		assetIDs = append(assetIDs, fs.Balance.ID)
	}

	for _, assetID := range assetIDs {
		if err := m.sweepAsset(session, store, assetID, due); err != nil {
			return err
		}
	}
	return nil
}

// sweepAsset implements spec §4.6's per-asset state machine: the
// disqualifying checks (already settled, no feed, 100% offset) cancel
// every due request for the asset outright; otherwise it computes the
// period's volume cap and fill price once and matches requests in order
// until the cap is reached or no order can be filled further.
func (m *Matcher) sweepAsset(session *objectstore.UndoSession, store *objectstore.Store, assetID fixedmath.AssetID, due []model.ForceSettlementID) error {
	asset := store.Asset(assetID)
	bitasset := store.Bitasset(assetID)
	requests := store.ForceSettlementsForAsset(due, assetID)
	if asset == nil || bitasset == nil {
		return nil
	}

	switch {
	case bitasset.IsGlobalSettled,
		bitasset.CurrentFeed.SettlementPrice.IsNull(),
		bitasset.Options.ForceSettlementOffsetPercent >= m.params.HundredPercent:
		for _, id := range requests {
			m.cancel(session, store, id)
		}
		return nil
	}

	backingAssetID := bitasset.Options.ShortBackingAssetID
	maxVolume := forceSettlementVolumeCap(m.totalDebt(store, assetID, backingAssetID), bitasset.Options.MaximumForceSettlementVolume, m.params.HundredPercent)

	fillPrice, err := bitasset.CurrentFeed.SettlementPrice.Mul(fixedmath.Ratio{
		Num: uint64(m.params.HundredPercent),
		Den: uint64(m.params.HundredPercent - bitasset.Options.ForceSettlementOffsetPercent),
	})
	if err != nil {
		return err
	}

	settled := bitasset.ForceSettledVolume
	currentAssetFinished := false

	for _, id := range requests {
		if settled >= maxVolume || currentAssetFinished {
			break
		}
		for {
			req := store.ForceSettlement(id)
			if req == nil {
				break
			}
			if settled >= maxVolume {
				break
			}

			newlySettled, matched, cancelled, err := m.matchOne(session, store, assetID, backingAssetID, bitasset, req, fillPrice, maxVolume-settled)
			if err != nil {
				return err
			}
			if cancelled {
				// A would-be black swan cancels this one request and moves
				// on to the next; it does not finish the asset (spec §4.6,
				// §7: recoverable, never aborts the block).
				break
			}
			if !matched {
				currentAssetFinished = true
				break
			}
			settled += newlySettled
			if req.Balance.Amount-newlySettled <= 0 {
				break
			}
		}
	}

	updated := *bitasset
	updated.ForceSettledVolume = settled
	store.PutBitasset(session, updated)
	return nil
}

// matchOne attempts one fill of req against the asset's current least-
// collateralized call order. It returns matched=false when no call order
// exists or debtFilled would be zero — spec §4.6's "matching returns a
// newly settled amount; if zero, set current_asset_finished and break".
// A tentative fill that would trigger a black swan is rolled back and the
// request cancelled instead of applied, reported via cancelled=true: spec
// §4.6/§7's recoverable path (the original's
// `catch (const black_swan_exception&)` around the match, which cancels
// the order and continues with the next one rather than aborting the
// block).
func (m *Matcher) matchOne(
	session *objectstore.UndoSession,
	store *objectstore.Store,
	assetID, backingAssetID fixedmath.AssetID,
	bitasset *model.BitassetData,
	req *model.ForceSettlement,
	fillPrice fixedmath.Price,
	remainingVolume int64,
) (newlySettled int64, matched bool, cancelled bool, err error) {
	call := leastCollateralized(store, assetID, backingAssetID)
	if call == nil {
		return 0, false, false, nil
	}

	debtFilled := req.Balance.Amount
	if call.Debt.Amount < debtFilled {
		debtFilled = call.Debt.Amount
	}
	if remainingVolume < debtFilled {
		debtFilled = remainingVolume
	}
	if debtFilled <= 0 {
		return 0, false, false, nil
	}

	collateralPaid, err := fixedmath.NewAsset(debtFilled, assetID).Multiply(fillPrice)
	if err != nil {
		return 0, false, false, err
	}

	trial := store.NewSession()
	m.applyCallOrderFill(trial, store, bitasset, call, debtFilled, collateralPaid)
	swan, err := m.blackSwan.DetectBlackSwan(store, assetID)
	trial.Rollback()
	if err != nil {
		return 0, false, false, err
	}
	if swan {
		m.cancel(session, store, req.ID)
		return 0, false, true, nil
	}

	m.applyCallOrderFill(session, store, bitasset, call, debtFilled, collateralPaid)

	if err := m.ledger.Credit(req.Owner, collateralPaid); err != nil {
		return 0, false, false, err
	}
	remaining := req.Balance.Amount - debtFilled
	if remaining <= 0 {
		store.RemoveForceSettlement(session, req.ID)
	} else {
		updated := *req
		updated.Balance.Amount = remaining
		store.PutForceSettlement(session, updated)
	}

	return debtFilled, true, false, nil
}

// applyCallOrderFill reduces call by debtFilled/collateralPaid, returning
// any leftover collateral to the borrower once the debt clears and
// otherwise recomputing call_price at the order's own target ratio (spec
// §4.1/§4.4, mirroring marginengine.fillMarginCall's order-update shape).
func (m *Matcher) applyCallOrderFill(session *objectstore.UndoSession, store *objectstore.Store, bitasset *model.BitassetData, call *model.CallOrder, debtFilled int64, collateralPaid fixedmath.Asset) {
	updated := *call
	updated.Debt.Amount -= debtFilled
	updated.Collateral.Amount -= collateralPaid.Amount

	if updated.Debt.Amount <= 0 {
		if updated.Collateral.Amount > 0 {
			_ = m.ledger.Credit(call.Borrower, fixedmath.NewAsset(updated.Collateral.Amount, bitasset.Options.ShortBackingAssetID))
		}
		store.RemoveCallOrder(session, call.ID)
		return
	}

	cr := bitasset.CurrentFeed.MaintenanceCollateralRatio
	if updated.TargetCollateralRatio != nil {
		cr = *updated.TargetCollateralRatio
	}
	if newCallPrice, err := fixedmath.CallPrice(updated.Debt, updated.Collateral, cr, m.params.CollateralRatioDenom); err == nil {
		updated.CallPrice = newCallPrice
	}
	store.PutCallOrder(session, updated)
}

// cancel returns a request's remaining balance to its owner and emits an
// AssetSettleCancelOp (spec §4.6, scenario S5).
func (m *Matcher) cancel(session *objectstore.UndoSession, store *objectstore.Store, id model.ForceSettlementID) {
	req := store.ForceSettlement(id)
	if req == nil {
		return
	}
	if req.Balance.Amount > 0 {
		_ = m.ledger.Credit(req.Owner, req.Balance)
	}
	m.sink.PushAppliedOperation(model.AssetSettleCancelOp{RequestID: id, Owner: req.Owner, Returned: req.Balance})
	store.RemoveForceSettlement(session, id)
}

// totalDebt sums every call order's outstanding debt for assetID, the
// stand-in for "current_supply" a market-issued asset's own debt total
// defines (spec §4.6: current_supply × max_force_settlement_volume_fraction).
func (m *Matcher) totalDebt(store *objectstore.Store, assetID, backingAssetID fixedmath.AssetID) int64 {
	ceiling := objectstore.NewCallOrderKey(assetID, fixedmath.PriceMax(backingAssetID, assetID))
	var total int64
	for _, id := range store.CallOrdersBelow(ceiling) {
		if o := store.CallOrder(id); o != nil && o.Debt.ID == assetID {
			total += o.Debt.Amount
		}
	}
	return total
}

// leastCollateralized mirrors marginengine's identically-named helper:
// a call_price's base leg is the collateral and the by_collateral index
// sorts ascending, so the order with the smallest call_price for this
// debt asset is the first entry under the ceiling key.
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

// forceSettlementVolumeCap computes current_supply × fraction/HundredPercent.
func forceSettlementVolumeCap(currentSupply int64, fraction, hundredPercent uint16) int64 {
	v := new(big.Int).Mul(big.NewInt(currentSupply), big.NewInt(int64(fraction)))
	v.Div(v, big.NewInt(int64(hundredPercent)))
	return v.Int64()
}
