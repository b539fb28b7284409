package objectstore

import (
	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
)

// CallOrderKey is the public comparison key for CallOrdersBelow: debt
// asset first, then ascending call price, matching how call orders are
// indexed internally.
type CallOrderKey = callOrderKey

// NewCallOrderKey builds the comparison key used by CallOrdersBelow.
func NewCallOrderKey(debtAssetID fixedmath.AssetID, callPrice fixedmath.Price) CallOrderKey {
	return callOrderKey{debtAssetID: debtAssetID, callPrice: callPrice}
}

func callKey(o model.CallOrder) callOrderKey {
	return callOrderKey{debtAssetID: o.Debt.ID, callPrice: o.CallPrice}
}

// CallOrder returns the order with id, or nil if none exists.
func (s *Store) CallOrder(id model.CallOrderID) *model.CallOrder {
	return s.callOrders[id]
}

// PutCallOrder inserts or replaces a call order, repositioning its
// by_collateral index entry when its call price moved (spec §4.4/§4.6:
// every debt/collateral mutation recomputes call_price).
func (s *Store) PutCallOrder(session *UndoSession, o model.CallOrder) {
	prev, existed := s.callOrders[o.ID]
	s.callOrders[o.ID] = &o

	if existed {
		s.byCollateral.Remove(callKey(*prev), prev.ID)
	}
	s.byCollateral.Insert(callKey(o), o.ID)

	session.record(func() {
		s.byCollateral.Remove(callKey(o), o.ID)
		if existed {
			s.callOrders[o.ID] = prev
			s.byCollateral.Insert(callKey(*prev), prev.ID)
		} else {
			delete(s.callOrders, o.ID)
		}
	})
}

// RemoveCallOrder deletes a fully-covered or fully-settled call order
// (spec §4.4/§4.6).
func (s *Store) RemoveCallOrder(session *UndoSession, id model.CallOrderID) {
	prev, existed := s.callOrders[id]
	if !existed {
		return
	}
	delete(s.callOrders, id)
	s.byCollateral.Remove(callKey(*prev), id)
	session.record(func() {
		s.callOrders[id] = prev
		s.byCollateral.Insert(callKey(*prev), id)
	})
}

// CallOrdersBelow returns, ascending call price, every call order sharing
// maxKey's debt asset whose call_price is at or below maxKey's — the
// candidates a margin call or black-swan sweep must examine (spec §4.4).
func (s *Store) CallOrdersBelow(maxKey CallOrderKey) []model.CallOrderID {
	ids := s.byCollateral.UpperBound(maxKey)
	out := make([]model.CallOrderID, 0, len(ids))
	for _, id := range ids {
		if o := s.callOrders[id]; o != nil && o.Debt.ID == maxKey.debtAssetID {
			out = append(out, id)
		}
	}
	return out
}
