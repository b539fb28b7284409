package objectstore

import "github.com/graphenechain/ledgercore/core/model"

func limitKey(o model.LimitOrder) limitOrderKey {
	return limitOrderKey{
		baseAssetID:  o.SellPrice.Base.ID,
		quoteAssetID: o.SellPrice.Quote.ID,
		sellPrice:    o.SellPrice,
	}
}

// LimitOrder returns the order with id, or nil if none exists.
func (s *Store) LimitOrder(id model.LimitOrderID) *model.LimitOrder {
	return s.limitOrders[id]
}

// PutLimitOrder inserts or replaces a limit order and its by_price and
// by_expiration index entries.
func (s *Store) PutLimitOrder(session *UndoSession, o model.LimitOrder) {
	prev, existed := s.limitOrders[o.ID]
	s.limitOrders[o.ID] = &o

	if existed {
		s.byPrice.Remove(limitKey(*prev), prev.ID)
		s.limitOrderExpiration.Remove(prev.Expiration, prev.ID)
	}
	s.byPrice.Insert(limitKey(o), o.ID)
	s.limitOrderExpiration.Insert(o.Expiration, o.ID)

	session.record(func() {
		s.byPrice.Remove(limitKey(o), o.ID)
		s.limitOrderExpiration.Remove(o.Expiration, o.ID)
		if existed {
			s.limitOrders[o.ID] = prev
			s.byPrice.Insert(limitKey(*prev), prev.ID)
			s.limitOrderExpiration.Insert(prev.Expiration, prev.ID)
		} else {
			delete(s.limitOrders, o.ID)
		}
	})
}

// RemoveLimitOrder deletes a fully-filled, cancelled, or expired order.
func (s *Store) RemoveLimitOrder(session *UndoSession, id model.LimitOrderID) {
	prev, existed := s.limitOrders[id]
	if !existed {
		return
	}
	delete(s.limitOrders, id)
	s.byPrice.Remove(limitKey(*prev), id)
	s.limitOrderExpiration.Remove(prev.Expiration, id)
	session.record(func() {
		s.limitOrders[id] = prev
		s.byPrice.Insert(limitKey(*prev), id)
		s.limitOrderExpiration.Insert(prev.Expiration, id)
	})
}

// BestLimitOrder returns the highest-priced resting order in the market
// selling baseAssetID for quoteAssetID, if any (spec §4.4: the margin
// engine's black-swan test and margin-call matching both read it).
func (s *Store) BestLimitOrder(baseAssetID, quoteAssetID model.AssetID) (model.LimitOrderID, bool) {
	best := limitOrderKey{baseAssetID: baseAssetID, quoteAssetID: quoteAssetID}
	var found model.LimitOrderID
	ok := false
	s.byPrice.Iterate(func(id model.LimitOrderID) bool {
		o := s.limitOrders[id]
		if o.SellPrice.Base.ID != best.baseAssetID || o.SellPrice.Quote.ID != best.quoteAssetID {
			return true
		}
		found, ok = id, true
		return false
	})
	return found, ok
}

// LimitOrdersExpiredBy returns the ids of every limit order whose
// Expiration is at or before when (spec §4.5).
func (s *Store) LimitOrdersExpiredBy(when model.DomainTime) []model.LimitOrderID {
	return s.limitOrderExpiration.UpperBound(when)
}
